package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/config"
	"github.com/kd-consultores/katy-agent/internal/keychain"
	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var (
	errSigninRequired = errors.New("not signed in: run 'katy signin' first")
	errWrongRole      = errors.New("your role cannot use this command: run 'katy' to see your menu")
)

// keychainFactory allows injecting a mock keychain in tests
var keychainFactory func(cfg *config.Config) (keychain.Keychain, error) = func(cfg *config.Config) (keychain.Keychain, error) {
	if cfg.Storage.Backend == "file" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		return keychain.NewFileKeychain(filepath.Join(dir, "credentials")), nil
	}
	return keychain.NewSystemKeychain(), nil
}

// activeClient is the session-bound API client for this invocation.
// It is built lazily so `katy version` and friends never touch the
// keychain; tests install their own via setTestClient.
var activeClient *api.AuthenticatedClient

func getClient() (*api.AuthenticatedClient, error) {
	if activeClient != nil {
		return activeClient, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	kc, err := keychainFactory(cfg)
	if err != nil {
		return nil, err
	}
	cachePath, err := config.UserCachePath()
	if err != nil {
		return nil, err
	}

	activeClient = api.NewAuthenticatedClient(cfg.Server.URL, session.Load(kc, cachePath))
	return activeClient, nil
}

// requireRoles adapts the session guard into a cobra pre-run. The
// decision is evaluated on every execution against live session state;
// the two failure outcomes steer the user to signin or back to the
// root menu, never into the protected command.
func requireRoles(roles ...session.Role) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}
		switch session.Authorize(client.Session(), roles...) {
		case session.Unauthenticated:
			return errSigninRequired
		case session.Forbidden:
			return errWrongRole
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "katy",
	Short: "Terminal client for the K&D psychosensometric evaluation service",
	Long: "KATY agent lets clinic staff manage companies, evaluation reports and\n" +
		"legacy work orders, and lets client companies browse their own reports,\n" +
		"all against the clinic backend API.",
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
	// Unknown subcommands fall through here, so a typo lands the user
	// on the menu instead of a bare error.
	RunE: runHome,
}

func runHome(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	sess := client.Session()

	cmd.Println(ui.Title.Render("KATY · K&D Consultores Psicolaborales"))

	if !sess.IsAuthenticated() {
		cmd.Println()
		cmd.Println(ui.Item.Render("signin    Iniciar sesión"))
		cmd.Println(ui.Item.Render("signup    Crear cuenta"))
		return nil
	}

	user := sess.User()
	if user != nil {
		cmd.Println(ui.Identity.Render(fmt.Sprintf("%s · %s", user.Name, user.Role)))
	}
	cmd.Println()

	if user != nil && user.Role == string(session.RoleAdmin) {
		cmd.Println(ui.Section.Render("Informes"))
		cmd.Println(ui.Item.Render("reports list                Listar informes"))
		cmd.Println(ui.Item.Render("reports create --type basic     Nuevo básico"))
		cmd.Println(ui.Item.Render("reports create --type rigorous  Nuevo riguroso"))
		cmd.Println(ui.Section.Render("Órdenes (legacy)"))
		cmd.Println(ui.Item.Render("workorders list             Listado"))
		cmd.Println(ui.Item.Render("workorders create           Crear orden"))
		cmd.Println(ui.Section.Render("Empresas"))
		cmd.Println(ui.Item.Render("companies list              Ver empresas"))
		cmd.Println(ui.Item.Render("companies create            Crear empresa"))
		cmd.Println(ui.Section.Render("Admin"))
		cmd.Println(ui.Item.Render("admin user-new              Crear usuario"))
	} else {
		cmd.Println(ui.Section.Render("Mis informes"))
		cmd.Println(ui.Item.Render("client reports list         Listado"))
	}

	cmd.Println()
	cmd.Println(ui.Item.Render("whoami    Sesión actual"))
	cmd.Println(ui.Item.Render("logout    Salir"))
	return nil
}
