package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var (
	signinEmail    string
	signinPassword string
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in to the clinic backend",
	Long:  "Sign in with your clinic account and store the session token securely for later commands.",
	RunE:  runSignin,
}

func init() {
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "Email address")
	signinCmd.Flags().StringVar(&signinPassword, "password", "", "Password (will prompt if not provided)")
	rootCmd.AddCommand(signinCmd)
}

func runSignin(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	email := strings.TrimSpace(signinEmail)
	password := signinPassword

	// Reset flags for reuse in tests
	signinEmail = ""
	signinPassword = ""

	if err := promptCredentials(cmd, &email, &password); err != nil {
		return err
	}
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	resp, err := client.Signin(email, password)
	if err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al iniciar sesión"))
		return err
	}

	sess := client.Session()
	if err := sess.SetToken(resp.Token); err != nil {
		return err
	}

	// Prefer the authoritative profile (it carries role and company);
	// fall back to the user object from the signin response.
	gen := sess.Generation()
	if me, meErr := client.Me(); meErr == nil {
		if err := sess.SetUserIfCurrent(gen, me); err != nil {
			return err
		}
	} else if resp.User != nil {
		if err := sess.SetUserIfCurrent(gen, resp.User); err != nil {
			return err
		}
	}

	role := session.RoleClient
	if user := sess.User(); user != nil {
		if parsed, ok := session.ParseRole(user.Role); ok {
			role = parsed
		}
	}

	cmd.Println(ui.OkLine.Render("Signed in. Token stored securely."))
	cmd.Printf("Next: %s\n", role.Landing())
	return nil
}

// promptCredentials fills in whichever of email/password the flags left
// empty. On a terminal it runs an interactive form; piped input falls
// back to plain line reads.
func promptCredentials(cmd *cobra.Command, email, password *string) error {
	if *email != "" && *password != "" {
		return nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		var fields []huh.Field
		if *email == "" {
			fields = append(fields, huh.NewInput().Title("Email").Value(email))
		}
		if *password == "" {
			fields = append(fields, huh.NewInput().Title("Contraseña").EchoMode(huh.EchoModePassword).Value(password))
		}
		return huh.NewForm(huh.NewGroup(fields...)).Run()
	}

	if *email == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Email: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), email); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	if *password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), password); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	return nil
}
