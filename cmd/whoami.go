package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var whoamiRemote bool

var whoamiCmd = &cobra.Command{
	Use:               "whoami",
	Short:             "Show the current session",
	PersistentPreRunE: requireRoles(),
	RunE:              runWhoami,
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Refresh the profile from the server")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	sess := client.Session()

	remote := whoamiRemote
	whoamiRemote = false

	if remote {
		gen := sess.Generation()
		me, err := client.Me()
		if err != nil {
			return err
		}
		if err := sess.SetUserIfCurrent(gen, me); err != nil {
			return err
		}
	}

	user := sess.User()
	if user == nil {
		// Token is valid but no profile is cached yet
		cmd.Println("Signed in, profile unknown. Try: katy whoami --remote")
		return nil
	}

	cmd.Println(ui.Title.Render(user.Name))
	cmd.Printf("  email: %s\n", user.Email)
	cmd.Printf("  role:  %s\n", user.Role)
	if user.RUT != "" {
		cmd.Printf("  rut:   %s\n", user.RUT)
	}
	if user.Company != nil {
		cmd.Printf("  company: %s\n", user.Company.Name)
	}

	if claims, err := session.Decode(sess.Token()); err == nil && claims.ExpiresAt != nil {
		cmd.Println(ui.Identity.Render(fmt.Sprintf("session expires %s", claims.ExpiresAt.Format("2006-01-02 15:04"))))
	}
	return nil
}
