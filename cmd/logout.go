package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/ui"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Long: "Clear the stored session token and cached identity. This is a purely\n" +
		"local operation: the backend token stays valid until it expires.",
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.Session().Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println(ui.OkLine.Render("Logged out. Session credentials removed."))
	return nil
}
