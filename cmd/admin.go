package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var adminCmd = &cobra.Command{
	Use:               "admin",
	Short:             "Administrative operations",
	PersistentPreRunE: requireRoles(session.RoleAdmin),
}

var (
	adminUserName     string
	adminUserEmail    string
	adminUserPassword string
	adminUserRole     string
)

var adminUserNewCmd = &cobra.Command{
	Use:   "user-new",
	Short: "Create a staff or client account",
	RunE:  runAdminUserNew,
}

func init() {
	adminUserNewCmd.Flags().StringVar(&adminUserName, "name", "", "Full name")
	adminUserNewCmd.Flags().StringVar(&adminUserEmail, "email", "", "Email address")
	adminUserNewCmd.Flags().StringVar(&adminUserPassword, "password", "", "Password")
	adminUserNewCmd.Flags().StringVar(&adminUserRole, "role", "client", "Account role (admin or client)")

	adminCmd.AddCommand(adminUserNewCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminUserNew(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	name, email := adminUserName, adminUserEmail
	password, role := adminUserPassword, adminUserRole
	adminUserName, adminUserEmail, adminUserPassword = "", "", ""
	adminUserRole = "client"

	if name == "" || email == "" || password == "" {
		return errors.New("name, email and password are required")
	}

	user, err := client.CreateUser(name, email, password, role)
	if err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al crear el usuario"))
		return err
	}

	cmd.Println(ui.OkLine.Render("User created: " + user.Email + " (" + user.Role + ")"))
	return nil
}
