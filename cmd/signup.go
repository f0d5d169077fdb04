package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/ui"
)

var (
	signupName     string
	signupEmail    string
	signupPassword string
	signupRole     string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE:  runSignup,
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password")
	signupCmd.Flags().StringVar(&signupRole, "role", "client", "Account role (admin or client)")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	name := strings.TrimSpace(signupName)
	email := strings.TrimSpace(signupEmail)
	password := signupPassword
	role := signupRole

	signupName = ""
	signupEmail = ""
	signupPassword = ""
	signupRole = "client"

	if name == "" || email == "" || password == "" {
		return errors.New("name, email and password are required")
	}

	if err := client.Signup(name, email, password, role); err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al crear la cuenta"))
		return err
	}

	cmd.Println(ui.OkLine.Render("Account created."))
	cmd.Println("Next: katy signin")
	return nil
}
