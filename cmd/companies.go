package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var companiesCmd = &cobra.Command{
	Use:               "companies",
	Short:             "Manage client companies",
	PersistentPreRunE: requireRoles(session.RoleAdmin),
}

var companiesListLimit int

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	RunE:  runCompaniesList,
}

var companiesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesShow,
}

var (
	companyName     string
	companyRUT      string
	companyEmail    string
	companyPhone    string
	companyAddress  string
	companyCountry  string
	companyPortalN  string
	companyPortalE  string
	companyPortalPW string
)

var companiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company",
	Long: "Register a client company. Passing --portal-email and --portal-password\n" +
		"also creates the portal account the company signs in with.",
	RunE: runCompaniesCreate,
}

var companiesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesEdit,
}

var companiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesDelete,
}

var companiesPassword string

var companiesSetPasswordCmd = &cobra.Command{
	Use:   "set-password <id>",
	Short: "Reset the company's portal password",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesSetPassword,
}

func init() {
	companiesListCmd.Flags().IntVar(&companiesListLimit, "limit", 0, "Maximum companies to fetch (0 = backend default)")

	for _, c := range []*cobra.Command{companiesCreateCmd, companiesEditCmd} {
		c.Flags().StringVar(&companyName, "name", "", "Company name")
		c.Flags().StringVar(&companyRUT, "rut", "", "Company RUT")
		c.Flags().StringVar(&companyEmail, "email", "", "Contact email")
		c.Flags().StringVar(&companyPhone, "phone", "", "Contact phone")
		c.Flags().StringVar(&companyAddress, "address", "", "Street address")
		c.Flags().StringVar(&companyCountry, "country", "", "Country")
	}
	companiesCreateCmd.Flags().StringVar(&companyPortalN, "portal-name", "", "Portal account name")
	companiesCreateCmd.Flags().StringVar(&companyPortalE, "portal-email", "", "Portal account email")
	companiesCreateCmd.Flags().StringVar(&companyPortalPW, "portal-password", "", "Portal account password")

	companiesSetPasswordCmd.Flags().StringVar(&companiesPassword, "password", "", "New portal password")

	companiesCmd.AddCommand(companiesListCmd, companiesShowCmd, companiesCreateCmd,
		companiesEditCmd, companiesDeleteCmd, companiesSetPasswordCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesList(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	companies, err := client.ListCompanies(companiesListLimit)
	companiesListLimit = 0
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{
			c.ID, c.Name, ui.Dash(c.RUT), ui.Dash(c.Email), strconv.Itoa(len(c.Workers)),
		})
	}
	cmd.Print(ui.Table([]string{"ID", "Nombre", "RUT", "Email", "Cuentas"}, rows))
	return nil
}

func runCompaniesShow(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	company, err := client.GetCompany(args[0])
	if err != nil {
		return err
	}

	cmd.Println(ui.Title.Render(company.Name))
	cmd.Printf("  rut:      %s\n", ui.Dash(company.RUT))
	cmd.Printf("  email:    %s\n", ui.Dash(company.Email))
	cmd.Printf("  teléfono: %s\n", ui.Dash(company.Phone))
	cmd.Printf("  dirección: %s\n", ui.Dash(company.Address))
	for _, w := range company.Workers {
		cmd.Println(ui.Item.Render("cuenta: " + w.Name + " <" + w.Email + ">"))
	}
	return nil
}

func companyDraftFromFlags() api.CompanyDraft {
	draft := api.CompanyDraft{
		Name:    companyName,
		RUT:     companyRUT,
		Email:   companyEmail,
		Phone:   companyPhone,
		Address: companyAddress,
		Country: companyCountry,
	}
	if companyPortalE != "" && companyPortalPW != "" {
		name := companyPortalN
		if name == "" {
			name = companyName
		}
		draft.ClientUser = &api.ClientUserDraft{
			Name:     name,
			Email:    companyPortalE,
			Password: companyPortalPW,
		}
	}
	companyName, companyRUT, companyEmail = "", "", ""
	companyPhone, companyAddress, companyCountry = "", "", ""
	companyPortalN, companyPortalE, companyPortalPW = "", "", ""
	return draft
}

func runCompaniesCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	company, err := client.CreateCompany(companyDraftFromFlags())
	if err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al crear la empresa"))
		return err
	}

	cmd.Println(ui.OkLine.Render("Company created: " + company.ID))
	return nil
}

func runCompaniesEdit(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	company, err := client.UpdateCompany(args[0], companyDraftFromFlags())
	if err != nil {
		return err
	}

	cmd.Println(ui.OkLine.Render("Company updated: " + company.Name))
	return nil
}

func runCompaniesDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.DeleteCompany(args[0]); err != nil {
		return err
	}
	cmd.Println(ui.OkLine.Render("Company deleted."))
	return nil
}

func runCompaniesSetPassword(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	password := companiesPassword
	companiesPassword = ""

	if err := client.SetCompanyClientPassword(args[0], password); err != nil {
		return err
	}
	cmd.Println(ui.OkLine.Render("Portal password updated."))
	return nil
}
