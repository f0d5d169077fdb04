package main

import (
	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/session"
)

// clientCmd is the portal surface for client companies. The backend
// scopes the listings to the caller's company, so the agent only gates
// the role here.
var clientCmd = &cobra.Command{
	Use:               "client",
	Short:             "Client company portal",
	PersistentPreRunE: requireRoles(session.RoleClient),
}

var clientReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse your company's reports",
}

var (
	clientReportsPage  int
	clientReportsLimit int
)

var clientReportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your reports",
	RunE:  runClientReportsList,
}

var clientReportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one of your reports",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

var clientReportsPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Download one of your reports as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsPDF,
}

func init() {
	clientReportsListCmd.Flags().IntVar(&clientReportsPage, "page", 1, "Page number")
	clientReportsListCmd.Flags().IntVar(&clientReportsLimit, "limit", 10, "Page size")
	clientReportsPDFCmd.Flags().StringVar(&reportsPDFOut, "out", "", "Destination file (defaults to informe-<id>.pdf)")

	clientReportsCmd.AddCommand(clientReportsListCmd, clientReportsShowCmd, clientReportsPDFCmd)
	clientCmd.AddCommand(clientReportsCmd)
	rootCmd.AddCommand(clientCmd)
}

func runClientReportsList(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	page, err := client.ListReports(api.ReportListParams{
		Page:  clientReportsPage,
		Limit: clientReportsLimit,
	})
	clientReportsPage, clientReportsLimit = 1, 10
	if err != nil {
		return err
	}

	printReportTable(cmd, page)
	return nil
}
