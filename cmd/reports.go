package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/session"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var reportsCmd = &cobra.Command{
	Use:               "reports",
	Short:             "Manage evaluation reports",
	PersistentPreRunE: requireRoles(session.RoleAdmin),
}

var (
	reportsListPage    int
	reportsListLimit   int
	reportsListType    string
	reportsListCompany string
)

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports",
	RunE:  runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

var (
	reportCreateType    string
	reportCreateCompany string
	reportPatientName   string
	reportPatientRUT    string
	reportPatientAge    string
	reportPatientJob    string
	reportCreateData    map[string]string
)

var reportsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a report",
	Long: "Create a basic or rigorous evaluation report. Test results are passed\n" +
		"as repeated --data entries, e.g. --data psi_palancas=aprobado.",
	RunE: runReportsCreate,
}

var reportsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsEdit,
}

var reportsSignCmd = &cobra.Command{
	Use:   "sign <id>",
	Short: "Attach your stored signature to a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsSign,
}

var reportsPDFOut string

var reportsPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Export a report as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsPDF,
}

func init() {
	reportsListCmd.Flags().IntVar(&reportsListPage, "page", 1, "Page number")
	reportsListCmd.Flags().IntVar(&reportsListLimit, "limit", 10, "Page size")
	reportsListCmd.Flags().StringVar(&reportsListType, "type", "", "Filter by type (basic or rigorous)")
	reportsListCmd.Flags().StringVar(&reportsListCompany, "company", "", "Filter by company id")

	for _, c := range []*cobra.Command{reportsCreateCmd, reportsEditCmd} {
		c.Flags().StringVar(&reportCreateType, "type", api.ReportTypeBasic, "Report type (basic or rigorous)")
		c.Flags().StringVar(&reportCreateCompany, "company", "", "Company id")
		c.Flags().StringVar(&reportPatientName, "patient-name", "", "Patient name")
		c.Flags().StringVar(&reportPatientRUT, "patient-rut", "", "Patient RUT")
		c.Flags().StringVar(&reportPatientAge, "patient-age", "", "Patient age")
		c.Flags().StringVar(&reportPatientJob, "patient-job", "", "Patient job title")
		c.Flags().StringToStringVar(&reportCreateData, "data", nil, "Test result entries (key=value)")
	}

	reportsPDFCmd.Flags().StringVar(&reportsPDFOut, "out", "", "Destination file (defaults to informe-<id>.pdf)")

	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsCreateCmd, reportsEditCmd, reportsSignCmd, reportsPDFCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	page, err := client.ListReports(api.ReportListParams{
		Page:      reportsListPage,
		Limit:     reportsListLimit,
		Type:      reportsListType,
		CompanyID: reportsListCompany,
	})
	reportsListPage, reportsListLimit = 1, 10
	reportsListType, reportsListCompany = "", ""
	if err != nil {
		return err
	}

	printReportTable(cmd, page)
	return nil
}

func printReportTable(cmd *cobra.Command, page *api.ReportPage) {
	rows := make([][]string, 0, len(page.Items))
	for _, r := range page.Items {
		number := ""
		if r.ReportNumber > 0 {
			number = strconv.Itoa(r.ReportNumber)
		}
		company, patient := "", ""
		if r.Company != nil {
			company = r.Company.Name
		}
		if r.Patient != nil {
			patient = r.Patient.Name
		}
		status := ui.StatusPill(r.Status)
		if r.Signature != nil && r.Signature.Signed {
			status += " (firmado)"
		}
		rows = append(rows, []string{
			ui.Dash(number), ui.Dash(company), ui.Dash(patient),
			reportTypeLabel(r.Type), status, ui.Dash(r.UpdatedAt),
		})
	}

	cmd.Print(ui.Table([]string{"N°", "Empresa", "Paciente", "Tipo", "Estado", "Actualizado"}, rows))
	cmd.Println(ui.Count(len(page.Items), page.Total, page.Page, page.Pages))
}

func reportTypeLabel(t string) string {
	if t == api.ReportTypeRigorous {
		return "Rigurosa"
	}
	return "Básica"
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	report, err := client.GetReport(args[0])
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Informe %d", report.ReportNumber)
	if report.ReportNumber == 0 {
		title = "Informe " + report.ID
	}
	cmd.Println(ui.Title.Render(title))
	cmd.Printf("  tipo:    %s\n", reportTypeLabel(report.Type))
	cmd.Printf("  estado:  %s\n", ui.StatusPill(report.Status))
	if report.Company != nil {
		cmd.Printf("  empresa: %s\n", report.Company.Name)
	}
	if report.Patient != nil {
		cmd.Printf("  paciente: %s (%s)\n", report.Patient.Name, ui.Dash(report.Patient.RUT))
	}
	if report.Signature != nil && report.Signature.Signed {
		cmd.Printf("  firmado por %s el %s\n", report.Signature.Name, report.Signature.SignedAt)
	}
	for key, value := range report.Data {
		cmd.Printf("  %s: %s\n", key, value)
	}
	return nil
}

func reportDraftFromFlags() api.ReportDraft {
	draft := api.ReportDraft{
		Type:      reportCreateType,
		CompanyID: reportCreateCompany,
		Patient: api.Patient{
			Name: reportPatientName,
			RUT:  reportPatientRUT,
			Age:  reportPatientAge,
			Job:  reportPatientJob,
		},
		Data: reportCreateData,
	}
	reportCreateType = api.ReportTypeBasic
	reportCreateCompany, reportPatientName, reportPatientRUT = "", "", ""
	reportPatientAge, reportPatientJob = "", ""
	reportCreateData = nil
	return draft
}

func runReportsCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	draft := reportDraftFromFlags()
	if draft.CompanyID == "" {
		return fmt.Errorf("selecciona una empresa: --company is required")
	}
	if draft.Patient.Name == "" || draft.Patient.RUT == "" {
		return fmt.Errorf("--patient-name and --patient-rut are required")
	}

	report, err := client.CreateReport(draft)
	if err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al crear el informe"))
		return err
	}

	cmd.Println(ui.OkLine.Render(fmt.Sprintf("Report created: %s (N° %d)", report.ID, report.ReportNumber)))
	return nil
}

func runReportsEdit(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	report, err := client.UpdateReport(args[0], reportDraftFromFlags())
	if err != nil {
		return err
	}

	cmd.Println(ui.OkLine.Render(fmt.Sprintf("Report updated: %s", report.ID)))
	return nil
}

func runReportsSign(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.SignReport(args[0]); err != nil {
		return err
	}
	cmd.Println(ui.OkLine.Render("Report signed."))
	return nil
}

func runReportsPDF(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	dest := reportsPDFOut
	reportsPDFOut = ""
	if dest == "" {
		dest = "informe-" + args[0] + ".pdf"
	}

	if err := client.ReportPDF(args[0], dest); err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", dest)
	return nil
}
