package main

import (
	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

// workordersCmd keeps the legacy work order flow alive. Any signed-in
// user may reach it; the backend applies its own per-record scoping.
var workordersCmd = &cobra.Command{
	Use:               "workorders",
	Short:             "Manage legacy work orders",
	PersistentPreRunE: requireRoles(),
}

var (
	workordersListPage   int
	workordersListLimit  int
	workordersListStatus string
)

var workordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work orders",
	RunE:  runWorkordersList,
}

var workordersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one work order",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkordersShow,
}

var (
	workorderRUT    string
	workorderName   string
	workorderBranch string
	workorderEntry  string
)

var workordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a work order",
	RunE:  runWorkordersCreate,
}

var workordersSignCmd = &cobra.Command{
	Use:   "sign <id>",
	Short: "Attach your stored signature to a work order",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkordersSign,
}

var (
	workordersPDFKind string
	workordersPDFOut  string
)

var workordersPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Export a work order as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkordersPDF,
}

func init() {
	workordersListCmd.Flags().IntVar(&workordersListPage, "page", 1, "Page number")
	workordersListCmd.Flags().IntVar(&workordersListLimit, "limit", 10, "Page size")
	workordersListCmd.Flags().StringVar(&workordersListStatus, "status", "", "Filter by status")

	workordersCreateCmd.Flags().StringVar(&workorderRUT, "patient-rut", "", "Patient RUT (required)")
	workordersCreateCmd.Flags().StringVar(&workorderName, "patient-name", "", "Patient name (required)")
	workordersCreateCmd.Flags().StringVar(&workorderBranch, "branch", "", "Clinic branch (required)")
	workordersCreateCmd.Flags().StringVar(&workorderEntry, "entry-date", "", "Entry date (YYYY-MM-DD)")

	workordersPDFCmd.Flags().StringVar(&workordersPDFKind, "type", "", "PDF layout (basic or rigorous)")
	workordersPDFCmd.Flags().StringVar(&workordersPDFOut, "out", "", "Destination file (defaults to orden-<id>.pdf)")

	workordersCmd.AddCommand(workordersListCmd, workordersShowCmd, workordersCreateCmd, workordersSignCmd, workordersPDFCmd)
	rootCmd.AddCommand(workordersCmd)
}

func runWorkordersList(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	page, err := client.ListWorkOrders(api.WorkOrderListParams{
		Page:   workordersListPage,
		Limit:  workordersListLimit,
		Status: workordersListStatus,
	})
	workordersListPage, workordersListLimit = 1, 10
	workordersListStatus = ""
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Rows))
	for _, o := range page.Rows {
		signed := "no"
		if o.Signature != nil && o.Signature.Signed {
			signed = "sí"
		}
		rows = append(rows, []string{
			o.ID, ui.Dash(o.PatientName), ui.Dash(o.PatientRUT),
			ui.Dash(o.Branch), ui.StatusPill(o.Status), signed,
		})
	}

	cmd.Print(ui.Table([]string{"ID", "Paciente", "RUT", "Sucursal", "Estado", "Firmada"}, rows))
	cmd.Println(ui.Count(len(page.Rows), page.Total, page.Page, page.Pages))
	return nil
}

func runWorkordersShow(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	order, err := client.GetWorkOrder(args[0])
	if err != nil {
		return err
	}

	cmd.Println(ui.Title.Render("Orden de trabajo " + order.ID))
	cmd.Printf("  paciente: %s (%s)\n", ui.Dash(order.PatientName), ui.Dash(order.PatientRUT))
	cmd.Printf("  sucursal: %s\n", ui.Dash(order.Branch))
	cmd.Printf("  estado:   %s\n", ui.StatusPill(order.Status))
	if order.EntryDate != "" {
		cmd.Printf("  ingreso:  %s\n", order.EntryDate)
	}
	if order.Signature != nil && order.Signature.Signed {
		cmd.Printf("  firmada por %s el %s\n", order.Signature.Name, order.Signature.SignedAt)
	}
	return nil
}

func runWorkordersCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	draft := api.WorkOrderDraft{
		PatientRUT:  workorderRUT,
		PatientName: workorderName,
		Branch:      workorderBranch,
		EntryDate:   workorderEntry,
	}
	workorderRUT, workorderName = "", ""
	workorderBranch, workorderEntry = "", ""

	order, err := client.CreateWorkOrder(draft)
	if err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al crear la orden"))
		return err
	}

	cmd.Println(ui.OkLine.Render("Work order created: " + order.ID))
	return nil
}

func runWorkordersSign(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.SignWorkOrder(args[0]); err != nil {
		return err
	}
	cmd.Println(ui.OkLine.Render("Work order signed."))
	return nil
}

func runWorkordersPDF(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	kind := workordersPDFKind
	dest := workordersPDFOut
	workordersPDFKind, workordersPDFOut = "", ""
	if dest == "" {
		dest = "orden-" + args[0] + ".pdf"
	}

	if err := client.WorkOrderPDF(args[0], kind, dest); err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", dest)
	return nil
}
