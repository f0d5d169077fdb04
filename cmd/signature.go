package main

import (
	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/ui"
)

var signatureCmd = &cobra.Command{
	Use:               "signature",
	Short:             "Manage your stored signature image",
	PersistentPreRunE: requireRoles(),
}

var signatureUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload the signature image stamped onto signed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignatureUpload,
}

func init() {
	signatureCmd.AddCommand(signatureUploadCmd)
	rootCmd.AddCommand(signatureCmd)
}

func runSignatureUpload(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.UploadSignature(args[0]); err != nil {
		cmd.PrintErrln(ui.ErrLine.Render("Error al subir la firma"))
		return err
	}

	cmd.Println(ui.OkLine.Render("Signature uploaded."))
	return nil
}
