package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/kd-consultores/katy-agent/internal/api"
	"github.com/kd-consultores/katy-agent/internal/config"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the agent version",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Compare against the backend version")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cmd.Printf("katy %s\n", version)

	check := versionCheck
	versionCheck = false
	if !check {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	health, err := api.NewClient(cfg.Server.URL).Health()
	if err != nil {
		return err
	}

	cmd.Printf("server %s (%s, %s)\n", health.Version, health.Service, health.Status)
	if health.Version == "" {
		return nil
	}

	switch semver.Compare("v"+version, "v"+health.Version) {
	case -1:
		cmd.Println(ui.ErrLine.Render("A newer backend is deployed; update the agent."))
	case 0:
		cmd.Println(ui.OkLine.Render("Agent and backend are in sync."))
	default:
		cmd.Println(ui.Identity.Render("Agent is ahead of the backend."))
	}
	return nil
}
