package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kd-consultores/katy-agent/internal/config"
	"github.com/kd-consultores/katy-agent/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change the agent configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value and write it to the config file.\n" +
		"Keys: server.url, storage.backend, logging.level",
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, err := config.Path()
	if err != nil {
		return err
	}

	cmd.Println(ui.Title.Render("Configuration"))
	cmd.Printf("  server.url:       %s\n", cfg.Server.URL)
	cmd.Printf("  storage.backend:  %s\n", cfg.Storage.Backend)
	cmd.Printf("  logging.level:    %s\n", cfg.Logging.Level)
	cmd.Println(ui.Identity.Render("file: " + path))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "server.url":
		cfg.Server.URL = value
	case "storage.backend":
		cfg.Storage.Backend = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	cmd.Println(ui.OkLine.Render(fmt.Sprintf("%s = %s", key, value)))
	return nil
}
