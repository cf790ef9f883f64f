package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether debug logging is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		defer closeStore()

		enabled, err := store.Enabled(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "debug logging: %s (store: %s)\n", onOff(enabled), cfg.Store.Type)
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable debug logging",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable debug logging",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, false)
	},
}

func setEnabled(cmd *cobra.Command, enabled bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.SetEnabled(cmd.Context(), enabled); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "debug logging: %s\n", onOff(enabled))
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func init() {
	rootCmd.AddCommand(statusCmd, enableCmd, disableCmd)
}
