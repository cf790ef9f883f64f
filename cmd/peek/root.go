package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/peek/internal/config"
	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/adapters/file"
	"github.com/aretw0/peek/pkg/adapters/memory"
	"github.com/aretw0/peek/pkg/adapters/redis"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "peek",
	Short: "Peek dumps any value to a debug console, safely",
	Long: `Peek flattens arbitrary values into bounded, cycle-free trees and sends
them to a browser console, a terminal or a structured log.

Logging is off until enabled, either through the settings store
(peek enable) or the PEEK_ENABLED environment variable.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default peek.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("store", "", "Settings store: memory, file or redis")
	rootCmd.PersistentFlags().String("file", "", "Settings file for the file store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
}

// loadConfig reads the configuration and lets explicit flags win over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	override := func(flag string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	override("log-level", &cfg.LogLevel)
	override("store", &cfg.Store.Type)
	override("file", &cfg.Store.Path)
	override("redis-addr", &cfg.Store.RedisAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

// openStore builds the configured settings store. The returned function
// releases its resources.
func openStore(cfg *config.Config, logger *slog.Logger) (ports.SettingsStore, func(), error) {
	switch cfg.Store.Type {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "file":
		return file.New(cfg.Store.Path, file.WithLogger(logger)), func() {}, nil
	case "redis":
		store := redis.New(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, redis.WithTTL(cfg.Store.TTL))
		return store, func() { _ = store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
}
