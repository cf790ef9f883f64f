package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file|-]",
	Short: "Flatten a JSON or YAML document and print it",
	Long: `Reads a JSON or YAML document from a file or standard input, flattens it
with the configured bounds and prints the result with the console colours.
The settings store is not consulted: dump always prints.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.Flatten.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
		}
		if cmd.Flags().Changed("max-items") {
			cfg.Flatten.MaxItems, _ = cmd.Flags().GetInt("max-items")
		}
		if cmd.Flags().Changed("format") {
			cfg.Output.Format, _ = cmd.Flags().GetString("format")
		}
		if cmd.Flags().Changed("cycle-policy") {
			cfg.Flatten.CyclePolicy, _ = cmd.Flags().GetString("cycle-policy")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		format, err := transport.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}

		source := "-"
		if len(args) == 1 {
			source = args[0]
		}
		data, label, err := readSource(cmd.InOrStdin(), source)
		if err != nil {
			return err
		}
		if l, _ := cmd.Flags().GetString("label"); l != "" {
			label = l
		}

		value, err := transport.Decode(data)
		if err != nil {
			return err
		}

		out, err := cfg.Redact(transport.NewConsole(cmd.OutOrStdout(), transport.WithFormat(format)))
		if err != nil {
			return err
		}
		f := flatten.New(append(cfg.FlattenOptions(), flatten.WithLogger(newLogger(cfg)))...)
		return out.Emit(cmd.Context(), label, f.Flatten(value))
	},
}

func readSource(stdin io.Reader, source string) ([]byte, string, error) {
	if source == "-" {
		data, err := transport.ReadInput(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "stdin", nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	defer f.Close()
	data, err := transport.ReadInput(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, filepath.Base(source), nil
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Int("max-depth", 0, "Maximum nesting depth (default from config, 10)")
	dumpCmd.Flags().Int("max-items", 0, "Maximum items per collection (default from config, 100)")
	dumpCmd.Flags().String("format", "", "Output notation: json or yaml")
	dumpCmd.Flags().String("cycle-policy", "", "Shared reference policy: seen_once or ancestors_only")
	dumpCmd.Flags().String("label", "", "Label printed before the tree (default: file name)")
}
