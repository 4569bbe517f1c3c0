package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/reportgc/pkg/config"
	"github.com/user/reportgc/pkg/engine"
	"github.com/user/reportgc/pkg/report"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (policy file, output format)",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		policy := cfg.PolicyPath
		if policy == "" {
			policy = "(built-in)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Policy: %s\nFormat: %s\n", policy, cfg.OutputFormat)
		return nil
	},
}

var setPolicyCmd = &cobra.Command{
	Use:   "set-policy <policy.yaml>",
	Short: "Validate a policy file and make it the default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			cfg.PolicyPath = ""
		} else {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := engine.LoadPolicy(abs); err != nil {
				return err
			}
			cfg.PolicyPath = abs
		}

		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		if cfg.PolicyPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Policy reset to built-in defaults")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Policy set: %s\n", cfg.PolicyPath)
		}
		return nil
	},
}

var setFormatCmd = &cobra.Command{
	Use:   "set-format <text|markdown|json>",
	Short: "Set the default output format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(args[0])
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Output format set: %s\n", format)
		return nil
	},
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setPolicyCmd)
	configCmd.AddCommand(setFormatCmd)
	rootCmd.AddCommand(configCmd)
}
