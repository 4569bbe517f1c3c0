package cmd

import (
	"github.com/spf13/cobra"
	"github.com/user/reportgc/pkg/config"
)

var showPolicyPath string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect classification and effort policy",
}

var showPolicyCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective policy as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := showPolicyPath
		if path == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			path = cfg.PolicyPath
		}
		eng, err := loadEngine(path)
		if err != nil {
			return err
		}
		data, err := eng.Policy().YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	showPolicyCmd.Flags().StringVarP(&showPolicyPath, "policy", "p", "", "Policy YAML file (overrides config)")
	policyCmd.AddCommand(showPolicyCmd)
	rootCmd.AddCommand(policyCmd)
}
