package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/reportgc/pkg/config"
	"github.com/user/reportgc/pkg/engine"
	"github.com/user/reportgc/pkg/logging"
	"github.com/user/reportgc/pkg/report"
)

var (
	explainPolicy string
	explainFormat string
)

var explainCmd = &cobra.Command{
	Use:   "explain <scan.json>",
	Short: "Build an execution plan from a Trivy or SARIF JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.Init(DebugMode)
		defer func() { _ = log.Sync() }()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		policyPath := explainPolicy
		if policyPath == "" {
			policyPath = cfg.PolicyPath
		}
		eng, err := loadEngine(policyPath)
		if err != nil {
			return err
		}

		formatName := explainFormat
		if formatName == "" {
			formatName = cfg.OutputFormat
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		doc, err := decodeScan(args[0])
		if err != nil {
			return err
		}

		plan, err := eng.Explain(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		for _, d := range plan.Diagnostics() {
			logging.Warnf("skipped %s", d.Error())
		}
		logging.Debugf("plan: grade=%s findings=%d duplicates=%d effort=%dh kev=%d",
			plan.Grade(), plan.Total(), plan.Duplicates(), plan.TotalEffortHours(), plan.KEVCount())

		return report.Render(cmd.OutOrStdout(), plan, format)
	},
}

func loadEngine(policyPath string) (*engine.Engine, error) {
	policy := engine.DefaultPolicy()
	if policyPath != "" {
		p, err := engine.LoadPolicy(policyPath)
		if err != nil {
			return nil, fmt.Errorf("loading policy: %w", err)
		}
		policy = p
		logging.Debugf("using policy %s", policyPath)
	}
	return engine.NewEngine(policy)
}

// decodeScan reads a scan file into a generic JSON tree.
func decodeScan(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc any
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}
	return doc, nil
}

func init() {
	explainCmd.Flags().StringVarP(&explainPolicy, "policy", "p", "", "Policy YAML file (overrides config)")
	explainCmd.Flags().StringVarP(&explainFormat, "format", "f", "", "Output format: text, markdown, json (overrides config)")
	rootCmd.AddCommand(explainCmd)
}
