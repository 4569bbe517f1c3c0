package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reportgc",
	Short: "Security explain plans from Trivy and SARIF scans",
	Long: `ReportGC classifies vulnerability-scan output into an execution plan:
findings bucketed into ordered risk tiers with remediation effort and a
single organizational grade.`,
	SilenceUsage: true,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
