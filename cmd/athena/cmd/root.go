// Package cmd - athena CLI commands
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/config"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/logger"
)

var (
	// 공통 플래그
	holdingsFile string
	accountID    string
	source       string
	seed         int64
	lookback     int
	verbose      bool

	cfg *config.Config
)

// rootCmd 루트 커맨드
var rootCmd = &cobra.Command{
	Use:   "athena",
	Short: "Athena portfolio risk & performance analytics - CLI",
	Long: `Athena portfolio risk & performance analytics - CLI

Usage:
    go run ./cmd/athena [command] -f holdings.yaml

Commands:
    performance   Sharpe, Sortino, beta, alpha, drawdown and friends
    correlation   Pairwise correlation matrix with an interpretation
    risk          VaR, CVaR, volatility and diversification
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute 루트 커맨드 실행
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&holdingsFile, "holdings", "f", "", "YAML holdings file")
	flags.StringVar(&accountID, "account", "", "read holdings for this account from PostgreSQL instead of a file")
	flags.StringVar(&source, "source", "", "return series source: postgres or synthetic (default from ANALYTICS_SOURCE)")
	flags.Int64Var(&seed, "seed", 0, "synthetic source seed (default from ANALYTICS_SYNTHETIC_SEED)")
	flags.IntVar(&lookback, "lookback", 0, "number of periods to analyze (default from ANALYTICS_LOOKBACK_DAYS)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	for _, c := range analysisCommands() {
		rootCmd.AddCommand(c)
	}
}

// initConfig loads .env/env configuration and applies flag overrides
func initConfig(cmd *cobra.Command) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{
		Level:       level,
		Format:      "pretty",
		ServiceName: "athena-cli",
		Output:      os.Stderr,
	}); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		loaded.Analytics.Source = source
	}
	if flags.Changed("seed") {
		loaded.Analytics.SyntheticSeed = seed
	}
	if flags.Changed("lookback") {
		loaded.Analytics.LookbackDays = lookback
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}
