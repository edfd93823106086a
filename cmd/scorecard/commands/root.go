package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/pkg/config"
	"github.com/wonny/scorecard/pkg/logger"
)

var (
	// Global flags
	policyPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Stock evaluation & verdict engine",
	Long: `Scorecard CLI

NSE 종목의 펀더멘털, 기술적 지표, 뉴스 심리를 정책 기반 점수표로 평가하고
장기/스윙 판정을 내립니다.

Usage:
  go run ./cmd/scorecard [command]

Examples:
  go run ./cmd/scorecard analyze TCS INFY
  go run ./cmd/scorecard evaluate --input request.json
  go run ./cmd/scorecard api
  go run ./cmd/scorecard policy check config/policy/default.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "scoring policy YAML (default: POLICY_PATH or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// bootstrap loads config and builds the logger shared by every command
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if policyPath != "" {
		cfg.PolicyPath = policyPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
