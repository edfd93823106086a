package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/contracts"
)

// analyzeCmd fetches live data and evaluates symbols
var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL...",
	Short: "실시간 데이터로 종목 분석",
	Long: `Screener, Yahoo Finance, Google News 에서 데이터를 가져와 평가합니다.
DATABASE_URL 이 설정되어 있으면 리포트를 저장합니다.

Example:
  go run ./cmd/scorecard analyze TCS
  go run ./cmd/scorecard analyze TCS INFY RELIANCE --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var analyzeJSON bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print reports as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	repo, closeRepo, err := openReports(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer closeRepo()

	a, err := newAnalyzer(cfg, log, repo)
	if err != nil {
		return err
	}

	var (
		out    []*contracts.ScoreReport
		failed int
	)
	for _, res := range a.AnalyzeAll(ctx, args) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ %s: %v\n", res.Symbol, res.Err)
			continue
		}
		if analyzeJSON {
			out = append(out, res.Report)
			continue
		}
		printReport(cmd.OutOrStdout(), res.Report)
	}

	if analyzeJSON && len(out) > 0 {
		if err := printJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	}

	if failed == len(args) {
		return fmt.Errorf("all %d symbols failed", failed)
	}
	return nil
}
