package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/analyzer"
	"github.com/wonny/scorecard/internal/api/handlers"
)

// evaluateCmd scores records read from JSON files
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "JSON 파일의 데이터로 평가",
	Long: `저장된 데이터로 점수표를 계산합니다 (외부 호출 없음).

--input 은 API 요청과 동일한 형식입니다:
  {"symbol": "TCS", "fundamentals": {...}, "technicals": {...}, "news": [...]}

개별 파일은 제공자 라벨 키 형식입니다:
  --fundamentals  {"Current Price": 3500, "Stock P/E": "28.4", ...}
  --technicals    {"Close": 3490, "50DMA": 3400, "200DMA": 3300, "RSI": 55, ...}
  --news          [{"source": "...", "title": "...", "sentiment": "Positive"}]

Example:
  go run ./cmd/scorecard evaluate --input request.json
  go run ./cmd/scorecard evaluate --symbol TCS --fundamentals f.json --technicals t.json`,
	RunE: runEvaluate,
}

var (
	evalInput        string
	evalSymbol       string
	evalFundamentals string
	evalTechnicals   string
	evalNews         string
	evalJSON         bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalInput, "input", "", "evaluate request JSON file")
	evaluateCmd.Flags().StringVar(&evalSymbol, "symbol", "", "symbol (overrides the request)")
	evaluateCmd.Flags().StringVar(&evalFundamentals, "fundamentals", "", "fundamentals label map JSON file")
	evaluateCmd.Flags().StringVar(&evalTechnicals, "technicals", "", "technicals label map JSON file")
	evaluateCmd.Flags().StringVar(&evalNews, "news", "", "news items JSON file")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "print the report as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	req, err := loadEvaluateRequest()
	if err != nil {
		return err
	}

	in, unknown := req.Input()
	if len(unknown) > 0 {
		log.WithField("labels", strings.Join(unknown, ", ")).Warn("Ignoring unknown labels")
	}

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	// persistence is not wanted for offline evaluation
	a := analyzer.New(engine, analyzer.Sources{}, nil, log)

	report, err := a.Evaluate(cmd.Context(), in)
	if err != nil {
		return err
	}

	if evalJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

// loadEvaluateRequest merges --input with the per-stream files
func loadEvaluateRequest() (handlers.EvaluateRequest, error) {
	var req handlers.EvaluateRequest

	if evalInput != "" {
		if err := readJSON(evalInput, &req); err != nil {
			return req, err
		}
	}
	if evalFundamentals != "" {
		req.Fundamentals = nil
		if err := readJSON(evalFundamentals, &req.FundamentalLabels); err != nil {
			return req, err
		}
	}
	if evalTechnicals != "" {
		req.Technicals = nil
		if err := readJSON(evalTechnicals, &req.TechnicalLabels); err != nil {
			return req, err
		}
	}
	if evalNews != "" {
		if err := readJSON(evalNews, &req.News); err != nil {
			return req, err
		}
	}
	if evalSymbol != "" {
		req.Symbol = evalSymbol
	}

	if req.Fundamentals == nil && req.Technicals == nil && req.FundamentalLabels == nil &&
		req.TechnicalLabels == nil && req.News == nil {
		return req, fmt.Errorf("no input: pass --input or at least one of --fundamentals, --technicals, --news")
	}
	return req, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
