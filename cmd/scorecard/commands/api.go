package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/api"
	"github.com/wonny/scorecard/internal/api/handlers"
	"github.com/wonny/scorecard/internal/reports"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

DATABASE_URL 이 없으면 리포트는 프로세스 메모리에만 보관됩니다.

Endpoints:
  GET  /health                              - Health check
  POST /api/v1/evaluate                     - 요청 본문의 데이터로 평가
  GET  /api/v1/analyze/{symbol}             - 실시간 데이터로 분석
  GET  /api/v1/reports/{symbol}             - 최신 리포트
  GET  /api/v1/reports/{symbol}/history     - 리포트 이력 (?limit=N)

Example:
  go run ./cmd/scorecard api
  go run ./cmd/scorecard api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scorecard API Server ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	repo, closeRepo, err := openReports(ctx, cfg, log, reports.NewMemoryRepository())
	if err != nil {
		return err
	}
	defer closeRepo()

	a, err := newAnalyzer(cfg, log, repo)
	if err != nil {
		return err
	}

	router := api.NewRouter(handlers.NewReportHandler(a, repo, log), log)
	server := api.New(cfg, log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
