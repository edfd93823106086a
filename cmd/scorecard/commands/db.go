package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/reports"
	"github.com/wonny/scorecard/pkg/database"
)

// dbCmd groups report database tools
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "리포트 DB 관리",
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "PostgreSQL 연결 및 스키마 확인",
	Long: `리포트 저장소 연결을 테스트합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- Health Check 실행 (Ping + 풀 통계)
- score_reports 테이블 생성 (없을 때만)

Example:
  DATABASE_URL=postgres://... go run ./cmd/scorecard db check`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scorecard Database Check ===")

	cfg, _, err := bootstrap()
	if err != nil {
		return err
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	fmt.Println("✅ Health Check Results:")
	fmt.Printf("   Response Time: %v\n", status.ResponseTime)
	fmt.Printf("   Connections: %d total, %d acquired, %d idle\n", status.TotalConns, status.AcquiredConns, status.IdleConns)

	if err := reports.NewRepository(db.Pool).EnsureSchema(ctx); err != nil {
		return fmt.Errorf("❌ Failed to ensure schema: %w", err)
	}
	fmt.Println("✅ score_reports schema ready")

	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
