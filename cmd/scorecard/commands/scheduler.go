package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/reports"
	"github.com/wonny/scorecard/internal/scheduler"
	"github.com/wonny/scorecard/internal/scheduler/jobs"
	"github.com/wonny/scorecard/pkg/config"
	"github.com/wonny/scorecard/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `관심 종목(WATCHLIST)을 SCHEDULE_CRON 에 맞춰 재평가합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  WATCHLIST=TCS,INFY go run ./cmd/scorecard scheduler start
  go run ./cmd/scorecard scheduler run watchlist_evaluation`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- watchlist_evaluation: SCHEDULE_CRON (기본 평일 오후 4시 30분, 장 마감 후)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// newScheduler wires the watchlist job. The returned func releases the database.
func newScheduler(ctx context.Context, cfg *config.Config, log *logger.Logger) (*scheduler.Scheduler, func(), error) {
	repo, closeRepo, err := openReports(ctx, cfg, log, reports.NewMemoryRepository())
	if err != nil {
		return nil, nil, err
	}

	a, err := newAnalyzer(cfg, log, repo)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}

	s := scheduler.New(log)
	if err := s.AddJob(jobs.NewWatchlistJob(a, cfg.Scheduler.Watchlist, cfg.Scheduler.Cron, log)); err != nil {
		closeRepo()
		return nil, nil, err
	}

	return s, closeRepo, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scorecard Scheduler ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if len(cfg.Scheduler.Watchlist) == 0 {
		log.Warn("WATCHLIST is empty, scheduled runs will do nothing")
	}

	s, closeRepo, err := newScheduler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	s.Start(ctx)

	fmt.Printf("\n✅ Scheduler running (%s): %s\n", cfg.Scheduler.Cron, strings.Join(cfg.Scheduler.Watchlist, ", "))
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	s.Stop()

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	s, closeRepo, err := newScheduler(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	stats := s.GetJobStats()
	fmt.Println("\n=== Registered Jobs ===")
	for _, name := range s.GetAllJobs() {
		fmt.Printf("  %-24s %s\n", name, stats[name].Schedule)
	}
	fmt.Printf("\nWatchlist: %s\n", strings.Join(cfg.Scheduler.Watchlist, ", "))

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	s, closeRepo, err := newScheduler(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	fmt.Printf("Running job: %s\n", args[0])
	result, err := s.RunJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}

	fmt.Printf("✅ Job %s completed in %s\n", result.JobName, result.Duration.Round(time.Millisecond))
	return nil
}
