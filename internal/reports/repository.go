package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/scorecard/internal/contracts"
)

// ErrNotFound is returned when no report exists for a symbol
var ErrNotFound = errors.New("report not found")

// DefaultHistoryLimit applies when a caller passes limit <= 0
const DefaultHistoryLimit = 20

const schema = `
	CREATE TABLE IF NOT EXISTS score_reports (
		id                BIGSERIAL PRIMARY KEY,
		symbol            TEXT        NOT NULL,
		total_score       NUMERIC     NOT NULL,
		long_term_verdict TEXT        NOT NULL,
		risk_triggered    BOOLEAN     NOT NULL DEFAULT FALSE,
		policy_hash       TEXT        NOT NULL,
		report            JSONB       NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_score_reports_symbol_created
		ON score_reports (symbol, created_at DESC);
`

// Repository stores score reports in PostgreSQL
// ⭐ SSOT: 리포트 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the reports table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create score_reports: %w", err)
	}
	return nil
}

// Save appends a report
func (r *Repository) Save(ctx context.Context, report *contracts.ScoreReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO score_reports (
			symbol, total_score, long_term_verdict, risk_triggered, policy_hash, report, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	`

	var createdAt interface{}
	if !report.EvaluatedAt.IsZero() {
		createdAt = report.EvaluatedAt
	}

	_, err = r.pool.Exec(ctx, query,
		report.Symbol, report.TotalScore, string(report.LongTermVerdict), report.RiskTriggered,
		report.PolicyHash, payload, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Latest returns the newest report for symbol
func (r *Repository) Latest(ctx context.Context, symbol string) (*contracts.ScoreReport, error) {
	query := `
		SELECT report
		FROM score_reports
		WHERE symbol = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return decode(payload)
}

// History returns up to limit reports for symbol, newest first
func (r *Repository) History(ctx context.Context, symbol string, limit int) ([]*contracts.ScoreReport, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT report
		FROM score_reports
		WHERE symbol = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	history := make([]*contracts.ScoreReport, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := decode(payload)
		if err != nil {
			return nil, err
		}
		history = append(history, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	return history, nil
}

func decode(payload []byte) (*contracts.ScoreReport, error) {
	var report contracts.ScoreReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
