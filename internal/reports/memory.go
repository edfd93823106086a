package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/scorecard/internal/contracts"
)

// MemoryRepository keeps reports in process memory.
// Used when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports map[string][]*contracts.ScoreReport // oldest first
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reports: make(map[string][]*contracts.ScoreReport)}
}

// Save appends a copy of report
func (m *MemoryRepository) Save(_ context.Context, report *contracts.ScoreReport) error {
	cp := *report
	cp.Details = append(contracts.Details(nil), report.Details...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.Symbol] = append(m.reports[report.Symbol], &cp)
	return nil
}

// Latest returns the newest report for symbol
func (m *MemoryRepository) Latest(_ context.Context, symbol string) (*contracts.ScoreReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.reports[symbol]
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return list[len(list)-1], nil
}

// History returns up to limit reports for symbol, newest first
func (m *MemoryRepository) History(_ context.Context, symbol string, limit int) ([]*contracts.ScoreReport, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.reports[symbol]
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	history := make([]*contracts.ScoreReport, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0 && len(history) < limit; i-- {
		history = append(history, list[i])
	}
	return history, nil
}
