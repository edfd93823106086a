package contracts

import "context"

// FundamentalSource supplies the valuation snapshot of a symbol
type FundamentalSource interface {
	FetchFundamentals(ctx context.Context, symbol string) (*FundamentalRecord, error)
}

// TechnicalSource supplies the indicator snapshot of a symbol
type TechnicalSource interface {
	FetchTechnicals(ctx context.Context, symbol string) (*TechnicalRecord, error)
}

// NewsSource supplies recent headlines for a symbol
type NewsSource interface {
	FetchNews(ctx context.Context, symbol string) ([]NewsItem, error)
}

// ReportRepository persists score reports
type ReportRepository interface {
	Save(ctx context.Context, report *ScoreReport) error
	Latest(ctx context.Context, symbol string) (*ScoreReport, error)
	History(ctx context.Context, symbol string, limit int) ([]*ScoreReport, error)
}
