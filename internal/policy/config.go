package policy

// Policy는 평가 엔진의 모든 임계값
// ⭐ SSOT: 점수 구간과 판정 기준은 여기서만 정의
type Policy struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Reconcile   Reconcile   `yaml:"reconcile" json:"reconcile"`
	Fundamental Fundamental `yaml:"fundamental" json:"fundamental"`
	Technical   Technical   `yaml:"technical" json:"technical"`
	News        News        `yaml:"news" json:"news"`
	Verdict     Verdict     `yaml:"verdict" json:"verdict"`
}

// Meta 메타 정보
type Meta struct {
	PolicyID string `yaml:"policy_id" json:"policy_id"`
	Version  string `yaml:"version" json:"version"`
}

// Reconcile controls the price reconciler
type Reconcile struct {
	PriceTolerance float64 `yaml:"price_tolerance" json:"price_tolerance"` // absolute, rescale only above this
}

// Fundamental 펀더멘털 26개 파라미터 기준
type Fundamental struct {
	MarketCap MarketCap `yaml:"market_cap" json:"market_cap"`

	Low52Multiplier float64 `yaml:"low52_multiplier" json:"low52_multiplier"` // cmp > low × m

	PE PE `yaml:"pe" json:"pe"`

	PEGMax     float64 `yaml:"peg_max" json:"peg_max"`
	PEGDefault float64 `yaml:"peg_default" json:"peg_default"` // absent PEG

	EPSTrendMin      float64 `yaml:"eps_trend_min" json:"eps_trend_min"`
	EBITDATrendMin   float64 `yaml:"ebitda_trend_min" json:"ebitda_trend_min"`
	DebtToEquityMax  float64 `yaml:"debt_to_equity_max" json:"debt_to_equity_max"`
	DividendYieldMin float64 `yaml:"dividend_yield_min" json:"dividend_yield_min"`
	CurrentRatioMin  float64 `yaml:"current_ratio_min" json:"current_ratio_min"`

	PromoterHoldingMin float64 `yaml:"promoter_holding_min" json:"promoter_holding_min"`
	PledgedSharesMax   float64 `yaml:"pledged_shares_max" json:"pledged_shares_max"`

	OCF OCF `yaml:"ocf" json:"ocf"`

	ROCEMin float64 `yaml:"roce_min" json:"roce_min"`
	ROE     ROE     `yaml:"roe" json:"roe"`

	RevenueCAGRMin      float64 `yaml:"revenue_cagr_min" json:"revenue_cagr_min"`
	ProfitCAGRMin       float64 `yaml:"profit_cagr_min" json:"profit_cagr_min"`
	InterestCoverageMin float64 `yaml:"interest_coverage_min" json:"interest_coverage_min"`
	FreeCashFlowMin     float64 `yaml:"free_cash_flow_min" json:"free_cash_flow_min"`

	ContingentMaxRatio float64 `yaml:"contingent_max_ratio" json:"contingent_max_ratio"` // of net worth

	Piotroski Piotroski `yaml:"piotroski" json:"piotroski"`

	CFOToPATMin     float64 `yaml:"cfo_to_pat_min" json:"cfo_to_pat_min"`
	CFOToPATDefault float64 `yaml:"cfo_to_pat_default" json:"cfo_to_pat_default"` // absent CFO/PAT
}

// MarketCap tier lower bounds (crores, exclusive)
type MarketCap struct {
	LargeMin float64 `yaml:"large_min" json:"large_min"`
	MidMin   float64 `yaml:"mid_min" json:"mid_min"`
	SmallMin float64 `yaml:"small_min" json:"small_min"`
}

// PE band upper bounds (exclusive); at or above ExpensiveBelow is overbought
type PE struct {
	ExtremelyOversoldBelow float64 `yaml:"extremely_oversold_below" json:"extremely_oversold_below"`
	VeryAttractiveBelow    float64 `yaml:"very_attractive_below" json:"very_attractive_below"`
	AttractiveBelow        float64 `yaml:"attractive_below" json:"attractive_below"`
	ExpensiveBelow         float64 `yaml:"expensive_below" json:"expensive_below"`
}

// OCF margin tiers (percent of sales, exclusive)
type OCF struct {
	CashCowMarginPct  float64 `yaml:"cash_cow_margin_pct" json:"cash_cow_margin_pct"`
	StandardMarginPct float64 `yaml:"standard_margin_pct" json:"standard_margin_pct"`
}

type ROE struct {
	GoodAbove  float64 `yaml:"good_above" json:"good_above"`
	AvoidBelow float64 `yaml:"avoid_below" json:"avoid_below"`
}

type Piotroski struct {
	StrongAbove float64 `yaml:"strong_above" json:"strong_above"`
	AverageMin  float64 `yaml:"average_min" json:"average_min"`
}

// Technical 기술적 지표 기준
type Technical struct {
	RSIOversoldMax   float64 `yaml:"rsi_oversold_max" json:"rsi_oversold_max"`     // rsi <= max → buy
	RSIOverboughtMin float64 `yaml:"rsi_overbought_min" json:"rsi_overbought_min"` // rsi >= min → overbought
	RSIDefault       float64 `yaml:"rsi_default" json:"rsi_default"`
}

// News 뉴스 감성 기준
type News struct {
	NetThreshold float64 `yaml:"net_threshold" json:"net_threshold"` // |pos-neg| above this moves off neutral
	MaxItems     int     `yaml:"max_items" json:"max_items"`
}

// Verdict 최종 판정 기준
type Verdict struct {
	BuyScore  float64 `yaml:"buy_score" json:"buy_score"`
	HoldScore float64 `yaml:"hold_score" json:"hold_score"`

	RiskCFOToPATMin float64 `yaml:"risk_cfo_to_pat_min" json:"risk_cfo_to_pat_min"`

	Swing Swing `yaml:"swing" json:"swing"`

	WatchMultiplier float64 `yaml:"watch_multiplier" json:"watch_multiplier"`

	Summary Summary `yaml:"summary" json:"summary"`
}

// Swing 단기 판정
type Swing struct {
	SignalsRequired    int     `yaml:"signals_required" json:"signals_required"`
	RSIBelow           float64 `yaml:"rsi_below" json:"rsi_below"`
	TargetMultiplier   float64 `yaml:"target_multiplier" json:"target_multiplier"`
	StopLossMultiplier float64 `yaml:"stop_loss_multiplier" json:"stop_loss_multiplier"`
}

// Summary 서술 문장 기준 (판정에는 영향 없음)
type Summary struct {
	AttractivePEMax    float64 `yaml:"attractive_pe_max" json:"attractive_pe_max"`
	ExpensivePEMin     float64 `yaml:"expensive_pe_min" json:"expensive_pe_min"`
	HighROCEMin        float64 `yaml:"high_roce_min" json:"high_roce_min"`
	LowROCEMax         float64 `yaml:"low_roce_max" json:"low_roce_max"`
	LowDebtMax         float64 `yaml:"low_debt_max" json:"low_debt_max"`
	HighDebtMin        float64 `yaml:"high_debt_min" json:"high_debt_min"`
	RobustGrowthMin    float64 `yaml:"robust_growth_min" json:"robust_growth_min"`
	RSIOversoldBelow   float64 `yaml:"rsi_oversold_below" json:"rsi_oversold_below"`
	RSIOverboughtAbove float64 `yaml:"rsi_overbought_above" json:"rsi_overbought_above"`
}

// Default returns the built-in policy
func Default() *Policy {
	return &Policy{
		Meta: Meta{
			PolicyID: "default",
			Version:  "1",
		},
		Reconcile: Reconcile{
			PriceTolerance: 0.01,
		},
		Fundamental: Fundamental{
			MarketCap: MarketCap{
				LargeMin: 20000,
				MidMin:   5000,
				SmallMin: 500,
			},
			Low52Multiplier: 1.1,
			PE: PE{
				ExtremelyOversoldBelow: 12,
				VeryAttractiveBelow:    15,
				AttractiveBelow:        20,
				ExpensiveBelow:         25,
			},
			PEGMax:              1,
			PEGDefault:          2,
			EPSTrendMin:         0,
			EBITDATrendMin:      0,
			DebtToEquityMax:     1,
			DividendYieldMin:    0,
			CurrentRatioMin:     1.5,
			PromoterHoldingMin:  40,
			PledgedSharesMax:    5,
			OCF:                 OCF{CashCowMarginPct: 15, StandardMarginPct: 5},
			ROCEMin:             15,
			ROE:                 ROE{GoodAbove: 15, AvoidBelow: 10},
			RevenueCAGRMin:      10,
			ProfitCAGRMin:       10,
			InterestCoverageMin: 3,
			FreeCashFlowMin:     0,
			ContingentMaxRatio:  0.5,
			Piotroski:           Piotroski{StrongAbove: 7, AverageMin: 5},
			CFOToPATMin:         1,
			CFOToPATDefault:     1,
		},
		Technical: Technical{
			RSIOversoldMax:   40,
			RSIOverboughtMin: 70,
			RSIDefault:       50,
		},
		News: News{
			NetThreshold: 1,
			MaxItems:     10,
		},
		Verdict: Verdict{
			BuyScore:        25,
			HoldScore:       15,
			RiskCFOToPATMin: 0.5,
			Swing: Swing{
				SignalsRequired:    2,
				RSIBelow:           40,
				TargetMultiplier:   1.10,
				StopLossMultiplier: 0.95,
			},
			WatchMultiplier: 0.95,
			Summary: Summary{
				AttractivePEMax:    30,
				ExpensivePEMin:     50,
				HighROCEMin:        20,
				LowROCEMax:         10,
				LowDebtMax:         0.5,
				HighDebtMin:        1,
				RobustGrowthMin:    15,
				RSIOversoldBelow:   30,
				RSIOverboughtAbove: 70,
			},
		},
	}
}
