package policy

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(p *Policy) error {
	// === Meta ===
	if p.Meta.PolicyID == "" {
		return ValidationError{"meta.policy_id", "required"}
	}

	// === Reconcile ===
	if p.Reconcile.PriceTolerance < 0 {
		return ValidationError{"reconcile.price_tolerance", "must be >= 0"}
	}

	// === Fundamental ===
	f := p.Fundamental
	mc := f.MarketCap
	if !(mc.LargeMin > mc.MidMin && mc.MidMin > mc.SmallMin && mc.SmallMin >= 0) {
		return ValidationError{"fundamental.market_cap", "must satisfy large_min > mid_min > small_min >= 0"}
	}

	if f.Low52Multiplier <= 0 {
		return ValidationError{"fundamental.low52_multiplier", "must be > 0"}
	}

	pe := f.PE
	if err := validateAscending("fundamental.pe", pe.ExtremelyOversoldBelow, pe.VeryAttractiveBelow, pe.AttractiveBelow, pe.ExpensiveBelow); err != nil {
		return err
	}
	if pe.ExtremelyOversoldBelow <= 0 {
		return ValidationError{"fundamental.pe.extremely_oversold_below", "must be > 0"}
	}

	if f.PEGMax <= 0 {
		return ValidationError{"fundamental.peg_max", "must be > 0"}
	}

	if f.OCF.StandardMarginPct >= f.OCF.CashCowMarginPct {
		return ValidationError{"fundamental.ocf", "standard_margin_pct must be < cash_cow_margin_pct"}
	}

	if f.ROE.AvoidBelow > f.ROE.GoodAbove {
		return ValidationError{"fundamental.roe", "avoid_below must be <= good_above"}
	}

	if f.Piotroski.AverageMin > f.Piotroski.StrongAbove {
		return ValidationError{"fundamental.piotroski", "average_min must be <= strong_above"}
	}

	if f.ContingentMaxRatio <= 0 {
		return ValidationError{"fundamental.contingent_max_ratio", "must be > 0"}
	}

	if err := validatePctRange(f.PromoterHoldingMin, "fundamental.promoter_holding_min"); err != nil {
		return err
	}
	if err := validatePctRange(f.PledgedSharesMax, "fundamental.pledged_shares_max"); err != nil {
		return err
	}

	// === Technical ===
	t := p.Technical
	if err := validatePctRange(t.RSIOversoldMax, "technical.rsi_oversold_max"); err != nil {
		return err
	}
	if err := validatePctRange(t.RSIOverboughtMin, "technical.rsi_overbought_min"); err != nil {
		return err
	}
	if t.RSIOversoldMax >= t.RSIOverboughtMin {
		return ValidationError{"technical", "rsi_oversold_max must be < rsi_overbought_min"}
	}
	if err := validatePctRange(t.RSIDefault, "technical.rsi_default"); err != nil {
		return err
	}

	// === News ===
	if p.News.NetThreshold < 0 {
		return ValidationError{"news.net_threshold", "must be >= 0"}
	}
	if p.News.MaxItems < 1 {
		return ValidationError{"news.max_items", "must be >= 1"}
	}

	// === Verdict ===
	v := p.Verdict
	if v.HoldScore <= 0 || v.HoldScore >= v.BuyScore {
		return ValidationError{"verdict", "must satisfy 0 < hold_score < buy_score"}
	}
	if v.RiskCFOToPATMin < 0 {
		return ValidationError{"verdict.risk_cfo_to_pat_min", "must be >= 0"}
	}

	s := v.Swing
	if s.SignalsRequired < 1 || s.SignalsRequired > 3 {
		return ValidationError{"verdict.swing.signals_required", "must be in range [1, 3]"}
	}
	if s.TargetMultiplier <= 1 {
		return ValidationError{"verdict.swing.target_multiplier", "must be > 1"}
	}
	if s.StopLossMultiplier <= 0 || s.StopLossMultiplier >= 1 {
		return ValidationError{"verdict.swing.stop_loss_multiplier", "must be in range (0, 1)"}
	}
	if v.WatchMultiplier <= 0 {
		return ValidationError{"verdict.watch_multiplier", "must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(p *Policy) []Warning {
	var warnings []Warning

	// 손절 폭 과다 경고
	if p.Verdict.Swing.StopLossMultiplier < 0.9 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_STOP_LOSS",
			Message: "stop loss more than 10% below entry",
		})
	}

	// 목표 수익 과소 경고
	if p.Verdict.Swing.TargetMultiplier < 1.05 {
		warnings = append(warnings, Warning{
			Code:    "THIN_TARGET",
			Message: "swing target less than 5% above entry",
		})
	}

	if p.Verdict.BuyScore-p.Verdict.HoldScore < 5 {
		warnings = append(warnings, Warning{
			Code:    "NARROW_HOLD_BAND",
			Message: "buy_score and hold_score are less than 5 points apart",
		})
	}

	if p.Fundamental.ContingentMaxRatio > 1 {
		warnings = append(warnings, Warning{
			Code:    "LENIENT_CONTINGENT",
			Message: "contingent liabilities above net worth still count as safe",
		})
	}

	if p.Reconcile.PriceTolerance > 1 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_RECONCILE",
			Message: "price moves under the tolerance leave valuation ratios stale",
		})
	}

	return warnings
}

// === Helper Functions ===

// validateAscending는 구간 경계가 엄격히 증가하는지 검증
func validateAscending(field string, bounds ...float64) error {
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return ValidationError{field, fmt.Sprintf("bounds must be strictly ascending, got %v", bounds)}
		}
	}
	return nil
}

// validatePctRange는 퍼센트 값이 0~100 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 100 {
		return ValidationError{field, "must be in range [0, 100]"}
	}
	return nil
}
