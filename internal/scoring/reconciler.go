package scoring

import (
	"math"

	"github.com/wonny/scorecard/internal/contracts"
)

// Resolved holds the records every scorer reads after reconciliation
type Resolved struct {
	CMP          float64
	Fundamentals *contracts.FundamentalRecord // nil when absent
	Technicals   *contracts.TechnicalRecord   // nil when absent or empty
	Rescaled     bool
	Ratio        float64 // cmp / old price when Rescaled
}

// Reconciler picks one authoritative price and keeps price-driven ratios consistent with it
type Reconciler struct {
	tolerance float64
}

// NewReconciler creates a reconciler; price moves within tolerance do not rescale
func NewReconciler(tolerance float64) *Reconciler {
	return &Reconciler{tolerance: tolerance}
}

// Reconcile returns copies of the inputs carrying the reconciled price.
// Inputs are never modified, and reconciling a resolved record is a no-op.
//
// Price order: live price, fundamental current price, technical close.
func (r *Reconciler) Reconcile(f *contracts.FundamentalRecord, t *contracts.TechnicalRecord) Resolved {
	var out Resolved

	if f != nil {
		fc := *f
		out.Fundamentals = &fc
	}
	if !t.IsEmpty() {
		tc := *t
		out.Technicals = &tc
	}

	out.CMP = selectPrice(out.Fundamentals, out.Technicals)
	if out.CMP <= 0 {
		out.CMP = 0
		return out
	}

	if fr := out.Fundamentals; fr != nil {
		old := fr.CurrentPrice.Float()
		fr.CurrentPrice = contracts.M(out.CMP)

		if old > 0 && math.Abs(out.CMP-old) > r.tolerance {
			ratio := out.CMP / old
			fr.MarketCap = fr.MarketCap.Scale(ratio)             // linear in price
			fr.StockPE = fr.StockPE.Scale(ratio)                 // price / eps
			fr.DividendYield = fr.DividendYield.Scale(1 / ratio) // dps / price
			out.Rescaled = true
			out.Ratio = ratio
		}
	}

	if tr := out.Technicals; tr != nil {
		tr.Close = contracts.M(out.CMP)
	}

	return out
}

func selectPrice(f *contracts.FundamentalRecord, t *contracts.TechnicalRecord) float64 {
	if t != nil {
		if live := t.LivePrice.Float(); live > 0 {
			return live
		}
	}
	if f != nil {
		if px := f.CurrentPrice.Float(); px > 0 {
			return px
		}
	}
	if t != nil {
		return t.Close.Float()
	}
	return 0
}
