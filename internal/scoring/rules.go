package scoring

import (
	"fmt"

	"github.com/wonny/scorecard/internal/contracts"
)

// Op compares a value against a band bound
type Op int

const (
	GT Op = iota
	GTE
	LT
	LTE
)

func (o Op) holds(v, bound float64) bool {
	switch o {
	case GT:
		return v > bound
	case GTE:
		return v >= bound
	case LT:
		return v < bound
	case LTE:
		return v <= bound
	default:
		return false
	}
}

// Outcome is the score and status a band awards
type Outcome struct {
	Score float64
	Code  contracts.StatusCode
}

// Band awards Outcome when `value Op Bound` holds
type Band struct {
	Op      Op
	Bound   float64
	Outcome Outcome
}

// Rule is one declarative threshold parameter.
// Bands are tried in order; the first match wins, else Otherwise.
type Rule[R any] struct {
	Name      string
	Field     func(*R) contracts.Metric
	Default   float64 // substituted when the field is absent
	Bands     []Band
	Otherwise Outcome
	Format    func(float64) string
}

// Classify maps a value onto the rule's bands
func (r Rule[R]) Classify(v float64) Outcome {
	for _, b := range r.Bands {
		if b.Op.holds(v, b.Bound) {
			return b.Outcome
		}
	}
	return r.Otherwise
}

// Evaluate reads the rule's field from rec and scores it.
// A malformed field yields a zero-scored N/A result.
func (r Rule[R]) Evaluate(rec *R) contracts.ParameterResult {
	m := r.Field(rec)
	if m.Malformed() {
		return contracts.NotAvailable()
	}

	v := m.Or(r.Default)
	out := r.Classify(v)
	return contracts.NewResult(r.format(v), out.Score, out.Code)
}

// MaxScore is the best score any band can award
func (r Rule[R]) MaxScore() float64 {
	best := r.Otherwise.Score
	for _, b := range r.Bands {
		best = max(best, b.Outcome.Score)
	}
	return best
}

// Parameter turns the rule into a table entry
func (r Rule[R]) Parameter() Parameter[R] {
	return Parameter[R]{
		Name:     r.Name,
		Evaluate: r.Evaluate,
		Max:      r.MaxScore(),
	}
}

func (r Rule[R]) format(v float64) string {
	if r.Format == nil {
		return fixed2(v)
	}
	return r.Format(v)
}

// Parameter is one named entry of a scorer's table.
// Threshold parameters come from Rule; composite ones set Evaluate directly.
type Parameter[R any] struct {
	Name     string
	Evaluate func(*R) contracts.ParameterResult
	Max      float64
}

// run evaluates every parameter in table order
func run[R any](params []Parameter[R], rec *R) (float64, contracts.Details) {
	details := make(contracts.Details, 0, len(params))
	total := 0.0
	for _, p := range params {
		res := p.Evaluate(rec)
		total += res.Score
		details.Set(p.Name, res)
	}
	return total, details
}

func maxScore[R any](params []Parameter[R]) float64 {
	total := 0.0
	for _, p := range params {
		total += p.Max
	}
	return total
}

// threshold builds the common good/bad rule: Positive (1) when `v op bound`, else Negative (0)
func threshold[R any](name string, field func(*R) contracts.Metric, op Op, bound, def float64, format func(float64) string) Rule[R] {
	return Rule[R]{
		Name:      name,
		Field:     field,
		Default:   def,
		Bands:     []Band{{Op: op, Bound: bound, Outcome: Outcome{1, contracts.StatusPositive}}},
		Otherwise: Outcome{0, contracts.StatusNegative},
		Format:    format,
	}
}

// constant builds a stub parameter with a fixed outcome
func constant[R any](name, value string, score float64, code contracts.StatusCode) Parameter[R] {
	return Parameter[R]{
		Name: name,
		Evaluate: func(*R) contracts.ParameterResult {
			return contracts.NewResult(value, score, code)
		},
		Max: score,
	}
}

// === Formatters ===

func fixed1(v float64) string  { return fmt.Sprintf("%.1f", v) }
func fixed2(v float64) string  { return fmt.Sprintf("%.2f", v) }
func pct1(v float64) string    { return fmt.Sprintf("%.1f%%", v) }
func pct2(v float64) string    { return fmt.Sprintf("%.2f%%", v) }
func integer(v float64) string { return fmt.Sprintf("%.0f", v) }
