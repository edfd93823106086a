package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ParameterResult is the outcome of one evaluated parameter
type ParameterResult struct {
	Value  string     `json:"value"`
	Score  float64    `json:"score"` // 0, 0.5 or 1
	Code   StatusCode `json:"code"`
	Status string     `json:"status"`
}

// NewResult builds a result whose status is the display form of code
func NewResult(value string, score float64, code StatusCode) ParameterResult {
	return ParameterResult{
		Value:  value,
		Score:  score,
		Code:   code,
		Status: code.Display(),
	}
}

// NotAvailable is the result of a parameter whose input could not be read
func NotAvailable() ParameterResult {
	return NewResult("N/A", 0, StatusNotAvailable)
}

// Annotate appends a parenthesized note to the status
func (r ParameterResult) Annotate(note string) ParameterResult {
	r.Status = fmt.Sprintf("%s (%s)", r.Status, note)
	return r
}

// DetailEntry is one named parameter result
type DetailEntry struct {
	Name   string
	Result ParameterResult
}

// Details is an insertion-ordered name → ParameterResult collection.
// It marshals to a JSON object with keys in evaluation order.
type Details []DetailEntry

// Set adds or replaces a result, keeping the original position on replace
func (d *Details) Set(name string, r ParameterResult) {
	for i := range *d {
		if (*d)[i].Name == name {
			(*d)[i].Result = r
			return
		}
	}
	*d = append(*d, DetailEntry{Name: name, Result: r})
}

// Get returns the result for name
func (d Details) Get(name string) (ParameterResult, bool) {
	for _, e := range d {
		if e.Name == name {
			return e.Result, true
		}
	}
	return ParameterResult{}, false
}

// Names returns parameter names in order
func (d Details) Names() []string {
	names := make([]string, len(d))
	for i, e := range d {
		names[i] = e.Name
	}
	return names
}

// Sum returns the total of all scores
func (d Details) Sum() float64 {
	total := 0.0
	for _, e := range d {
		total += e.Result.Score
	}
	return total
}

// Merge appends other's entries
func (d *Details) Merge(other Details) {
	for _, e := range other {
		d.Set(e.Name, e.Result)
	}
}

// MarshalJSON writes an object whose keys keep insertion order
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Result)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the document's key order
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("details: expected object, got %v", tok)
	}

	out := Details{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("details: expected key, got %v", tok)
		}

		var r ParameterResult
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("details %s: %w", name, err)
		}
		out.Set(name, r)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// ScoreReport is the result of one evaluation
// ⭐ 모든 하위 점수와 판정은 이 구조체 하나에 담김
type ScoreReport struct {
	Symbol string  `json:"symbol,omitempty"`
	CMP    float64 `json:"cmp"`

	FundamentalScore float64 `json:"fundamental_score"`
	TechnicalScore   float64 `json:"technical_score"`
	NewsScore        float64 `json:"news_score"`
	TotalScore       float64 `json:"total_score"`
	MaxScore         float64 `json:"max_score"`

	Details Details `json:"details"`

	SwingVerdict    Verdict `json:"swing_verdict"`
	SwingAction     string  `json:"swing_action"`
	LongTermVerdict Verdict `json:"long_term_verdict"`
	LongTermReason  string  `json:"long_term_reason"`
	FinalAction     string  `json:"final_action"`
	HealthLabel     string  `json:"health_label"`
	RiskTriggered   bool    `json:"risk_triggered"`

	FundamentalSummary string `json:"fundamental_summary"`
	TechnicalSummary   string `json:"technical_summary"`
	NewsSummary        string `json:"news_summary"`
	RetailConclusion   string `json:"retail_conclusion"`

	PolicyHash  string    `json:"policy_hash,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at,omitzero"`
}

// IsBuy reports whether the long-term verdict is BUY
func (r *ScoreReport) IsBuy() bool {
	return r.LongTermVerdict == VerdictBuy
}
