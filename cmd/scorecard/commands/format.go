package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/scorecard/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Report Formatting
// 모든 커맨드가 동일한 리포트 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	heavyRule = "═══════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────"
)

// printReport renders a report as a text scorecard
func printReport(w io.Writer, r *contracts.ScoreReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "  %s  CMP ₹%.2f\n", r.Symbol, r.CMP)
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  Fundamentals : %5.1f\n", r.FundamentalScore)
	fmt.Fprintf(w, "  Technicals   : %5.1f\n", r.TechnicalScore)
	fmt.Fprintf(w, "  News         : %5.1f\n", r.NewsScore)
	fmt.Fprintf(w, "  Total        : %5.1f / %.1f\n", r.TotalScore, r.MaxScore)
	fmt.Fprintln(w, lightRule)

	for _, e := range r.Details {
		fmt.Fprintf(w, "  %-24s %-14s %4.1f  %s\n", e.Name, e.Result.Value, e.Result.Score, e.Result.Status)
	}

	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  Health       : %s\n", r.HealthLabel)
	fmt.Fprintf(w, "  Long-Term    : %s (%s)\n", r.LongTermVerdict.Display(), r.LongTermReason)
	fmt.Fprintf(w, "  Swing        : %s (%s)\n", r.SwingVerdict.Display(), r.SwingAction)
	fmt.Fprintf(w, "  Action       : %s\n", r.FinalAction)
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  %s\n  %s\n  %s\n", r.FundamentalSummary, r.TechnicalSummary, r.NewsSummary)
	fmt.Fprintf(w, "\n  %s\n", r.RetailConclusion)
	fmt.Fprintln(w, heavyRule)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
