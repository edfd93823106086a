package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/scorecard/internal/analyzer"
	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/reports"
	"github.com/wonny/scorecard/internal/scoring"
	"github.com/wonny/scorecard/pkg/logger"
)

// maxBodyBytes bounds evaluate request bodies
const maxBodyBytes = 1 << 20

// ReportHandler serves evaluation and report endpoints
// ⭐ SSOT: 평가/리포트 API 핸들러는 이 구조체에서만
type ReportHandler struct {
	analyzer *analyzer.Analyzer
	reports  contracts.ReportRepository
	logger   *logger.Logger
}

// NewReportHandler creates a new report handler. reports may be nil.
func NewReportHandler(a *analyzer.Analyzer, reports contracts.ReportRepository, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		analyzer: a,
		reports:  reports,
		logger:   log,
	}
}

// EvaluateRequest carries caller-supplied evidence.
// Records may be sent typed or as provider label maps.
type EvaluateRequest struct {
	Symbol            string                       `json:"symbol"`
	Fundamentals      *contracts.FundamentalRecord `json:"fundamentals,omitempty"`
	Technicals        *contracts.TechnicalRecord   `json:"technicals,omitempty"`
	FundamentalLabels map[string]interface{}       `json:"fundamental_labels,omitempty"`
	TechnicalLabels   map[string]interface{}       `json:"technical_labels,omitempty"`
	News              []contracts.NewsItem         `json:"news,omitempty"`
}

// Input converts the request into engine input, returning unknown labels
func (req EvaluateRequest) Input() (scoring.Input, []string) {
	in := scoring.Input{
		Symbol:       req.Symbol,
		Fundamentals: req.Fundamentals,
		Technicals:   req.Technicals,
		News:         req.News,
	}

	var unknown []string
	if in.Fundamentals == nil && req.FundamentalLabels != nil {
		rec, u := contracts.FundamentalsFromLabels(req.FundamentalLabels)
		in.Fundamentals = rec
		unknown = append(unknown, u...)
	}
	if in.Technicals == nil && req.TechnicalLabels != nil {
		rec, u := contracts.TechnicalsFromLabels(req.TechnicalLabels)
		in.Technicals = rec
		unknown = append(unknown, u...)
	}
	return in, unknown
}

// Evaluate scores records supplied in the body
// POST /api/v1/evaluate
func (h *ReportHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in, unknown := req.Input()
	if len(unknown) > 0 {
		h.logger.WithField("labels", unknown).Warn("Ignoring unknown evidence labels")
	}

	report, err := h.analyzer.Evaluate(r.Context(), in)
	if err != nil {
		h.respondEvaluationError(w, req.Symbol, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Analyze fetches live evidence and scores it
// GET /api/v1/analyze/{symbol}
func (h *ReportHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	report, err := h.analyzer.Analyze(r.Context(), symbol)
	if err != nil {
		h.respondEvaluationError(w, symbol, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetLatest returns the newest stored report
// GET /api/v1/reports/{symbol}
func (h *ReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respondError(w, http.StatusServiceUnavailable, "report storage is disabled")
		return
	}
	symbol := analyzer.NormalizeSymbol(mux.Vars(r)["symbol"])

	report, err := h.reports.Latest(r.Context(), symbol)
	if err != nil {
		h.respondStorageError(w, symbol, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetHistory returns stored reports, newest first
// GET /api/v1/reports/{symbol}/history?limit=20
func (h *ReportHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respondError(w, http.StatusServiceUnavailable, "report storage is disabled")
		return
	}
	symbol := analyzer.NormalizeSymbol(mux.Vars(r)["symbol"])

	limit := reports.DefaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}

	history, err := h.reports.History(r.Context(), symbol, limit)
	if err != nil {
		h.respondStorageError(w, symbol, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"count":   len(history),
		"reports": history,
	})
}

func (h *ReportHandler) respondEvaluationError(w http.ResponseWriter, symbol string, err error) {
	switch {
	case errors.Is(err, analyzer.ErrEmptySymbol):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrIncompleteTechnicals):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).WithField("symbol", symbol).Error("Evaluation failed")
		respondError(w, http.StatusBadGateway, "Failed to evaluate symbol")
	}
}

func (h *ReportHandler) respondStorageError(w http.ResponseWriter, symbol string, err error) {
	if errors.Is(err, reports.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no report for "+symbol)
		return
	}
	h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to read reports")
	respondError(w, http.StatusInternalServerError, "Failed to retrieve reports")
}
