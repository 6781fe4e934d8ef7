package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/paydown-forecast/internal/config"
	"github.com/iwvelando/paydown-forecast/internal/forecast"
	"github.com/iwvelando/paydown-forecast/internal/optimizer"
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"github.com/iwvelando/paydown-forecast/pkg/optimization"
	"github.com/iwvelando/paydown-forecast/pkg/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

type forecastOptions struct {
	Optimize bool
}

// NewHandler constructs the HTTP handler that serves the forecast API.
// allowedOrigins configures CORS; when empty every origin is allowed.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, allowedOrigins ...string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		// Forecast from an uploaded configuration file
		r.Post("/forecast", h.handleForecast)

		// Forecast from a JSON configuration, for editor-driven updates
		r.Route("/editor", func(r chi.Router) {
			r.Post("/forecast", h.handleForecastEditor)
			r.Post("/export", h.handleConfigExport)
		})

		r.Get("/version", h.handleVersion)
	})

	return r
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.requestLogger"),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type forecastResponse struct {
	Scenarios   []scenarioSummary      `json:"scenarios"`
	Comparisons []comparisonMetric     `json:"comparisons,omitempty"`
	Merged      *mergedSummary         `json:"merged,omitempty"`
	CSV         string                 `json:"csv"`
	Warnings    []string               `json:"warnings,omitempty"`
	Duration    string                 `json:"duration"`
	Config      map[string]interface{} `json:"config,omitempty"`
	ConfigYAML  string                 `json:"configYaml,omitempty"`
}

type scenarioSummary struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	AccountBalance decimal.Decimal        `json:"accountBalance"`
	LoanBalance    float64                `json:"loanBalance"`
	Periods        int                    `json:"periods"`
	PaymentsMade   int                    `json:"paymentsMade"`
	TotalPaid      float64                `json:"totalPaid"`
	TotalInterest  float64                `json:"totalInterest"`
	StepDownDate   string                 `json:"stepDownDate,omitempty"`
	PayoffDate     string                 `json:"payoffDate,omitempty"`
	Transactions   []transactionRow       `json:"transactions"`
	Optimizations  []optimization.Summary `json:"optimizations,omitempty"`
}

type transactionRow struct {
	Date        string              `json:"date"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	Balance     decimal.Decimal     `json:"balance"`
	LoanBalance decimal.NullDecimal `json:"loanBalance"`
	Event       string              `json:"event,omitempty"`
	Value       decimal.NullDecimal `json:"value"`
	Notes       []string            `json:"notes,omitempty"`
}

type comparisonMetric struct {
	Baseline              string          `json:"baseline"`
	Alternative           string          `json:"alternative"`
	Savings               decimal.Decimal `json:"savings"`
	LoanPaidDifference    float64         `json:"loanPaidDifference"`
	LoanBalanceDifference float64         `json:"loanBalanceDifference"`
}

type mergedSummary struct {
	Policy       string          `json:"policy"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions int             `json:"transactions"`
}

// requestError is a failure reported to the client with status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func requestErrorf(status int, format string, args ...interface{}) *requestError {
	return &requestError{status: status, msg: fmt.Sprintf(format, args...)}
}

// forecastRequest is a configuration document ready to be forecast.
type forecastRequest struct {
	op      string
	yaml    []byte
	doc     map[string]interface{}
	options forecastOptions
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	start := time.Now()

	data, reqErr := h.readUpload(w, r)
	if reqErr != nil {
		h.fail(w, op, reqErr)
		return
	}
	doc, err := decodeYAMLToMap(data)
	if err != nil {
		h.fail(w, op, requestErrorf(http.StatusBadRequest, "error reading config data, %v", err))
		return
	}
	h.serveForecast(w, start, forecastRequest{op: op, yaml: data, doc: doc})
}

// readUpload returns the contents of the multipart "file" field.
func (h *handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, requestErrorf(http.StatusRequestEntityTooLarge, "upload exceeds limit of %d bytes", h.maxUploadSize)
		}
		return nil, requestErrorf(http.StatusBadRequest, "failed to parse upload: %v", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, requestErrorf(http.StatusBadRequest, "missing configuration file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readUpload"),
				zap.Error(err),
			)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, requestErrorf(http.StatusInternalServerError, "failed to read configuration: %v", err)
	}
	return data, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// handleForecastEditor accepts either a bare configuration object or
// {"config": {...}, "options": {"optimize": true}}.
func (h *handler) handleForecastEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecastEditor"
	start := time.Now()

	payload, reqErr := h.decodeJSONObject(w, r)
	if reqErr != nil {
		h.fail(w, op, reqErr)
		return
	}

	doc := payload
	if raw, ok := payload["config"]; ok {
		if doc, ok = raw.(map[string]interface{}); !ok {
			h.fail(w, op, requestErrorf(http.StatusBadRequest, "invalid config payload: expected object"))
			return
		}
	}
	var options forecastOptions
	if raw, ok := payload["options"]; ok {
		opts, ok := raw.(map[string]interface{})
		if !ok {
			h.fail(w, op, requestErrorf(http.StatusBadRequest, "invalid options payload: expected object"))
			return
		}
		options.Optimize = coerceBool(opts["optimize"])
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		h.fail(w, op, requestErrorf(http.StatusBadRequest, "failed to encode configuration: %v", err))
		return
	}
	// Round-trip so the echoed document holds YAML types, not JSON ones.
	if doc, err = decodeYAMLToMap(data); err != nil {
		h.fail(w, op, requestErrorf(http.StatusBadRequest, "failed to parse configuration: %v", err))
		return
	}
	h.serveForecast(w, start, forecastRequest{op: op, yaml: data, doc: doc, options: options})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	payload, reqErr := h.decodeJSONObject(w, r)
	if reqErr != nil {
		h.fail(w, op, reqErr)
		return
	}
	data, err := yaml.Marshal(orderedDocument(payload))
	if err != nil {
		h.fail(w, op, requestErrorf(http.StatusBadRequest, "failed to encode configuration: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"configYaml": string(data)})
}

func (h *handler) decodeJSONObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, requestErrorf(http.StatusRequestEntityTooLarge, "request exceeds limit of %d bytes", h.maxUploadSize)
		}
		return nil, requestErrorf(http.StatusBadRequest, "failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, nil
}

// configKeyOrder is the order a configuration file is read in. Other keys
// follow alphabetically.
var configKeyOrder = []string{"logging", "output", "products", "scenarios"}

// orderedDocument returns payload as a YAML mapping node with stable key
// order.
func orderedDocument(payload map[string]interface{}) *yaml.Node {
	rank := make(map[string]int, len(configKeyOrder))
	for i, key := range configKeyOrder {
		rank[key] = i
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := rank[keys[i]]
		rj, jKnown := rank[keys[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range keys {
		value := &yaml.Node{}
		if err := value.Encode(payload[key]); err != nil {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	}
	return doc
}

func (h *handler) serveForecast(w http.ResponseWriter, start time.Time, req forecastRequest) {
	response, err := h.runForecast(req)
	if err != nil {
		var reqErr *requestError
		if !errors.As(err, &reqErr) {
			reqErr = requestErrorf(statusFor(err), "%v", err)
		}
		h.fail(w, req.op, reqErr)
		return
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()
	h.logger.Info("forecast computed",
		zap.String("op", req.op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Bool("optimized", req.options.Optimize),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, response)
}

// runForecast runs every active scenario of req. Configuration mistakes come
// back wrapped in errs sentinels so statusFor reports them as 400.
func (h *handler) runForecast(req forecastRequest) (*forecastResponse, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(req.yaml))
	if err != nil {
		return nil, requestErrorf(http.StatusBadRequest, "%v", err)
	}
	warnings := cfg.ValidateConfiguration()

	policy, err := ledger.ParseMergePolicy(cfg.Output.MergePolicy)
	if err != nil {
		return nil, err
	}

	var optimized *optimizer.Result
	if req.options.Optimize {
		runner, err := optimizer.NewRunner(h.logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize optimizer: %w", err)
		}
		if optimized, err = runner.Run(); err != nil {
			return nil, fmt.Errorf("optimizer execution failed: %w", err)
		}
	}

	results, err := forecast.GetForecast(h.logger, *cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecast: %w", err)
	}

	if optimized != nil && !optimized.Empty() {
		optimized.Apply(results)
		// Echo the optimized values back so the editor can keep them.
		if data, err := yaml.Marshal(cfg); err == nil {
			if doc, err := decodeYAMLToMap(data); err == nil {
				req.yaml, req.doc = data, doc
			}
		} else {
			h.logger.Warn("failed to marshal optimized configuration",
				zap.String("op", req.op),
				zap.Error(err),
			)
		}
	}

	comparisons, err := forecast.CompareAll(results)
	if err != nil {
		return nil, fmt.Errorf("failed to compare scenarios: %w", err)
	}

	response := &forecastResponse{
		Scenarios:   buildSummaries(results),
		Comparisons: buildComparisons(comparisons),
		Warnings:    warnings,
		Config:      req.doc,
		ConfigYAML:  string(req.yaml),
	}
	if response.Config == nil {
		response.Config = make(map[string]interface{})
	}

	if len(results) > 1 {
		merged, err := forecast.MergeLedgers(results, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to merge ledgers: %w", err)
		}
		response.Merged = &mergedSummary{Policy: policy.String(), Balance: merged.Balance(), Transactions: merged.Len()}
	}

	if response.CSV, err = output.CsvString(results); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	return response, nil
}

// statusFor maps simulation errors caused by the submitted configuration to
// 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrConfiguration),
		errors.Is(err, errs.ErrOutOfRange),
		errors.Is(err, errs.ErrInvalidTerm),
		errors.Is(err, errs.ErrInvalidOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) fail(w http.ResponseWriter, op string, err *requestError) {
	h.logger.Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", err.status),
		zap.String("error", err.msg),
	)
	h.writeJSON(w, err.status, map[string]string{"error": err.msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func buildSummaries(results []forecast.Forecast) []scenarioSummary {
	summaries := make([]scenarioSummary, 0, len(results))
	for _, f := range results {
		r := f.Result
		summary := scenarioSummary{
			ID:             f.ID.String(),
			Name:           f.Name,
			AccountBalance: r.Ledger.Balance(),
			LoanBalance:    r.LoanBalance,
			Periods:        r.Periods,
			PaymentsMade:   r.PaymentsMade,
			TotalPaid:      r.TotalPaid,
			TotalInterest:  r.TotalInterest,
			Transactions:   buildRows(f),
			Optimizations:  f.Optimizations,
		}
		if !r.StepDownDate.IsZero() {
			summary.StepDownDate = r.StepDownDate.Format(constants.DateLayout)
		}
		if r.PaidOff() {
			summary.PayoffDate = r.PayoffDate.Format(constants.DateLayout)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func buildRows(f forecast.Forecast) []transactionRow {
	txs := f.Ledger().Transactions()
	rows := make([]transactionRow, 0, len(txs))
	lastDate := ""
	for _, tx := range txs {
		date := tx.Date.Format(constants.DateLayout)
		row := transactionRow{
			Date:        date,
			Description: tx.Description,
			Amount:      tx.Amount,
			Balance:     tx.BalanceAfter,
			LoanBalance: tx.LoanBalance,
			Event:       tx.EventKey,
			Value:       tx.EventValue,
		}
		if date != lastDate {
			row.Notes = normalizeNotes(f.Notes[date])
			lastDate = date
		}
		rows = append(rows, row)
	}
	return rows
}

func buildComparisons(comparisons []forecast.Comparison) []comparisonMetric {
	if len(comparisons) == 0 {
		return nil
	}
	metrics := make([]comparisonMetric, 0, len(comparisons))
	for _, c := range comparisons {
		metrics = append(metrics, comparisonMetric{
			Baseline:              c.Baseline,
			Alternative:           c.Alternative,
			Savings:               c.Savings,
			LoanPaidDifference:    c.LoanPaidDifference,
			LoanBalanceDifference: c.LoanBalanceDifference,
		})
	}
	return metrics
}

func normalizeNotes(notes []string) []string {
	if len(notes) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
