package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/vehicle-loan/internal/config"
	"github.com/iwvelando/vehicle-loan/internal/report"
	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/format"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/output"
	"github.com/iwvelando/vehicle-loan/pkg/store"
	"github.com/iwvelando/vehicle-loan/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options configures the API handler. Zero values select an in-memory store,
// a first-match engine, the system clock and the default upload limit.
type Options struct {
	Store         store.Storage
	Engine        *loans.Engine
	Clock         datetime.Clock
	MaxUploadSize int64
	Version       string
}

type handler struct {
	logger        *zap.Logger
	store         store.Storage
	engine        *loans.Engine
	clock         datetime.Clock
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the loan API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{
		logger:        logger,
		store:         opts.Store,
		engine:        opts.Engine,
		clock:         opts.Clock,
		maxUploadSize: opts.MaxUploadSize,
		version:       strings.TrimSpace(opts.Version),
	}
	if h.store == nil {
		h.store = store.NewMemoryStore()
	}
	if h.engine == nil {
		h.engine = loans.NewEngine(logger, loans.FirstMatch)
	}
	if h.clock == nil {
		h.clock = datetime.SystemClock{}
	}
	if h.maxUploadSize <= 0 {
		h.maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if h.version == "" {
		h.version = "dev"
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Stateless evaluation of a loan posted in the body
	api.HandleFunc("/schedule", h.handleSchedule).Methods(http.MethodPost)

	// Stored loans
	api.HandleFunc("/loans", h.handleListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans", h.handleCreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", h.handleGetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.handleUpdateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id}", h.handleDeleteLoan).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{id}/extra-payments", h.handleAddExtraPayment).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/schedule", h.handleLoanSchedule).Methods(http.MethodGet)

	// Portfolio download in configuration form
	api.HandleFunc("/export", h.handleExport).Methods(http.MethodGet)

	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	return router
}

type loanRequest struct {
	ID            string                `json:"id,omitempty"`
	Name          string                `json:"name"`
	StartDate     string                `json:"startDate"`
	Principal     float64               `json:"principal"`
	DownPayment   float64               `json:"downPayment"`
	InterestRate  float64               `json:"interestRate"`
	Term          int                   `json:"term"`
	ExtraPayments []extraPaymentRequest `json:"extraPayments,omitempty"`
}

type extraPaymentRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

func (req loanRequest) toLoan() (loans.Loan, error) {
	conf := config.Loan{
		ID:           req.ID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		Principal:    req.Principal,
		DownPayment:  req.DownPayment,
		InterestRate: req.InterestRate,
		Term:         req.Term,
	}
	for _, extra := range req.ExtraPayments {
		conf.ExtraPayments = append(conf.ExtraPayments, config.ExtraPayment(extra))
	}
	return conf.ToLoan()
}

type loanResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	StartDate      string                 `json:"startDate"`
	Principal      float64                `json:"principal"`
	DownPayment    float64                `json:"downPayment"`
	InterestRate   float64                `json:"interestRate"`
	Term           int                    `json:"term"`
	MonthlyPayment float64                `json:"monthlyPayment"`
	ExtraPayments  []extraPaymentResponse `json:"extraPayments"`
	Warnings       []string               `json:"warnings,omitempty"`
}

type extraPaymentResponse struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

type summaryResponse struct {
	MonthlyPayment      float64 `json:"monthlyPayment"`
	MonthsElapsed       int     `json:"monthsElapsed"`
	MonthsRemaining     int     `json:"monthsRemaining"`
	PayoffDate          string  `json:"payoffDate"`
	CurrentBalance      float64 `json:"currentBalance"`
	InterestPaidToDate  float64 `json:"interestPaidToDate"`
	PrincipalPaidToDate float64 `json:"principalPaidToDate"`
	TotalInterest       float64 `json:"totalInterest"`
	TotalCost           float64 `json:"totalCost"`
	ScheduledInterest   float64 `json:"scheduledInterest"`
	ProjectedPayoffDate string  `json:"projectedPayoffDate"`
}

type scheduleRow struct {
	Month            int     `json:"month"`
	Date             string  `json:"date"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remainingBalance"`
}

type scheduleResponse struct {
	Loan     loanResponse    `json:"loan"`
	AsOf     string          `json:"asOf"`
	Summary  summaryResponse `json:"summary"`
	Schedule []scheduleRow   `json:"schedule"`
	CSV      string          `json:"csv"`
	Warnings []string        `json:"warnings,omitempty"`
	Duration string          `json:"duration"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	start := time.Now()

	now, err := h.evaluationTime(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var req loanRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	loan, err := req.toLoan()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeSchedule(w, loan, now, start, op)
}

func (h *handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListLoans"

	stored, err := h.store.ListLoans()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	responses := make([]loanResponse, 0, len(stored))
	for _, loan := range stored {
		responses = append(responses, h.newLoanResponse(loan))
	}
	h.writeJSON(w, http.StatusOK, responses)
}

func (h *handler) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateLoan"

	var req loanRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	loan, err := req.toLoan()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if err := h.store.CreateLoan(loan); err != nil {
		h.respondError(w, http.StatusConflict, err.Error(), op)
		return
	}

	h.logger.Info("loan created",
		zap.String("op", op),
		zap.String("id", loan.ID.String()),
		zap.String("name", loan.Name),
	)
	h.writeJSON(w, http.StatusCreated, h.newLoanResponse(loan))
}

func (h *handler) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetLoan"

	loan, ok := h.loadLoan(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.newLoanResponse(loan))
}

func (h *handler) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateLoan"

	id, ok := h.loanID(w, r, op)
	if !ok {
		return
	}

	var req loanRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	req.ID = id.String()

	loan, err := req.toLoan()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if err := h.store.UpdateLoan(loan); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.newLoanResponse(loan))
}

func (h *handler) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteLoan"

	id, ok := h.loanID(w, r, op)
	if !ok {
		return
	}

	if err := h.store.DeleteLoan(id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.logger.Info("loan deleted", zap.String("op", op), zap.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleAddExtraPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddExtraPayment"

	loan, ok := h.loadLoan(w, r, op)
	if !ok {
		return
	}

	var req extraPaymentRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	date, err := datetime.ParseDate(req.Date)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	extra := loans.ExtraPayment{Date: date, Amount: req.Amount, Note: req.Note}

	updated := loan.WithExtraPayment(extra)
	if err := updated.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if err := h.store.AddExtraPayment(loan.ID, extra); err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.logger.Info(fmt.Sprintf("extra payment of %.2f recorded for %s", extra.Amount, format.Date(extra.Date)),
		zap.String("op", op),
		zap.String("id", loan.ID.String()),
	)
	h.writeJSON(w, http.StatusCreated, h.newLoanResponse(updated))
}

func (h *handler) handleLoanSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoanSchedule"
	start := time.Now()

	now, err := h.evaluationTime(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	loan, ok := h.loadLoan(w, r, op)
	if !ok {
		return
	}

	h.writeSchedule(w, loan, now, start, op)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	stored, err := h.store.ListLoans()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	portfolio := config.Configuration{
		ExtraPaymentPolicy: h.engine.Policy().String(),
		Loans:              make([]config.Loan, 0, len(stored)),
	}
	for _, loan := range stored {
		portfolio.Loans = append(portfolio.Loans, config.FromLoan(loan))
	}

	yamlBytes, err := yaml.Marshal(portfolio)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) writeSchedule(w http.ResponseWriter, loan loans.Loan, now, start time.Time, op string) {
	result := report.BuildOne(h.logger, h.engine, loan, now)

	response := scheduleResponse{
		Loan:     h.newLoanResponse(loan),
		AsOf:     format.Date(now),
		Summary:  newSummaryResponse(result.Summary),
		Schedule: make([]scheduleRow, 0, len(result.Schedule)),
		CSV:      output.CsvString([]report.Report{result}),
		Warnings: result.Warnings,
	}
	response.Loan.Warnings = nil
	for _, entry := range result.Schedule {
		response.Schedule = append(response.Schedule, scheduleRow{
			Month:            entry.MonthNumber,
			Date:             format.Date(entry.Date),
			Payment:          entry.Payment,
			Principal:        entry.Principal,
			Interest:         entry.Interest,
			RemainingBalance: entry.RemainingBalance,
		})
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.String("loan", loan.Name),
		zap.Int("months", len(response.Schedule)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) newLoanResponse(loan loans.Loan) loanResponse {
	response := loanResponse{
		ID:             loan.ID.String(),
		Name:           loan.Name,
		StartDate:      format.Date(loan.StartDate),
		Principal:      loan.Principal,
		DownPayment:    loan.DownPayment,
		InterestRate:   loan.AnnualInterestRatePercent,
		Term:           loan.TermMonths,
		MonthlyPayment: loan.MonthlyPayment,
		ExtraPayments:  make([]extraPaymentResponse, 0, len(loan.ExtraPayments)),
		Warnings:       validation.LoanWarnings(loan, h.engine.Policy()),
	}
	for _, extra := range loan.ExtraPayments {
		response.ExtraPayments = append(response.ExtraPayments, extraPaymentResponse{
			Date:   format.Date(extra.Date),
			Amount: extra.Amount,
			Note:   extra.Note,
		})
	}
	return response
}

func newSummaryResponse(s loans.Summary) summaryResponse {
	return summaryResponse{
		MonthlyPayment:      s.MonthlyPayment,
		MonthsElapsed:       s.MonthsElapsed,
		MonthsRemaining:     s.MonthsRemaining,
		PayoffDate:          format.Date(s.PayoffDate),
		CurrentBalance:      s.CurrentBalance,
		InterestPaidToDate:  s.InterestPaidToDate,
		PrincipalPaidToDate: s.PrincipalPaidToDate,
		TotalInterest:       s.TotalInterest,
		TotalCost:           s.TotalCost,
		ScheduledInterest:   s.ScheduledInterest,
		ProjectedPayoffDate: format.Date(s.ProjectedPayoffDate),
	}
}

// evaluationTime honours a ?now=YYYY-MM-DD override of the server clock.
func (h *handler) evaluationTime(r *http.Request) (time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get("now"))
	if value == "" {
		return h.clock.Now(), nil
	}
	now, err := datetime.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now parameter: %w", err)
	}
	return now, nil
}

func (h *handler) loanID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid loan ID", op)
		return uuid.Nil, false
	}
	return id, true
}

func (h *handler) loadLoan(w http.ResponseWriter, r *http.Request, op string) (loans.Loan, bool) {
	id, ok := h.loanID(w, r, op)
	if !ok {
		return loans.Loan{}, false
	}
	loan, err := h.store.GetLoan(id)
	if err != nil {
		h.respondStoreError(w, err, op)
		return loans.Loan{}, false
	}
	return loan, true
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.respondError(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("loan request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
