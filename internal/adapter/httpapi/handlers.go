package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

const dateLayout = "2006-01-02"

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- instruments ---

type createInstrumentRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Ticker   string    `json:"ticker"`
	Category string    `json:"category"`
	Sector   string    `json:"sector"`
}

func (s *Server) handleCreateInstrument(w http.ResponseWriter, r *http.Request) {
	var req createInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	instrument := &domain.Instrument{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Ticker:       strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Category:     domain.Category(req.Category),
		Sector:       req.Sector,
		QuantityHeld: decimal.Zero,
		AveragePrice: decimal.Zero,
	}

	if err := instrument.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.Instruments.Create(r.Context(), instrument); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create instrument")
		return
	}

	s.respondJSON(w, http.StatusCreated, instrumentResponse(instrument))
}

func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	instruments, err := s.svc.Instruments.ListByUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list instruments")
		return
	}

	payload := make([]map[string]interface{}, 0, len(instruments))
	for _, instrument := range instruments {
		payload = append(payload, instrumentResponse(instrument))
	}

	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteInstrument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid instrument ID")
		return
	}

	if err := s.svc.Instruments.Delete(r.Context(), id); err != nil {
		s.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid instrument ID")
		return
	}

	if err := s.svc.Position.Recompute(r.Context(), id); err != nil {
		s.respondDomainError(w, err)
		return
	}

	instrument, err := s.svc.Instruments.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, instrumentResponse(instrument))
}

func instrumentResponse(instrument *domain.Instrument) map[string]interface{} {
	return map[string]interface{}{
		"id":             instrument.ID,
		"user_id":        instrument.UserID,
		"ticker":         instrument.Ticker,
		"category":       instrument.Category,
		"sector":         instrument.Sector,
		"quantity_held":  instrument.QuantityHeld,
		"average_price":  instrument.AveragePrice,
		"invested_value": instrument.InvestedValue(),
	}
}

// --- operations ---

type operationRequest struct {
	InstrumentID uuid.UUID       `json:"instrument_id"`
	Kind         string          `json:"kind"`
	Date         string          `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Fees         decimal.Decimal `json:"fees"`
}

func (s *Server) decodeOperation(r *http.Request) (*domain.Operation, error) {
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, err
	}

	return &domain.Operation{
		InstrumentID: req.InstrumentID,
		Kind:         domain.OperationKind(req.Kind),
		Date:         date,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Fees:         req.Fees,
	}, nil
}

func (s *Server) handleRecordOperation(w http.ResponseWriter, r *http.Request) {
	op, err := s.decodeOperation(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.Position.RecordOperation(r.Context(), op); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"id": op.ID})
}

func (s *Server) handleUpdateOperation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid operation ID")
		return
	}

	op, err := s.decodeOperation(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	op.ID = id

	if err := s.svc.Position.UpdateOperation(r.Context(), op); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"id": op.ID})
}

func (s *Server) handleDeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid operation ID")
		return
	}

	if err := s.svc.Position.DeleteOperation(r.Context(), id); err != nil {
		s.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- analysis / screener / health ---

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := s.svc.Analyzer.Analyze(r.Context(), userID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.svc.Screener.Scan(r.Context())
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "market scan failed")
		return
	}

	s.respondJSON(w, http.StatusOK, candidates)
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	snapshot, err := s.svc.Health.Diagnose(r.Context(), userID, time.Now())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, snapshot)
}

// --- cash flow / bills ---

type transactionRequest struct {
	UserID      uuid.UUID       `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Settled     bool            `json:"settled"`
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := &domain.Transaction{
		UserID:      req.UserID,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        domain.TransactionKind(req.Kind),
		Category:    domain.TransactionCategory(req.Category),
		Date:        date,
		Settled:     req.Settled,
	}

	if err := s.svc.Dashboard.RecordTransaction(r.Context(), tx); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"id": tx.ID})
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	summary, err := s.svc.Dashboard.GetCashFlow(r.Context(), userID, since)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, summary)
}

type billRequest struct {
	UserID     uuid.UUID       `json:"user_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"due_date"`
	Recurrence string          `json:"recurrence"`
}

func (s *Server) handleRecordBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid due_date, expected YYYY-MM-DD")
		return
	}

	bill := &domain.Bill{
		UserID:     req.UserID,
		Title:      req.Title,
		Amount:     req.Amount,
		DueDate:    dueDate,
		Recurrence: domain.BillRecurrence(req.Recurrence),
	}

	if err := s.svc.Dashboard.RecordBill(r.Context(), bill); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"id": bill.ID})
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	views, err := s.svc.Dashboard.ListBills(r.Context(), userID, time.Now())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	payload := make([]map[string]interface{}, 0, len(views))
	for _, view := range views {
		payload = append(payload, map[string]interface{}{
			"id":       view.Bill.ID,
			"title":    view.Bill.Title,
			"amount":   view.Bill.Amount,
			"due_date": view.Bill.DueDate.Format(dateLayout),
			"paid":     view.Bill.Paid,
			"status":   view.Status,
		})
	}

	s.respondJSON(w, http.StatusOK, payload)
}

// --- statements ---

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid year parameter")
			return
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			s.respondError(w, http.StatusBadRequest, "invalid month parameter")
			return
		}
		month = time.Month(m)
	}

	statements, err := s.svc.Statement.ProjectUserMonth(r.Context(), userID, year, month)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, statements)
}

// --- challenges ---

type challengeRequest struct {
	UserID        uuid.UUID       `json:"user_id"`
	Goal          string          `json:"goal"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Increment     decimal.Decimal `json:"increment"`
	DurationWeeks int             `json:"duration_weeks"`
	StartDate     string          `json:"start_date"`
}

func (s *Server) handleStartChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}

	ch := &domain.SavingsChallenge{
		UserID:        req.UserID,
		Goal:          req.Goal,
		InitialAmount: req.InitialAmount,
		Increment:     req.Increment,
		DurationWeeks: req.DurationWeeks,
		StartDate:     startDate,
	}

	if err := s.svc.Challenge.Start(r.Context(), ch); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":            ch.ID,
		"planned_total": ch.PlannedTotal(),
	})
}

func (s *Server) handleChallengeProgress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid challenge ID")
		return
	}

	progress, err := s.svc.Challenge.GetProgress(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, progress)
}

// --- response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps use case errors to HTTP statuses: validation
// errors become 400, missing entities 404, everything else 500.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("Request failed")
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
