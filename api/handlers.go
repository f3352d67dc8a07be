/*
handlers.go - HTTP API handlers for the clock engine

PURPOSE:
  Exposes the clock engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates every state transition to the engine.

ENDPOINTS:
  Punches:
    POST   /api/employees/{id}/clock-in     Open a session
    POST   /api/employees/{id}/clock-out    Close the session
    POST   /api/employees/{id}/break/start  Start a break
    POST   /api/employees/{id}/break/end    End the break
    GET    /api/employees/{id}/session      Current open session
    GET    /api/employees/{id}/entries      Timesheet range query

  Entries:
    POST   /api/entries                     Manual back-office entry
    GET    /api/entries/{id}                Load one entry
    POST   /api/entries/{id}/adjust         Correct a completed entry

  Admin:
    POST   /api/admin/shifts                Define a shift
    POST   /api/admin/assignments           Assign a shift to an employee
    POST   /api/admin/rules                 Define a rounding rule

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, malformed rules
  - 404: Entry not found
  - 409: State-machine conflicts (double clock-in, no active session, ...)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - clock/session.go: The engine behind every mutating endpoint
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/clock-engine/clock"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// ConfigStore persists the engine's external configuration: shifts,
// assignments and rounding rules. The SQLite store implements it.
type ConfigStore interface {
	SaveShift(ctx context.Context, shift clock.Shift) error
	SaveAssignment(ctx context.Context, a clock.ShiftAssignment) error
	SaveRule(ctx context.Context, rule clock.RoundingRule) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *clock.Engine
	Config ConfigStore
}

// NewHandler creates a new handler around an engine and its config store.
func NewHandler(engine *clock.Engine, config ConfigStore) *Handler {
	return &Handler{Engine: engine, Config: config}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// ClockIn opens a session for the employee.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.Engine.ClockIn)
}

// ClockOut closes the employee's open session.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.Engine.ClockOut)
}

// StartBreak moves the open session to OnBreak.
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.Engine.StartBreak)
}

// EndBreak returns the open session to Active.
func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.Engine.EndBreak)
}

func (h *Handler) punch(w http.ResponseWriter, r *http.Request, op func(context.Context, clock.PunchInput) (*clock.TimeEntry, error)) {
	employeeID := clock.EmployeeID(chi.URLParam(r, "id"))

	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}

	at := time.Now()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
			return
		}
		at = parsed
	}

	method := clock.EntryMethod(req.Method)
	if req.Method != "" {
		parsed, ok := clock.ParseEntryMethod(req.Method)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid method (web|manual|device)", nil)
			return
		}
		method = parsed
	}

	entry, err := op(r.Context(), clock.PunchInput{
		EmployeeID: employeeID,
		CompanyID:  clock.CompanyID(req.CompanyID),
		At:         at,
		Method:     method,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// GetSession returns the employee's current open session, if any.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	employeeID := clock.EmployeeID(chi.URLParam(r, "id"))
	companyID := clock.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}

	entry, err := h.Engine.OpenSession(r.Context(), employeeID, companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "No open session", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// GetTimesheet returns the employee's entries in a date range with totals.
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	employeeID := clock.EmployeeID(chi.URLParam(r, "id"))
	companyID := clock.CompanyID(r.URL.Query().Get("company_id"))
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}

	from, err := parseDateParam(r, "from", time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseDateParam(r, "to", time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	// Make the upper bound inclusive of the whole day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	entries, summary, err := h.Engine.Timesheet(r.Context(), employeeID, companyID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load timesheet", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}

	writeJSON(w, http.StatusOK, TimesheetDTO{
		EmployeeID: string(employeeID),
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		Entries:    dtos,
		Summary: SummaryDTO{
			Entries:         summary.Entries,
			TotalHours:      decimalFloat(summary.TotalHours),
			RegularHours:    decimalFloat(summary.RegularHours),
			OvertimeHours:   decimalFloat(summary.OvertimeHours),
			BreakMinutes:    summary.BreakMinutes,
			DifferentialPay: decimalFloat(summary.DifferentialPay),
		},
	})
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// CreateManualEntry records a back-office entry.
func (h *Handler) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var req ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" || req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "employee_id and company_id are required", nil)
		return
	}

	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_in timestamp (use RFC3339)", err)
		return
	}
	clockOut, err := parseTimePtr(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_out timestamp (use RFC3339)", err)
		return
	}

	var shiftID *clock.ShiftID
	if req.ShiftID != nil {
		id := clock.ShiftID(*req.ShiftID)
		shiftID = &id
	}

	entry, err := h.Engine.ManualEntry(r.Context(), clock.ManualEntryInput{
		EmployeeID:   clock.EmployeeID(req.EmployeeID),
		CompanyID:    clock.CompanyID(req.CompanyID),
		ClockIn:      clockIn,
		ClockOut:     clockOut,
		ShiftID:      shiftID,
		BreakMinutes: req.BreakMinutes,
		Notes:        req.Notes,
		ActorID:      req.ActorID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// GetEntry returns a single entry by ID.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := clock.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Engine.Entries.GetEntry(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// AdjustEntry corrects a completed entry.
func (h *Handler) AdjustEntry(w http.ResponseWriter, r *http.Request) {
	id := clock.EntryID(chi.URLParam(r, "id"))

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	newIn, err := parseTimePtr(req.ClockIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_in timestamp (use RFC3339)", err)
		return
	}
	newOut, err := parseTimePtr(req.ClockOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_out timestamp (use RFC3339)", err)
		return
	}

	entry, err := h.Engine.Adjust(r.Context(), clock.AdjustInput{
		EntryID:     id,
		NewClockIn:  newIn,
		NewClockOut: newOut,
		Notes:       req.Notes,
		ActorID:     req.ActorID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// CreateShift defines a shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	shift := clock.Shift{
		ID:           clock.ShiftID(req.ID),
		Name:         req.Name,
		StartMinute:  clock.MinuteOfDay(req.StartMinute),
		EndMinute:    clock.MinuteOfDay(req.EndMinute),
		IsOvernight:  req.IsOvernight,
		BreakMinutes: req.BreakMinutes,
		BreakPaid:    req.BreakPaid,
	}
	if req.DiffStartMinute != nil && req.DiffEndMinute != nil && req.DiffRate != nil {
		shift.Differential = &clock.DifferentialWindow{
			StartMinute: clock.MinuteOfDay(*req.DiffStartMinute),
			EndMinute:   clock.MinuteOfDay(*req.DiffEndMinute),
			Rate:        decimal.NewFromFloat(*req.DiffRate),
		}
	}

	if err := h.Config.SaveShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// CreateAssignment links an employee to a shift.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from date (use YYYY-MM-DD)", err)
		return
	}
	var to *time.Time
	if req.EffectiveTo != nil {
		parsed, err := time.Parse("2006-01-02", *req.EffectiveTo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_to date (use YYYY-MM-DD)", err)
			return
		}
		to = &parsed
	}

	assignment := clock.ShiftAssignment{
		ID:            req.ID,
		EmployeeID:    clock.EmployeeID(req.EmployeeID),
		ShiftID:       clock.ShiftID(req.ShiftID),
		EffectiveFrom: from,
		EffectiveTo:   to,
		Primary:       req.Primary,
	}

	if err := h.Config.SaveAssignment(r.Context(), assignment); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// CreateRule defines a company rounding rule. Malformed rules are
// rejected here, before they can influence any punch.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule := clock.RoundingRule{
		ID:              req.ID,
		CompanyID:       clock.CompanyID(req.CompanyID),
		Scope:           clock.RoundScope(req.Scope),
		IntervalMinutes: req.IntervalMinutes,
		Direction:       clock.RoundDirection(req.Direction),
		GraceMinutes:    req.GraceMinutes,
	}

	if err := h.Config.SaveRule(r.Context(), rule); err != nil {
		if errors.Is(err, clock.ErrInvalidRuleConfiguration) {
			writeError(w, http.StatusBadRequest, "Invalid rounding rule", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case clock.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Entry not found", err)
	case clock.IsConflict(err):
		writeError(w, http.StatusConflict, "Operation conflicts with current state", err)
	case clock.IsClientError(err) || errors.Is(err, clock.ErrInvalidRuleConfiguration):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Operation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

func decimalFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
