/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TIME FORMATS:
  Punch timestamps travel as RFC3339; timesheet range bounds as
  YYYY-MM-DD; shift boundaries as minutes since midnight.

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - clock/types.go: The domain model these mirror
*/
package api

import (
	"time"

	"github.com/warp/clock-engine/clock"
)

// =============================================================================
// PUNCH / ENTRY TYPES
// =============================================================================

// PunchRequest is the body for clock-in/out and break punches.
type PunchRequest struct {
	CompanyID string `json:"company_id"`
	At        string `json:"at,omitempty"`     // RFC3339; empty = server time
	Method    string `json:"method,omitempty"` // web | device; empty = web
}

// ManualEntryRequest records a back-office entry.
type ManualEntryRequest struct {
	EmployeeID   string  `json:"employee_id"`
	CompanyID    string  `json:"company_id"`
	ClockIn      string  `json:"clock_in"`
	ClockOut     *string `json:"clock_out,omitempty"`
	ShiftID      *string `json:"shift_id,omitempty"`
	BreakMinutes int     `json:"break_minutes,omitempty"`
	Notes        string  `json:"notes"`
	ActorID      string  `json:"actor_id,omitempty"`
}

// AdjustRequest corrects a completed entry.
type AdjustRequest struct {
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	ActorID  string  `json:"actor_id,omitempty"`
}

// EntryDTO represents a time entry in API responses.
type EntryDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	CompanyID  string  `json:"company_id"`
	ShiftID    *string `json:"shift_id,omitempty"`

	ClockIn         string  `json:"clock_in"`
	ClockOut        *string `json:"clock_out,omitempty"`
	RoundedClockIn  string  `json:"rounded_clock_in"`
	RoundedClockOut *string `json:"rounded_clock_out,omitempty"`

	BreakStart   *string `json:"break_start,omitempty"`
	BreakEnd     *string `json:"break_end,omitempty"`
	BreakMinutes int     `json:"break_minutes"`

	Status string `json:"status"`

	TotalHours        *float64 `json:"total_hours,omitempty"`
	RegularHours      *float64 `json:"regular_hours,omitempty"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`
	ShiftDifferential *float64 `json:"shift_differential,omitempty"`

	ClockInMethod  string `json:"clock_in_method"`
	ClockOutMethod string `json:"clock_out_method,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// TimesheetDTO is the range query response: entries plus an aggregate
// over the closed ones.
type TimesheetDTO struct {
	EmployeeID string     `json:"employee_id"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Entries    []EntryDTO `json:"entries"`
	Summary    SummaryDTO `json:"summary"`
}

type SummaryDTO struct {
	Entries         int     `json:"entries"`
	TotalHours      float64 `json:"total_hours"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	BreakMinutes    int     `json:"break_minutes"`
	DifferentialPay float64 `json:"differential_pay"`
}

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// CreateShiftRequest defines a shift.
type CreateShiftRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartMinute  int    `json:"start_minute"`
	EndMinute    int    `json:"end_minute"`
	IsOvernight  bool   `json:"is_overnight"`
	BreakMinutes int    `json:"break_minutes"`
	BreakPaid    bool   `json:"break_paid"`

	DiffStartMinute *int     `json:"diff_start_minute,omitempty"`
	DiffEndMinute   *int     `json:"diff_end_minute,omitempty"`
	DiffRate        *float64 `json:"diff_rate,omitempty"`
}

// CreateAssignmentRequest links an employee to a shift.
type CreateAssignmentRequest struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	ShiftID       string  `json:"shift_id"`
	EffectiveFrom string  `json:"effective_from"` // YYYY-MM-DD
	EffectiveTo   *string `json:"effective_to,omitempty"`
	Primary       bool    `json:"primary"`
}

// CreateRuleRequest defines a company rounding rule.
type CreateRuleRequest struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	Scope           string `json:"scope"`
	IntervalMinutes int    `json:"interval_minutes"`
	Direction       string `json:"direction"`
	GraceMinutes    int    `json:"grace_minutes"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

func toEntryDTO(e *clock.TimeEntry) EntryDTO {
	dto := EntryDTO{
		ID:             string(e.ID),
		EmployeeID:     string(e.EmployeeID),
		CompanyID:      string(e.CompanyID),
		ClockIn:        e.ClockIn.Format(time.RFC3339),
		RoundedClockIn: e.RoundedClockIn.Format(time.RFC3339),
		BreakMinutes:   e.BreakMinutes,
		Status:         string(e.Status),
		ClockInMethod:  string(e.ClockInMethod),
		ClockOutMethod: string(e.ClockOutMethod),
		Notes:          e.Notes,
	}
	if e.ShiftID != nil {
		s := string(*e.ShiftID)
		dto.ShiftID = &s
	}
	dto.ClockOut = formatTimePtr(e.ClockOut)
	dto.RoundedClockOut = formatTimePtr(e.RoundedClockOut)
	dto.BreakStart = formatTimePtr(e.BreakStart)
	dto.BreakEnd = formatTimePtr(e.BreakEnd)

	if e.Status.IsClosed() {
		total, _ := e.TotalHours.Float64()
		regular, _ := e.RegularHours.Float64()
		overtime, _ := e.OvertimeHours.Float64()
		dto.TotalHours = &total
		dto.RegularHours = &regular
		dto.OvertimeHours = &overtime
	}
	if e.ShiftDifferential != nil {
		d, _ := e.ShiftDifferential.Float64()
		dto.ShiftDifferential = &d
	}
	return dto
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
