/*
Package clock implements the time & attendance clock engine.

PURPOSE:
  This package contains the core types and algorithms that turn raw
  clock-in/clock-out/break punches into accounted work time. It covers:
  - Punch rounding against configurable company rules (rounding.go)
  - Shift resolution for an employee on a date (shift.go)
  - The per-employee-day session state machine (session.go)
  - Regular/overtime/break-adjusted hour derivation (hours.go)

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeEntry: The persisted unit of work for one open-or-closed session
  - RoundingRule: Company configuration mapping raw punch times to rounded ones
  - Shift: Scheduled start/end window with break and differential config
  - CalcConfig: Per-company hour-calculation knobs (regular cap)

DESIGN PRINCIPLES:
  1. Purity: Rounding and hour calculation are side-effect-free functions
  2. Precision: Uses decimal.Decimal for all derived hour/pay amounts
  3. Type Safety: Strong typing for IDs prevents mixing employee/shift IDs
  4. Explicit State: Entry status is a closed set validated at the store
     boundary, so the engine never sees malformed states

SEE ALSO:
  - session.go: State machine consuming and producing TimeEntry values
  - store.go: Persistence and collaborator interfaces
  - errors.go: Business-rule error taxonomy
*/
package clock

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type CompanyID string
type ShiftID string
type EntryID string

// =============================================================================
// ENTRY STATUS & METHOD - Closed sets, validated at the store boundary
// =============================================================================

type EntryStatus string

const (
	StatusActive    EntryStatus = "active"
	StatusOnBreak   EntryStatus = "on_break"
	StatusCompleted EntryStatus = "completed"
	StatusAdjusted  EntryStatus = "adjusted"
)

// IsOpen reports whether the status represents a live session.
func (s EntryStatus) IsOpen() bool {
	return s == StatusActive || s == StatusOnBreak
}

// IsClosed reports whether hours have been finalized for this status.
func (s EntryStatus) IsClosed() bool {
	return s == StatusCompleted || s == StatusAdjusted
}

// ParseEntryStatus validates a raw status string from storage.
func ParseEntryStatus(raw string) (EntryStatus, bool) {
	switch EntryStatus(raw) {
	case StatusActive, StatusOnBreak, StatusCompleted, StatusAdjusted:
		return EntryStatus(raw), true
	}
	return "", false
}

// EntryMethod records how a punch reached the engine. Tracked independently
// for clock-in and clock-out: a web clock-in may be closed by a manual edit.
type EntryMethod string

const (
	MethodWeb    EntryMethod = "web"
	MethodManual EntryMethod = "manual"
	MethodDevice EntryMethod = "device"
)

// ParseEntryMethod validates a raw method string from storage.
func ParseEntryMethod(raw string) (EntryMethod, bool) {
	switch EntryMethod(raw) {
	case MethodWeb, MethodManual, MethodDevice:
		return EntryMethod(raw), true
	}
	return "", false
}

// =============================================================================
// TIME ENTRY - One open-or-closed session per employee-day
// =============================================================================

// TimeEntry is the persisted unit of work. Raw timestamps are immutable once
// written (except via Adjust); rounded timestamps are derived, recomputed
// only by the rounding policy, never edited independently.
type TimeEntry struct {
	ID         EntryID
	EmployeeID EmployeeID
	CompanyID  CompanyID

	// Shift active at clock-in. Immutable once set. Nil when the employee
	// has no assignment; the engine tolerates shiftless sessions.
	ShiftID *ShiftID

	// Raw punch timestamps.
	ClockIn  time.Time
	ClockOut *time.Time

	// Derived from the raw stamps and the rounding rule in force at write time.
	RoundedClockIn  time.Time
	RoundedClockOut *time.Time

	// Most recent break window. BreakMinutes accumulates across repeated
	// OnBreak cycles within the session.
	BreakStart   *time.Time
	BreakEnd     *time.Time
	BreakMinutes int

	Status EntryStatus

	// Present only when Status is Completed or Adjusted.
	TotalHours    decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	// Present only if the shift defines a differential window and the
	// worked window overlaps it.
	ShiftDifferential *decimal.Decimal

	ClockInMethod  EntryMethod
	ClockOutMethod EntryMethod

	// Required justification for manual entries.
	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the session is still live.
func (e *TimeEntry) IsOpen() bool { return e.Status.IsOpen() }

// =============================================================================
// ROUNDING RULE - External configuration, read-only to the engine
// =============================================================================

type RoundScope string

const (
	ScopeClockIn  RoundScope = "clock_in"
	ScopeClockOut RoundScope = "clock_out"
	ScopeBoth     RoundScope = "both"
)

type RoundDirection string

const (
	DirectionNearest RoundDirection = "nearest"
	DirectionUp      RoundDirection = "up"
	DirectionDown    RoundDirection = "down"
	// DirectionEmployerFavor rounds clock-ins up and clock-outs down,
	// always shortening paid time.
	DirectionEmployerFavor RoundDirection = "employer_favor"
)

// RoundingRule maps raw punch times to rounded times for payroll purposes.
// Rounding is opt-in per company: no rule means identity.
type RoundingRule struct {
	ID        string
	CompanyID CompanyID

	// Which punch sides this rule applies to.
	Scope RoundScope

	// Boundary spacing in minutes. Must be > 0, typically divides 60.
	IntervalMinutes int

	Direction RoundDirection

	// Window around each boundary that rounds toward the boundary
	// regardless of Direction. Must satisfy 0 <= grace < interval.
	GraceMinutes int
}

// AppliesTo reports whether the rule covers the given punch side.
func (r *RoundingRule) AppliesTo(side RoundScope) bool {
	return r.Scope == ScopeBoth || r.Scope == side
}

// Validate rejects malformed rules. Called at rule-load time so invalid
// configuration never reaches Round.
func (r *RoundingRule) Validate() error {
	if r.IntervalMinutes <= 0 {
		return &RuleConfigError{Rule: r.ID, Reason: "interval must be positive"}
	}
	if r.GraceMinutes < 0 || r.GraceMinutes >= r.IntervalMinutes {
		return &RuleConfigError{Rule: r.ID, Reason: "grace must satisfy 0 <= grace < interval"}
	}
	switch r.Direction {
	case DirectionNearest, DirectionUp, DirectionDown, DirectionEmployerFavor:
	default:
		return &RuleConfigError{Rule: r.ID, Reason: "unknown direction " + string(r.Direction)}
	}
	switch r.Scope {
	case ScopeClockIn, ScopeClockOut, ScopeBoth:
	default:
		return &RuleConfigError{Rule: r.ID, Reason: "unknown scope " + string(r.Scope)}
	}
	return nil
}

// =============================================================================
// SHIFT - External schedule configuration
// =============================================================================

// MinuteOfDay is minutes since local midnight, in [0, 1440).
type MinuteOfDay int

// DifferentialWindow designates hours that earn an extra pay rate,
// e.g. a night window 22:00-06:00 (which crosses midnight).
type DifferentialWindow struct {
	StartMinute MinuteOfDay
	EndMinute   MinuteOfDay
	Rate        decimal.Decimal // extra rate per differential hour
}

// CrossesMidnight reports whether the window wraps past 24:00.
func (w DifferentialWindow) CrossesMidnight() bool {
	return w.EndMinute <= w.StartMinute
}

// Shift is the scheduled work window an employee is assigned to.
type Shift struct {
	ID   ShiftID
	Name string

	StartMinute MinuteOfDay
	EndMinute   MinuteOfDay
	IsOvernight bool

	// Default break for the shift, and whether it is paid. An unpaid break
	// is deducted from gross time; a paid break is not.
	BreakMinutes int
	BreakPaid    bool

	Differential *DifferentialWindow
}

// ShiftAssignment links an employee to a shift over an effective range.
// An employee may have several assignments; Resolve picks the winner.
type ShiftAssignment struct {
	ID         string
	EmployeeID EmployeeID
	ShiftID    ShiftID
	Shift      Shift

	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = still active
	Primary       bool
}

// ActiveOn reports whether the assignment covers the given date. Each
// timestamp is reduced to its calendar date in its own location; truncating
// against the UTC epoch would shift non-UTC punches by a day.
func (a ShiftAssignment) ActiveOn(date time.Time) bool {
	day := calendarDate(date)
	if day.Before(calendarDate(a.EffectiveFrom)) {
		return false
	}
	if a.EffectiveTo != nil && day.After(calendarDate(*a.EffectiveTo)) {
		return false
	}
	return true
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// CALCULATION CONFIG - External knobs for hour derivation
// =============================================================================

// CalcConfig carries per-company hour-calculation configuration.
// The regular cap and break-paid defaults are deliberately NOT constants:
// they arrive from configuration alongside the entry being computed.
type CalcConfig struct {
	// RegularCapHours is the per-session regular-hours ceiling; time beyond
	// it is overtime.
	RegularCapHours decimal.Decimal
}

// DefaultCalcConfig returns the stock configuration: 8-hour regular cap.
func DefaultCalcConfig() CalcConfig {
	return CalcConfig{RegularCapHours: decimal.NewFromInt(8)}
}

// HoursBreakdown is the output of the hours calculator.
type HoursBreakdown struct {
	TotalHours    decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	// Nil unless the shift defines a differential window overlapping the
	// worked interval.
	ShiftDifferential *decimal.Decimal
}
