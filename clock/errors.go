/*
errors.go - Centralized error types for the clock engine

PURPOSE:
  All business-rule violations in one place. Every error here is expected
  and recoverable: the engine returns them as values, never panics, and a
  failed operation leaves prior state untouched.

ERROR CATEGORIES:
  1. State-machine guard violations (already open, no active session, ...)
  2. Time-ordering violations (clock-out before clock-in, ...)
  3. Configuration errors (malformed rounding rules, caught at load time)
  4. Input validation (manual entry without notes)

USAGE:
  Callers branch with errors.Is/errors.As:

    if errors.Is(err, clock.ErrSessionAlreadyOpen) {
        // 409 to the client
    }

SEE ALSO:
  - session.go: Returns these from state transitions
  - store.go: Repository contract referencing ErrEntryNotFound
*/
package clock

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSessionAlreadyOpen is returned when a clock-in finds an existing
	// Active or OnBreak session for the same employee and company.
	ErrSessionAlreadyOpen = errors.New("session already open")

	// ErrNoActiveSession is returned when a break or clock-out operation
	// finds no live session to act on.
	ErrNoActiveSession = errors.New("no active session")

	// ErrBreakAlreadyInProgress is returned when starting a break while
	// the session is already OnBreak.
	ErrBreakAlreadyInProgress = errors.New("break already in progress")

	// ErrNoBreakInProgress is returned when ending a break while the
	// session is not OnBreak.
	ErrNoBreakInProgress = errors.New("no break in progress")

	// ErrInvalidTimeOrdering is returned when timestamps are inconsistent,
	// e.g. clock-out at or before clock-in.
	ErrInvalidTimeOrdering = errors.New("invalid time ordering")

	// ErrInvalidRuleConfiguration is returned for malformed rounding rules.
	// Caught at rule-load time, never mid-computation.
	ErrInvalidRuleConfiguration = errors.New("invalid rounding rule configuration")

	// ErrMissingNotes is returned for manual entries without justification text.
	ErrMissingNotes = errors.New("manual entry requires notes")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrEntryNotAdjustable is returned when adjusting an entry whose
	// status is not Completed.
	ErrEntryNotAdjustable = errors.New("entry is not adjustable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SessionAlreadyOpenError reports the entry blocking a new clock-in.
type SessionAlreadyOpenError struct {
	EmployeeID EmployeeID
	CompanyID  CompanyID
	ExistingID EntryID
	Status     EntryStatus
}

func (e *SessionAlreadyOpenError) Error() string {
	return fmt.Sprintf("employee %s already has an open session %s (status %s)",
		e.EmployeeID, e.ExistingID, e.Status)
}

func (e *SessionAlreadyOpenError) Unwrap() error { return ErrSessionAlreadyOpen }

// TimeOrderingError reports which pair of timestamps is inconsistent.
type TimeOrderingError struct {
	Field   string // e.g. "clock_out", "break_end"
	Earlier time.Time
	Later   time.Time
}

func (e *TimeOrderingError) Error() string {
	return fmt.Sprintf("%s %s must be strictly after %s",
		e.Field, e.Later.Format(time.RFC3339), e.Earlier.Format(time.RFC3339))
}

func (e *TimeOrderingError) Unwrap() error { return ErrInvalidTimeOrdering }

// RuleConfigError reports a malformed rounding rule.
type RuleConfigError struct {
	Rule   string
	Reason string
}

func (e *RuleConfigError) Error() string {
	return fmt.Sprintf("rounding rule %s: %s", e.Rule, e.Reason)
}

func (e *RuleConfigError) Unwrap() error { return ErrInvalidRuleConfiguration }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a rejected state transition, as opposed to an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrSessionAlreadyOpen) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrBreakAlreadyInProgress) ||
		errors.Is(err, ErrNoBreakInProgress) ||
		errors.Is(err, ErrInvalidTimeOrdering) ||
		errors.Is(err, ErrMissingNotes) ||
		errors.Is(err, ErrEntryNotAdjustable)
}

// IsConflict returns true for state-machine guard violations that map to
// an HTTP 409 at the API boundary.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionAlreadyOpen) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrBreakAlreadyInProgress) ||
		errors.Is(err, ErrNoBreakInProgress) ||
		errors.Is(err, ErrEntryNotAdjustable)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
