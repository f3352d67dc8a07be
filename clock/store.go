/*
store.go - Persistence and collaborator interfaces

PURPOSE:
  Defines the boundary between the engine and everything external to it:
  entry persistence, shift-assignment configuration, rounding-rule
  configuration, and the audit trail. The engine is stateless between
  calls; every operation resolves current state fresh through these
  interfaces and never caches it.

TRANSACTION SCOPE:
  Each state transition is one read-guard-write cycle. The engine holds a
  per-employee lock across that cycle; implementations should additionally
  enforce the single-open-session invariant at the storage level (the
  SQLite store uses a partial unique index) so concurrent processes cannot
  race past the guard.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite persistence
  - clock/store (memory): In-memory, for tests and dev

SEE ALSO:
  - session.go: The only consumer of these interfaces
  - store/sqlite/sqlite.go: Concrete implementation
*/
package clock

import (
	"context"
	"time"
)

// =============================================================================
// ENTRY REPOSITORY
// =============================================================================

// EntryRepository persists time entries. GetOpenSession returns (nil, nil)
// when the employee has no live session; GetEntry fails with
// ErrEntryNotFound for unknown IDs.
type EntryRepository interface {
	// GetOpenSession returns the single Active or OnBreak entry for the
	// employee, or nil when none exists.
	GetOpenSession(ctx context.Context, employeeID EmployeeID, companyID CompanyID) (*TimeEntry, error)

	// GetEntry loads one entry by ID.
	GetEntry(ctx context.Context, id EntryID) (*TimeEntry, error)

	// Save inserts or replaces an entry atomically.
	Save(ctx context.Context, entry *TimeEntry) error

	// ListEntries returns the employee's entries whose clock-in falls in
	// [from, to], ordered by clock-in ascending.
	ListEntries(ctx context.Context, employeeID EmployeeID, companyID CompanyID, from, to time.Time) ([]TimeEntry, error)
}

// =============================================================================
// SHIFT DIRECTORY
// =============================================================================

// ShiftDirectory resolves shift configuration. ShiftFor applies the
// selection rule in shift.go over the employee's assignments; both methods
// return (nil, nil) when nothing matches, which the engine tolerates.
type ShiftDirectory interface {
	// ShiftFor returns the shift applicable to the employee on the date.
	ShiftFor(ctx context.Context, employeeID EmployeeID, date time.Time) (*Shift, error)

	// GetShift returns a shift by ID.
	GetShift(ctx context.Context, id ShiftID) (*Shift, error)
}

// =============================================================================
// ROUNDING RULE LOOKUP
// =============================================================================

// RoundingRuleLookup resolves the rounding rule in force for a company and
// punch side. Returns (nil, nil) when the company has no applicable rule;
// rounding is opt-in. Implementations must only hand out validated rules.
type RoundingRuleLookup interface {
	RuleFor(ctx context.Context, companyID CompanyID, side RoundScope) (*RoundingRule, error)
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// AuditAction identifies what produced an audit record.
type AuditAction string

const (
	AuditManualEntry AuditAction = "manual_entry"
	AuditAdjust      AuditAction = "adjust"
)

// AuditRecord preserves the pre-change snapshot of an entry. Written
// before the overwriting save so prior values are never lost.
type AuditRecord struct {
	ID         string
	EntryID    EntryID
	ActorID    string
	Action     AuditAction
	RecordedAt time.Time

	// Snapshot of the entry before the change. Zero-valued for creations.
	Prior TimeEntry
}

// AuditLog stores audit records. Append-only.
type AuditLog interface {
	Append(ctx context.Context, record AuditRecord) error
}
