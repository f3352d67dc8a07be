/*
session.go - Per-employee-day clock session state machine

PURPOSE:
  Orchestrates the session lifecycle:

    NoSession -> Active -> {OnBreak <-> Active} -> Completed -> Adjusted

  Each punch is a single logical operation: read current state through the
  repository, check the transition guard, apply the effect, write back.
  A failed guard returns a typed error and leaves prior state untouched.

POLICY DECISIONS (explicit, tested):
  - Clock-out while OnBreak force-closes the break at the clock-out time
    rather than rejecting the punch.
  - Break minutes accumulate across repeated OnBreak cycles; the entry's
    BreakStart/BreakEnd record the most recent break only.
  - A manual entry with no clock-out stays Active and still honors the
    single-open-session invariant; a closed manual entry never conflicts.
  - Adjust requires status Completed exactly; Adjusted is terminal.

CONCURRENCY:
  Operations for the same (employee, company) are serialized with a keyed
  mutex held across the read-guard-write window, so concurrent clock-ins
  cannot both pass the no-open-session guard. Different employees proceed
  fully in parallel; the engine keeps no other mutable state.

SEE ALSO:
  - rounding.go: Every stored timestamp passes through Round
  - hours.go: Invoked once on close, again on adjust
  - store.go: Repository and collaborator contracts
*/
package clock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Engine executes clock-session operations. Zero-value fields other than
// Entries, Shifts and Rules are optional: Audit may be nil, Config falls
// back to the default regular cap.
type Engine struct {
	Entries EntryRepository
	Shifts  ShiftDirectory
	Rules   RoundingRuleLookup
	Audit   AuditLog
	Config  CalcConfig

	mu    sync.Mutex
	locks map[sessionKey]*sync.Mutex
}

type sessionKey struct {
	EmployeeID EmployeeID
	CompanyID  CompanyID
}

// NewEngine wires an engine with the default calculation config.
func NewEngine(entries EntryRepository, shifts ShiftDirectory, rules RoundingRuleLookup) *Engine {
	return &Engine{
		Entries: entries,
		Shifts:  shifts,
		Rules:   rules,
		Config:  DefaultCalcConfig(),
	}
}

// lockFor returns the serialization mutex for one employee+company pair.
// Locks are never evicted; the map grows with the distinct employees seen,
// bounded by the size of the workforce.
func (e *Engine) lockFor(employeeID EmployeeID, companyID CompanyID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locks == nil {
		e.locks = make(map[sessionKey]*sync.Mutex)
	}
	k := sessionKey{EmployeeID: employeeID, CompanyID: companyID}
	l, ok := e.locks[k]
	if !ok {
		l = &sync.Mutex{}
		e.locks[k] = l
	}
	return l
}

var entrySeq uint64

func newEntryID(at time.Time) EntryID {
	return EntryID(fmt.Sprintf("entry-%d-%d", at.UnixNano(), atomic.AddUint64(&entrySeq, 1)))
}

// =============================================================================
// PUNCH INPUTS
// =============================================================================

// PunchInput identifies a live punch: who, when, and through what channel.
type PunchInput struct {
	EmployeeID EmployeeID
	CompanyID  CompanyID
	At         time.Time
	Method     EntryMethod // defaults to web
}

func (p PunchInput) method() EntryMethod {
	if p.Method == "" {
		return MethodWeb
	}
	return p.Method
}

// ManualEntryInput is a back-office entry. It bypasses the live-punch
// guards but must carry a justification and still passes through rounding
// and hour calculation.
type ManualEntryInput struct {
	EmployeeID   EmployeeID
	CompanyID    CompanyID
	ClockIn      time.Time
	ClockOut     *time.Time
	ShiftID      *ShiftID // nil = resolve from assignments at ClockIn date
	BreakMinutes int
	Notes        string
	ActorID      string
}

// AdjustInput corrects a completed entry. Nil timestamps keep the
// existing raw value.
type AdjustInput struct {
	EntryID     EntryID
	NewClockIn  *time.Time
	NewClockOut *time.Time
	Notes       string
	ActorID     string
}

// =============================================================================
// LIVE PUNCHES
// =============================================================================

// ClockIn opens a new session. Guard: no existing Active or OnBreak entry
// for the employee.
func (e *Engine) ClockIn(ctx context.Context, in PunchInput) (*TimeEntry, error) {
	lock := e.lockFor(in.EmployeeID, in.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	open, err := e.Entries.GetOpenSession(ctx, in.EmployeeID, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load open session: %w", err)
	}
	if open != nil {
		return nil, &SessionAlreadyOpenError{
			EmployeeID: in.EmployeeID,
			CompanyID:  in.CompanyID,
			ExistingID: open.ID,
			Status:     open.Status,
		}
	}

	rule, err := e.ruleFor(ctx, in.CompanyID, ScopeClockIn)
	if err != nil {
		return nil, err
	}

	var shiftID *ShiftID
	shift, err := e.Shifts.ShiftFor(ctx, in.EmployeeID, in.At)
	if err != nil {
		return nil, fmt.Errorf("resolve shift: %w", err)
	}
	if shift != nil {
		id := shift.ID
		shiftID = &id
	}

	now := in.At
	entry := &TimeEntry{
		ID:             newEntryID(now),
		EmployeeID:     in.EmployeeID,
		CompanyID:      in.CompanyID,
		ShiftID:        shiftID,
		ClockIn:        now,
		RoundedClockIn: Round(now, rule, ScopeClockIn),
		Status:         StatusActive,
		ClockInMethod:  in.method(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// StartBreak moves an Active session to OnBreak.
func (e *Engine) StartBreak(ctx context.Context, in PunchInput) (*TimeEntry, error) {
	lock := e.lockFor(in.EmployeeID, in.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := e.Entries.GetOpenSession(ctx, in.EmployeeID, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load open session: %w", err)
	}
	if entry == nil {
		return nil, ErrNoActiveSession
	}
	if entry.Status == StatusOnBreak {
		return nil, ErrBreakAlreadyInProgress
	}
	if !in.At.After(entry.ClockIn) {
		return nil, &TimeOrderingError{Field: "break_start", Earlier: entry.ClockIn, Later: in.At}
	}

	at := in.At
	entry.BreakStart = &at
	entry.BreakEnd = nil
	entry.Status = StatusOnBreak
	entry.UpdatedAt = at

	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// EndBreak returns an OnBreak session to Active, folding the break length
// into the accumulated break minutes.
func (e *Engine) EndBreak(ctx context.Context, in PunchInput) (*TimeEntry, error) {
	lock := e.lockFor(in.EmployeeID, in.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := e.Entries.GetOpenSession(ctx, in.EmployeeID, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load open session: %w", err)
	}
	if entry == nil {
		return nil, ErrNoActiveSession
	}
	if entry.Status != StatusOnBreak {
		return nil, ErrNoBreakInProgress
	}

	if err := closeBreak(entry, in.At); err != nil {
		return nil, err
	}
	entry.Status = StatusActive
	entry.UpdatedAt = in.At

	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// ClockOut closes the session and finalizes hours. An open break is
// force-closed at the clock-out time first.
func (e *Engine) ClockOut(ctx context.Context, in PunchInput) (*TimeEntry, error) {
	lock := e.lockFor(in.EmployeeID, in.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := e.Entries.GetOpenSession(ctx, in.EmployeeID, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load open session: %w", err)
	}
	if entry == nil {
		return nil, ErrNoActiveSession
	}
	if !in.At.After(entry.ClockIn) {
		return nil, &TimeOrderingError{Field: "clock_out", Earlier: entry.ClockIn, Later: in.At}
	}

	if entry.Status == StatusOnBreak {
		if err := closeBreak(entry, in.At); err != nil {
			return nil, err
		}
	}

	rule, err := e.ruleFor(ctx, in.CompanyID, ScopeClockOut)
	if err != nil {
		return nil, err
	}

	at := in.At
	rounded := Round(at, rule, ScopeClockOut)
	entry.ClockOut = &at
	entry.RoundedClockOut = &rounded
	entry.ClockOutMethod = in.method()

	if err := e.finalize(ctx, entry, StatusCompleted); err != nil {
		return nil, err
	}
	entry.UpdatedAt = at

	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// closeBreak records the end of the open break and accumulates its length,
// rounded to whole minutes.
func closeBreak(entry *TimeEntry, at time.Time) error {
	if entry.BreakStart == nil || !at.After(*entry.BreakStart) {
		start := entry.ClockIn
		if entry.BreakStart != nil {
			start = *entry.BreakStart
		}
		return &TimeOrderingError{Field: "break_end", Earlier: start, Later: at}
	}
	end := at
	entry.BreakEnd = &end
	entry.BreakMinutes += int(at.Sub(*entry.BreakStart).Round(time.Minute) / time.Minute)
	return nil
}

// =============================================================================
// MANUAL ENTRIES & ADJUSTMENTS
// =============================================================================

// ManualEntry records a back-office entry. Closed entries (clock-out
// present) go straight through the calculation pipeline; open ones stay
// Active and are later closed by a normal clock-out.
func (e *Engine) ManualEntry(ctx context.Context, in ManualEntryInput) (*TimeEntry, error) {
	if strings.TrimSpace(in.Notes) == "" {
		return nil, ErrMissingNotes
	}
	if in.BreakMinutes < 0 {
		return nil, fmt.Errorf("%w: negative break minutes", ErrInvalidTimeOrdering)
	}
	if in.ClockOut != nil && !in.ClockOut.After(in.ClockIn) {
		return nil, &TimeOrderingError{Field: "clock_out", Earlier: in.ClockIn, Later: *in.ClockOut}
	}

	lock := e.lockFor(in.EmployeeID, in.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	// A manual entry bypasses the live-punch guards, but an OPEN manual
	// entry would become a second live session, so the single-open
	// invariant still applies to it.
	if in.ClockOut == nil {
		open, err := e.Entries.GetOpenSession(ctx, in.EmployeeID, in.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("load open session: %w", err)
		}
		if open != nil {
			return nil, &SessionAlreadyOpenError{
				EmployeeID: in.EmployeeID,
				CompanyID:  in.CompanyID,
				ExistingID: open.ID,
				Status:     open.Status,
			}
		}
	}

	shift, shiftID, err := e.shiftForEntry(ctx, in.EmployeeID, in.ShiftID, in.ClockIn)
	if err != nil {
		return nil, err
	}

	inRule, err := e.ruleFor(ctx, in.CompanyID, ScopeClockIn)
	if err != nil {
		return nil, err
	}
	outRule, err := e.ruleFor(ctx, in.CompanyID, ScopeClockOut)
	if err != nil {
		return nil, err
	}

	roundedIn, roundedOut := RoundPair(in.ClockIn, in.ClockOut, inRule, outRule)

	now := time.Now()
	entry := &TimeEntry{
		ID:              newEntryID(now),
		EmployeeID:      in.EmployeeID,
		CompanyID:       in.CompanyID,
		ShiftID:         shiftID,
		ClockIn:         in.ClockIn,
		ClockOut:        in.ClockOut,
		RoundedClockIn:  roundedIn,
		RoundedClockOut: roundedOut,
		BreakMinutes:    in.BreakMinutes,
		Status:          StatusActive,
		ClockInMethod:   MethodManual,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.ClockOut != nil {
		entry.ClockOutMethod = MethodManual
		breakdown, err := ComputeHours(entry, shift, e.Config)
		if err != nil {
			return nil, err
		}
		applyBreakdown(entry, breakdown, StatusCompleted)
	}

	if err := e.appendAudit(ctx, AuditManualEntry, entry.ID, in.ActorID, now, TimeEntry{}); err != nil {
		return nil, err
	}
	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// Adjust corrects a Completed entry: overwrite the provided raw stamps,
// re-derive rounded stamps and hours, and mark the entry Adjusted. The
// pre-adjustment snapshot is appended to the audit log before the
// overwriting save; a failed append aborts the adjustment so prior values
// are never lost.
func (e *Engine) Adjust(ctx context.Context, in AdjustInput) (*TimeEntry, error) {
	entry, err := e.Entries.GetEntry(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}

	lock := e.lockFor(entry.EmployeeID, entry.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; the entry may have changed since the lookup.
	entry, err = e.Entries.GetEntry(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: entry %s has status %s", ErrEntryNotAdjustable, entry.ID, entry.Status)
	}

	prior := *entry

	if in.NewClockIn != nil {
		entry.ClockIn = *in.NewClockIn
		entry.ClockInMethod = MethodManual
	}
	if in.NewClockOut != nil {
		out := *in.NewClockOut
		entry.ClockOut = &out
		entry.ClockOutMethod = MethodManual
	}
	if entry.ClockOut == nil || !entry.ClockOut.After(entry.ClockIn) {
		later := entry.ClockIn
		if entry.ClockOut != nil {
			later = *entry.ClockOut
		}
		return nil, &TimeOrderingError{Field: "clock_out", Earlier: entry.ClockIn, Later: later}
	}

	// The recorded break must still fall inside the adjusted window;
	// otherwise the stale break minutes would be deducted from hours the
	// break never overlapped.
	if entry.BreakStart != nil && !entry.BreakStart.After(entry.ClockIn) {
		return nil, &TimeOrderingError{Field: "break_start", Earlier: entry.ClockIn, Later: *entry.BreakStart}
	}
	if entry.BreakEnd != nil && entry.BreakEnd.After(*entry.ClockOut) {
		return nil, &TimeOrderingError{Field: "clock_out", Earlier: *entry.BreakEnd, Later: *entry.ClockOut}
	}

	inRule, err := e.ruleFor(ctx, entry.CompanyID, ScopeClockIn)
	if err != nil {
		return nil, err
	}
	outRule, err := e.ruleFor(ctx, entry.CompanyID, ScopeClockOut)
	if err != nil {
		return nil, err
	}
	entry.RoundedClockIn, entry.RoundedClockOut = RoundPair(entry.ClockIn, entry.ClockOut, inRule, outRule)

	if err := e.finalize(ctx, entry, StatusAdjusted); err != nil {
		return nil, err
	}
	if in.Notes != "" {
		entry.Notes = in.Notes
	}

	now := time.Now()
	entry.UpdatedAt = now
	if err := e.appendAudit(ctx, AuditAdjust, entry.ID, in.ActorID, now, prior); err != nil {
		return nil, err
	}

	if err := e.Entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// OpenSession returns the employee's live session, or nil.
func (e *Engine) OpenSession(ctx context.Context, employeeID EmployeeID, companyID CompanyID) (*TimeEntry, error) {
	return e.Entries.GetOpenSession(ctx, employeeID, companyID)
}

// Timesheet returns the employee's entries in [from, to] with an
// aggregate over the closed ones.
func (e *Engine) Timesheet(ctx context.Context, employeeID EmployeeID, companyID CompanyID, from, to time.Time) ([]TimeEntry, TimesheetSummary, error) {
	entries, err := e.Entries.ListEntries(ctx, employeeID, companyID, from, to)
	if err != nil {
		return nil, TimesheetSummary{}, err
	}
	return entries, Summarize(entries), nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// finalize computes hours for a closed entry and stamps the new status.
func (e *Engine) finalize(ctx context.Context, entry *TimeEntry, status EntryStatus) error {
	shift, err := e.shiftByID(ctx, entry.ShiftID)
	if err != nil {
		return err
	}
	breakdown, err := ComputeHours(entry, shift, e.Config)
	if err != nil {
		return err
	}
	applyBreakdown(entry, breakdown, status)
	return nil
}

func applyBreakdown(entry *TimeEntry, b HoursBreakdown, status EntryStatus) {
	entry.TotalHours = b.TotalHours
	entry.RegularHours = b.RegularHours
	entry.OvertimeHours = b.OvertimeHours
	entry.ShiftDifferential = b.ShiftDifferential
	entry.Status = status
}

func (e *Engine) ruleFor(ctx context.Context, companyID CompanyID, side RoundScope) (*RoundingRule, error) {
	if e.Rules == nil {
		return nil, nil
	}
	rule, err := e.Rules.RuleFor(ctx, companyID, side)
	if err != nil {
		return nil, fmt.Errorf("resolve rounding rule: %w", err)
	}
	return rule, nil
}

func (e *Engine) shiftByID(ctx context.Context, id *ShiftID) (*Shift, error) {
	if id == nil || e.Shifts == nil {
		return nil, nil
	}
	shift, err := e.Shifts.GetShift(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("load shift: %w", err)
	}
	return shift, nil
}

// shiftForEntry resolves the shift for a manual entry: explicit ShiftID if
// provided, assignment lookup at the clock-in date otherwise.
func (e *Engine) shiftForEntry(ctx context.Context, employeeID EmployeeID, explicit *ShiftID, at time.Time) (*Shift, *ShiftID, error) {
	if explicit != nil {
		shift, err := e.shiftByID(ctx, explicit)
		if err != nil {
			return nil, nil, err
		}
		return shift, explicit, nil
	}
	if e.Shifts == nil {
		return nil, nil, nil
	}
	shift, err := e.Shifts.ShiftFor(ctx, employeeID, at)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve shift: %w", err)
	}
	if shift == nil {
		return nil, nil, nil
	}
	id := shift.ID
	return shift, &id, nil
}

// appendAudit records the snapshot if an audit log is configured. The
// append runs before the overwriting save, and a failed append aborts the
// operation: pre-change values must never be lost.
func (e *Engine) appendAudit(ctx context.Context, action AuditAction, entryID EntryID, actor string, at time.Time, prior TimeEntry) error {
	if e.Audit == nil {
		return nil
	}
	err := e.Audit.Append(ctx, AuditRecord{
		ID:         fmt.Sprintf("audit-%d-%d", at.UnixNano(), atomic.AddUint64(&entrySeq, 1)),
		EntryID:    entryID,
		ActorID:    actor,
		Action:     action,
		RecordedAt: at,
		Prior:      prior,
	})
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
