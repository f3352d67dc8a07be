// Package store provides in-memory implementations of the clock engine's
// persistence interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/clock-engine/clock"
)

// =============================================================================
// MEMORY STORE - Entries, shifts, assignments, rules, audit in one place
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	entries     map[clock.EntryID]clock.TimeEntry
	shifts      map[clock.ShiftID]clock.Shift
	assignments map[clock.EmployeeID][]clock.ShiftAssignment
	rules       map[clock.CompanyID][]clock.RoundingRule
	audit       []clock.AuditRecord
}

func NewMemory() *Memory {
	return &Memory{
		entries:     make(map[clock.EntryID]clock.TimeEntry),
		shifts:      make(map[clock.ShiftID]clock.Shift),
		assignments: make(map[clock.EmployeeID][]clock.ShiftAssignment),
		rules:       make(map[clock.CompanyID][]clock.RoundingRule),
	}
}

// Interface checks
var (
	_ clock.EntryRepository    = (*Memory)(nil)
	_ clock.ShiftDirectory     = (*Memory)(nil)
	_ clock.RoundingRuleLookup = (*Memory)(nil)
	_ clock.AuditLog           = (*Memory)(nil)
)

// =============================================================================
// ENTRY REPOSITORY
// =============================================================================

func (m *Memory) GetOpenSession(_ context.Context, employeeID clock.EmployeeID, companyID clock.CompanyID) (*clock.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.CompanyID == companyID && e.Status.IsOpen() {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetEntry(_ context.Context, id clock.EntryID) (*clock.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, clock.ErrEntryNotFound
	}
	out := e
	return &out, nil
}

func (m *Memory) Save(_ context.Context, entry *clock.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = *entry
	return nil
}

func (m *Memory) ListEntries(_ context.Context, employeeID clock.EmployeeID, companyID clock.CompanyID, from, to time.Time) ([]clock.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []clock.TimeEntry
	for _, e := range m.entries {
		if e.EmployeeID != employeeID || e.CompanyID != companyID {
			continue
		}
		if e.ClockIn.Before(from) || e.ClockIn.After(to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClockIn.Before(result[j].ClockIn) })
	return result, nil
}

// =============================================================================
// SHIFT DIRECTORY
// =============================================================================

func (m *Memory) SaveShift(shift clock.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
}

func (m *Memory) SaveAssignment(a clock.ShiftAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift, ok := m.shifts[a.ShiftID]; ok && a.Shift.ID == "" {
		a.Shift = shift
	}
	m.assignments[a.EmployeeID] = append(m.assignments[a.EmployeeID], a)
}

func (m *Memory) ShiftFor(_ context.Context, employeeID clock.EmployeeID, date time.Time) (*clock.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clock.ResolveShift(m.assignments[employeeID], date), nil
}

func (m *Memory) GetShift(_ context.Context, id clock.ShiftID) (*clock.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shift, ok := m.shifts[id]
	if !ok {
		return nil, nil
	}
	out := shift
	return &out, nil
}

// =============================================================================
// ROUNDING RULES
// =============================================================================

// SaveRule validates and stores a rule. Malformed rules are rejected here,
// at load time, so they never reach Round.
func (m *Memory) SaveRule(rule clock.RoundingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.CompanyID] = append(m.rules[rule.CompanyID], rule)
	return nil
}

func (m *Memory) RuleFor(_ context.Context, companyID clock.CompanyID, side clock.RoundScope) (*clock.RoundingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rules[companyID] {
		if r.AppliesTo(side) {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (m *Memory) Append(_ context.Context, record clock.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, record)
	return nil
}

// AuditRecords returns a copy of the audit trail, oldest first.
func (m *Memory) AuditRecords() []clock.AuditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]clock.AuditRecord, len(m.audit))
	copy(out, m.audit)
	return out
}
