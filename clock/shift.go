/*
shift.go - Shift resolution for an employee on a date

PURPOSE:
  Read-only lookup of the shift that applies to an employee on a given
  date. Assignments come from external configuration; this file only
  implements the selection rule.

SELECTION RULE:
  1. Keep assignments whose (EffectiveFrom, EffectiveTo) range contains
     the date and that are marked primary.
  2. If several qualify (a configuration error upstream), the most
     recently effective one wins; ties break on assignment ID so the
     outcome is deterministic.
  3. No qualifying assignment -> nil shift. The session engine tolerates
     a clock-in with no shift.

SEE ALSO:
  - store.go: ShiftDirectory interface
  - session.go: Resolution happens once, at clock-in
*/
package clock

import (
	"sort"
	"time"
)

// ResolveShift selects the applicable shift from a set of assignments.
// Returns nil when no assignment covers the date.
func ResolveShift(assignments []ShiftAssignment, date time.Time) *Shift {
	var candidates []ShiftAssignment
	for _, a := range assignments {
		if a.Primary && a.ActiveOn(date) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Most recently effective wins; tie-break on ID for determinism.
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].EffectiveFrom.Equal(candidates[j].EffectiveFrom) {
			return candidates[i].EffectiveFrom.After(candidates[j].EffectiveFrom)
		}
		return candidates[i].ID > candidates[j].ID
	})

	shift := candidates[0].Shift
	return &shift
}
