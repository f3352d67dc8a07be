/*
hours.go - Hour derivation from a finalized session

PURPOSE:
  Derives total/regular/overtime hours and the shift differential from a
  closed TimeEntry. This runs exactly once at clock-out (and again on
  adjustment), and is the only code allowed to populate the derived hour
  fields.

ALGORITHM:
  1. gross   = roundedClockOut - roundedClockIn
  2. paid    = gross - breakMinutes (skipped when the shift's break is paid)
  3. total   = paid / 60
  4. regular = min(total, regularCap)       (cap from CalcConfig, default 8)
  5. overtime= total - regular
  6. differential = overlap(worked window, shift differential window) * rate

  All outputs are rounded to 2 decimal places half-up, once at the end,
  never per intermediate step. The invariant total == regular + overtime
  survives the final rounding because the cap is exact at 2 places.

VALIDATION:
  Negative gross or paid time is a time-ordering violation returned to the
  caller, never clamped silently.

SEE ALSO:
  - types.go: CalcConfig, HoursBreakdown, DifferentialWindow
  - session.go: Invokes ComputeHours on clock-out and adjust
*/
package clock

import (
	"time"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

// ComputeHours derives the hour breakdown for a closed entry.
// entry must have a rounded clock-out; shift may be nil (no break config,
// no differential). Fails with ErrInvalidTimeOrdering when the rounded
// window or the break deduction is non-positive.
func ComputeHours(entry *TimeEntry, shift *Shift, cfg CalcConfig) (HoursBreakdown, error) {
	if entry.RoundedClockOut == nil {
		return HoursBreakdown{}, &TimeOrderingError{
			Field:   "clock_out",
			Earlier: entry.RoundedClockIn,
			Later:   entry.RoundedClockIn,
		}
	}

	in := entry.RoundedClockIn
	out := *entry.RoundedClockOut

	gross := out.Sub(in)
	if gross <= 0 {
		return HoursBreakdown{}, &TimeOrderingError{Field: "clock_out", Earlier: in, Later: out}
	}

	paid := gross
	breakIsPaid := shift != nil && shift.BreakPaid
	if !breakIsPaid && entry.BreakMinutes > 0 {
		paid -= time.Duration(entry.BreakMinutes) * time.Minute
		if paid < 0 {
			return HoursBreakdown{}, &TimeOrderingError{Field: "break_end", Earlier: in, Later: out}
		}
	}

	total := hoursFromDuration(paid)

	capHours := cfg.RegularCapHours
	if capHours.IsZero() {
		capHours = DefaultCalcConfig().RegularCapHours
	}

	regular := total
	if regular.GreaterThan(capHours) {
		regular = capHours
	}
	overtime := total.Sub(regular)

	breakdown := HoursBreakdown{
		TotalHours:    total.Round(2),
		RegularHours:  regular.Round(2),
		OvertimeHours: overtime.Round(2),
	}

	if shift != nil && shift.Differential != nil {
		overlap := differentialOverlap(in, out, *shift.Differential)
		if overlap > 0 {
			pay := hoursFromDuration(overlap).Mul(shift.Differential.Rate).Round(2)
			breakdown.ShiftDifferential = &pay
		}
	}

	return breakdown, nil
}

// hoursFromDuration converts a duration to decimal hours without
// intermediate rounding.
func hoursFromDuration(d time.Duration) decimal.Decimal {
	seconds := int64(d / time.Second)
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
}

// differentialOverlap sums the overlap between the worked interval
// [in, out) and the differential window on every day the interval spans.
// A window whose end is at or before its start crosses midnight
// (e.g. 22:00-06:00) and extends into the following day.
func differentialOverlap(in, out time.Time, w DifferentialWindow) time.Duration {
	var total time.Duration

	// Start one day early so a midnight-crossing window that began the
	// previous evening is still considered.
	day := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, in.Location()).AddDate(0, 0, -1)

	for !day.After(out) {
		winStart := day.Add(time.Duration(w.StartMinute) * time.Minute)
		endMinute := int(w.EndMinute)
		if w.CrossesMidnight() {
			endMinute += minutesPerDay
		}
		winEnd := day.Add(time.Duration(endMinute) * time.Minute)

		total += overlap(in, out, winStart, winEnd)
		day = day.AddDate(0, 0, 1)
	}

	return total
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// Summarize aggregates closed entries into a timesheet rollup. Open
// entries are skipped; reporting only sees finalized hours.
func Summarize(entries []TimeEntry) TimesheetSummary {
	s := TimesheetSummary{
		TotalHours:    decimal.Zero,
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
	}
	for i := range entries {
		e := &entries[i]
		if !e.Status.IsClosed() {
			continue
		}
		s.Entries++
		s.TotalHours = s.TotalHours.Add(e.TotalHours)
		s.RegularHours = s.RegularHours.Add(e.RegularHours)
		s.OvertimeHours = s.OvertimeHours.Add(e.OvertimeHours)
		s.BreakMinutes += e.BreakMinutes
		if e.ShiftDifferential != nil {
			s.DifferentialPay = s.DifferentialPay.Add(*e.ShiftDifferential)
		}
	}
	return s
}

// TimesheetSummary is the aggregate view over a date range of entries.
type TimesheetSummary struct {
	Entries         int
	TotalHours      decimal.Decimal
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	BreakMinutes    int
	DifferentialPay decimal.Decimal
}
