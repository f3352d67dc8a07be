/*
rounding.go - Punch rounding policy

PURPOSE:
  Pure functions mapping a raw punch timestamp plus a rounding rule to a
  rounded timestamp. This is the only code allowed to produce the
  RoundedClockIn/RoundedClockOut fields of a TimeEntry.

ALGORITHM:
  Work in minutes-of-day. With remainder = minutesOfDay mod interval:

    remainder <= grace              -> snap down (already at the boundary)
    remainder >= interval - grace   -> snap up to the next boundary
    otherwise                       -> apply the rule direction

  Both grace comparisons are inclusive. Ties under "nearest"
  (remainder == interval/2) round up. "employer_favor" rounds the side
  that shortens paid time: clock-ins up, clock-outs down.

  Seconds and sub-minute components are discarded before rounding.
  Rounding up from late evening may cross midnight; the result simply
  lands on the next calendar day.

OPT-IN:
  Rounding is opt-in per company. A nil rule, or a rule whose scope does
  not cover the requested side, makes Round the identity function.

VALIDATION:
  Malformed rules (interval <= 0, grace >= interval) are configuration
  errors rejected by RoundingRule.Validate at load time. Round assumes a
  valid rule.

SEE ALSO:
  - types.go: RoundingRule, RoundScope, RoundDirection
  - session.go: Call sites for each punch
*/
package clock

import "time"

// Round maps a raw punch time to its rounded form under the given rule.
// side identifies which punch is being rounded; employer_favor depends on it.
// A nil or non-applicable rule returns raw unchanged.
func Round(raw time.Time, rule *RoundingRule, side RoundScope) time.Time {
	if rule == nil || !rule.AppliesTo(side) {
		return raw
	}

	interval := rule.IntervalMinutes
	minuteOfDay := raw.Hour()*60 + raw.Minute()
	remainder := minuteOfDay % interval

	down := minuteOfDay - remainder
	up := down + interval

	var target int
	switch {
	case remainder <= rule.GraceMinutes:
		target = down
	case remainder >= interval-rule.GraceMinutes:
		target = up
	default:
		switch rule.Direction {
		case DirectionUp:
			target = up
		case DirectionDown:
			target = down
		case DirectionEmployerFavor:
			if side == ScopeClockIn {
				target = up
			} else {
				target = down
			}
		default: // DirectionNearest; ties round up
			if 2*remainder >= interval {
				target = up
			} else {
				target = down
			}
		}
	}

	midnight := time.Date(raw.Year(), raw.Month(), raw.Day(), 0, 0, 0, 0, raw.Location())
	return midnight.Add(time.Duration(target) * time.Minute)
}

// RoundPair rounds both punch sides of an entry in one call, resolving the
// applicable rule per side. Either rule may be nil.
func RoundPair(in time.Time, out *time.Time, inRule, outRule *RoundingRule) (time.Time, *time.Time) {
	roundedIn := Round(in, inRule, ScopeClockIn)
	if out == nil {
		return roundedIn, nil
	}
	roundedOut := Round(*out, outRule, ScopeClockOut)
	return roundedIn, &roundedOut
}
