package clock

import (
	"testing"
	"time"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func atSec(hour, minute, sec int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, sec, 0, time.UTC)
}

func nearestRule(interval, grace int) *RoundingRule {
	return &RoundingRule{
		ID: "r", CompanyID: "co", Scope: ScopeBoth,
		IntervalMinutes: interval, Direction: DirectionNearest, GraceMinutes: grace,
	}
}

// =============================================================================
// ROUNDING TABLE TESTS
// =============================================================================

func TestRound_NearestWithGrace(t *testing.T) {
	rule := nearestRule(15, 3)

	cases := []struct {
		name string
		raw  time.Time
		want time.Time
	}{
		// remainder 7 is outside both grace windows; 7 < 7.5 rounds down
		{"midpoint-low rounds down", at(9, 7), at(9, 0)},
		// remainder 13 >= 15-3 triggers grace round up
		{"grace rounds up", at(9, 13), at(9, 15)},
		// remainder 3 == grace, boundary inclusive, rounds down
		{"grace boundary down", at(9, 3), at(9, 0)},
		// remainder 12 == interval-grace, boundary inclusive, rounds up
		{"grace boundary up", at(9, 12), at(9, 15)},
		// already on a boundary stays put
		{"on boundary", at(9, 30), at(9, 30)},
		// remainder 8 > 7.5 rounds up
		{"midpoint-high rounds up", at(9, 8), at(9, 15)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round(tc.raw, rule, ScopeClockIn)
			if !got.Equal(tc.want) {
				t.Errorf("Round(%s) = %s, want %s",
					tc.raw.Format("15:04"), got.Format("15:04"), tc.want.Format("15:04"))
			}
		})
	}
}

func TestRound_NearestTieRoundsUp(t *testing.T) {
	// Interval 10, remainder 5 is exactly half: ties round up.
	rule := nearestRule(10, 0)
	got := Round(at(9, 5), rule, ScopeClockIn)
	if !got.Equal(at(9, 10)) {
		t.Errorf("tie should round up, got %s", got.Format("15:04"))
	}
}

func TestRound_Directions(t *testing.T) {
	cases := []struct {
		name      string
		direction RoundDirection
		side      RoundScope
		raw       time.Time
		want      time.Time
	}{
		{"up always up", DirectionUp, ScopeClockIn, at(9, 1), at(9, 15)},
		{"down always down", DirectionDown, ScopeClockIn, at(9, 14), at(9, 0)},
		{"employer_favor clock-in up", DirectionEmployerFavor, ScopeClockIn, at(9, 5), at(9, 15)},
		{"employer_favor clock-out down", DirectionEmployerFavor, ScopeClockOut, at(17, 10), at(17, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := &RoundingRule{
				ID: "r", Scope: ScopeBoth,
				IntervalMinutes: 15, Direction: tc.direction, GraceMinutes: 0,
			}
			got := Round(tc.raw, rule, tc.side)
			if !got.Equal(tc.want) {
				t.Errorf("Round(%s) = %s, want %s",
					tc.raw.Format("15:04"), got.Format("15:04"), tc.want.Format("15:04"))
			}
		})
	}
}

func TestRound_EmployerFavorWithGrace(t *testing.T) {
	// GIVEN: employer_favor, interval 15, grace 3
	// WHEN: clock-in 08:58 (remainder 13 >= 12) and clock-out 17:04 (remainder 4)
	// THEN: 08:58 -> 09:00 via grace; 17:04 -> 17:00 via direction

	rule := &RoundingRule{
		ID: "r", Scope: ScopeBoth,
		IntervalMinutes: 15, Direction: DirectionEmployerFavor, GraceMinutes: 3,
	}

	in := Round(at(8, 58), rule, ScopeClockIn)
	if !in.Equal(at(9, 0)) {
		t.Errorf("clock-in 08:58 = %s, want 09:00", in.Format("15:04"))
	}

	out := Round(at(17, 4), rule, ScopeClockOut)
	if !out.Equal(at(17, 0)) {
		t.Errorf("clock-out 17:04 = %s, want 17:00", out.Format("15:04"))
	}
}

func TestRound_DiscardsSeconds(t *testing.T) {
	rule := nearestRule(15, 3)
	// 09:02:59 is remainder 2 regardless of seconds
	got := Round(atSec(9, 2, 59), rule, ScopeClockIn)
	if !got.Equal(at(9, 0)) {
		t.Errorf("seconds must be discarded before rounding, got %s", got.Format("15:04:05"))
	}
}

func TestRound_NoRuleIsIdentity(t *testing.T) {
	raw := atSec(9, 7, 42)

	if got := Round(raw, nil, ScopeClockIn); !got.Equal(raw) {
		t.Errorf("nil rule must be identity, got %s", got)
	}

	// Rule scoped to clock-out only does not touch clock-ins.
	outOnly := &RoundingRule{ID: "r", Scope: ScopeClockOut, IntervalMinutes: 15, Direction: DirectionNearest}
	if got := Round(raw, outOnly, ScopeClockIn); !got.Equal(raw) {
		t.Errorf("non-matching scope must be identity, got %s", got)
	}
}

func TestRound_CrossesMidnight(t *testing.T) {
	rule := nearestRule(15, 0)
	raw := time.Date(2025, time.March, 10, 23, 58, 0, 0, time.UTC)
	want := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	got := Round(raw, rule, ScopeClockOut)
	if !got.Equal(want) {
		t.Errorf("23:58 should round into the next day, got %s", got)
	}
}

func TestRound_Idempotent(t *testing.T) {
	rules := []*RoundingRule{
		nearestRule(15, 3),
		nearestRule(10, 0),
		{ID: "u", Scope: ScopeBoth, IntervalMinutes: 6, Direction: DirectionUp, GraceMinutes: 1},
		{ID: "d", Scope: ScopeBoth, IntervalMinutes: 30, Direction: DirectionDown, GraceMinutes: 5},
		{ID: "e", Scope: ScopeBoth, IntervalMinutes: 15, Direction: DirectionEmployerFavor, GraceMinutes: 2},
	}

	for _, rule := range rules {
		for minute := 0; minute < 120; minute++ {
			raw := at(8, 0).Add(time.Duration(minute) * time.Minute)
			for _, side := range []RoundScope{ScopeClockIn, ScopeClockOut} {
				once := Round(raw, rule, side)
				twice := Round(once, rule, side)
				if !twice.Equal(once) {
					t.Fatalf("rule %s: Round not idempotent at %s (side %s): %s != %s",
						rule.ID, raw.Format("15:04"), side, once, twice)
				}
			}
		}
	}
}

// =============================================================================
// RULE VALIDATION
// =============================================================================

func TestRoundingRule_Validate(t *testing.T) {
	cases := []struct {
		name    string
		rule    RoundingRule
		wantErr bool
	}{
		{"valid", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: 15, Direction: DirectionNearest, GraceMinutes: 3}, false},
		{"zero interval", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: 0, Direction: DirectionNearest}, true},
		{"negative interval", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: -5, Direction: DirectionNearest}, true},
		{"grace equals interval", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: 15, Direction: DirectionNearest, GraceMinutes: 15}, true},
		{"negative grace", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: 15, Direction: DirectionNearest, GraceMinutes: -1}, true},
		{"bad direction", RoundingRule{ID: "r", Scope: ScopeBoth, IntervalMinutes: 15, Direction: "sideways"}, true},
		{"bad scope", RoundingRule{ID: "r", Scope: "everything", IntervalMinutes: 15, Direction: DirectionNearest}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
