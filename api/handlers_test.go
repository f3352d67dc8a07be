package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/clock-engine/clock"
	"github.com/warp/clock-engine/store/sqlite"
)

// =============================================================================
// TEST SERVER
// =============================================================================

// newTestServer wires the full stack against an in-memory SQLite store:
// router -> handler -> engine -> store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	engine := clock.NewEngine(s, s, s)
	engine.Audit = s

	handler := NewHandler(engine, s)
	server := httptest.NewServer(NewRouter(handler, []string{"*"}))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedConfig creates a day shift, assigns it to emp-1, and installs a
// nearest/15/grace-3 rounding rule, all through the admin endpoints.
func seedConfig(t *testing.T, base string) {
	t.Helper()

	resp := postJSON(t, base+"/api/admin/shifts", CreateShiftRequest{
		ID:           "day",
		Name:         "Day Shift",
		StartMinute:  9 * 60,
		EndMinute:    17 * 60,
		BreakMinutes: 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, base+"/api/admin/assignments", CreateAssignmentRequest{
		ID:            "a1",
		EmployeeID:    "emp-1",
		ShiftID:       "day",
		EffectiveFrom: "2025-01-01",
		Primary:       true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, base+"/api/admin/rules", CreateRuleRequest{
		ID:              "r1",
		CompanyID:       "co-1",
		Scope:           "both",
		IntervalMinutes: 15,
		Direction:       "nearest",
		GraceMinutes:    3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// PUNCH FLOW
// =============================================================================

func TestAPI_FullDay(t *testing.T) {
	// GIVEN: a configured shift, assignment and rounding rule
	// WHEN: the employee works a full day over HTTP
	// THEN: each punch answers with the updated entry and the final entry
	//       carries rounded stamps and finalized hours

	server := newTestServer(t)
	seedConfig(t, server.URL)
	employee := server.URL + "/api/employees/emp-1"

	resp := postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", At: "2025-03-10T08:58:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := decode[EntryDTO](t, resp)
	assert.Equal(t, "active", entry.Status)
	assert.Equal(t, "2025-03-10T09:00:00Z", entry.RoundedClockIn)
	require.NotNil(t, entry.ShiftID)
	assert.Equal(t, "day", *entry.ShiftID)
	assert.Nil(t, entry.TotalHours, "open entries carry no hours")

	resp = postJSON(t, employee+"/break/start", PunchRequest{CompanyID: "co-1", At: "2025-03-10T12:00:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry = decode[EntryDTO](t, resp)
	assert.Equal(t, "on_break", entry.Status)

	resp = postJSON(t, employee+"/break/end", PunchRequest{CompanyID: "co-1", At: "2025-03-10T12:30:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry = decode[EntryDTO](t, resp)
	assert.Equal(t, "active", entry.Status)
	assert.Equal(t, 30, entry.BreakMinutes)

	resp = postJSON(t, employee+"/clock-out", PunchRequest{CompanyID: "co-1", At: "2025-03-10T17:04:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry = decode[EntryDTO](t, resp)
	assert.Equal(t, "completed", entry.Status)
	require.NotNil(t, entry.RoundedClockOut)
	assert.Equal(t, "2025-03-10T17:00:00Z", *entry.RoundedClockOut)
	require.NotNil(t, entry.TotalHours)
	assert.InDelta(t, 7.5, *entry.TotalHours, 0.001)
	require.NotNil(t, entry.OvertimeHours)
	assert.InDelta(t, 0, *entry.OvertimeHours, 0.001)

	// The closed session is no longer discoverable.
	getResp, err := http.Get(employee + "/session?company_id=co-1")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)

	// Timesheet rollup covers the day.
	tsResp, err := http.Get(employee + "/entries?company_id=co-1&from=2025-03-10&to=2025-03-10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, tsResp.StatusCode)
	sheet := decode[TimesheetDTO](t, tsResp)
	require.Len(t, sheet.Entries, 1)
	assert.Equal(t, 1, sheet.Summary.Entries)
	assert.InDelta(t, 7.5, sheet.Summary.TotalHours, 0.001)
	assert.Equal(t, 30, sheet.Summary.BreakMinutes)
}

func TestAPI_DoubleClockInConflicts(t *testing.T) {
	server := newTestServer(t)
	employee := server.URL + "/api/employees/emp-1"

	resp := postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", At: "2025-03-10T09:00:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", At: "2025-03-10T09:30:00Z"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Contains(t, body.Details, "already has an open session")
}

func TestAPI_PunchValidation(t *testing.T) {
	server := newTestServer(t)
	employee := server.URL + "/api/employees/emp-1"

	t.Run("missing company", func(t *testing.T) {
		resp := postJSON(t, employee+"/clock-in", PunchRequest{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		resp := postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", At: "yesterday"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", Method: "carrier-pigeon"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("clock-out without session", func(t *testing.T) {
		resp := postJSON(t, employee+"/clock-out", PunchRequest{CompanyID: "co-1", At: "2025-03-10T17:00:00Z"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

// =============================================================================
// MANUAL ENTRIES & ADJUSTMENTS
// =============================================================================

func TestAPI_ManualEntry(t *testing.T) {
	server := newTestServer(t)
	seedConfig(t, server.URL)
	entries := server.URL + "/api/entries"

	t.Run("missing notes", func(t *testing.T) {
		out := "2025-03-10T17:00:00Z"
		resp := postJSON(t, entries, ManualEntryRequest{
			EmployeeID: "emp-1",
			CompanyID:  "co-1",
			ClockIn:    "2025-03-10T09:00:00Z",
			ClockOut:   &out,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("closed entry", func(t *testing.T) {
		out := "2025-03-10T17:04:00Z"
		resp := postJSON(t, entries, ManualEntryRequest{
			EmployeeID:   "emp-1",
			CompanyID:    "co-1",
			ClockIn:      "2025-03-10T08:58:00Z",
			ClockOut:     &out,
			BreakMinutes: 30,
			Notes:        "badge reader outage",
			ActorID:      "mgr-1",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		entry := decode[EntryDTO](t, resp)

		assert.Equal(t, "completed", entry.Status)
		assert.Equal(t, "manual", entry.ClockInMethod)
		assert.Equal(t, "2025-03-10T09:00:00Z", entry.RoundedClockIn)
		require.NotNil(t, entry.TotalHours)
		assert.InDelta(t, 7.5, *entry.TotalHours, 0.001)

		// The entry is retrievable by ID.
		getResp, err := http.Get(fmt.Sprintf("%s/%s", entries, entry.ID))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, getResp.StatusCode)
		got := decode[EntryDTO](t, getResp)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, "badge reader outage", got.Notes)
	})
}

func TestAPI_AdjustEntry(t *testing.T) {
	server := newTestServer(t)
	seedConfig(t, server.URL)
	employee := server.URL + "/api/employees/emp-1"

	resp := postJSON(t, employee+"/clock-in", PunchRequest{CompanyID: "co-1", At: "2025-03-10T09:00:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := decode[EntryDTO](t, resp)

	t.Run("open entry not adjustable", func(t *testing.T) {
		out := "2025-03-10T18:00:00Z"
		resp := postJSON(t, fmt.Sprintf("%s/api/entries/%s/adjust", server.URL, entry.ID), AdjustRequest{ClockOut: &out})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	resp = postJSON(t, employee+"/clock-out", PunchRequest{CompanyID: "co-1", At: "2025-03-10T17:00:00Z"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	t.Run("adjust completed entry", func(t *testing.T) {
		out := "2025-03-10T18:04:00Z"
		resp := postJSON(t, fmt.Sprintf("%s/api/entries/%s/adjust", server.URL, entry.ID), AdjustRequest{
			ClockOut: &out,
			Notes:    "left late",
			ActorID:  "mgr-1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		adjusted := decode[EntryDTO](t, resp)

		assert.Equal(t, "adjusted", adjusted.Status)
		require.NotNil(t, adjusted.RoundedClockOut)
		assert.Equal(t, "2025-03-10T18:00:00Z", *adjusted.RoundedClockOut)
		require.NotNil(t, adjusted.OvertimeHours)
		assert.InDelta(t, 1.0, *adjusted.OvertimeHours, 0.001)
	})

	t.Run("unknown entry", func(t *testing.T) {
		out := "2025-03-10T18:00:00Z"
		resp := postJSON(t, server.URL+"/api/entries/missing/adjust", AdjustRequest{ClockOut: &out})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// =============================================================================
// ADMIN
// =============================================================================

func TestAPI_RejectsMalformedRule(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/admin/rules", CreateRuleRequest{
		ID:              "bad",
		CompanyID:       "co-1",
		Scope:           "both",
		IntervalMinutes: 15,
		Direction:       "nearest",
		GraceMinutes:    20, // grace >= interval
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Contains(t, body.Details, "grace")
}
