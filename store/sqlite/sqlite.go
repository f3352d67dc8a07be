/*
Package sqlite provides a SQLite-backed implementation of the clock
engine's storage interfaces.

PURPOSE:
  Implements clock.EntryRepository, clock.ShiftDirectory,
  clock.RoundingRuleLookup and clock.AuditLog on SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  time_entries:      One row per session, raw and rounded stamps side by side
  shifts:            Shift definitions with break and differential config
  shift_assignments: Employee-to-shift links with effective ranges
  rounding_rules:    Per-company punch rounding configuration
  audit_log:         Pre-change snapshots for manual edits and adjustments

OPEN-SESSION INVARIANT:
  A partial unique index (idx_unique_open_session) restricts each
  (employee_id, company_id) pair to at most one row whose status is
  'active' or 'on_break'. The engine's per-employee lock enforces this in
  process; the index is the storage-level backstop against a second writer.

VALIDATION AT THE BOUNDARY:
  Status and entry-method strings are parsed into their closed sets when
  rows are scanned, and rounding rules are validated both on save and on
  load. The engine never sees malformed states or rules.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/clock.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := clock.NewEngine(store, store, store)

SEE ALSO:
  - clock/store.go: Interface definitions
  - clock/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/clock-engine/clock"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Interface checks
var (
	_ clock.EntryRepository    = (*Store)(nil)
	_ clock.ShiftDirectory     = (*Store)(nil)
	_ clock.RoundingRuleLookup = (*Store)(nil)
	_ clock.AuditLog           = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		shift_id TEXT,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		rounded_clock_in TEXT NOT NULL,
		rounded_clock_out TEXT,
		break_start TEXT,
		break_end TEXT,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		total_hours TEXT,
		regular_hours TEXT,
		overtime_hours TEXT,
		shift_differential TEXT,
		clock_in_method TEXT NOT NULL,
		clock_out_method TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: at most one live session per employee and company.
	-- The engine guards this in process; the index is the storage backstop.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_open_session
		ON time_entries(employee_id, company_id)
		WHERE status IN ('active', 'on_break');

	-- Timesheet range queries (hot path)
	CREATE INDEX IF NOT EXISTS idx_entries_employee_clock_in
		ON time_entries(employee_id, company_id, clock_in);

	CREATE INDEX IF NOT EXISTS idx_entries_status
		ON time_entries(status);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		is_overnight INTEGER NOT NULL DEFAULT 0,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		break_paid INTEGER NOT NULL DEFAULT 0,
		diff_start_minute INTEGER,
		diff_end_minute INTEGER,
		diff_rate TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift_assignments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		is_primary INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_employee
		ON shift_assignments(employee_id, effective_from);

	CREATE TABLE IF NOT EXISTS rounding_rules (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		scope TEXT NOT NULL,
		interval_minutes INTEGER NOT NULL,
		direction TEXT NOT NULL,
		grace_minutes INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_company
		ON rounding_rules(company_id);

	-- Audit trail (append-only)
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		prior_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_entry
		ON audit_log(entry_id, recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY REPOSITORY
// =============================================================================

const entryColumns = `id, employee_id, company_id, shift_id,
	clock_in, clock_out, rounded_clock_in, rounded_clock_out,
	break_start, break_end, break_minutes, status,
	total_hours, regular_hours, overtime_hours, shift_differential,
	clock_in_method, clock_out_method, notes, created_at, updated_at`

func (s *Store) GetOpenSession(ctx context.Context, employeeID clock.EmployeeID, companyID clock.CompanyID) (*clock.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM time_entries
		WHERE employee_id = ? AND company_id = ? AND status IN ('active', 'on_break')`,
		string(employeeID), string(companyID))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load open session: %w", err)
	}
	return entry, nil
}

func (s *Store) GetEntry(ctx context.Context, id clock.EntryID) (*clock.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, string(id))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, clock.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	return entry, nil
}

func (s *Store) Save(ctx context.Context, entry *clock.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Upsert on the primary key only. INSERT OR REPLACE would also resolve
	// a conflict on idx_unique_open_session by silently deleting the other
	// live session; targeting the id keeps the partial index as a hard error.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			company_id = excluded.company_id,
			shift_id = excluded.shift_id,
			clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			rounded_clock_in = excluded.rounded_clock_in,
			rounded_clock_out = excluded.rounded_clock_out,
			break_start = excluded.break_start,
			break_end = excluded.break_end,
			break_minutes = excluded.break_minutes,
			status = excluded.status,
			total_hours = excluded.total_hours,
			regular_hours = excluded.regular_hours,
			overtime_hours = excluded.overtime_hours,
			shift_differential = excluded.shift_differential,
			clock_in_method = excluded.clock_in_method,
			clock_out_method = excluded.clock_out_method,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		string(entry.ID),
		string(entry.EmployeeID),
		string(entry.CompanyID),
		shiftIDOrNil(entry.ShiftID),
		formatTime(entry.ClockIn),
		formatTimePtr(entry.ClockOut),
		formatTime(entry.RoundedClockIn),
		formatTimePtr(entry.RoundedClockOut),
		formatTimePtr(entry.BreakStart),
		formatTimePtr(entry.BreakEnd),
		entry.BreakMinutes,
		string(entry.Status),
		decimalOrNil(entry.Status.IsClosed(), entry.TotalHours),
		decimalOrNil(entry.Status.IsClosed(), entry.RegularHours),
		decimalOrNil(entry.Status.IsClosed(), entry.OvertimeHours),
		decimalPtrOrNil(entry.ShiftDifferential),
		string(entry.ClockInMethod),
		methodOrNil(entry.ClockOutMethod),
		entry.Notes,
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		// With the id conflict handled by the upsert, a unique violation on
		// this table can only come from idx_unique_open_session: a second
		// live session. Surface it as the business error so callers can
		// branch with errors.Is.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: employee %s", clock.ErrSessionAlreadyOpen, entry.EmployeeID)
		}
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, employeeID clock.EmployeeID, companyID clock.CompanyID, from, to time.Time) ([]clock.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM time_entries
		WHERE employee_id = ? AND company_id = ? AND clock_in >= ? AND clock_in <= ?
		ORDER BY clock_in ASC`,
		string(employeeID), string(companyID), formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []clock.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*clock.TimeEntry, error) {
	var (
		entry                    clock.TimeEntry
		shiftID                  sql.NullString
		clockIn, roundedIn       string
		clockOut, roundedOut     sql.NullString
		breakStart, breakEnd     sql.NullString
		status, inMethod         string
		outMethod                sql.NullString
		total, regular, overtime sql.NullString
		differential             sql.NullString
		createdAt, updatedAt     string
	)

	err := row.Scan(
		&entry.ID, &entry.EmployeeID, &entry.CompanyID, &shiftID,
		&clockIn, &clockOut, &roundedIn, &roundedOut,
		&breakStart, &breakEnd, &entry.BreakMinutes, &status,
		&total, &regular, &overtime, &differential,
		&inMethod, &outMethod, &entry.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedStatus, ok := clock.ParseEntryStatus(status)
	if !ok {
		return nil, fmt.Errorf("malformed status %q for entry %s", status, entry.ID)
	}
	entry.Status = parsedStatus

	parsedMethod, ok := clock.ParseEntryMethod(inMethod)
	if !ok {
		return nil, fmt.Errorf("malformed clock-in method %q for entry %s", inMethod, entry.ID)
	}
	entry.ClockInMethod = parsedMethod

	if outMethod.Valid {
		m, ok := clock.ParseEntryMethod(outMethod.String)
		if !ok {
			return nil, fmt.Errorf("malformed clock-out method %q for entry %s", outMethod.String, entry.ID)
		}
		entry.ClockOutMethod = m
	}

	if shiftID.Valid {
		id := clock.ShiftID(shiftID.String)
		entry.ShiftID = &id
	}

	if entry.ClockIn, err = parseTime(clockIn); err != nil {
		return nil, err
	}
	if entry.RoundedClockIn, err = parseTime(roundedIn); err != nil {
		return nil, err
	}
	if entry.ClockOut, err = parseTimePtr(clockOut); err != nil {
		return nil, err
	}
	if entry.RoundedClockOut, err = parseTimePtr(roundedOut); err != nil {
		return nil, err
	}
	if entry.BreakStart, err = parseTimePtr(breakStart); err != nil {
		return nil, err
	}
	if entry.BreakEnd, err = parseTimePtr(breakEnd); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if entry.TotalHours, err = parseDecimal(total); err != nil {
		return nil, err
	}
	if entry.RegularHours, err = parseDecimal(regular); err != nil {
		return nil, err
	}
	if entry.OvertimeHours, err = parseDecimal(overtime); err != nil {
		return nil, err
	}
	if differential.Valid {
		d, err := decimal.NewFromString(differential.String)
		if err != nil {
			return nil, fmt.Errorf("malformed differential for entry %s: %w", entry.ID, err)
		}
		entry.ShiftDifferential = &d
	}

	return &entry, nil
}

// =============================================================================
// SHIFT DIRECTORY
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, shift clock.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var diffStart, diffEnd, diffRate any
	if shift.Differential != nil {
		diffStart = int(shift.Differential.StartMinute)
		diffEnd = int(shift.Differential.EndMinute)
		diffRate = shift.Differential.Rate.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shifts
		(id, name, start_minute, end_minute, is_overnight, break_minutes, break_paid,
		 diff_start_minute, diff_end_minute, diff_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(shift.ID), shift.Name,
		int(shift.StartMinute), int(shift.EndMinute), boolToInt(shift.IsOvernight),
		shift.BreakMinutes, boolToInt(shift.BreakPaid),
		diffStart, diffEnd, diffRate,
		formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

func (s *Store) SaveAssignment(ctx context.Context, a clock.ShiftAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shift_assignments
		(id, employee_id, shift_id, effective_from, effective_to, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.EmployeeID), string(a.ShiftID),
		formatTime(a.EffectiveFrom), formatTimePtr(a.EffectiveTo),
		boolToInt(a.Primary), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

func (s *Store) GetShift(ctx context.Context, id clock.ShiftID) (*clock.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getShiftLocked(ctx, id)
}

func (s *Store) getShiftLocked(ctx context.Context, id clock.ShiftID) (*clock.Shift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_minute, end_minute, is_overnight, break_minutes, break_paid,
		       diff_start_minute, diff_end_minute, diff_rate
		FROM shifts WHERE id = ?`, string(id))

	var (
		shift              clock.Shift
		overnight, paid    int
		diffStart, diffEnd sql.NullInt64
		diffRate           sql.NullString
	)
	err := row.Scan(&shift.ID, &shift.Name, &shift.StartMinute, &shift.EndMinute,
		&overnight, &shift.BreakMinutes, &paid, &diffStart, &diffEnd, &diffRate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}

	shift.IsOvernight = overnight != 0
	shift.BreakPaid = paid != 0
	if diffStart.Valid && diffEnd.Valid && diffRate.Valid {
		rate, err := decimal.NewFromString(diffRate.String)
		if err != nil {
			return nil, fmt.Errorf("malformed differential rate for shift %s: %w", shift.ID, err)
		}
		shift.Differential = &clock.DifferentialWindow{
			StartMinute: clock.MinuteOfDay(diffStart.Int64),
			EndMinute:   clock.MinuteOfDay(diffEnd.Int64),
			Rate:        rate,
		}
	}
	return &shift, nil
}

func (s *Store) ShiftFor(ctx context.Context, employeeID clock.EmployeeID, date time.Time) (*clock.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shift_id, effective_from, effective_to, is_primary
		FROM shift_assignments WHERE employee_id = ?`, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	var assignments []clock.ShiftAssignment
	for rows.Next() {
		var (
			a           clock.ShiftAssignment
			shiftID     string
			from        string
			to          sql.NullString
			primaryFlag int
		)
		if err := rows.Scan(&a.ID, &shiftID, &from, &to, &primaryFlag); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.EmployeeID = employeeID
		a.ShiftID = clock.ShiftID(shiftID)
		a.Primary = primaryFlag != 0
		if a.EffectiveFrom, err = parseTime(from); err != nil {
			return nil, err
		}
		if a.EffectiveTo, err = parseTimePtr(to); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// ResolveShift needs each candidate's definition attached.
	for i := range assignments {
		shift, err := s.getShiftLocked(ctx, assignments[i].ShiftID)
		if err != nil {
			return nil, err
		}
		if shift != nil {
			assignments[i].Shift = *shift
		}
	}

	return clock.ResolveShift(assignments, date), nil
}

// =============================================================================
// ROUNDING RULES
// =============================================================================

// SaveRule validates and stores a rounding rule. Malformed rules are
// rejected here so they never reach the rounding policy.
func (s *Store) SaveRule(ctx context.Context, rule clock.RoundingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rounding_rules
		(id, company_id, scope, interval_minutes, direction, grace_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, string(rule.CompanyID), string(rule.Scope),
		rule.IntervalMinutes, string(rule.Direction), rule.GraceMinutes,
		formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	return nil
}

func (s *Store) RuleFor(ctx context.Context, companyID clock.CompanyID, side clock.RoundScope) (*clock.RoundingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, scope, interval_minutes, direction, grace_minutes
		FROM rounding_rules WHERE company_id = ? ORDER BY id ASC`, string(companyID))
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule clock.RoundingRule
		var scope, direction string
		if err := rows.Scan(&rule.ID, &rule.CompanyID, &scope, &rule.IntervalMinutes,
			&direction, &rule.GraceMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule.Scope = clock.RoundScope(scope)
		rule.Direction = clock.RoundDirection(direction)
		// Re-validate on load; a rule edited out-of-band must not reach Round.
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if rule.AppliesTo(side) {
			return &rule, nil
		}
	}
	return nil, rows.Err()
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (s *Store) Append(ctx context.Context, record clock.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	priorJSON, err := json.Marshal(record.Prior)
	if err != nil {
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, entry_id, actor_id, action, recorded_at, prior_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, string(record.EntryID), record.ActorID, string(record.Action),
		formatTime(record.RecordedAt), string(priorJSON))
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// CountAuditRecords returns the number of audit rows for an entry.
func (s *Store) CountAuditRecords(ctx context.Context, entryID clock.EntryID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE entry_id = ?`, string(entryID)).Scan(&n)
	return n, err
}

// =============================================================================
// SCAN/FORMAT HELPERS
// =============================================================================

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDecimal(s sql.NullString) (decimal.Decimal, error) {
	if !s.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.String)
}

func decimalOrNil(present bool, d decimal.Decimal) any {
	if !present {
		return nil
	}
	return d.String()
}

func decimalPtrOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func shiftIDOrNil(id *clock.ShiftID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func methodOrNil(m clock.EntryMethod) any {
	if m == "" {
		return nil
	}
	return string(m)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
