package sqlite

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
)

// Days are stored as 'YYYY-MM-DD' text, instants as UTC timestamps and
// decimal amounts as text so they round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id                TEXT PRIMARY KEY,
	employee_code     TEXT NOT NULL UNIQUE,
	full_name         TEXT NOT NULL,
	employment_status TEXT NOT NULL DEFAULT 'active',
	hire_date         DATE NOT NULL,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS holidays (
	id           TEXT PRIMARY KEY,
	holiday_date DATE NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id               TEXT PRIMARY KEY,
	employee_id      TEXT NOT NULL REFERENCES employees(id),
	leave_type       TEXT NOT NULL CHECK (leave_type IN ('privilege', 'sick', 'half_day', 'other')),
	from_date        DATE NOT NULL,
	to_date          DATE,
	total_days       TEXT NOT NULL,
	sandwich         BOOLEAN NOT NULL DEFAULT 0,
	charge_from      DATE NOT NULL,
	charge_to        DATE NOT NULL,
	reason           TEXT,
	status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
	decided_by       TEXT,
	decided_at       TIMESTAMP,
	rejection_reason TEXT,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leave_requests_employee_dates
	ON leave_requests(employee_id, from_date, to_date);

CREATE TABLE IF NOT EXISTS attendance_days (
	id               TEXT PRIMARY KEY,
	employee_id      TEXT NOT NULL REFERENCES employees(id),
	day              DATE NOT NULL,
	check_in         TIMESTAMP,
	check_out        TIMESTAMP,
	work_hours       TEXT NOT NULL DEFAULT '0',
	break_hours      TEXT NOT NULL DEFAULT '0',
	status           TEXT NOT NULL DEFAULT 'pending',
	leave_request_id TEXT REFERENCES leave_requests(id),
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL,
	deleted_at       TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_days_employee_day
	ON attendance_days(employee_id, day) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS attendance_breaks (
	id            TEXT PRIMARY KEY,
	attendance_id TEXT NOT NULL REFERENCES attendance_days(id),
	pause_time    TIMESTAMP NOT NULL,
	restart_time  TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_breaks_open
	ON attendance_breaks(attendance_id) WHERE restart_time IS NULL;

CREATE TABLE IF NOT EXISTS leave_ledgers (
	id          TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id),
	year        INTEGER NOT NULL,
	pl_quota    TEXT NOT NULL,
	sl_quota    TEXT NOT NULL,
	lop_quota   TEXT NOT NULL DEFAULT '0',
	used_pl     TEXT NOT NULL DEFAULT '0',
	used_sl     TEXT NOT NULL DEFAULT '0',
	used_lop    TEXT NOT NULL DEFAULT '0',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL,
	UNIQUE (employee_id, year),
	CHECK (CAST(used_pl AS REAL) <= CAST(pl_quota AS REAL)),
	CHECK (CAST(used_sl AS REAL) <= CAST(sl_quota AS REAL))
);

CREATE TABLE IF NOT EXISTS leave_ledger_entries (
	id               TEXT PRIMARY KEY,
	ledger_id        TEXT NOT NULL REFERENCES leave_ledgers(id),
	leave_request_id TEXT NOT NULL UNIQUE REFERENCES leave_requests(id),
	leave_type       TEXT NOT NULL,
	requested        TEXT NOT NULL,
	pl               TEXT NOT NULL,
	sl               TEXT NOT NULL,
	lop              TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	recipient_id TEXT NOT NULL,
	sender_id    TEXT,
	type         TEXT NOT NULL,
	title        TEXT NOT NULL,
	message      TEXT NOT NULL,
	data         TEXT,
	is_read      BOOLEAN NOT NULL DEFAULT 0,
	read_at      TIMESTAMP,
	created_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient
	ON notifications(recipient_id, created_at);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *database.SQLiteDB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

// Open opens path, applies the schema and returns the handle.
func Open(ctx context.Context, path string) (*database.SQLiteDB, error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
