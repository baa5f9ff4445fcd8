// Package archive keeps decoded crash dumps in a SQLite file on the host so
// dumps collected from many panels can be listed and compared later.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"minipanel/dump/report"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created inside the archive directory.
const FileName = "dumps.db"

var ErrNotFound = errors.New("archive: dump not found")

// Archive is an open dump database.
type Archive struct {
	db   *sql.DB
	path string
}

// Entry is one archived dump.
type Entry struct {
	ID         string
	ArchivedAt time.Time
	Source     string
	Flags      string
	ErrCode    uint16
	Firmware   string
	Summary    string

	// Report and Raw are only filled by Get.
	Report *report.Report
	Raw    []byte
}

// Open opens or creates the archive in dir.
func Open(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("archive: create directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	a := &Archive{db: db, path: path}
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: enable WAL: %w", err)
	}
	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: create tables: %w", err)
	}
	return a, nil
}

// Path is the database file.
func (a *Archive) Path() string { return a.path }

func (a *Archive) Close() error { return a.db.Close() }

func (a *Archive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dumps (
		id TEXT PRIMARY KEY,
		archived_at TEXT NOT NULL,
		source TEXT,
		flags TEXT NOT NULL,
		error_code INTEGER,
		firmware TEXT,
		summary TEXT,
		report BLOB NOT NULL,
		raw BLOB
	);

	CREATE INDEX IF NOT EXISTS idx_dumps_archived ON dumps(archived_at);
	CREATE INDEX IF NOT EXISTS idx_dumps_firmware ON dumps(firmware);
	`
	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// Add stores a decoded dump and its raw region. It returns the new entry id.
func (a *Archive) Add(ctx context.Context, source string, r *report.Report, raw []byte) (string, error) {
	var body bytes.Buffer
	if err := report.Write(&body, r, report.Msgpack); err != nil {
		return "", err
	}
	id := uuid.New().String()
	const query = `
	INSERT INTO dumps (id, archived_at, source, flags, error_code, firmware, summary, report, raw)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := a.db.ExecContext(ctx, query,
		id, time.Now().UTC().Format(time.RFC3339Nano), source,
		r.Flags, r.ErrCode, r.Firmware, r.Summary(), body.Bytes(), raw)
	if err != nil {
		return "", fmt.Errorf("archive: insert: %w", err)
	}
	return id, nil
}

// List returns every entry, newest first, without the report bodies.
func (a *Archive) List(ctx context.Context) ([]Entry, error) {
	const query = `
	SELECT id, archived_at, source, flags, error_code, firmware, summary
	FROM dumps
	ORDER BY archived_at DESC
	`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		var source, firmware, summary sql.NullString
		if err := rows.Scan(&e.ID, &at, &source, &e.Flags, &e.ErrCode, &firmware, &summary); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		e.ArchivedAt = parseTime(at)
		e.Source = source.String
		e.Firmware = firmware.String
		e.Summary = summary.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with id, report and raw bytes included.
func (a *Archive) Get(ctx context.Context, id string) (*Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("archive: bad id %q: %w", id, err)
	}
	const query = `
	SELECT id, archived_at, source, flags, error_code, firmware, summary, report, raw
	FROM dumps WHERE id = ?
	`
	var e Entry
	var at string
	var source, firmware, summary sql.NullString
	var body []byte
	err := a.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &at, &source, &e.Flags, &e.ErrCode, &firmware, &summary, &body, &e.Raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: get: %w", err)
	}
	e.ArchivedAt = parseTime(at)
	e.Source = source.String
	e.Firmware = firmware.String
	e.Summary = summary.String
	if e.Report, err = report.Decode(body); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes the entry with id.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM dumps WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("archive: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
