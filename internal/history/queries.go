package history

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
)

// Run records one rotation run.
type Run struct {
	ID              string `json:"id"`
	RanAt           int64  `json:"ran_at"`
	Today           string `json:"today"`
	DatesArchived   int    `json:"dates_archived"`
	EntriesArchived int    `json:"entries_archived"`
}

// ArchiveRecord records one archive document written by a rotation run.
type ArchiveRecord struct {
	Date       string `json:"date"`
	Path       string `json:"path"`
	EntryCount int    `json:"entry_count"`
	Checksum   string `json:"checksum"`
	RunID      string `json:"run_id"`
	CreatedAt  int64  `json:"created_at"`
}

// NewRunID generates a ULID for a rotation run.
func NewRunID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RecordRun inserts a completed rotation run.
func RecordRun(db *sql.DB, run Run) error {
	_, err := db.Exec(`
		INSERT INTO rotation_runs (id, ran_at, today, dates_archived, entries_archived)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.RanAt, run.Today, run.DatesArchived, run.EntriesArchived)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertArchive records a newly written (or adopted) archive document.
func InsertArchive(db *sql.DB, rec ArchiveRecord) error {
	_, err := db.Exec(`
		INSERT INTO archives (date, path, entry_count, checksum, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Date, rec.Path, rec.EntryCount, rec.Checksum, rec.RunID, rec.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("archive already journaled for date " + rec.Date)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetArchive retrieves the journal record for one archive date.
func GetArchive(db *sql.DB, date string) (*ArchiveRecord, error) {
	row := db.QueryRow(`
		SELECT date, path, entry_count, checksum, run_id, created_at
		FROM archives WHERE date = ?
	`, date)

	var rec ArchiveRecord
	err := row.Scan(&rec.Date, &rec.Path, &rec.EntryCount, &rec.Checksum, &rec.RunID, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(date)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &rec, nil
}

// ListArchives returns all journaled archives in date order.
func ListArchives(db *sql.DB) ([]ArchiveRecord, error) {
	rows, err := db.Query(`
		SELECT date, path, entry_count, checksum, run_id, created_at
		FROM archives ORDER BY date ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []ArchiveRecord
	for rows.Next() {
		var rec ArchiveRecord
		if err := rows.Scan(&rec.Date, &rec.Path, &rec.EntryCount, &rec.Checksum, &rec.RunID, &rec.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// ListRuns returns the most recent rotation runs, newest first.
// limit <= 0 means no limit.
func ListRuns(db *sql.DB, limit int) ([]Run, error) {
	query := `
		SELECT id, ran_at, today, dates_archived, entries_archived
		FROM rotation_runs ORDER BY ran_at DESC, id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RanAt, &run.Today, &run.DatesArchived, &run.EntriesArchived); err != nil {
			return nil, errors.NewInternal(err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return runs, nil
}

// LatestRun returns the most recent rotation run, or nil if none recorded.
func LatestRun(db *sql.DB) (*Run, error) {
	runs, err := ListRuns(db, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
