package db

import (
	"database/sql"

	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/journal"
)

const entryColumns = `id, journal_raw, journal_norm, entry_date, body,
	prompt1, prompt2, p1_answer, p2_answer, vent, body_chars,
	created_at, updated_at`

// InsertEntry stores a new journal entry.
func InsertEntry(db *sql.DB, e *journal.Entry) error {
	query := `
		INSERT INTO entries (
			id, journal_raw, journal_norm, entry_date, body,
			prompt1, prompt2, p1_answer, p2_answer, vent, body_chars,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		e.ID, e.JournalRaw, e.JournalNorm, e.EntryDate, e.Body,
		nullIfEmpty(e.Prompt1), nullIfEmpty(e.Prompt2),
		nullIfEmpty(e.P1Answer), nullIfEmpty(e.P2Answer),
		boolToInt(e.Vent), e.BodyChars,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetEntryByID retrieves an entry by its ULID.
func GetEntryByID(db *sql.DB, id string) (*journal.Entry, error) {
	row := db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// ListEntries retrieves all entries of a journal ordered ascending by entry
// date (oldest first). Entries sharing a date order by ID, which for ULIDs
// tracks creation time.
func ListEntries(db *sql.DB, journalNorm string) ([]journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE journal_norm = ?
		ORDER BY entry_date ASC, id ASC`

	rows, err := db.Query(query, journalNorm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entries, nil
}

// ListEntriesPage retrieves one page of a journal's entries, newest first.
func ListEntriesPage(db *sql.DB, journalNorm string, limit, offset int) ([]journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE journal_norm = ?
		ORDER BY entry_date DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := db.Query(query, journalNorm, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entries, nil
}

// CountEntries returns the number of entries in a journal.
func CountEntries(db *sql.DB, journalNorm string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM entries WHERE journal_norm = ?`, journalNorm).Scan(&count)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// GetLatestEntry retrieves the most recent entry of a journal by entry date.
// Returns nil (no error) if the journal is empty.
func GetLatestEntry(db *sql.DB, journalNorm string) (*journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE journal_norm = ?
		ORDER BY entry_date DESC, id DESC
		LIMIT 1`

	row := db.QueryRow(query, journalNorm)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// DeleteEntry removes an entry permanently. Returns NOT_FOUND if no row matched.
func DeleteEntry(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ListJournals returns the distinct normalized journal names with entries,
// alphabetically.
func ListJournals(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT journal_norm FROM entries ORDER BY journal_norm ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var journals []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewInternal(err)
		}
		journals = append(journals, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return journals, nil
}

// StreamForExport returns a cursor over entries for export, oldest first.
// journalNorm filters to one journal; empty means all journals.
func StreamForExport(db *sql.DB, journalNorm string) (*sql.Rows, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	args := []any{}
	if journalNorm != "" {
		query += ` WHERE journal_norm = ?`
		args = append(args, journalNorm)
	}
	query += ` ORDER BY entry_date ASC, id ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanEntryFromRows scans the current row of an export cursor.
func ScanEntryFromRows(rows *sql.Rows) (*journal.Entry, error) {
	return scanEntry(rows)
}

// scanner abstracts sql.Row and sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry scans one entry row in entryColumns order.
func scanEntry(s scanner) (*journal.Entry, error) {
	var e journal.Entry
	var prompt1, prompt2, p1Answer, p2Answer sql.NullString
	var vent int

	err := s.Scan(
		&e.ID, &e.JournalRaw, &e.JournalNorm, &e.EntryDate, &e.Body,
		&prompt1, &prompt2, &p1Answer, &p2Answer, &vent, &e.BodyChars,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Prompt1 = prompt1.String
	e.Prompt2 = prompt2.String
	e.P1Answer = p1Answer.String
	e.P2Answer = p2Answer.String
	e.Vent = vent != 0

	return &e, nil
}

// nullIfEmpty converts an empty string to a SQL NULL.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// boolToInt converts a bool to the 0/1 form stored in SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
