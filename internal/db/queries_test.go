package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/journal"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testEntry(id, date string) *journal.Entry {
	return &journal.Entry{
		ID:          id,
		JournalRaw:  "default",
		JournalNorm: "default",
		EntryDate:   date,
		Body:        "wrote about the day",
		BodyChars:   19,
		CreatedAt:   1000,
		UpdatedAt:   1000,
	}
}

func TestInsertAndGetEntry(t *testing.T) {
	database := testDB(t)

	e := testEntry("01A", "2026-02-01")
	e.Prompt1 = "What energized you today?"
	e.P1Answer = "A long walk"
	e.Vent = true

	if err := InsertEntry(database, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	got, err := GetEntryByID(database, "01A")
	if err != nil {
		t.Fatalf("GetEntryByID failed: %v", err)
	}

	if got.EntryDate != "2026-02-01" {
		t.Errorf("EntryDate = %q", got.EntryDate)
	}
	if got.Body != "wrote about the day" {
		t.Errorf("Body = %q", got.Body)
	}
	if got.Prompt1 != "What energized you today?" {
		t.Errorf("Prompt1 = %q", got.Prompt1)
	}
	if got.P1Answer != "A long walk" {
		t.Errorf("P1Answer = %q", got.P1Answer)
	}
	if got.Prompt2 != "" || got.P2Answer != "" {
		t.Errorf("unset prompt fields should scan as empty, got %q/%q", got.Prompt2, got.P2Answer)
	}
	if !got.Vent {
		t.Error("Vent flag not round-tripped")
	}
}

func TestGetEntryByID_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetEntryByID(database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestListEntries_AscendingByDate(t *testing.T) {
	database := testDB(t)

	// Insert out of date order
	for _, spec := range []struct{ id, date string }{
		{"01C", "2026-02-03"},
		{"01A", "2026-02-01"},
		{"01B", "2026-02-02"},
	} {
		if err := InsertEntry(database, testEntry(spec.id, spec.date)); err != nil {
			t.Fatalf("InsertEntry failed: %v", err)
		}
	}

	entries, err := ListEntries(database, "default")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []string{"2026-02-01", "2026-02-02", "2026-02-03"} {
		if entries[i].EntryDate != want {
			t.Errorf("entries[%d].EntryDate = %q, want %q", i, entries[i].EntryDate, want)
		}
	}
}

func TestListEntries_ScopedToJournal(t *testing.T) {
	database := testDB(t)

	e := testEntry("01A", "2026-02-01")
	if err := InsertEntry(database, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	other := testEntry("01B", "2026-02-01")
	other.JournalRaw = "work"
	other.JournalNorm = "work"
	if err := InsertEntry(database, other); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	entries, err := ListEntries(database, "work")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "01B" {
		t.Errorf("entries = %v, want only 01B", entries)
	}
}

func TestListEntriesPage_NewestFirst(t *testing.T) {
	database := testDB(t)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("01%d", i)
		date := fmt.Sprintf("2026-02-0%d", i)
		if err := InsertEntry(database, testEntry(id, date)); err != nil {
			t.Fatalf("InsertEntry failed: %v", err)
		}
	}

	page, err := ListEntriesPage(database, "default", 2, 0)
	if err != nil {
		t.Fatalf("ListEntriesPage failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len = %d, want 2", len(page))
	}
	if page[0].EntryDate != "2026-02-05" || page[1].EntryDate != "2026-02-04" {
		t.Errorf("page order = %q, %q", page[0].EntryDate, page[1].EntryDate)
	}

	page, err = ListEntriesPage(database, "default", 2, 4)
	if err != nil {
		t.Fatalf("ListEntriesPage failed: %v", err)
	}
	if len(page) != 1 || page[0].EntryDate != "2026-02-01" {
		t.Errorf("last page = %v", page)
	}
}

func TestCountEntries(t *testing.T) {
	database := testDB(t)

	count, err := CountEntries(database, "default")
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if err := InsertEntry(database, testEntry("01A", "2026-02-01")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	count, err = CountEntries(database, "default")
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetLatestEntry(t *testing.T) {
	database := testDB(t)

	// Empty journal returns nil, no error
	latest, err := GetLatestEntry(database, "default")
	if err != nil {
		t.Fatalf("GetLatestEntry failed: %v", err)
	}
	if latest != nil {
		t.Errorf("latest = %v, want nil for empty journal", latest)
	}

	if err := InsertEntry(database, testEntry("01A", "2026-02-01")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	if err := InsertEntry(database, testEntry("01B", "2026-02-03")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	latest, err = GetLatestEntry(database, "default")
	if err != nil {
		t.Fatalf("GetLatestEntry failed: %v", err)
	}
	if latest == nil || latest.ID != "01B" {
		t.Errorf("latest = %v, want 01B", latest)
	}
}

func TestDeleteEntry(t *testing.T) {
	database := testDB(t)

	if err := InsertEntry(database, testEntry("01A", "2026-02-01")); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	if err := DeleteEntry(database, "01A"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	if _, err := GetEntryByID(database, "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("entry should be gone, got %v", err)
	}

	// Deleting again reports NOT_FOUND
	if err := DeleteEntry(database, "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete = %v, want NOT_FOUND", err)
	}
}

func TestListJournals(t *testing.T) {
	database := testDB(t)

	for _, spec := range []struct{ id, name string }{
		{"01A", "work"},
		{"01B", "default"},
		{"01C", "work"},
	} {
		e := testEntry(spec.id, "2026-02-01")
		e.JournalRaw = spec.name
		e.JournalNorm = spec.name
		if err := InsertEntry(database, e); err != nil {
			t.Fatalf("InsertEntry failed: %v", err)
		}
	}

	journals, err := ListJournals(database)
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	if len(journals) != 2 || journals[0] != "default" || journals[1] != "work" {
		t.Errorf("journals = %v, want [default work]", journals)
	}
}
