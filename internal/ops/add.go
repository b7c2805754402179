package ops

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/ripple/internal/config"
	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/journal"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Journal  string // default: "default"
	Date     string // ISO date; default: today (local)
	Body     string // required
	Prompt1  string
	Prompt2  string
	P1Answer string
	P2Answer string
	Vent     bool
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID        string `json:"id"`
	Journal   string `json:"journal"`
	EntryDate string `json:"entry_date"`
	BodyChars int    `json:"body_chars"`
}

// Add creates a new journal entry.
func Add(database *sql.DB, cfg *config.Config, input AddInput) (*AddOutput, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.NewInvalidRequest("body is required")
	}

	if strings.TrimSpace(input.Journal) == "" {
		input.Journal = "default"
	}
	journalNorm := normalizeJournal(input.Journal)

	// Default the entry date to today; otherwise it must be a valid ISO date
	entryDate := strings.TrimSpace(input.Date)
	if entryDate == "" {
		entryDate = time.Now().Format(journal.DateLayout)
	} else if _, err := journal.ParseDate(entryDate); err != nil {
		return nil, errors.NewInvalidRequest("date must be in YYYY-MM-DD form")
	}

	bodyChars := journal.CountChars(input.Body)
	if bodyChars > cfg.EntryMaxChars {
		return nil, errors.NewEntryTooLarge(cfg.EntryMaxChars, bodyChars)
	}

	// Answers without their prompt are meaningless
	if input.P1Answer != "" && input.Prompt1 == "" {
		return nil, errors.NewInvalidRequest("p1_answer requires prompt1")
	}
	if input.P2Answer != "" && input.Prompt2 == "" {
		return nil, errors.NewInvalidRequest("p2_answer requires prompt2")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	e := &journal.Entry{
		ID:          id,
		JournalRaw:  input.Journal,
		JournalNorm: journalNorm,
		EntryDate:   entryDate,
		Body:        input.Body,
		Prompt1:     strings.TrimSpace(input.Prompt1),
		Prompt2:     strings.TrimSpace(input.Prompt2),
		P1Answer:    strings.TrimSpace(input.P1Answer),
		P2Answer:    strings.TrimSpace(input.P2Answer),
		Vent:        input.Vent,
		BodyChars:   bodyChars,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.InsertEntry(database, e); err != nil {
		return nil, err
	}

	return &AddOutput{
		ID:        id,
		Journal:   input.Journal,
		EntryDate: entryDate,
		BodyChars: bodyChars,
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
