package ops

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/pattern"
)

// ReflectInput contains parameters for the Reflect operation.
type ReflectInput struct {
	Journal      string // default: "default"
	ForceRefresh bool   // bypass the result cache
	Debug        bool   // attach diagnostic detail
}

// ReflectOutput contains the result of the Reflect operation.
type ReflectOutput struct {
	Journal string `json:"journal"`
	pattern.Outcome
}

// Reflect runs the pattern reflection pipeline over one journal's entries.
// Provider flakiness surfaces as a silent outcome, not an error; the only
// error unique to this operation is a missing provider configuration.
func Reflect(ctx context.Context, database *sql.DB, engine *pattern.Engine, input ReflectInput) (*ReflectOutput, error) {
	journalNorm := normalizeJournal(input.Journal)

	entries, err := db.ListEntries(database, journalNorm)
	if err != nil {
		return nil, err
	}

	outcome, err := engine.Reflect(ctx, journalNorm, entries, pattern.Options{
		ForceRefresh: input.ForceRefresh,
		Debug:        input.Debug,
	})
	if err != nil {
		if stderrors.Is(err, pattern.ErrNoClient) {
			return nil, errors.NewProviderUnconfigured("reflection requires a configured model provider (set GEMINI_API_KEY)")
		}
		return nil, errors.NewInternal(err)
	}

	return &ReflectOutput{
		Journal: journalNorm,
		Outcome: *outcome,
	}, nil
}
