package ops

import (
	"database/sql"

	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/journal"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string // required
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Entry *journal.Entry `json:"entry"`
}

// Get retrieves a single entry by ID, including its full body.
func Get(database *sql.DB, input GetInput) (*GetOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	e, err := db.GetEntryByID(database, id)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Entry: e}, nil
}
