// Package ops implements the journal operations shared by the CLI, the MCP
// server, and the web UI. Each operation takes an Input struct, validates it,
// talks to the database, and returns an Output struct ready for JSON encoding.
package ops

import (
	"strings"

	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/journal"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// normalizeJournal trims and normalizes a journal name, defaulting to
// "default" when empty.
func normalizeJournal(name string) string {
	norm := journal.Normalize(name)
	if norm == "" {
		norm = "default"
	}
	return norm
}

// requireID validates an entry ID parameter.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}
