package journal

// Entry represents one dated journal entry for a single journal.
type Entry struct {
	// ID is a ULID that uniquely identifies this entry
	ID string

	// JournalRaw is the original journal name as provided by the user
	JournalRaw string

	// JournalNorm is the normalized journal name (lowercased, trimmed, collapsed spaces)
	JournalNorm string

	// EntryDate is the calendar date of the entry in ISO form (YYYY-MM-DD)
	EntryDate string

	// Body is the free-form text of the entry
	Body string

	// Prompt1 and Prompt2 are optional guided prompts shown to the writer
	Prompt1 string
	Prompt2 string

	// P1Answer and P2Answer are the answers to the guided prompts
	P1Answer string
	P2Answer string

	// Vent marks the entry as low-signal emotional release. Vent entries are
	// excluded from eligibility counting and only lightly used as context.
	Vent bool

	// BodyChars is the character count of the body (runes, not bytes)
	BodyChars int

	// CreatedAt is the Unix timestamp when the entry was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the entry was last updated
	UpdatedAt int64
}

// previewChars is how much of the body a summary carries.
const previewChars = 120

// EntrySummary is the listing form of an entry: metadata plus a short body
// preview, without the full text.
type EntrySummary struct {
	ID        string `json:"id"`
	Journal   string `json:"journal"`
	EntryDate string `json:"entry_date"`
	Preview   string `json:"preview"`
	Vent      bool   `json:"vent"`
	BodyChars int    `json:"body_chars"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ToSummary converts an Entry to its listing form.
func (e *Entry) ToSummary() EntrySummary {
	return EntrySummary{
		ID:        e.ID,
		Journal:   e.JournalRaw,
		EntryDate: e.EntryDate,
		Preview:   TruncateRunes(e.Body, previewChars),
		Vent:      e.Vent,
		BodyChars: e.BodyChars,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ExportRecord is the JSONL line format for one exported entry.
type ExportRecord struct {
	ID        string `json:"id"`
	Journal   string `json:"journal"`
	EntryDate string `json:"entry_date"`
	Body      string `json:"body"`
	Prompt1   string `json:"prompt1,omitempty"`
	Prompt2   string `json:"prompt2,omitempty"`
	P1Answer  string `json:"p1_answer,omitempty"`
	P2Answer  string `json:"p2_answer,omitempty"`
	Vent      bool   `json:"vent"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ToExportRecord converts an Entry to its export form.
func (e *Entry) ToExportRecord() ExportRecord {
	return ExportRecord{
		ID:        e.ID,
		Journal:   e.JournalRaw,
		EntryDate: e.EntryDate,
		Body:      e.Body,
		Prompt1:   e.Prompt1,
		Prompt2:   e.Prompt2,
		P1Answer:  e.P1Answer,
		P2Answer:  e.P2Answer,
		Vent:      e.Vent,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
