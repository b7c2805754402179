package pattern

import "github.com/hpungsan/ripple/internal/journal"

// Selection bounds. Per-field caps apply before aggregate accounting, so one
// sprawling entry cannot crowd out the rest of the window.
const (
	maxSelectedEntries = 30
	maxSelectedChars   = 8000
	maxVentEntries     = 6

	bodyCap   = 500
	promptCap = 140
	answerCap = 260
)

// promptEntry is the serialized form of one selected entry, the only shape
// the model ever sees.
type promptEntry struct {
	Date     string `json:"date"`
	Vent     bool   `json:"vent,omitempty"`
	Body     string `json:"body,omitempty"`
	Prompt1  string `json:"prompt1,omitempty"`
	P1Answer string `json:"p1Answer,omitempty"`
	Prompt2  string `json:"prompt2,omitempty"`
	P2Answer string `json:"p2Answer,omitempty"`
}

// chars returns the combined rune count of the entry's text fields.
func (p promptEntry) chars() int {
	return journal.CountChars(p.Body) +
		journal.CountChars(p.Prompt1) + journal.CountChars(p.P1Answer) +
		journal.CountChars(p.Prompt2) + journal.CountChars(p.P2Answer)
}

// selectEntries trims entries (already sorted ascending) into a token-safe
// set: newest entries win, at most maxVentEntries vent entries ride along as
// background context, and the result is reordered oldest-first so the prompt
// reads in temporal order.
func selectEntries(entries []journal.Entry) []promptEntry {
	selected := make([]promptEntry, 0, maxSelectedEntries)
	totalChars := 0
	ventCount := 0

	// Walk newest to oldest so the freshest signal is kept when the budget
	// runs out.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if len(selected) >= maxSelectedEntries {
			break
		}
		if e.Vent {
			if ventCount >= maxVentEntries {
				continue
			}
		}

		p := promptEntry{
			Date:     e.EntryDate,
			Vent:     e.Vent,
			Body:     journal.TruncateRunes(e.Body, bodyCap),
			Prompt1:  journal.TruncateRunes(e.Prompt1, promptCap),
			P1Answer: journal.TruncateRunes(e.P1Answer, answerCap),
			Prompt2:  journal.TruncateRunes(e.Prompt2, promptCap),
			P2Answer: journal.TruncateRunes(e.P2Answer, answerCap),
		}

		cost := p.chars()
		if totalChars+cost > maxSelectedChars {
			break
		}
		totalChars += cost

		if e.Vent {
			ventCount++
		}
		selected = append(selected, p)
	}

	// Reverse back to oldest-first.
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}

	return selected
}
