package journal

import "fmt"

// fingerprintBodyPrefix is how much of the newest body participates in the
// fingerprint. Deliberately coarse: the fingerprint detects "nothing
// materially changed", not arbitrary edits deep in history.
const fingerprintBodyPrefix = 120

// Fingerprint computes a cheap digest of an entry snapshot: entry count,
// newest entry date, and a prefix of the newest body. Entries must already be
// sorted ascending by date (see SortAscending).
func Fingerprint(entries []Entry) string {
	if len(entries) == 0 {
		return "0||"
	}
	newest := entries[len(entries)-1]
	return fmt.Sprintf("%d|%s|%s", len(entries), newest.EntryDate, TruncateRunes(newest.Body, fingerprintBodyPrefix))
}
