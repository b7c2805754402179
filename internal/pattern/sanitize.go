package pattern

import "strings"

// Content policy caps, mirrored in the system instruction.
const (
	maxReflectionChars = 240
	maxThemes          = 3
	maxThemeChars      = 20
)

// bannedPhrases is the fixed content policy list: clinical labels, directive
// language, and hollow reassurance. Matching is case-insensitive substring
// over the combined reflection + themes text. A pure function over a static
// list; no plugin mechanism.
var bannedPhrases = []string{
	// clinical labels
	"depress",
	"anxiety",
	"ptsd",
	"ocd",
	"adhd",
	"bipolar",
	"trauma",
	"diagnos",
	"disorder",
	"clinical",
	"therapist",
	"therapy",
	"medication",
	"symptom",
	"mental illness",
	// directive language
	"you should",
	"you need to",
	"you must",
	"you have to",
	"try to",
	"make sure",
	"i recommend",
	// hollow reassurance
	"everything happens for a reason",
	"stay positive",
	"look on the bright side",
	"it could be worse",
	"good vibes",
	"silver lining",
	"time heals",
	"be grateful",
}

// containsBanned reports whether the combined reflection + themes text
// contains any banned phrase, case-insensitively.
func containsBanned(reflection string, themes []string) bool {
	combined := strings.ToLower(reflection + " " + strings.Join(themes, " "))
	for _, phrase := range bannedPhrases {
		if strings.Contains(combined, phrase) {
			return true
		}
	}
	return false
}

// validated is the typed form of a shape-valid candidate.
type validated struct {
	ShouldSpeak bool
	Reflection  string
	Themes      []string
	TimeRange   string
}

// validateShape checks that a recovered candidate has the required keys with
// the correct primitive types: shouldSpeak boolean, reflection nullable
// string, themes array of strings (null tolerated as empty), timeRange
// nullable string. Anything else is shape-invalid.
func validateShape(m map[string]any) (*validated, bool) {
	speak, ok := m["shouldSpeak"].(bool)
	if !ok {
		return nil, false
	}

	v := &validated{ShouldSpeak: speak}

	reflection, present := m["reflection"]
	if !present {
		return nil, false
	}
	if reflection != nil {
		s, ok := reflection.(string)
		if !ok {
			return nil, false
		}
		v.Reflection = s
	}

	themes, present := m["themes"]
	if !present {
		return nil, false
	}
	if themes != nil {
		list, ok := themes.([]any)
		if !ok {
			return nil, false
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			v.Themes = append(v.Themes, s)
		}
	}

	if timeRange, present := m["timeRange"]; present && timeRange != nil {
		s, ok := timeRange.(string)
		if !ok {
			return nil, false
		}
		v.TimeRange = s
	}

	return v, true
}

// sanitizeReflection trims and caps the reflection text.
func sanitizeReflection(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxReflectionChars {
		s = string(runes[:maxReflectionChars])
	}
	return s
}

// sanitizeThemes trims, drops empties, deduplicates case-insensitively, caps
// each theme's length, and keeps at most maxThemes.
func sanitizeThemes(themes []string) []string {
	seen := make(map[string]bool, len(themes))
	result := make([]string, 0, maxThemes)

	for _, theme := range themes {
		theme = strings.TrimSpace(theme)
		if theme == "" {
			continue
		}
		runes := []rune(theme)
		if len(runes) > maxThemeChars {
			theme = string(runes[:maxThemeChars])
		}
		key := strings.ToLower(theme)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, theme)
		if len(result) == maxThemes {
			break
		}
	}

	return result
}

// sanitizeTimeRange keeps only phrases from the allowed set.
func sanitizeTimeRange(s string) string {
	s = strings.TrimSpace(s)
	for _, allowed := range allowedTimeRanges {
		if strings.EqualFold(s, allowed) {
			return allowed
		}
	}
	return ""
}

// spanPhrase maps a computed date span onto the allowed timeRange set.
func spanPhrase(spanDays int) string {
	switch {
	case spanDays < 7:
		return "over the past few days"
	case spanDays < 14:
		return "over the past week"
	case spanDays < 30:
		return "over the past two weeks"
	default:
		return "over the past month"
	}
}

// bannedSubstituteReflection is the neutral, time-based replacement used when
// the model's words violated the content policy. Derived only from the
// computed date span; never from model output.
func bannedSubstituteReflection(spanDays int) string {
	phrase := spanPhrase(spanDays)
	return "You've kept coming back to the page " + phrase + ". The writing itself is the steadiest thread here."
}

// noPatternReflection is the soft-speak acknowledgment used when the model
// found nothing worth sharing: eligible writers always hear something.
func noPatternReflection() string {
	return "No single thread stands out across your recent entries yet. Patterns tend to surface slowly; the record you're building will make them visible."
}
