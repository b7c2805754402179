// Package pattern implements the journal pattern reflection engine: given a
// journal's entries it decides whether enough longitudinal signal exists,
// builds a bounded prompt for a generative model, recovers a structured
// result from an unreliable reply, sanitizes it, and caches the outcome.
package pattern

// Outcome is the canonical user-facing result of a reflection request.
// Invitation is always nil; Reflection and TimeRange are both nil exactly
// when ShouldSpeak is false.
type Outcome struct {
	ShouldSpeak bool     `json:"shouldSpeak"`
	Reflection  *string  `json:"reflection"`
	Themes      []string `json:"themes"`
	TimeRange   *string  `json:"timeRange"`
	Invitation  *string  `json:"invitation"`
	Debug       *Debug   `json:"debug,omitempty"`
}

// Debug carries diagnostic detail, attached only when the caller asks for it.
type Debug struct {
	Reason            string `json:"reason,omitempty"`
	Source            string `json:"source,omitempty"`
	Fingerprint       string `json:"fingerprint,omitempty"`
	Model             string `json:"model,omitempty"`
	FinishReason      string `json:"finish_reason,omitempty"`
	NonVentCount      int    `json:"non_vent_count,omitempty"`
	SpanDays          int    `json:"span_days,omitempty"`
	SelectedEntries   int    `json:"selected_entries,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// Debug sources.
const (
	SourceGate     = "gate"
	SourceCache    = "cache"
	SourceModel    = "model"
	SourceTemplate = "template"
)

// Silent/degradation reasons. Every reason except the gate reasons and
// no_pattern describes a recovery failure at the model boundary; none of
// them surface to the caller as an error.
const (
	ReasonNotEnoughEntries = "not_enough_entries"
	ReasonNotEnoughSpan    = "not_enough_span"
	ReasonProviderError    = "provider_error"
	ReasonRateLimited      = "rate_limited"
	ReasonInvalidJSON      = "invalid_json"
	ReasonInvalidShape     = "invalid_shape"
	ReasonBannedLanguage   = "banned_language"
	ReasonNoPattern        = "no_pattern"
	ReasonEmptyReflection  = "empty_reflection"
)

// silentOutcome builds the quiet "nothing to say yet" envelope.
func silentOutcome() *Outcome {
	return &Outcome{
		ShouldSpeak: false,
		Themes:      []string{},
	}
}

// speakingOutcome builds an envelope carrying actual content.
func speakingOutcome(reflection string, themes []string, timeRange string) *Outcome {
	if themes == nil {
		themes = []string{}
	}
	return &Outcome{
		ShouldSpeak: true,
		Reflection:  &reflection,
		Themes:      themes,
		TimeRange:   &timeRange,
	}
}
