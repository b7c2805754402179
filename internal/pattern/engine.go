package pattern

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hpungsan/ripple/internal/journal"
)

// ErrNoClient is returned when an eligible request needs the model but no
// provider client is configured.
var ErrNoClient = errors.New("no model client configured")

// Engine orchestrates one reflection request: gate, select, prompt, one model
// call, recovery, sanitization, cache. Requests for different journals are
// independent; the only suspension point is the model call, which is awaited
// to completion with no cancellation path of its own.
type Engine struct {
	client Client
	cache  *Cache
	now    func() time.Time
}

// NewEngine creates an engine. client may be nil when no provider is
// configured; the gate and cache still work, but any request that would need
// the model fails with a configuration error.
func NewEngine(client Client) *Engine {
	return &Engine{
		client: client,
		cache:  NewCache(),
		now:    time.Now,
	}
}

// Options control one reflection request.
type Options struct {
	// ForceRefresh bypasses the result cache for this request.
	ForceRefresh bool

	// Debug attaches diagnostic detail to the outcome.
	Debug bool
}

// Reflect runs the full pipeline for one journal's entries. Every model-side
// failure degrades to a successful silent or templated outcome; the returned
// error is reserved for genuine misconfiguration (no model client).
func (e *Engine) Reflect(ctx context.Context, journalName string, entries []journal.Entry, opts Options) (*Outcome, error) {
	sorted := make([]journal.Entry, len(entries))
	copy(sorted, entries)
	journal.SortAscending(sorted)

	gate := EvaluateGate(sorted)
	if !gate.Eligible {
		out := silentOutcome()
		e.attachDebug(out, opts, &Debug{
			Reason:       gate.Reason,
			Source:       SourceGate,
			NonVentCount: gate.NonVentCount,
			SpanDays:     gate.SpanDays,
		})
		return out, nil
	}

	fingerprint := journal.Fingerprint(sorted)

	if !opts.ForceRefresh {
		if entry, ok := e.cache.Get(journalName); ok && entry.Usable(fingerprint, e.now()) {
			out := entry.Value
			e.attachDebug(&out, opts, &Debug{
				Source:      SourceCache,
				Fingerprint: fingerprint,
				SpanDays:    gate.SpanDays,
			})
			return &out, nil
		}
	}

	if e.client == nil {
		return nil, ErrNoClient
	}

	selected := selectEntries(sorted)
	req, err := buildPrompt(selected)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	reply, err := e.client.Generate(ctx, req)
	if err != nil {
		if pErr, ok := err.(*ProviderError); ok {
			reason := ReasonProviderError
			if pErr.RateLimited() {
				reason = ReasonRateLimited
			}
			out := silentOutcome()
			e.attachDebug(out, opts, &Debug{
				Reason:            reason,
				Source:            SourceModel,
				Fingerprint:       fingerprint,
				Model:             pErr.ModelName,
				SpanDays:          gate.SpanDays,
				RetryAfterSeconds: pErr.RetryAfterSeconds,
			})
			return out, nil
		}
		return nil, err
	}

	out, reason := e.resolve(reply, gate.SpanDays)

	// Only speaking outcomes are worth remembering; a silent or failed
	// outcome must never evict a prior good answer.
	if out.ShouldSpeak {
		e.cache.Put(journalName, CacheEntry{
			Fingerprint: fingerprint,
			Timestamp:   e.now(),
			Value:       *out,
		})
	}

	source := SourceModel
	if reason == ReasonBannedLanguage || reason == ReasonNoPattern {
		source = SourceTemplate
	}
	e.attachDebug(out, opts, &Debug{
		Reason:          reason,
		Source:          source,
		Fingerprint:     fingerprint,
		Model:           reply.ModelName,
		FinishReason:    reply.FinishReason,
		NonVentCount:    gate.NonVentCount,
		SpanDays:        gate.SpanDays,
		SelectedEntries: len(selected),
	})
	return out, nil
}

// resolve applies the decision ladder to a model reply: recovery, shape
// validation, content policy, soft-speak, emptiness. First match wins.
func (e *Engine) resolve(reply *Reply, spanDays int) (*Outcome, string) {
	candidate := extractCandidate(reply.Text)
	if candidate == nil {
		return silentOutcome(), ReasonInvalidJSON
	}

	v, ok := validateShape(candidate)
	if !ok {
		return silentOutcome(), ReasonInvalidShape
	}

	if containsBanned(v.Reflection, v.Themes) {
		// Do not discard: replace with a neutral time-based reflection
		// derived only from the date span.
		return speakingOutcome(bannedSubstituteReflection(spanDays), nil, spanPhrase(spanDays)), ReasonBannedLanguage
	}

	if !v.ShouldSpeak {
		// Soft-speak: an eligible writer always gets some acknowledgment.
		return speakingOutcome(noPatternReflection(), nil, spanPhrase(spanDays)), ReasonNoPattern
	}

	reflection := sanitizeReflection(v.Reflection)
	if reflection == "" {
		return silentOutcome(), ReasonEmptyReflection
	}

	timeRange := sanitizeTimeRange(v.TimeRange)
	if timeRange == "" {
		timeRange = spanPhrase(spanDays)
	}

	return speakingOutcome(reflection, sanitizeThemes(v.Themes), timeRange), ""
}

// attachDebug fills in the debug block when requested. Cached values carry
// no debug of their own, so this never mutates what the cache stores.
func (e *Engine) attachDebug(out *Outcome, opts Options, d *Debug) {
	if opts.Debug {
		out.Debug = d
	} else {
		out.Debug = nil
	}
}
