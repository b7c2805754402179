package pattern

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Reply is a successful model response.
type Reply struct {
	ModelName    string
	Text         string
	FinishReason string
	PartsCount   int
}

// ProviderError is a failed model call. It is data, not a fault: the engine
// degrades it to a silent outcome and never retries (retrying would amplify
// quota pressure on an already rate-limited provider).
type ProviderError struct {
	ModelName         string
	Status            int
	Message           string
	RetryAfterSeconds int
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
}

// RateLimited reports whether the provider rejected the call for quota reasons.
func (e *ProviderError) RateLimited() bool {
	return e.Status == 429
}

// Client performs exactly one call to the language-model provider per request.
type Client interface {
	Generate(ctx context.Context, req PromptRequest) (*Reply, error)
}

// retryAfterPattern matches provider retry metadata: an integer followed by
// the letter "s" (e.g. "retry in 17s", "retryDelay: 40s").
var retryAfterPattern = regexp.MustCompile(`\b(\d+)s\b`)

// parseRetryAfter extracts retry-after seconds from a provider error message.
// Returns 0 when no retry metadata is present.
func parseRetryAfter(msg string) int {
	m := retryAfterPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return seconds
}

// longerText returns the longer of two reconstructions of the model's reply.
// The provider's aggregated text is known to occasionally under-report the
// final part of a reply, so the client keeps its own concatenation and takes
// whichever is longer.
func longerText(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}
