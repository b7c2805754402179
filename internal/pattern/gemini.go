package pattern

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// maxOutputTokens bounds the reply; the output contract is one short JSON
// object, so anything longer is waste.
const maxOutputTokens = 1024

// GeminiClient is the production Client backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed model client. The API key comes
// only from GEMINI_API_KEY; a missing key is the one reflection failure that
// surfaces to callers as a real error rather than a silent outcome.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Generate implements Client with a single non-streaming call. No retry under
// any failure; rate-limit metadata is passed through for diagnostics only.
func (g *GeminiClient) Generate(ctx context.Context, req PromptRequest) (*Reply, error) {
	temp := float32(0.4)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   maxOutputTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(req.UserText, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, &ProviderError{
			ModelName:         g.model,
			Status:            statusFromError(err),
			Message:           err.Error(),
			RetryAfterSeconds: parseRetryAfter(err.Error()),
		}
	}

	// Reconstruct the reply text as the longer of the SDK's aggregate and a
	// manual part concatenation; the aggregate is known to occasionally drop
	// the tail of the final part.
	aggregated := res.Text()
	manual := ""
	finishReason := ""
	partsCount := 0
	if len(res.Candidates) > 0 {
		cand := res.Candidates[0]
		finishReason = string(cand.FinishReason)
		if cand.Content != nil {
			partsCount = len(cand.Content.Parts)
			var sb strings.Builder
			for _, part := range cand.Content.Parts {
				if part != nil {
					sb.WriteString(part.Text)
				}
			}
			manual = sb.String()
		}
	}

	return &Reply{
		ModelName:    g.model,
		Text:         longerText(aggregated, manual),
		FinishReason: finishReason,
		PartsCount:   partsCount,
	}, nil
}

// statusFromError maps a provider error to an HTTP-ish status by inspecting
// the message. The SDK does not guarantee a structured error type across
// transports, so this stays deliberately string-based.
func statusFromError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return 429
	case strings.Contains(msg, "401") || strings.Contains(msg, "UNAUTHENTICATED") || strings.Contains(msg, "API key"):
		return 401
	case strings.Contains(msg, "403") || strings.Contains(msg, "PERMISSION_DENIED"):
		return 403
	case strings.Contains(msg, "503") || strings.Contains(msg, "UNAVAILABLE"):
		return 503
	case strings.Contains(msg, "400") || strings.Contains(msg, "INVALID_ARGUMENT"):
		return 400
	default:
		return 502
	}
}
