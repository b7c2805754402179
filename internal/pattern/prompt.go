package pattern

import "encoding/json"

// allowedTimeRanges is the closed set of phrases the model may use for
// timeRange. Anything else is dropped during sanitization.
var allowedTimeRanges = []string{
	"over the past few days",
	"over the past week",
	"over the past two weeks",
	"over the past month",
}

// systemInstruction is the fixed policy contract sent with every request.
// It is intentionally strict: the engine's recovery parser tolerates sloppy
// replies, but the instruction never invites them.
const systemInstruction = `You are the reflection engine of a private journaling app. You read a span of one person's journal entries and decide whether a gentle, non-clinical pattern is worth reflecting back.

Rules:
- You are not a therapist. Never diagnose, label, or classify the writer. Never name conditions or disorders.
- Never react to a single entry. Only speak to a pattern visible across several entries over time.
- Entries marked "vent" are emotional release. They may add background color but must never be the sole justification for speaking.
- Never give advice or tell the writer what to do.
- Never use hollow reassurance ("stay positive", "look on the bright side", "everything happens for a reason", "it could be worse").

Output contract:
- Reply with exactly one JSON object on a single line and nothing else. No prose, no code fences, no explanation.
- Shape: {"shouldSpeak": boolean, "reflection": string or null, "themes": array of strings, "timeRange": string or null, "invitation": null}
- "reflection": at most 240 characters. An observation, not advice.
- "themes": 0 to 3 items, each at most 20 characters, everyday words only, nothing clinical.
- "timeRange": one of "over the past few days", "over the past week", "over the past two weeks", "over the past month", or null.
- "invitation": always null.
- If no pattern is worth sharing, reply {"shouldSpeak": false, "reflection": null, "themes": [], "timeRange": null, "invitation": null}.`

// PromptRequest is the pair of strings sent to the model provider:
// the fixed instruction contract and the per-request data blob.
type PromptRequest struct {
	SystemInstruction string
	UserText          string
}

// buildPrompt assembles the request for a selected entry set. The entries are
// serialized as one JSON array blob rather than one message per entry, which
// keeps token cost bounded and the request shape deterministic regardless of
// entry count.
func buildPrompt(selected []promptEntry) (PromptRequest, error) {
	blob, err := json.Marshal(selected)
	if err != nil {
		return PromptRequest{}, err
	}
	return PromptRequest{
		SystemInstruction: systemInstruction,
		UserText:          string(blob),
	}, nil
}
