package llm

// GenerationParams carries provider generation settings passed through to the
// chat-completion payload. Keys use the caller-facing names; a few are
// renamed to the provider's wire names when the payload is built.
type GenerationParams map[string]any

// wireRenames maps caller-facing parameter names to the chat-completion
// field names the provider expects.
var wireRenames = map[string]string{
	"maxOutputTokens": "max_tokens",
	"stop_sequences":  "stop",
	"candidate_count": "n",
}

// applyTo copies every parameter into payload, renaming where the wire
// format differs. Unknown keys pass through untouched.
func (p GenerationParams) applyTo(payload map[string]any) {
	for k, v := range p {
		if wire, ok := wireRenames[k]; ok {
			payload[wire] = v
			continue
		}
		payload[k] = v
	}
}

// merged returns a copy of p with overrides applied on top.
func (p GenerationParams) merged(overrides GenerationParams) GenerationParams {
	out := make(GenerationParams, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
