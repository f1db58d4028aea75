package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// GuardrailOutput is the verdict of one input guardrail check.
type GuardrailOutput struct {
	Reasoning string `json:"reasoning"`
	Passed    bool   `json:"passed"`
}

// Guardrail is an input check run before the main turn. A failed check
// trips the refusal path instead of normal processing.
type Guardrail struct {
	Name  string
	Check func(ctx context.Context, input string) (GuardrailOutput, error)
}

// TripwireError signals that an input guardrail rejected the latest user
// message. It is expected control flow, not a system fault.
type TripwireError struct {
	Guardrail string
	Reasoning string
	Input     string
}

func (e *TripwireError) Error() string {
	return fmt.Sprintf("input guardrail tripped: %s: %s", e.Guardrail, e.Reasoning)
}

// ClassifyJSON runs a model-backed classification and returns the parsed
// JSON verdict. The raw output is validated against the given JSON schema
// before parsing; models that wrap the JSON in a markdown fence are
// tolerated.
func ClassifyJSON(ctx context.Context, provider LLMProvider, model, instructions, input, schema string) (map[string]interface{}, error) {
	resp, err := provider.Call(ctx, LLMRequest{
		Model:        model,
		SystemPrompt: instructions,
		Messages:     []Message{{Role: "user", Content: input}},
		MaxTokens:    512,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}

	raw := stripCodeFence(resp.Content)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("classifier output is not valid JSON: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("classifier output failed schema validation: %s", result.Errors()[0])
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse classifier output: %w", err)
	}
	return out, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
