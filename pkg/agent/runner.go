package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// defaultMaxIterations bounds the tool-calling loop within one turn.
const defaultMaxIterations = 10

// Runtime executes one conversational turn for a named agent. A tripwire
// from an input guardrail is returned as *TripwireError; any other error is
// a runtime failure.
type Runtime interface {
	Run(ctx context.Context, agentName string, history []Message, bag map[string]string) (*RunResult, error)
}

// Runner drives the agent loop: input guardrails first, then a bounded
// model/tool exchange that may hand the conversation off between agents.
type Runner struct {
	registry      *Registry
	provider      LLMProvider
	logger        zerolog.Logger
	maxIterations int
}

// RunnerConfig holds runner construction parameters.
type RunnerConfig struct {
	Registry      *Registry
	Provider      LLMProvider
	Logger        zerolog.Logger
	MaxIterations int
}

// NewRunner creates a runner over a registry and provider.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("LLM provider is required")
	}
	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = defaultMaxIterations
	}
	return &Runner{
		registry:      cfg.Registry,
		provider:      cfg.Provider,
		logger:        cfg.Logger,
		maxIterations: maxIterations,
	}, nil
}

// Run executes one turn starting at the named agent.
func (r *Runner) Run(ctx context.Context, agentName string, history []Message, bag map[string]string) (*RunResult, error) {
	current, err := r.registry.Get(agentName)
	if err != nil {
		return nil, err
	}

	input := latestUserMessage(history)

	for _, g := range current.InputGuardrails {
		out, err := g.Check(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("guardrail %s check failed: %w", g.Name, err)
		}
		if !out.Passed {
			r.logger.Info().
				Str("guardrail", g.Name).
				Str("agent", current.Name).
				Msg("Input guardrail tripped")
			return nil, &TripwireError{
				Guardrail: g.Name,
				Reasoning: out.Reasoning,
				Input:     input,
			}
		}
	}

	msgs := make([]Message, len(history))
	copy(msgs, history)

	var items []RunItem

	for i := 0; i < r.maxIterations; i++ {
		resp, err := r.provider.Call(ctx, LLMRequest{
			Model:        current.Model,
			Messages:     msgs,
			Tools:        r.toolDefs(current),
			SystemPrompt: current.Instructions(bag),
		})
		if err != nil {
			return nil, fmt.Errorf("provider call failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			msgs = append(msgs, Message{Role: "assistant", Content: resp.Content})
			items = append(items, RunItem{
				Type:    "message",
				Agent:   current.Name,
				Content: resp.Content,
			})
			return &RunResult{
				FinalAgent: current.Name,
				Transcript: canonicalTranscript(msgs),
				Items:      items,
			}, nil
		}

		msgs = append(msgs, Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// The agent switch applies after the whole batch, so sibling tool
		// calls resolve against the agent that issued them. Only the first
		// handoff in a batch wins.
		var next *Agent
		for _, tc := range resp.ToolCalls {
			output, target := r.executeToolCall(ctx, current, tc, bag, &items)
			msgs = append(msgs, Message{
				Role:       "tool",
				Content:    output,
				ToolCallID: tc.ID,
			})
			if target != nil && next == nil {
				next = target
			}
		}
		if next != nil {
			current = next
		}
	}

	return nil, fmt.Errorf("agent loop exceeded %d iterations without a final response", r.maxIterations)
}

// executeToolCall runs one tool call, appending its events to items. When
// the call is a handoff it returns the target agent.
func (r *Runner) executeToolCall(ctx context.Context, current *Agent, tc ToolCall, bag map[string]string, items *[]RunItem) (string, *Agent) {
	for _, handoff := range current.Handoffs {
		if tc.Name != HandoffToolName(handoff) {
			continue
		}
		target, err := r.registry.Get(handoff)
		if err != nil {
			return fmt.Sprintf("handoff failed: %v", err), nil
		}
		*items = append(*items, RunItem{
			Type:    "handoff",
			Agent:   current.Name,
			Content: fmt.Sprintf("%s -> %s", current.Name, target.Name),
			Metadata: map[string]interface{}{
				"source_agent": current.Name,
				"target_agent": target.Name,
			},
		})
		r.logger.Debug().
			Str("from", current.Name).
			Str("to", target.Name).
			Msg("Agent handoff")
		return fmt.Sprintf("Transferred to %s.", target.Name), target
	}

	tool := findTool(current, tc.Name)
	if tool == nil {
		return fmt.Sprintf("unknown tool: %s", tc.Name), nil
	}

	*items = append(*items, RunItem{
		Type:    "tool_call",
		Agent:   current.Name,
		Content: tc.Name,
		Metadata: map[string]interface{}{
			"tool_args": tc.Parameters,
		},
	})

	output, err := r.runTool(ctx, tool, tc.Parameters, bag)
	if err != nil {
		r.logger.Warn().Err(err).Str("tool", tc.Name).Msg("Tool execution failed")
		output = fmt.Sprintf("tool error: %v", err)
	}

	*items = append(*items, RunItem{
		Type:    "tool_output",
		Agent:   current.Name,
		Content: output,
	})
	return output, nil
}

// runTool validates arguments against the tool schema and executes it.
func (r *Runner) runTool(ctx context.Context, tool *Tool, args map[string]interface{}, bag map[string]string) (string, error) {
	if tool.Schema != nil {
		if args == nil {
			args = map[string]interface{}{}
		}
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(tool.Schema),
			gojsonschema.NewGoLoader(args),
		)
		if err != nil {
			return "", fmt.Errorf("argument validation failed: %w", err)
		}
		if !result.Valid() {
			return "", fmt.Errorf("invalid arguments: %s", result.Errors()[0])
		}
	}
	return tool.Execute(ctx, args, bag)
}

func (r *Runner) toolDefs(a *Agent) []ToolDef {
	defs := make([]ToolDef, 0, len(a.Tools)+len(a.Handoffs))
	for _, t := range a.Tools {
		defs = append(defs, ToolDef{
			Name:        t.Name,
			Description: t.Description,
			Schema:      t.Schema,
		})
	}
	for _, handoff := range a.Handoffs {
		desc := fmt.Sprintf("Transfer the conversation to %s.", handoff)
		if target, err := r.registry.Get(handoff); err == nil && target.HandoffDescription != "" {
			desc = fmt.Sprintf("Transfer the conversation to %s. %s", handoff, target.HandoffDescription)
		}
		defs = append(defs, ToolDef{
			Name:        HandoffToolName(handoff),
			Description: desc,
			Schema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		})
	}
	return defs
}

func findTool(a *Agent, name string) *Tool {
	for i := range a.Tools {
		if a.Tools[i].Name == name {
			return &a.Tools[i]
		}
	}
	return nil
}

func latestUserMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

// canonicalTranscript strips tool plumbing, keeping the user/assistant
// exchange that gets persisted between turns.
func canonicalTranscript(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		if m.Content == "" {
			continue
		}
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}
