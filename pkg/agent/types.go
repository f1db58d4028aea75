package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Message represents one entry in a conversation, including the tool
// plumbing exchanged with the model mid-turn.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Tool is a function the model can call. Execute receives the parsed
// arguments plus the conversation's context bag, which it may mutate.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]interface{}
	Execute     func(ctx context.Context, args map[string]interface{}, bag map[string]string) (string, error)
}

// Agent declares one conversational agent: its prompt, tools, the agents it
// can hand off to, and the input guardrails that gate every turn.
// Instructions receives the context bag so prompts can include profile
// fields the way the runtime sees them.
type Agent struct {
	Name               string
	Model              string
	HandoffDescription string
	Instructions       func(bag map[string]string) string
	Tools              []Tool
	Handoffs           []string
	InputGuardrails    []Guardrail
}

// HandoffToolName returns the pseudo-tool name used to transfer the
// conversation to this agent.
func HandoffToolName(agentName string) string {
	slug := strings.ToLower(agentName)
	slug = strings.ReplaceAll(slug, " ", "_")
	return "transfer_to_" + slug
}

// RunItem is one visible event produced during a run.
type RunItem struct {
	Type     string                 `json:"type"` // message, tool_call, tool_output, handoff
	Agent    string                 `json:"agent"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RunResult is the outcome of one successful turn.
type RunResult struct {
	// FinalAgent handles the next turn.
	FinalAgent string

	// Transcript is the canonical user/assistant history after the turn,
	// stripped of tool plumbing. It replaces the stored history wholesale.
	Transcript []Message

	// Items are the turn's visible events in order.
	Items []RunItem
}

// Registry holds the agent graph by name.
type Registry struct {
	agents  map[string]*Agent
	ordered []string
	mu      sync.RWMutex
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*Agent),
	}
}

// Register adds an agent. Duplicate names are an error.
func (r *Registry) Register(a *Agent) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[a.Name]; exists {
		return fmt.Errorf("agent already registered: %s", a.Name)
	}
	r.agents[a.Name] = a
	r.ordered = append(r.ordered, a.Name)
	return nil
}

// Get retrieves an agent by name.
func (r *Registry) Get(name string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, exists := r.agents[name]
	if !exists {
		return nil, fmt.Errorf("agent not found: %s", name)
	}
	return a, nil
}

// List returns all agents in registration order.
func (r *Registry) List() []*Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Agent, 0, len(r.ordered))
	for _, name := range r.ordered {
		out = append(out, r.agents[name])
	}
	return out
}
