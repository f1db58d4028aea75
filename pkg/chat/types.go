// Package chat sequences conversational turns: it loads or creates the
// conversation record, delegates the turn to the agent runtime, reconciles
// guardrail outcomes, diffs context changes, and persists the result.
package chat

// Request is one inbound chat turn.
type Request struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// MessageResponse is one assistant message visible to the caller.
type MessageResponse struct {
	Content string `json:"content"`
	Agent   string `json:"agent,omitempty"`
}

// AgentEvent is one visible event from the turn: a handoff, a tool call or
// its output, or a context update.
type AgentEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Agent     string                 `json:"agent"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// GuardrailCheck reports one guardrail verdict for the turn.
type GuardrailCheck struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Input     string `json:"input"`
	Reasoning string `json:"reasoning"`
	Passed    bool   `json:"passed"`
	Timestamp int64  `json:"timestamp"`
}

// AgentInfo is metadata about one registered agent.
type AgentInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Handoffs        []string `json:"handoffs"`
	Tools           []string `json:"tools"`
	InputGuardrails []string `json:"input_guardrails"`
}

// Response is the full payload for one completed turn.
type Response struct {
	ConversationID string            `json:"conversation_id"`
	CurrentAgent   string            `json:"current_agent"`
	Messages       []MessageResponse `json:"messages"`
	Events         []AgentEvent      `json:"events"`
	Context        map[string]string `json:"context"`
	Agents         []AgentInfo       `json:"agents"`
	Guardrails     []GuardrailCheck  `json:"guardrails"`
}
