package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hanbyul/triago/internal/metrics"
	"github.com/hanbyul/triago/pkg/agent"
	"github.com/hanbyul/triago/pkg/store"
)

// refusalMessage is returned when an input guardrail trips.
const refusalMessage = "Sorry, I can only answer questions related to the developer's profile."

// Orchestrator handles one conversational turn end to end. Store failures
// never fail a turn: an unreadable conversation starts fresh and a failed
// save costs only continuity on the next request.
type Orchestrator struct {
	store        store.ConversationStore
	runtime      agent.Runtime
	registry     *agent.Registry
	defaultAgent string
	newContext   func() map[string]string
	logger       zerolog.Logger
}

// Config holds orchestrator construction parameters.
type Config struct {
	Store    store.ConversationStore
	Runtime  agent.Runtime
	Registry *agent.Registry

	// DefaultAgent is the entry-point agent for new conversations.
	DefaultAgent string

	// NewContext is the domain factory for a fresh context bag.
	NewContext func() map[string]string

	Logger zerolog.Logger
}

// New creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("conversation store is required")
	}
	if cfg.Runtime == nil {
		return nil, fmt.Errorf("agent runtime is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	if cfg.DefaultAgent == "" {
		return nil, fmt.Errorf("default agent is required")
	}
	if cfg.NewContext == nil {
		return nil, fmt.Errorf("context factory is required")
	}
	return &Orchestrator{
		store:        cfg.Store,
		runtime:      cfg.Runtime,
		registry:     cfg.Registry,
		defaultAgent: cfg.DefaultAgent,
		newContext:   cfg.NewContext,
		logger:       cfg.Logger,
	}, nil
}

// StoreType names the backend behind this orchestrator, for diagnostics.
func (o *Orchestrator) StoreType() string {
	return o.store.Type()
}

// HandleTurn runs one turn. A guardrail tripwire produces a structured
// refusal response, not an error; any other runtime failure propagates.
func (o *Orchestrator) HandleTurn(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = newConversationID()
	}

	rec, err := o.store.Get(ctx, conversationID)
	if err != nil {
		// Unreadable state degrades to a fresh session.
		o.logger.Debug().Err(err).Str("conversation_id", conversationID).Msg("Store read failed, starting fresh")
		rec = nil
	}
	if rec == nil {
		rec = &store.Record{
			CurrentAgent: o.defaultAgent,
			Context:      o.newContext(),
		}
	}
	if rec.Context == nil {
		rec.Context = o.newContext()
	}
	if _, err := o.registry.Get(rec.CurrentAgent); err != nil {
		rec.CurrentAgent = o.defaultAgent
	}
	startingAgent := rec.CurrentAgent

	before := make(map[string]string, len(rec.Context))
	for k, v := range rec.Context {
		before[k] = v
	}

	rec.History = append(rec.History, store.Message{Role: "user", Content: req.Message})

	result, err := o.runtime.Run(ctx, startingAgent, toAgentHistory(rec.History), rec.Context)
	if err != nil {
		var trip *agent.TripwireError
		if errors.As(err, &trip) {
			metrics.IncGuardrailTrip(trip.Guardrail)
			metrics.RecordTurn(startingAgent, "refused", time.Since(start))
			return o.refusalResponse(conversationID, startingAgent, req.Message, rec.Context, trip), nil
		}
		metrics.RecordTurn(startingAgent, "error", time.Since(start))
		return nil, fmt.Errorf("agent runtime failed: %w", err)
	}

	changes := diffContext(before, rec.Context)

	// Slices stay non-nil so the wire shape is always a JSON array.
	messages := make([]MessageResponse, 0, len(result.Items))
	events := make([]AgentEvent, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Type == "message" {
			messages = append(messages, MessageResponse{Content: item.Content, Agent: item.Agent})
			continue
		}
		events = append(events, AgentEvent{
			ID:        uuid.NewString(),
			Type:      item.Type,
			Agent:     item.Agent,
			Content:   item.Content,
			Metadata:  item.Metadata,
			Timestamp: time.Now().UnixMilli(),
		})
	}
	if len(changes) > 0 {
		events = append(events, AgentEvent{
			ID:    uuid.NewString(),
			Type:  "context_update",
			Agent: result.FinalAgent,
			Metadata: map[string]interface{}{
				"changes": changes,
			},
			Timestamp: time.Now().UnixMilli(),
		})
	}

	rec.History = toStoreHistory(result.Transcript)
	rec.CurrentAgent = result.FinalAgent

	// Best-effort persistence: the store already logged any failure, and
	// a lost write only means the next turn starts fresh.
	if err := o.store.Save(ctx, conversationID, rec); err == nil {
		_ = o.store.ExtendTTL(ctx, conversationID)
	}

	metrics.RecordTurn(result.FinalAgent, "ok", time.Since(start))

	return &Response{
		ConversationID: conversationID,
		CurrentAgent:   result.FinalAgent,
		Messages:       messages,
		Events:         events,
		Context:        rec.Context,
		Agents:         o.agentsList(),
		Guardrails:     o.passedGuardrails(startingAgent, req.Message),
	}, nil
}

// refusalResponse reports a tripped guardrail: the failing check carries
// its reasoning, every other check on the agent is marked passed, and the
// caller gets a polite refusal without any state being persisted.
func (o *Orchestrator) refusalResponse(conversationID, agentName, input string, bag map[string]string, trip *agent.TripwireError) *Response {
	checks := make([]GuardrailCheck, 0)
	if a, err := o.registry.Get(agentName); err == nil {
		for _, g := range a.InputGuardrails {
			check := GuardrailCheck{
				ID:        uuid.NewString(),
				Name:      g.Name,
				Input:     input,
				Passed:    g.Name != trip.Guardrail,
				Timestamp: time.Now().UnixMilli(),
			}
			if !check.Passed {
				check.Reasoning = trip.Reasoning
			}
			checks = append(checks, check)
		}
	}

	return &Response{
		ConversationID: conversationID,
		CurrentAgent:   agentName,
		Messages:       []MessageResponse{{Content: refusalMessage, Agent: agentName}},
		Events:         []AgentEvent{},
		Context:        bag,
		Agents:         o.agentsList(),
		Guardrails:     checks,
	}
}

func (o *Orchestrator) passedGuardrails(agentName, input string) []GuardrailCheck {
	a, err := o.registry.Get(agentName)
	if err != nil {
		return []GuardrailCheck{}
	}
	checks := make([]GuardrailCheck, 0, len(a.InputGuardrails))
	for _, g := range a.InputGuardrails {
		checks = append(checks, GuardrailCheck{
			ID:        uuid.NewString(),
			Name:      g.Name,
			Input:     input,
			Passed:    true,
			Timestamp: time.Now().UnixMilli(),
		})
	}
	return checks
}

func (o *Orchestrator) agentsList() []AgentInfo {
	agents := o.registry.List()
	out := make([]AgentInfo, 0, len(agents))
	for _, a := range agents {
		info := AgentInfo{
			Name:            a.Name,
			Description:     a.HandoffDescription,
			Handoffs:        append([]string{}, a.Handoffs...),
			Tools:           make([]string, 0, len(a.Tools)),
			InputGuardrails: make([]string, 0, len(a.InputGuardrails)),
		}
		for _, t := range a.Tools {
			info.Tools = append(info.Tools, t.Name)
		}
		for _, g := range a.InputGuardrails {
			info.InputGuardrails = append(info.InputGuardrails, g.Name)
		}
		out = append(out, info)
	}
	return out
}

func toAgentHistory(history []store.Message) []agent.Message {
	out := make([]agent.Message, 0, len(history))
	for _, m := range history {
		out = append(out, agent.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func toStoreHistory(transcript []agent.Message) []store.Message {
	out := make([]store.Message, 0, len(transcript))
	for _, m := range transcript {
		out = append(out, store.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func newConversationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
