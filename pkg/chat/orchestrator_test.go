package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbyul/triago/pkg/agent"
	"github.com/hanbyul/triago/pkg/store"
)

// stubRuntime returns a canned result or error and records its inputs.
type stubRuntime struct {
	result *agent.RunResult
	err    error

	gotAgent   string
	gotHistory []agent.Message
	bagEdits   map[string]string
}

func (s *stubRuntime) Run(_ context.Context, agentName string, history []agent.Message, bag map[string]string) (*agent.RunResult, error) {
	s.gotAgent = agentName
	s.gotHistory = history
	for k, v := range s.bagEdits {
		bag[k] = v
	}
	return s.result, s.err
}

// failingStore errors on every operation, like Redis mid-outage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*store.Record, error) {
	return nil, &store.StoreError{Kind: store.KindRead, Op: "get", Err: errors.New("down")}
}
func (failingStore) Save(context.Context, string, *store.Record) error {
	return &store.StoreError{Kind: store.KindWrite, Op: "save", Err: errors.New("down")}
}
func (failingStore) Delete(context.Context, string) error    { return nil }
func (failingStore) ExtendTTL(context.Context, string) error { return nil }
func (failingStore) Type() string                            { return "redis" }
func (failingStore) Close() error                            { return nil }

func testRegistry(t *testing.T) *agent.Registry {
	t.Helper()

	reg := agent.NewRegistry()
	pass := func(context.Context, string) (agent.GuardrailOutput, error) {
		return agent.GuardrailOutput{Passed: true}, nil
	}
	require.NoError(t, reg.Register(&agent.Agent{
		Name:               "Triage Agent",
		HandoffDescription: "Routes questions to specialists.",
		Instructions:       func(map[string]string) string { return "triage" },
		Handoffs:           []string{"Career Agent"},
		InputGuardrails: []agent.Guardrail{
			{Name: "Relevance Guardrail", Check: pass},
			{Name: "Jailbreak Guardrail", Check: pass},
		},
	}))
	require.NoError(t, reg.Register(&agent.Agent{
		Name:               "Career Agent",
		HandoffDescription: "Answers career questions.",
		Instructions:       func(map[string]string) string { return "career" },
		Handoffs:           []string{"Triage Agent"},
	}))
	return reg
}

func newTestOrchestrator(t *testing.T, st store.ConversationStore, rt agent.Runtime) *Orchestrator {
	t.Helper()

	o, err := New(Config{
		Store:        st,
		Runtime:      rt,
		Registry:     testRegistry(t),
		DefaultAgent: "Triage Agent",
		NewContext:   func() map[string]string { return map[string]string{"name": "Hong"} },
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	return o
}

func messageResult(agentName, content string) *agent.RunResult {
	return &agent.RunResult{
		FinalAgent: agentName,
		Transcript: []agent.Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: content},
		},
		Items: []agent.RunItem{
			{Type: "message", Agent: agentName, Content: content},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	rt := &stubRuntime{}
	st := store.NewMemoryStore()
	reg := testRegistry(t)
	factory := func() map[string]string { return nil }

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing store", Config{Runtime: rt, Registry: reg, DefaultAgent: "a", NewContext: factory}},
		{"missing runtime", Config{Store: st, Registry: reg, DefaultAgent: "a", NewContext: factory}},
		{"missing registry", Config{Store: st, Runtime: rt, DefaultAgent: "a", NewContext: factory}},
		{"missing default agent", Config{Store: st, Runtime: rt, Registry: reg, NewContext: factory}},
		{"missing context factory", Config{Store: st, Runtime: rt, Registry: reg, DefaultAgent: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestHandleTurn_NewConversation(t *testing.T) {
	rt := &stubRuntime{result: messageResult("Triage Agent", "hello!")}
	o := newTestOrchestrator(t, store.NewMemoryStore(), rt)

	resp, err := o.HandleTurn(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	// A fresh conversation gets a generated hex id
	assert.Len(t, resp.ConversationID, 32)
	assert.NotContains(t, resp.ConversationID, "-")

	assert.Equal(t, "Triage Agent", resp.CurrentAgent)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hello!", resp.Messages[0].Content)
	assert.Equal(t, "Hong", resp.Context["name"])

	// Both guardrails reported as passed
	require.Len(t, resp.Guardrails, 2)
	for _, g := range resp.Guardrails {
		assert.True(t, g.Passed)
		assert.Equal(t, "hi", g.Input)
	}

	// All registered agents described in the payload
	assert.Len(t, resp.Agents, 2)
}

func TestHandleTurn_PersistsAcrossTurns(t *testing.T) {
	st := store.NewMemoryStore()
	rt := &stubRuntime{result: messageResult("Triage Agent", "first reply")}
	o := newTestOrchestrator(t, st, rt)
	ctx := context.Background()

	resp, err := o.HandleTurn(ctx, Request{Message: "hi"})
	require.NoError(t, err)

	// Second turn resumes the stored conversation
	rt.result = &agent.RunResult{
		FinalAgent: "Career Agent",
		Transcript: []agent.Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "first reply"},
			{Role: "user", Content: "tell me about work history"},
			{Role: "assistant", Content: "second reply"},
		},
		Items: []agent.RunItem{
			{Type: "message", Agent: "Career Agent", Content: "second reply"},
		},
	}

	resp2, err := o.HandleTurn(ctx, Request{ConversationID: resp.ConversationID, Message: "tell me about work history"})
	require.NoError(t, err)
	assert.Equal(t, resp.ConversationID, resp2.ConversationID)

	// The runtime saw the stored history plus the new user message
	require.Len(t, rt.gotHistory, 3)
	assert.Equal(t, "tell me about work history", rt.gotHistory[2].Content)

	rec, err := st.Get(ctx, resp.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Career Agent", rec.CurrentAgent)
	assert.Len(t, rec.History, 4)
}

func TestHandleTurn_ResumesStoredAgent(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, "conv-1", &store.Record{
		History:      []store.Message{{Role: "user", Content: "hi"}},
		CurrentAgent: "Career Agent",
		Context:      map[string]string{"name": "Hong"},
	}))

	rt := &stubRuntime{result: messageResult("Career Agent", "reply")}
	o := newTestOrchestrator(t, st, rt)

	_, err := o.HandleTurn(ctx, Request{ConversationID: "conv-1", Message: "more"})
	require.NoError(t, err)
	assert.Equal(t, "Career Agent", rt.gotAgent)
}

func TestHandleTurn_UnknownStoredAgentFallsBack(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, "conv-1", &store.Record{
		CurrentAgent: "Retired Agent",
		Context:      map[string]string{},
	}))

	rt := &stubRuntime{result: messageResult("Triage Agent", "reply")}
	o := newTestOrchestrator(t, st, rt)

	_, err := o.HandleTurn(ctx, Request{ConversationID: "conv-1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Triage Agent", rt.gotAgent)
}

func TestHandleTurn_StoreFailureDegrades(t *testing.T) {
	rt := &stubRuntime{result: messageResult("Triage Agent", "reply")}
	o := newTestOrchestrator(t, failingStore{}, rt)

	// Both the failed read and the failed save are absorbed
	resp, err := o.HandleTurn(context.Background(), Request{ConversationID: "conv-1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Equal(t, "reply", resp.Messages[0].Content)
}

func TestHandleTurn_ContextUpdateEvent(t *testing.T) {
	rt := &stubRuntime{
		result:   messageResult("Triage Agent", "noted"),
		bagEdits: map[string]string{"email": "hong@example.com"},
	}
	o := newTestOrchestrator(t, store.NewMemoryStore(), rt)

	resp, err := o.HandleTurn(context.Background(), Request{Message: "my email is hong@example.com"})
	require.NoError(t, err)

	var update *AgentEvent
	for i := range resp.Events {
		if resp.Events[i].Type == "context_update" {
			update = &resp.Events[i]
		}
	}
	require.NotNil(t, update)
	changes, ok := update.Metadata["changes"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"email": "hong@example.com"}, changes)
	assert.Equal(t, "hong@example.com", resp.Context["email"])
}

func TestHandleTurn_Tripwire(t *testing.T) {
	st := store.NewMemoryStore()
	rt := &stubRuntime{err: &agent.TripwireError{
		Guardrail: "Relevance Guardrail",
		Reasoning: "off topic",
		Input:     "write me a poem",
	}}
	o := newTestOrchestrator(t, st, rt)
	ctx := context.Background()

	resp, err := o.HandleTurn(ctx, Request{ConversationID: "conv-1", Message: "write me a poem"})
	require.NoError(t, err)

	require.Len(t, resp.Messages, 1)
	assert.Equal(t, refusalMessage, resp.Messages[0].Content)
	assert.Equal(t, "Triage Agent", resp.CurrentAgent)

	// The failing check carries the reasoning, the other is marked passed
	require.Len(t, resp.Guardrails, 2)
	byName := map[string]GuardrailCheck{}
	for _, g := range resp.Guardrails {
		byName[g.Name] = g
	}
	assert.False(t, byName["Relevance Guardrail"].Passed)
	assert.Equal(t, "off topic", byName["Relevance Guardrail"].Reasoning)
	assert.True(t, byName["Jailbreak Guardrail"].Passed)

	// Refused turns leave no trace in the store
	rec, err := st.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestHandleTurn_RuntimeError(t *testing.T) {
	rt := &stubRuntime{err: fmt.Errorf("provider exploded")}
	o := newTestOrchestrator(t, store.NewMemoryStore(), rt)

	_, err := o.HandleTurn(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider exploded")
}

func TestHandleTurn_EmptySlicesEncodeAsArrays(t *testing.T) {
	rt := &stubRuntime{result: messageResult("Triage Agent", "plain reply")}
	o := newTestOrchestrator(t, store.NewMemoryStore(), rt)
	ctx := context.Background()

	resp, err := o.HandleTurn(ctx, Request{Message: "hi"})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"events":[]`)
	assert.NotContains(t, string(data), `null`)

	// The refusal payload keeps the same shape
	rt.err = &agent.TripwireError{Guardrail: "Relevance Guardrail", Reasoning: "off topic", Input: "poem"}
	refusal, err := o.HandleTurn(ctx, Request{Message: "poem"})
	require.NoError(t, err)

	data, err = json.Marshal(refusal)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"events":[]`)
	assert.NotContains(t, string(data), `null`)
}

func TestHandleTurn_EventsFromItems(t *testing.T) {
	rt := &stubRuntime{result: &agent.RunResult{
		FinalAgent: "Career Agent",
		Transcript: []agent.Message{
			{Role: "user", Content: "career?"},
			{Role: "assistant", Content: "here you go"},
		},
		Items: []agent.RunItem{
			{Type: "handoff", Agent: "Triage Agent", Content: "Triage Agent -> Career Agent"},
			{Type: "tool_call", Agent: "Career Agent", Content: "get_work_history"},
			{Type: "tool_output", Agent: "Career Agent", Content: "5 years of Go"},
			{Type: "message", Agent: "Career Agent", Content: "here you go"},
		},
	}}
	o := newTestOrchestrator(t, store.NewMemoryStore(), rt)

	resp, err := o.HandleTurn(context.Background(), Request{Message: "career?"})
	require.NoError(t, err)

	require.Len(t, resp.Messages, 1)
	require.Len(t, resp.Events, 3)
	assert.Equal(t, "handoff", resp.Events[0].Type)
	assert.Equal(t, "tool_call", resp.Events[1].Type)
	assert.Equal(t, "tool_output", resp.Events[2].Type)
	for _, ev := range resp.Events {
		assert.NotEmpty(t, ev.ID)
		assert.NotZero(t, ev.Timestamp)
	}
}
