package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the inactivity window after which the remote backend drops
// a conversation. Every save and every ExtendTTL resets the countdown.
const DefaultTTL = 2 * time.Hour

// maxRecordBytes bounds the serialized record size accepted by a save.
const maxRecordBytes = 1 << 20

// keyPrefix namespaces conversation keys in the remote backend.
const keyPrefix = "conversation:"

// Message is one role-tagged entry in a conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is the full persisted state of one conversation: the transcript,
// the agent that should handle the next turn, and the context bag with all
// values coerced to strings.
type Record struct {
	History      []Message         `json:"message_history"`
	CurrentAgent string            `json:"active_agent"`
	Context      map[string]string `json:"context"`
}

// Clone returns a deep copy of the record so callers can mutate it without
// aliasing shared state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		History:      make([]Message, len(r.History)),
		CurrentAgent: r.CurrentAgent,
		Context:      make(map[string]string, len(r.Context)),
	}
	copy(out.History, r.History)
	for k, v := range r.Context {
		out.Context[k] = v
	}
	return out
}

// ConversationStore is the persistence contract shared by both backends.
// Get returns (nil, nil) for an absent conversation; a non-nil error is
// always a *StoreError and means the caller should treat the conversation
// as absent (reads) or accept the lost write (writes).
type ConversationStore interface {
	Get(ctx context.Context, conversationID string) (*Record, error)
	Save(ctx context.Context, conversationID string, rec *Record) error
	Delete(ctx context.Context, conversationID string) error

	// ExtendTTL resets the inactivity countdown without touching the
	// record. A no-op on backends without expiry.
	ExtendTTL(ctx context.Context, conversationID string) error

	// Type identifies the backend ("redis" or "memory") for diagnostics.
	Type() string

	Close() error
}

// ErrorKind classifies store failures.
type ErrorKind int

const (
	// KindConfiguration means no endpoint was configured. Selection-time
	// only; triggers fallback and is never surfaced to a request.
	KindConfiguration ErrorKind = iota

	// KindConnectivity means the liveness check at construction failed.
	KindConnectivity

	// KindRead is a transient fetch or decode failure. Equivalent to an
	// absent record from the caller's point of view.
	KindRead

	// KindWrite is a transient persist failure. The turn completes; the
	// next request starts fresh.
	KindWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnectivity:
		return "connectivity"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// StoreError wraps a backend failure with its classification.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ErrNotConfigured is returned by NewRedisStore when no URL is set.
var ErrNotConfigured = errors.New("no redis URL configured")

// Key returns the namespaced store key for a conversation.
func Key(conversationID string) string {
	return keyPrefix + conversationID
}
