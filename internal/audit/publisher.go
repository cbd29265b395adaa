package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sss/pkg/requestcontext"
)

// Publisher delivers events to a sink. Emit is best-effort: a failed emit
// must never fail the business operation that produced it.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Emit fills event bookkeeping fields, logs the event, and forwards it to
// the publisher when one is configured. Emit failures are logged and
// swallowed.
func Emit(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if logger != nil {
		logger.InfoContext(ctx, event.Action,
			"log_type", "audit",
			"stablecoin", event.Stablecoin,
			"actor", event.Actor,
			"target", event.Target,
			"amount", event.Amount,
			"detail", event.Detail,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}

// Recorder is an in-memory publisher for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByAction filters recorded events by action name.
func (r *Recorder) ByAction(action string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

var _ Publisher = (*Recorder)(nil)
