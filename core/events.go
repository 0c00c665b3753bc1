package core

import (
	"context"
	"time"
)

// Event kinds emitted by the engine.
const (
	EventPoolInitialized   = "pool.initialized"
	EventCreatureAssigned  = "creature.assigned"
	EventCreatureDuplicate = "creature.duplicate"
	EventCreatureRevoked   = "creature.revoked"
	EventLedgerCredited    = "ledger.credited"
	EventLedgerDebited     = "ledger.debited"
	EventWheelSpun         = "wheel.spun"
	EventWheelRefreshed    = "wheel.refreshed"
	EventRewardDistributed = "reward.distributed"
)

// Event is a structured outcome handed to the notification sink.
// Presenting it to anyone is the sink's business.
type Event struct {
	Kind           string
	OrganizationID string
	StudentID      string
	Attrs          map[string]interface{}
	OccurredAt     time.Time
}

// EventSink receives engine outcome events. Emit must not block for long.
type EventSink interface {
	Emit(ctx context.Context, evt Event)
}

// MultiSink fans an Event out to every sink.
type MultiSink []EventSink

func (ms MultiSink) Emit(ctx context.Context, evt Event) {
	for _, s := range ms {
		if s != nil {
			s.Emit(ctx, evt)
		}
	}
}

// NopSink drops events.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}
