// Package events publishes registration outcomes to the configured sinks
package events

import (
	"context"
	"errors"
	"time"

	"ipvault/internal/platform/logger"

	"github.com/google/uuid"
)

// Event is one terminal registration outcome
type Event struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	ItemID  string    `json:"item_id"`
	Trigger string    `json:"trigger"`
	State   string    `json:"state"`
	Owner   string    `json:"owner,omitempty"`
	Hash    string    `json:"hash,omitempty"`
	AssetID string    `json:"asset_id,omitempty"`
	TxHash  string    `json:"tx_hash,omitempty"`

	// Degraded lists storage slots that failed
	Degraded []string `json:"degraded,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Stamp fills ID and At when unset
func (e Event) Stamp(now time.Time) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = now.UTC()
	}
	return e
}

// Sink receives events; implementations must be safe for concurrent use
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every sink and joins their errors
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes events to the structured log, the sink of last resort
type Log struct{}

func (Log) Publish(ctx context.Context, e Event) error {
	ev := logger.C(ctx).Info()
	if e.Code != "" {
		ev = logger.C(ctx).Warn().Str("code", e.Code)
	}
	ev.Str("event_id", e.ID).
		Str("item_id", e.ItemID).
		Str("trigger", e.Trigger).
		Str("state", e.State).
		Str("asset_id", e.AssetID).
		Msg("registration outcome")
	return nil
}
