package events

import (
	"context"
	"encoding/json"

	perr "ipvault/internal/platform/errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// SubjectPrefix is followed by the outcome state
const SubjectPrefix = "ipvault.registration."

// Subject returns the subject an event is published on
func Subject(e Event) string { return SubjectPrefix + e.State }

// publisher is the slice of a nats connection the core sink needs
type publisher interface {
	Publish(subj string, data []byte) error
}

// NATS publishes on core nats, fire and forget
type NATS struct{ nc publisher }

// NewNATS wraps an open connection
func NewNATS(nc *nats.Conn) *NATS { return &NATS{nc: nc} }

func (s *NATS) Publish(_ context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode event")
	}
	if err := s.nc.Publish(Subject(e), b); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "nats publish")
	}
	return nil
}

// jsPublisher is the slice of jetstream.JetStream the durable sink needs
type jsPublisher interface {
	Publish(ctx context.Context, subj string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStream publishes with an ack, deduplicated on the event id
type JetStream struct{ js jsPublisher }

// NewJetStream opens a jetstream context on nc
func NewJetStream(nc *nats.Conn) (*JetStream, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open jetstream")
	}
	return &JetStream{js: js}, nil
}

func (s *JetStream) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode event")
	}
	if _, err := s.js.Publish(ctx, Subject(e), b, jetstream.WithMsgID(e.ID)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "jetstream publish")
	}
	return nil
}
