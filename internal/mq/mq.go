// Package mq carries the notification traffic between the reminder pass and
// the delivery worker. The Backend interface keeps the broker swappable.
package mq

import "context"

// Message is one queued payload with its broker-assigned id and headers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler consumes one message. A non-nil error asks the backend to
// redeliver; nil acknowledges.
type Handler func(ctx context.Context, msg Message) error

// Backend is the broker contract: publish to a named queue, consume from
// one, release the connection.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ fronts a backend so callers depend on one type, not on the broker.
type MQ struct {
	backend Backend
}

func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Publish enqueues data on the named queue and returns the message id.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe drains the named queue through handler until ctx is canceled.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

func (m *MQ) Close() error {
	return m.backend.Close()
}
