package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gestiong/apiserver/internal/mq"
	"github.com/gestiong/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend replays canned messages through the handler, recording which
// ones the handler acknowledged and which it asked to redeliver.
type stubBackend struct {
	messages    []mq.Message
	queue       string
	acked       []string
	redelivered []string
}

func (s *stubBackend) Publish(_ context.Context, _ string, _ []byte, _ map[string]string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	s.queue = channel
	for _, msg := range s.messages {
		if err := handler(ctx, msg); err != nil {
			s.redelivered = append(s.redelivered, msg.ID)
			continue
		}
		s.acked = append(s.acked, msg.ID)
	}
	return nil
}

func (s *stubBackend) Close() error { return nil }

type capturingSender struct {
	sent []ReminderMessage
	err  error
}

func (c *capturingSender) Send(_ context.Context, msg ReminderMessage) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func payloadFor(t *testing.T, username string, cents int64) []byte {
	t.Helper()
	data, err := json.Marshal(ReminderMessage{
		Username: username,
		Email:    username + "@example.com",
		Expenses: []types.Expense{
			{ID: 1, Name: "Rent", Amount: types.Money{Cents: cents}, Date: types.NewDate(2024, 1, 1)},
		},
		Total: types.Money{Cents: cents},
	})
	require.NoError(t, err)
	return data
}

func TestNotifierDeliversQueuedReminders(t *testing.T) {
	backend := &stubBackend{messages: []mq.Message{
		{ID: "m1", Data: payloadFor(t, "ana", 50000)},
		{ID: "m2", Data: payloadFor(t, "bruno", 200)},
	}}
	sender := &capturingSender{}

	notifier := NewNotifier("recordatorios", mq.New(backend), sender, discardLogger())
	require.NoError(t, notifier.Run(context.Background()))

	assert.Equal(t, "recordatorios", backend.queue)
	assert.Equal(t, []string{"m1", "m2"}, backend.acked)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "ana", sender.sent[0].Username)
	assert.Equal(t, int64(50000), sender.sent[0].Total.Cents)
}

func TestNotifierDropsMalformedPayload(t *testing.T) {
	backend := &stubBackend{messages: []mq.Message{
		{ID: "bad", Data: []byte("{not json")},
		{ID: "good", Data: payloadFor(t, "ana", 100)},
	}}
	sender := &capturingSender{}

	notifier := NewNotifier("recordatorios", mq.New(backend), sender, discardLogger())
	require.NoError(t, notifier.Run(context.Background()))

	// Malformed input is acknowledged, not redelivered forever.
	assert.Equal(t, []string{"bad", "good"}, backend.acked)
	assert.Empty(t, backend.redelivered)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana", sender.sent[0].Username)
}

func TestNotifierRequestsRedeliveryOnSendFailure(t *testing.T) {
	backend := &stubBackend{messages: []mq.Message{
		{ID: "m1", Data: payloadFor(t, "ana", 100)},
	}}
	sender := &capturingSender{err: errors.New("smtp down")}

	notifier := NewNotifier("recordatorios", mq.New(backend), sender, discardLogger())
	require.NoError(t, notifier.Run(context.Background()))

	assert.Empty(t, backend.acked)
	assert.Equal(t, []string{"m1"}, backend.redelivered)
}
