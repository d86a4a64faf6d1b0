package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gestiong/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users []types.User
	err   error
}

func (s *stubUsers) ListWithEmail(context.Context) ([]types.User, error) {
	return s.users, s.err
}

type stubLedger struct {
	due map[int][]types.Expense
	err error
}

func (s *stubLedger) DueExpenses(_ context.Context, userID int, _ types.Date) ([]types.Expense, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.due[userID], nil
}

type capturingPublisher struct {
	queue    string
	payloads [][]byte
	err      error
}

func (c *capturingPublisher) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.queue = channel
	c.payloads = append(c.payloads, data)
	return "msg-1", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPublishesPerUserWithDueExpenses(t *testing.T) {
	users := &stubUsers{users: []types.User{
		{ID: 1, Username: "ana", Email: "ana@example.com"},
		{ID: 2, Username: "bruno", Email: "bruno@example.com"},
	}}
	ledger := &stubLedger{due: map[int][]types.Expense{
		1: {
			{ID: 10, UserID: 1, Name: "Rent", Amount: types.Money{Cents: 50000}, Date: types.NewDate(2024, 1, 1)},
			{ID: 11, UserID: 1, Name: "Water", Amount: types.Money{Cents: 2500}, Date: types.NewDate(2024, 1, 2)},
		},
		// bruno has nothing due: no message for him.
	}}
	publisher := &capturingPublisher{}

	job := New(users, ledger, "recordatorios", publisher, discardLogger())
	err := job.Run(context.Background(), types.NewDate(2024, 1, 5))
	require.NoError(t, err)

	require.Len(t, publisher.payloads, 1)
	assert.Equal(t, "recordatorios", publisher.queue)

	var msg ReminderMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, "ana", msg.Username)
	assert.Equal(t, "ana@example.com", msg.Email)
	assert.Len(t, msg.Expenses, 2)
	assert.Equal(t, int64(52500), msg.Total.Cents)
}

func TestRunReportsFirstError(t *testing.T) {
	users := &stubUsers{users: []types.User{{ID: 1, Username: "ana", Email: "a@b"}}}
	ledger := &stubLedger{err: errors.New("store unavailable")}

	job := New(users, ledger, "recordatorios", &capturingPublisher{}, discardLogger())
	err := job.Run(context.Background(), types.NewDate(2024, 1, 5))
	assert.Error(t, err)
}

func TestRunPublishFailureDoesNotStopSweep(t *testing.T) {
	users := &stubUsers{users: []types.User{
		{ID: 1, Username: "ana", Email: "a@b"},
		{ID: 2, Username: "bruno", Email: "b@c"},
	}}
	ledger := &stubLedger{due: map[int][]types.Expense{
		1: {{ID: 10, UserID: 1, Name: "Rent", Amount: types.Money{Cents: 100}, Date: types.NewDate(2024, 1, 1)}},
		2: {{ID: 20, UserID: 2, Name: "Gym", Amount: types.Money{Cents: 200}, Date: types.NewDate(2024, 1, 1)}},
	}}
	publisher := &capturingPublisher{err: errors.New("broker down")}

	job := New(users, ledger, "recordatorios", publisher, discardLogger())
	err := job.Run(context.Background(), types.NewDate(2024, 1, 5))
	assert.Error(t, err)
	assert.Empty(t, publisher.payloads)
}
