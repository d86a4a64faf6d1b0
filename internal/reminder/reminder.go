// Package reminder implements the due-expense notification pass. It is run
// as a scheduled job outside the request-serving process: one read-only
// sweep over the ledger, one message per user, then exit.
package reminder

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gestiong/apiserver/internal/mq"
	"github.com/gestiong/apiserver/types"
)

// Publisher sends reminder payloads to the notification queue.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// UserSource lists the users reachable by notification email.
type UserSource interface {
	ListWithEmail(ctx context.Context) ([]types.User, error)
}

// LedgerSource reads the due expenses for one user.
type LedgerSource interface {
	DueExpenses(ctx context.Context, userID int, due types.Date) ([]types.Expense, error)
}

// Job scans each user's ledger for expenses due within the look-ahead
// window and publishes one reminder message per user with pending items.
type Job struct {
	users  UserSource
	ledger LedgerSource
	queue  string
	mq     Publisher
	logger *slog.Logger
}

// New constructs a reminder Job.
func New(users UserSource, ledger LedgerSource, queue string, publisher Publisher, logger *slog.Logger) *Job {
	return &Job{
		users:  users,
		ledger: ledger,
		queue:  queue,
		mq:     publisher,
		logger: logger,
	}
}

// ReminderMessage is the payload published for one user.
type ReminderMessage struct {
	Username string          `json:"usuario"`
	Email    string          `json:"email"`
	Expenses []types.Expense `json:"gastos"`
	Total    types.Money     `json:"total"`
}

// Run performs a single pass. Failures for one user are logged and do not
// stop the sweep; the first error is reported at the end.
func (j *Job) Run(ctx context.Context, dueBy types.Date) error {
	users, err := j.users.ListWithEmail(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, user := range users {
		due, err := j.ledger.DueExpenses(ctx, user.ID, dueBy)
		if err != nil {
			j.logger.Error("reminder scan failed", "usuario", user.Username, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(due) == 0 {
			continue
		}

		total := types.Money{}
		for _, expense := range due {
			total = total.Add(expense.Amount)
		}

		payload, err := json.Marshal(ReminderMessage{
			Username: user.Username,
			Email:    user.Email,
			Expenses: due,
			Total:    total,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		msgID, err := j.mq.Publish(ctx, j.queue, payload, map[string]string{"usuario": user.Username})
		if err != nil {
			j.logger.Error("reminder publish failed", "usuario", user.Username, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.logger.Info("reminder published", "usuario", user.Username, "gastos", len(due), "message_id", msgID)
	}

	return firstErr
}

var _ Publisher = (*mq.MQ)(nil)
