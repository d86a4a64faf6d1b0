package reminder

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gestiong/apiserver/internal/mq"
)

// Subscriber consumes payloads from the notification queue.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Sender delivers one reminder to its recipient.
type Sender interface {
	Send(ctx context.Context, msg ReminderMessage) error
}

// Notifier is the delivery worker: it drains the reminder queue and hands
// each payload to the sender. It is the consuming counterpart of Job.
type Notifier struct {
	queue  string
	mq     Subscriber
	sender Sender
	logger *slog.Logger
}

// NewNotifier constructs a Notifier.
func NewNotifier(queue string, subscriber Subscriber, sender Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		queue:  queue,
		mq:     subscriber,
		sender: sender,
		logger: logger,
	}
}

// Run blocks consuming the queue until ctx is canceled or the subscription
// fails.
func (n *Notifier) Run(ctx context.Context) error {
	return n.mq.Subscribe(ctx, n.queue, n.handle)
}

// handle acknowledges malformed payloads so they are not redelivered
// forever; delivery failures are returned so the broker retries.
func (n *Notifier) handle(ctx context.Context, msg mq.Message) error {
	var reminder ReminderMessage
	if err := json.Unmarshal(msg.Data, &reminder); err != nil {
		n.logger.Error("dropping malformed reminder", "message_id", msg.ID, "error", err)
		return nil
	}

	if err := n.sender.Send(ctx, reminder); err != nil {
		n.logger.Error("reminder delivery failed", "usuario", reminder.Username, "error", err)
		return err
	}

	n.logger.Info("reminder delivered", "usuario", reminder.Username, "gastos", len(reminder.Expenses))
	return nil
}

// LogSender writes reminders to the log. It stands in for a mail transport
// in environments without one configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg ReminderMessage) error {
	s.logger.Info("reminder",
		"usuario", msg.Username,
		"email", msg.Email,
		"gastos", len(msg.Expenses),
		"total", msg.Total.String(),
	)
	return nil
}

var _ Subscriber = (*mq.MQ)(nil)
var _ Sender = (*LogSender)(nil)
