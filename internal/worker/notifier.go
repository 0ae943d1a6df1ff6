package worker

import (
	"log/slog"

	"github.com/GusDawn123/aura-budget/internal/amqp"
)

// LogNotifier consumes reminder messages and writes them to the log.
// It is the delivery endpoint until email or push channels exist.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Handle(msg *amqp.BillReminderMessage) error {
	slog.Info("Bill reminder",
		"template_id", msg.TemplateID,
		"name", msg.Name,
		"due_date", msg.DueDate,
		"amount_cents", msg.AmountCents)
	return nil
}
