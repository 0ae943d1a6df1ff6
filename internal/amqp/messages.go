package amqp

import (
	"encoding/json"
	"time"
)

// BillReminderMessage announces an upcoming unpaid occurrence of a
// schedule template. Consumers decide how to deliver the reminder.
type BillReminderMessage struct {
	TemplateID  string    `json:"template_id"`
	Name        string    `json:"name"`
	DueDate     string    `json:"due_date"` // yyyy-MM-dd
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBillReminderMessage creates a reminder message for one occurrence.
func NewBillReminderMessage(templateID, name, dueDate string, amountCents int64) *BillReminderMessage {
	return &BillReminderMessage{
		TemplateID:  templateID,
		Name:        name,
		DueDate:     dueDate,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillReminderMessageFromJSON creates a message from JSON bytes
func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
