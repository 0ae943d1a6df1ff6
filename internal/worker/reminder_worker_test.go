package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GusDawn123/aura-budget/internal/amqp"
	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store/memory"
)

type capturingPublisher struct {
	mu       sync.Mutex
	messages []*amqp.BillReminderMessage
}

func (p *capturingPublisher) PublishBillReminder(_ context.Context, msg *amqp.BillReminderMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturingPublisher) published() []*amqp.BillReminderMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.BillReminderMessage(nil), p.messages...)
}

func seed(t *testing.T, st *memory.Store, tpl core.ScheduleTemplate) {
	t.Helper()
	if err := st.CreateTemplate(context.Background(), tpl); err != nil {
		t.Fatalf("seed template: %v", err)
	}
}

func TestScanOncePublishesDueSoon(t *testing.T) {
	st := memory.New()
	pub := &capturingPublisher{}

	soon := time.Now().Add(48 * time.Hour)
	far := time.Now().Add(30 * 24 * time.Hour)

	seed(t, st, core.ScheduleTemplate{
		ID:           "due-soon",
		Name:         "Electric",
		Amount:       core.Money{Cents: 8000},
		FirstDueDate: core.NewDate(soon.Year(), int(soon.Month()), soon.Day()),
		ScheduleType: core.OneTime,
		IsActive:     true,
	})
	seed(t, st, core.ScheduleTemplate{
		ID:           "due-later",
		Name:         "Insurance",
		Amount:       core.Money{Cents: 30000},
		FirstDueDate: core.NewDate(far.Year(), int(far.Month()), far.Day()),
		ScheduleType: core.OneTime,
		IsActive:     true,
	})

	w := NewReminderWorker(st, st, pub, time.Hour, 7*24*time.Hour)
	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}

	msgs := pub.published()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	if msgs[0].TemplateID != "due-soon" {
		t.Errorf("published template = %s, want due-soon", msgs[0].TemplateID)
	}
	if msgs[0].AmountCents != 8000 {
		t.Errorf("AmountCents = %d, want 8000", msgs[0].AmountCents)
	}
}

func TestScanOnceSkipsPaid(t *testing.T) {
	st := memory.New()
	pub := &capturingPublisher{}

	soon := time.Now().Add(48 * time.Hour)
	due := core.NewDate(soon.Year(), int(soon.Month()), soon.Day())
	seed(t, st, core.ScheduleTemplate{
		ID:           "paid",
		Name:         "Water",
		Amount:       core.Money{Cents: 3000},
		FirstDueDate: due,
		ScheduleType: core.OneTime,
		IsActive:     true,
	})
	if err := st.CreatePaymentRecord(context.Background(), core.PaymentRecord{
		ID:         "rec1",
		TemplateID: "paid",
		DueDate:    due,
		PaidAt:     time.Now(),
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	w := NewReminderWorker(st, st, pub, time.Hour, 7*24*time.Hour)
	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	if msgs := pub.published(); len(msgs) != 0 {
		t.Errorf("published %d messages for a paid bill, want 0", len(msgs))
	}
}

func TestScanOnceToleratesBadSchedule(t *testing.T) {
	st := memory.New()
	pub := &capturingPublisher{}

	seed(t, st, core.ScheduleTemplate{
		ID:           "bad",
		Name:         "Mystery",
		Amount:       core.Money{Cents: 100},
		FirstDueDate: core.NewDate(2024, 1, 1),
		ScheduleType: core.Recurring,
		Frequency:    core.Frequency("hourly"),
		IsActive:     true,
	})

	w := NewReminderWorker(st, st, pub, time.Hour, 7*24*time.Hour)
	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	if msgs := pub.published(); len(msgs) != 0 {
		t.Errorf("published %d messages for a bad schedule, want 0", len(msgs))
	}
}

func TestScanOnceNilPublisherLogsOnly(t *testing.T) {
	st := memory.New()

	soon := time.Now().Add(24 * time.Hour)
	seed(t, st, core.ScheduleTemplate{
		ID:           "t1",
		Name:         "Rent",
		Amount:       core.Money{Cents: 120000},
		FirstDueDate: core.NewDate(soon.Year(), int(soon.Month()), soon.Day()),
		ScheduleType: core.OneTime,
		IsActive:     true,
	})

	w := NewReminderWorker(st, st, nil, time.Hour, 7*24*time.Hour)
	if err := w.ScanOnce(context.Background()); err != nil {
		t.Errorf("ScanOnce() with nil publisher error = %v", err)
	}
}
