// Package worker scans active schedule templates and publishes reminder
// messages for occurrences that come due within the lookahead window.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GusDawn123/aura-budget/internal/amqp"
	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/schedule"
	"github.com/GusDawn123/aura-budget/internal/store"
)

// Publisher is the slice of the AMQP client the worker needs.
type Publisher interface {
	PublishBillReminder(ctx context.Context, msg *amqp.BillReminderMessage) error
}

type ReminderWorker struct {
	templates store.TemplateStore
	payments  store.PaymentStore
	publisher Publisher
	interval  time.Duration
	lookahead time.Duration
}

func NewReminderWorker(templates store.TemplateStore, payments store.PaymentStore, publisher Publisher, interval, lookahead time.Duration) *ReminderWorker {
	return &ReminderWorker{
		templates: templates,
		payments:  payments,
		publisher: publisher,
		interval:  interval,
		lookahead: lookahead,
	}
}

// Run scans on the configured interval until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Reminder worker started",
		"interval", w.interval.String(),
		"lookahead", w.lookahead.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First scan immediately rather than waiting a full interval.
	if err := w.ScanOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := w.ScanOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
			}
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopped")
			return ctx.Err()
		}
	}
}

// ScanOnce walks all active templates and publishes a reminder for each
// whose next unpaid occurrence falls within the lookahead window.
// Templates are processed concurrently with a small bound.
func (w *ReminderWorker) ScanOnce(ctx context.Context) error {
	templates, err := w.templates.ListTemplates(ctx, true)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	today := time.Now()
	cutoff := today.Add(w.lookahead)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, tpl := range templates {
		g.Go(func() error {
			return w.remindTemplate(gctx, tpl, today, cutoff)
		})
	}
	return g.Wait()
}

func (w *ReminderWorker) remindTemplate(ctx context.Context, tpl core.ScheduleTemplate, today, cutoff time.Time) error {
	records, err := w.payments.ListPaymentRecordsByTemplate(ctx, tpl.ID)
	if err != nil {
		return fmt.Errorf("list payment records for %s: %w", tpl.ID, err)
	}

	next, ok, err := schedule.NextUnpaidOccurrence(tpl, records, today)
	if err != nil {
		// A template with an unrecognized schedule should not fail the
		// whole scan.
		slog.WarnContext(ctx, "Skipping template with bad schedule",
			"template_id", tpl.ID,
			"name", tpl.Name,
			"error", err)
		return nil
	}
	if !ok || next.After(cutoff) {
		return nil
	}

	msg := amqp.NewBillReminderMessage(tpl.ID, tpl.Name, core.FormatDate(next), tpl.Amount.Cents)

	if w.publisher == nil {
		// No broker configured, log-only mode.
		slog.InfoContext(ctx, "Bill due soon",
			"template_id", tpl.ID,
			"name", tpl.Name,
			"due_date", msg.DueDate,
			"amount_cents", msg.AmountCents)
		return nil
	}

	if err := w.publisher.PublishBillReminder(ctx, msg); err != nil {
		return fmt.Errorf("publish reminder for %s: %w", tpl.ID, err)
	}
	slog.InfoContext(ctx, "Reminder published",
		"template_id", tpl.ID,
		"due_date", msg.DueDate)
	return nil
}
