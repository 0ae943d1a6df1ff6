package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store"
)

// PaymentService records and removes payments against scheduled
// occurrences. At most one record may exist per (template, due date).
type PaymentService struct {
	templates store.TemplateStore
	payments  store.PaymentStore
}

func NewPaymentService(templates store.TemplateStore, payments store.PaymentStore) *PaymentService {
	return &PaymentService{
		templates: templates,
		payments:  payments,
	}
}

// MarkPaid records a payment for one occurrence of a template. Marking
// the same occurrence twice returns store.ErrDuplicatePayment.
func (s *PaymentService) MarkPaid(ctx context.Context, templateID string, dueDate time.Time) (core.PaymentRecord, error) {
	if _, err := s.templates.GetTemplate(ctx, templateID); err != nil {
		return core.PaymentRecord{}, fmt.Errorf("lookup template: %w", err)
	}

	rec := core.PaymentRecord{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		DueDate:    dueDate,
		PaidAt:     time.Now().UTC(),
	}
	if err := s.payments.CreatePaymentRecord(ctx, rec); err != nil {
		return core.PaymentRecord{}, err
	}

	slog.InfoContext(ctx, "Occurrence marked paid",
		"template_id", templateID,
		"due_date", core.FormatDate(dueDate))

	return rec, nil
}

// MarkUnpaid deletes the payment record for one occurrence, returning
// it to the unpaid pool.
func (s *PaymentService) MarkUnpaid(ctx context.Context, templateID string, dueDate time.Time) error {
	records, err := s.payments.ListPaymentRecordsByTemplate(ctx, templateID)
	if err != nil {
		return fmt.Errorf("list payment records: %w", err)
	}
	for _, rec := range records {
		if core.FormatDate(rec.DueDate) == core.FormatDate(dueDate) {
			if err := s.payments.DeletePaymentRecord(ctx, rec.ID); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Occurrence marked unpaid",
				"template_id", templateID,
				"due_date", core.FormatDate(dueDate))
			return nil
		}
	}
	return store.ErrNotFound
}
