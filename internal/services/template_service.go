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

// TemplateService orchestrates schedule template CRUD, including the
// two-step "create template + mark first occurrence paid" flow.
type TemplateService struct {
	templates store.TemplateStore
	payments  store.PaymentStore
}

func NewTemplateService(templates store.TemplateStore, payments store.PaymentStore) *TemplateService {
	return &TemplateService{
		templates: templates,
		payments:  payments,
	}
}

// CreateTemplate validates and persists a template. When alreadyPaid is
// set, a payment record for the first due date is created in the same
// logical operation; if that dependent write fails, the template is
// deleted again so no half-created, seemingly-unpaid template survives.
func (s *TemplateService) CreateTemplate(ctx context.Context, tpl core.ScheduleTemplate, alreadyPaid bool) (core.ScheduleTemplate, error) {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if err := tpl.Validate(); err != nil {
		return core.ScheduleTemplate{}, fmt.Errorf("validate template: %w", err)
	}

	if err := s.templates.CreateTemplate(ctx, tpl); err != nil {
		return core.ScheduleTemplate{}, fmt.Errorf("create template: %w", err)
	}

	if alreadyPaid {
		rec := core.PaymentRecord{
			ID:         uuid.NewString(),
			TemplateID: tpl.ID,
			DueDate:    tpl.FirstDueDate,
			PaidAt:     time.Now().UTC(),
		}
		if err := s.payments.CreatePaymentRecord(ctx, rec); err != nil {
			// Compensate: roll the template back rather than leaving an
			// orphan the views would report as unpaid.
			if delErr := s.templates.DeleteTemplate(ctx, tpl.ID); delErr != nil {
				slog.ErrorContext(ctx, "Failed to compensate template creation",
					"template_id", tpl.ID,
					"error", delErr)
				return core.ScheduleTemplate{}, fmt.Errorf("create initial payment record: %w (template %s left behind)", err, tpl.ID)
			}
			return core.ScheduleTemplate{}, fmt.Errorf("create initial payment record: %w", err)
		}
	}

	slog.InfoContext(ctx, "Template created",
		"template_id", tpl.ID,
		"name", tpl.Name,
		"schedule_type", tpl.ScheduleType,
		"already_paid", alreadyPaid)

	return tpl, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (core.ScheduleTemplate, error) {
	return s.templates.GetTemplate(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context, activeOnly bool) ([]core.ScheduleTemplate, error) {
	return s.templates.ListTemplates(ctx, activeOnly)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, tpl core.ScheduleTemplate) error {
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	return s.templates.UpdateTemplate(ctx, tpl)
}

// DeleteTemplate removes a template and all of its payment records.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templates.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Template deleted", "template_id", id)
	return nil
}
