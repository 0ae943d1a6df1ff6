package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/schedule"
	"github.com/GusDawn123/aura-budget/internal/store"
)

// ScheduledItem is one concrete occurrence of a template within a
// month view, together with its paid state.
type ScheduledItem struct {
	Template core.ScheduleTemplate `json:"template"`
	DueDate  time.Time             `json:"dueDate"`
	Paid     bool                  `json:"paid"`
}

// UpcomingView splits a template's next unpaid occurrences into the
// ones due within the lookahead window and the rest.
type UpcomingView struct {
	DueSoon []ScheduledItem `json:"dueSoon"`
	Later   []ScheduledItem `json:"later"`
}

// MonthTotals aggregates a month's scheduled amounts.
type MonthTotals struct {
	TotalCents  int64 `json:"totalCents"`
	PaidCents   int64 `json:"paidCents"`
	UnpaidCents int64 `json:"unpaidCents"`
}

// BudgetService expands active templates into concrete occurrences and
// reconciles them with payment records.
type BudgetService struct {
	templates store.TemplateStore
	payments  store.PaymentStore
}

func NewBudgetService(templates store.TemplateStore, payments store.PaymentStore) *BudgetService {
	return &BudgetService{
		templates: templates,
		payments:  payments,
	}
}

// MonthItems returns every occurrence of every active template that
// falls inside the given month, sorted by due date then name. A
// template whose expansion fails is logged and skipped so one bad row
// cannot take down the whole view.
func (s *BudgetService) MonthItems(ctx context.Context, m schedule.Month) ([]ScheduledItem, error) {
	templates, err := s.templates.ListTemplates(ctx, true)
	if err != nil {
		return nil, err
	}

	items := make([]ScheduledItem, 0, len(templates))
	for _, tpl := range templates {
		dates, expandErr := schedule.OccurrencesInMonth(tpl, m)
		if expandErr != nil {
			slog.WarnContext(ctx, "Skipping template with bad schedule",
				"template_id", tpl.ID,
				"name", tpl.Name,
				"error", expandErr)
			continue
		}
		if len(dates) == 0 {
			continue
		}
		records, recErr := s.payments.ListPaymentRecordsByTemplate(ctx, tpl.ID)
		if recErr != nil {
			return nil, recErr
		}
		for _, due := range dates {
			items = append(items, ScheduledItem{
				Template: tpl,
				DueDate:  due,
				Paid:     schedule.IsPaid(tpl, records, due),
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].DueDate.Before(items[j].DueDate)
		}
		return items[i].Template.Name < items[j].Template.Name
	})

	return items, nil
}

// MonthTotals sums the scheduled amounts for a month.
func (s *BudgetService) MonthTotals(ctx context.Context, m schedule.Month) (MonthTotals, error) {
	items, err := s.MonthItems(ctx, m)
	if err != nil {
		return MonthTotals{}, err
	}
	var totals MonthTotals
	for _, item := range items {
		totals.TotalCents += item.Template.Amount.Cents
		if item.Paid {
			totals.PaidCents += item.Template.Amount.Cents
		} else {
			totals.UnpaidCents += item.Template.Amount.Cents
		}
	}
	return totals, nil
}

// NextDue returns the next unpaid occurrence for one template. The
// second return is false when the template has nothing left to pay.
func (s *BudgetService) NextDue(ctx context.Context, templateID string, today time.Time) (time.Time, bool, error) {
	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return time.Time{}, false, err
	}
	records, err := s.payments.ListPaymentRecordsByTemplate(ctx, templateID)
	if err != nil {
		return time.Time{}, false, err
	}
	return schedule.NextUnpaidOccurrence(tpl, records, today)
}

// Upcoming collects the next unpaid occurrence of every active
// template and splits them by the lookahead window.
func (s *BudgetService) Upcoming(ctx context.Context, today time.Time, lookahead time.Duration) (UpcomingView, error) {
	templates, err := s.templates.ListTemplates(ctx, true)
	if err != nil {
		return UpcomingView{}, err
	}

	cutoff := today.Add(lookahead)
	view := UpcomingView{
		DueSoon: []ScheduledItem{},
		Later:   []ScheduledItem{},
	}
	for _, tpl := range templates {
		records, recErr := s.payments.ListPaymentRecordsByTemplate(ctx, tpl.ID)
		if recErr != nil {
			return UpcomingView{}, recErr
		}
		next, ok, nextErr := schedule.NextUnpaidOccurrence(tpl, records, today)
		if nextErr != nil {
			slog.WarnContext(ctx, "Skipping template with bad schedule",
				"template_id", tpl.ID,
				"name", tpl.Name,
				"error", nextErr)
			continue
		}
		if !ok {
			continue
		}
		item := ScheduledItem{Template: tpl, DueDate: next}
		if !next.After(cutoff) {
			view.DueSoon = append(view.DueSoon, item)
		} else {
			view.Later = append(view.Later, item)
		}
	}

	byDate := func(items []ScheduledItem) {
		sort.Slice(items, func(i, j int) bool {
			if !items[i].DueDate.Equal(items[j].DueDate) {
				return items[i].DueDate.Before(items[j].DueDate)
			}
			return items[i].Template.Name < items[j].Template.Name
		})
	}
	byDate(view.DueSoon)
	byDate(view.Later)

	return view, nil
}
