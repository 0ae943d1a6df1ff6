package services

import (
	"context"
	"testing"
	"time"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/schedule"
	"github.com/GusDawn123/aura-budget/internal/store/memory"
)

func seedTemplate(t *testing.T, st *memory.Store, tpl core.ScheduleTemplate) core.ScheduleTemplate {
	t.Helper()
	svc := NewTemplateService(st, st)
	created, err := svc.CreateTemplate(context.Background(), tpl, false)
	if err != nil {
		t.Fatalf("seed template %q: %v", tpl.Name, err)
	}
	return created
}

func TestMonthItemsExpandsAndSorts(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)

	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Gym",
		Amount:       core.Money{Cents: 4500},
		FirstDueDate: core.NewDate(2024, 1, 20),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Therapy",
		Amount:       core.Money{Cents: 9000},
		FirstDueDate: core.NewDate(2024, 1, 2),
		ScheduleType: core.Recurring,
		Frequency:    core.Weekly,
		IsActive:     true,
	})
	// Inactive rows never show up in the month view.
	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Old subscription",
		Amount:       core.Money{Cents: 999},
		FirstDueDate: core.NewDate(2024, 1, 5),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     false,
	})

	items, err := svc.MonthItems(context.Background(), schedule.Month{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("MonthItems() error = %v", err)
	}

	// Therapy weekly from Jan 2: 02, 09, 16, 23, 30. Gym monthly: 20.
	wantDates := []string{"2024-01-02", "2024-01-09", "2024-01-16", "2024-01-20", "2024-01-23", "2024-01-30"}
	if len(items) != len(wantDates) {
		t.Fatalf("MonthItems() returned %d items, want %d", len(items), len(wantDates))
	}
	for i, want := range wantDates {
		if got := core.FormatDate(items[i].DueDate); got != want {
			t.Errorf("items[%d].DueDate = %s, want %s", i, got, want)
		}
	}
}

func TestMonthItemsReconcilesPaid(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)
	paysvc := NewPaymentService(st, st)

	tpl := seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Internet",
		Amount:       core.Money{Cents: 5500},
		FirstDueDate: core.NewDate(2024, 1, 10),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	if _, err := paysvc.MarkPaid(context.Background(), tpl.ID, core.NewDate(2024, 1, 10)); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	items, err := svc.MonthItems(context.Background(), schedule.Month{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("MonthItems() error = %v", err)
	}
	if len(items) != 1 || !items[0].Paid {
		t.Fatalf("items = %+v, want one paid item", items)
	}

	items, err = svc.MonthItems(context.Background(), schedule.Month{Year: 2024, Month: time.February})
	if err != nil {
		t.Fatalf("MonthItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Paid {
		t.Fatalf("february items = %+v, want one unpaid item", items)
	}
}

func TestMonthItemsSkipsBadTemplate(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)

	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Netflix",
		Amount:       core.Money{Cents: 1299},
		FirstDueDate: core.NewDate(2024, 1, 7),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	// A row with a frequency nobody recognizes, as if written by an
	// older release. It must not break the view.
	bad := core.ScheduleTemplate{
		ID:           "bad",
		Name:         "Mystery",
		Amount:       core.Money{Cents: 100},
		FirstDueDate: core.NewDate(2024, 1, 1),
		ScheduleType: core.Recurring,
		Frequency:    core.Frequency("fortnightly-ish"),
		IsActive:     true,
	}
	if err := st.CreateTemplate(context.Background(), bad); err != nil {
		t.Fatalf("seed bad template: %v", err)
	}

	items, err := svc.MonthItems(context.Background(), schedule.Month{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("MonthItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Template.Name != "Netflix" {
		t.Fatalf("items = %+v, want only Netflix", items)
	}
}

func TestMonthTotals(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)
	paysvc := NewPaymentService(st, st)

	rent := seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Rent",
		Amount:       core.Money{Cents: 120000},
		FirstDueDate: core.NewDate(2024, 1, 1),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Gym",
		Amount:       core.Money{Cents: 4500},
		FirstDueDate: core.NewDate(2024, 1, 15),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	if _, err := paysvc.MarkPaid(context.Background(), rent.ID, core.NewDate(2024, 1, 1)); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	totals, err := svc.MonthTotals(context.Background(), schedule.Month{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("MonthTotals() error = %v", err)
	}
	if totals.TotalCents != 124500 {
		t.Errorf("TotalCents = %d, want 124500", totals.TotalCents)
	}
	if totals.PaidCents != 120000 {
		t.Errorf("PaidCents = %d, want 120000", totals.PaidCents)
	}
	if totals.UnpaidCents != 4500 {
		t.Errorf("UnpaidCents = %d, want 4500", totals.UnpaidCents)
	}
}

func TestUpcomingSplitsByLookahead(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)

	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Electric",
		Amount:       core.Money{Cents: 8000},
		FirstDueDate: core.NewDate(2024, 3, 5),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Insurance",
		Amount:       core.Money{Cents: 30000},
		FirstDueDate: core.NewDate(2024, 3, 25),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})

	today := core.NewDate(2024, 3, 1)
	view, err := svc.Upcoming(context.Background(), today, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	if len(view.DueSoon) != 1 || view.DueSoon[0].Template.Name != "Electric" {
		t.Errorf("DueSoon = %+v, want only Electric", view.DueSoon)
	}
	if len(view.Later) != 1 || view.Later[0].Template.Name != "Insurance" {
		t.Errorf("Later = %+v, want only Insurance", view.Later)
	}
}

func TestNextDueSkipsPaid(t *testing.T) {
	st := memory.New()
	svc := NewBudgetService(st, st)
	paysvc := NewPaymentService(st, st)

	tpl := seedTemplate(t, st, core.ScheduleTemplate{
		Name:         "Water",
		Amount:       core.Money{Cents: 3000},
		FirstDueDate: core.NewDate(2024, 1, 10),
		ScheduleType: core.Recurring,
		Frequency:    core.Monthly,
		IsActive:     true,
	})
	if _, err := paysvc.MarkPaid(context.Background(), tpl.ID, core.NewDate(2024, 1, 10)); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	next, ok, err := svc.NextDue(context.Background(), tpl.ID, core.NewDate(2024, 1, 5))
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	if !ok {
		t.Fatal("NextDue() ok = false, want true")
	}
	if got := core.FormatDate(next); got != "2024-02-10" {
		t.Errorf("NextDue() = %s, want 2024-02-10", got)
	}
}
