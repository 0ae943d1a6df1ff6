package core

import (
	"strings"
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestScheduleTemplateValidate(t *testing.T) {
	good := ScheduleTemplate{
		Name:         "Electric Bill",
		Amount:       Money{Cents: 12050},
		FirstDueDate: NewDate(2024, 1, 15),
		ScheduleType: Recurring,
		Frequency:    Monthly,
		IsActive:     true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	oneTime := good
	oneTime.ScheduleType = OneTime
	oneTime.Frequency = ""
	if err := oneTime.Validate(); err != nil {
		t.Fatalf("one_time should not require frequency: %v", err)
	}

	plan := good
	plan.ScheduleType = PaymentPlan
	plan.PlanCountTotal = 12
	plan.PlanCountRemaining = 12
	if err := plan.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		mut  func(*ScheduleTemplate)
		want error
	}{
		{"empty name", func(x *ScheduleTemplate) { x.Name = "  " }, ErrEmptyName},
		{"name over limit", func(x *ScheduleTemplate) { x.Name = strings.Repeat("x", 201) }, ErrNameTooLong},
		{"zero amount", func(x *ScheduleTemplate) { x.Amount = Money{} }, ErrInvalidAmount},
		{"zero due date", func(x *ScheduleTemplate) { x.FirstDueDate = time.Time{} }, ErrMissingDueDate},
		{"bad schedule type", func(x *ScheduleTemplate) { x.ScheduleType = "sometimes" }, ErrInvalidScheduleType},
		{"recurring without frequency", func(x *ScheduleTemplate) { x.Frequency = "" }, ErrInvalidFrequency},
		{"recurring unknown frequency", func(x *ScheduleTemplate) { x.Frequency = "fortnightly" }, ErrInvalidFrequency},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			tpl := good
			tc.mut(&tpl)
			if err := tpl.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	planBad := plan
	planBad.PlanCountTotal = 0
	if err := planBad.Validate(); err != ErrInvalidPlanCount {
		t.Fatalf("got %v, want %v", err, ErrInvalidPlanCount)
	}
	planBad = plan
	planBad.PlanCountRemaining = 13
	if err := planBad.Validate(); err != ErrInvalidPlanCount {
		t.Fatalf("remaining above total: got %v, want %v", err, ErrInvalidPlanCount)
	}
}

func TestBillValidate(t *testing.T) {
	good := Bill{Name: "Rent", Amount: Money{Cents: 120000}, DueDay: 1, Category: "Housing"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, day := range []int{0, 32, -1} {
		b := good
		b.DueDay = day
		if err := b.Validate(); err != ErrInvalidDueDay {
			t.Fatalf("day %d: got %v, want %v", day, err, ErrInvalidDueDay)
		}
	}
}

func TestBillPaidInMonth(t *testing.T) {
	b := Bill{PaidMonths: []string{"2024-01", "2024-03"}}
	if !b.PaidInMonth("2024-01") {
		t.Fatalf("expected 2024-01 paid")
	}
	if b.PaidInMonth("2024-02") {
		t.Fatalf("expected 2024-02 unpaid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Amount:   Money{Cents: 500},
		Date:     NewDate(2024, 3, 10),
		Category: "Groceries",
		Place:    "Corner Market",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Type = "transfer"
	if err := bad.Validate(); err != ErrInvalidTxType {
		t.Fatalf("got %v, want %v", err, ErrInvalidTxType)
	}
	bad = good
	bad.Category = ""
	if err := bad.Validate(); err != ErrEmptyCategory {
		t.Fatalf("got %v, want %v", err, ErrEmptyCategory)
	}
	bad = good
	bad.Date = time.Time{}
	if err := bad.Validate(); err != ErrMissingDate {
		t.Fatalf("got %v, want %v", err, ErrMissingDate)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 29)
	got, err := ParseDate(FormatDate(d))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(d) {
		t.Fatalf("got %v, want %v", got, d)
	}
}
