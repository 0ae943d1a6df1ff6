package core

import (
	"errors"
	"strings"
	"time"
)

const (
	OneTime     ScheduleType = "one_time"
	Recurring   ScheduleType = "recurring"
	PaymentPlan ScheduleType = "payment_plan"
)

const (
	Weekly           Frequency = "weekly"
	EveryTwoWeeks    Frequency = "every_2_weeks"
	Monthly          Frequency = "monthly"
	EveryThreeMonths Frequency = "every_3_months"
	Yearly           Frequency = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	ScheduleType    string
	Frequency       string
	TransactionType string

	Money struct {
		Cents int64
	}

	// ScheduleTemplate defines a one-time, recurring, or fixed-count bill
	// from which concrete due dates are derived.
	ScheduleTemplate struct {
		ID                 string
		Name               string
		Amount             Money
		FirstDueDate       time.Time
		ScheduleType       ScheduleType
		Frequency          Frequency
		PlanCountTotal     int
		PlanCountRemaining int
		IsActive           bool
	}

	// PaymentRecord is evidence that one occurrence of one template was paid.
	PaymentRecord struct {
		ID         string
		TemplateID string
		DueDate    time.Time
		PaidAt     time.Time
	}

	// Bill is the simpler implicit-monthly obligation: due on the same day
	// every month, with paid state tracked per yyyy-MM month key.
	Bill struct {
		ID         string
		Name       string
		Amount     Money
		DueDay     int // day of month, 1-31
		Category   string
		PaidMonths []string
	}

	// Transaction is a flat ledger entry.
	Transaction struct {
		ID       string
		Type     TransactionType
		Amount   Money
		Date     time.Time
		Category string
		Place    string
		Note     string
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyName           = errors.New("empty name")
	ErrMissingDueDate      = errors.New("missing first due date")
	ErrInvalidScheduleType = errors.New("invalid schedule type")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidPlanCount    = errors.New("invalid plan count")
	ErrInvalidDueDay       = errors.New("invalid due day")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrMissingDate         = errors.New("missing date")
	ErrEmptyCategory       = errors.New("empty category")
	ErrNameTooLong         = errors.New("name too long (max 200 characters)")
	ErrNoteTooLong         = errors.New("note too long (max 500 characters)")
)

// NewDate creates a calendar date at midnight UTC. All dates in the system
// are date-only values; time-of-day never participates in comparisons.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as yyyy-MM-dd.
func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}

// ParseDate parses a yyyy-MM-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, EveryTwoWeeks, Monthly, EveryThreeMonths, Yearly:
		return true
	}
	return false
}

func (t ScheduleTemplate) Validate() error {
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return ErrNameTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.FirstDueDate.IsZero() {
		return ErrMissingDueDate
	}

	switch t.ScheduleType {
	case OneTime:
		// Frequency not required.
	case Recurring:
		if !t.Frequency.Valid() {
			return ErrInvalidFrequency
		}
	case PaymentPlan:
		if !t.Frequency.Valid() {
			return ErrInvalidFrequency
		}
		if t.PlanCountTotal < 1 {
			return ErrInvalidPlanCount
		}
		if t.PlanCountRemaining < 0 || t.PlanCountRemaining > t.PlanCountTotal {
			return ErrInvalidPlanCount
		}
	default:
		return ErrInvalidScheduleType
	}

	return nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// PaidInMonth reports whether the bill was marked paid for the given
// yyyy-MM month key.
func (b Bill) PaidInMonth(monthKey string) bool {
	for _, m := range b.PaidMonths {
		if m == monthKey {
			return true
		}
	}
	return false
}

func (tx Transaction) Validate() error {
	if tx.Type != Income && tx.Type != Expense {
		return ErrInvalidTxType
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return ErrMissingDate
	}
	if len(strings.TrimSpace(tx.Category)) == 0 {
		return ErrEmptyCategory
	}
	if len(tx.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}
