package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store"
)

// BillService manages fixed monthly bills and their per-month paid
// checklist.
type BillService struct {
	bills store.BillStore
}

func NewBillService(bills store.BillStore) *BillService {
	return &BillService{bills: bills}
}

func (s *BillService) CreateBill(ctx context.Context, bill core.Bill) (core.Bill, error) {
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	if bill.PaidMonths == nil {
		bill.PaidMonths = []string{}
	}
	if err := bill.Validate(); err != nil {
		return core.Bill{}, fmt.Errorf("validate bill: %w", err)
	}
	if err := s.bills.CreateBill(ctx, bill); err != nil {
		return core.Bill{}, err
	}
	slog.InfoContext(ctx, "Bill created", "bill_id", bill.ID, "name", bill.Name)
	return bill, nil
}

func (s *BillService) GetBill(ctx context.Context, id string) (core.Bill, error) {
	return s.bills.GetBill(ctx, id)
}

func (s *BillService) ListBills(ctx context.Context) ([]core.Bill, error) {
	return s.bills.ListBills(ctx)
}

func (s *BillService) UpdateBill(ctx context.Context, bill core.Bill) error {
	if err := bill.Validate(); err != nil {
		return fmt.Errorf("validate bill: %w", err)
	}
	return s.bills.UpdateBill(ctx, bill)
}

func (s *BillService) DeleteBill(ctx context.Context, id string) error {
	return s.bills.DeleteBill(ctx, id)
}

// TogglePaidMonth flips a bill's paid state for one month ("2006-01")
// and returns the updated bill.
func (s *BillService) TogglePaidMonth(ctx context.Context, id, monthKey string) (core.Bill, error) {
	bill, err := s.bills.GetBill(ctx, id)
	if err != nil {
		return core.Bill{}, err
	}

	// Work on a fresh slice: the store may hand back its own backing
	// array, which must stay intact if the update below fails.
	if bill.PaidInMonth(monthKey) {
		kept := make([]string, 0, len(bill.PaidMonths))
		for _, m := range bill.PaidMonths {
			if m != monthKey {
				kept = append(kept, m)
			}
		}
		bill.PaidMonths = kept
	} else {
		months := make([]string, 0, len(bill.PaidMonths)+1)
		months = append(months, bill.PaidMonths...)
		months = append(months, monthKey)
		sort.Strings(months)
		bill.PaidMonths = months
	}

	if err := s.bills.UpdateBill(ctx, bill); err != nil {
		return core.Bill{}, err
	}
	slog.InfoContext(ctx, "Bill paid state toggled",
		"bill_id", id,
		"month", monthKey,
		"paid", bill.PaidInMonth(monthKey))
	return bill, nil
}

// BillsForMonth returns all bills annotated with their paid state for
// the month plus running totals.
type BillMonthView struct {
	Bills       []BillWithState `json:"bills"`
	TotalCents  int64           `json:"totalCents"`
	PaidCents   int64           `json:"paidCents"`
	UnpaidCents int64           `json:"unpaidCents"`
}

type BillWithState struct {
	core.Bill
	Paid bool `json:"paid"`
}

func (s *BillService) BillsForMonth(ctx context.Context, monthKey string) (BillMonthView, error) {
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return BillMonthView{}, err
	}

	view := BillMonthView{Bills: make([]BillWithState, 0, len(bills))}
	for _, bill := range bills {
		paid := bill.PaidInMonth(monthKey)
		view.Bills = append(view.Bills, BillWithState{Bill: bill, Paid: paid})
		view.TotalCents += bill.Amount.Cents
		if paid {
			view.PaidCents += bill.Amount.Cents
		} else {
			view.UnpaidCents += bill.Amount.Cents
		}
	}
	sort.Slice(view.Bills, func(i, j int) bool {
		if view.Bills[i].DueDay != view.Bills[j].DueDay {
			return view.Bills[i].DueDay < view.Bills[j].DueDay
		}
		return view.Bills[i].Name < view.Bills[j].Name
	})
	return view, nil
}
