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

// TransactionService maintains the cash ledger and computes monthly
// summaries from it.
type TransactionService struct {
	transactions store.TransactionStore
}

func NewTransactionService(transactions store.TransactionStore) *TransactionService {
	return &TransactionService{transactions: transactions}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.transactions.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String())
	return tx, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	return s.transactions.DeleteTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	return s.transactions.ListTransactions(ctx, year, month)
}

// MonthSummary aggregates a month's ledger into totals, expense
// breakdowns by category and place, and a per-day cashflow series.
func (s *TransactionService) MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	txs, err := s.transactions.ListTransactions(ctx, year, month)
	if err != nil {
		return core.MonthSummary{}, err
	}

	summary := core.MonthSummary{
		Year:       year,
		Month:      month,
		ByCategory: []core.CategoryAmount{},
		ByPlace:    []core.CategoryAmount{},
		Cashflow:   []core.DailyFlow{},
	}

	byCategory := map[string]int64{}
	byPlace := map[string]int64{}
	byDay := map[int]*core.DailyFlow{}

	for _, tx := range txs {
		day := tx.Date.Day()
		flow, ok := byDay[day]
		if !ok {
			flow = &core.DailyFlow{Day: day}
			byDay[day] = flow
		}
		switch tx.Type {
		case core.Income:
			summary.Income.Cents += tx.Amount.Cents
			flow.Income.Cents += tx.Amount.Cents
		case core.Expense:
			summary.Expenses.Cents += tx.Amount.Cents
			flow.Expenses.Cents += tx.Amount.Cents
			byCategory[tx.Category] += tx.Amount.Cents
			if tx.Place != "" {
				byPlace[tx.Place] += tx.Amount.Cents
			}
		}
	}
	summary.Balance.Cents = summary.Income.Cents - summary.Expenses.Cents

	summary.ByCategory = sortedAmounts(byCategory)
	summary.ByPlace = sortedAmounts(byPlace)

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		summary.Cashflow = append(summary.Cashflow, *byDay[day])
	}

	return summary, nil
}

// sortedAmounts orders a breakdown by amount descending, name
// ascending as tiebreak, so "top categories" is stable.
func sortedAmounts(m map[string]int64) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(m))
	for name, cents := range m {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
