package http

import (
	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/services"
)

// JSON views keep the wire format stable independently of the domain
// structs. Amounts go out both as integer cents and a display string.

type templateView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	AmountCents        int64  `json:"amountCents"`
	Amount             string `json:"amount"`
	FirstDueDate       string `json:"firstDueDate"`
	ScheduleType       string `json:"scheduleType"`
	Frequency          string `json:"frequency,omitempty"`
	PlanCountTotal     int    `json:"planCountTotal,omitempty"`
	PlanCountRemaining int    `json:"planCountRemaining,omitempty"`
	IsActive           bool   `json:"isActive"`
}

func toTemplateView(tpl core.ScheduleTemplate) templateView {
	return templateView{
		ID:                 tpl.ID,
		Name:               tpl.Name,
		AmountCents:        tpl.Amount.Cents,
		Amount:             tpl.Amount.String(),
		FirstDueDate:       core.FormatDate(tpl.FirstDueDate),
		ScheduleType:       string(tpl.ScheduleType),
		Frequency:          string(tpl.Frequency),
		PlanCountTotal:     tpl.PlanCountTotal,
		PlanCountRemaining: tpl.PlanCountRemaining,
		IsActive:           tpl.IsActive,
	}
}

func toTemplateViews(tpls []core.ScheduleTemplate) []templateView {
	out := make([]templateView, 0, len(tpls))
	for _, tpl := range tpls {
		out = append(out, toTemplateView(tpl))
	}
	return out
}

type scheduledItemView struct {
	Template templateView `json:"template"`
	DueDate  string       `json:"dueDate"`
	Paid     bool         `json:"paid"`
}

func toScheduledItemViews(items []services.ScheduledItem) []scheduledItemView {
	out := make([]scheduledItemView, 0, len(items))
	for _, item := range items {
		out = append(out, scheduledItemView{
			Template: toTemplateView(item.Template),
			DueDate:  core.FormatDate(item.DueDate),
			Paid:     item.Paid,
		})
	}
	return out
}

type billView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AmountCents int64    `json:"amountCents"`
	Amount      string   `json:"amount"`
	DueDay      int      `json:"dueDay"`
	Category    string   `json:"category,omitempty"`
	PaidMonths  []string `json:"paidMonths"`
	Paid        *bool    `json:"paid,omitempty"`
}

func toBillView(b core.Bill) billView {
	months := b.PaidMonths
	if months == nil {
		months = []string{}
	}
	return billView{
		ID:          b.ID,
		Name:        b.Name,
		AmountCents: b.Amount.Cents,
		Amount:      b.Amount.String(),
		DueDay:      b.DueDay,
		Category:    b.Category,
		PaidMonths:  months,
	}
}

type transactionView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Place       string `json:"place,omitempty"`
	Note        string `json:"note,omitempty"`
}

func toTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		Type:        string(tx.Type),
		AmountCents: tx.Amount.Cents,
		Amount:      tx.Amount.String(),
		Date:        core.FormatDate(tx.Date),
		Category:    tx.Category,
		Place:       tx.Place,
		Note:        tx.Note,
	}
}

type breakdownView struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

type dailyFlowView struct {
	Day           int   `json:"day"`
	IncomeCents   int64 `json:"incomeCents"`
	ExpensesCents int64 `json:"expensesCents"`
}

type summaryView struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	IncomeCents   int64           `json:"incomeCents"`
	ExpensesCents int64           `json:"expensesCents"`
	BalanceCents  int64           `json:"balanceCents"`
	ByCategory    []breakdownView `json:"byCategory"`
	ByPlace       []breakdownView `json:"byPlace"`
	Cashflow      []dailyFlowView `json:"cashflow"`
}

func toSummaryView(s core.MonthSummary) summaryView {
	view := summaryView{
		Year:          s.Year,
		Month:         s.Month,
		IncomeCents:   s.Income.Cents,
		ExpensesCents: s.Expenses.Cents,
		BalanceCents:  s.Balance.Cents,
		ByCategory:    []breakdownView{},
		ByPlace:       []breakdownView{},
		Cashflow:      []dailyFlowView{},
	}
	for _, row := range s.ByCategory {
		view.ByCategory = append(view.ByCategory, breakdownView{Name: row.Name, AmountCents: row.Amount.Cents, Amount: row.Amount.String()})
	}
	for _, row := range s.ByPlace {
		view.ByPlace = append(view.ByPlace, breakdownView{Name: row.Name, AmountCents: row.Amount.Cents, Amount: row.Amount.String()})
	}
	for _, flow := range s.Cashflow {
		view.Cashflow = append(view.Cashflow, dailyFlowView{Day: flow.Day, IncomeCents: flow.Income.Cents, ExpensesCents: flow.Expenses.Cents})
	}
	return view
}
