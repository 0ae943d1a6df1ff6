// Package store declares the persistence ports the services depend on.
// The SQLite repository is the production implementation; the memory
// subpackage backs tests and local development.
package store

import (
	"context"
	"errors"

	"github.com/GusDawn123/aura-budget/internal/core"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePayment is returned when a payment record already exists
	// for the same (template, due date) pair.
	ErrDuplicatePayment = errors.New("payment record already exists for this due date")
)

type (
	TemplateStore interface {
		CreateTemplate(ctx context.Context, tpl core.ScheduleTemplate) error
		GetTemplate(ctx context.Context, id string) (core.ScheduleTemplate, error)
		// ListTemplates returns templates, active ones only when activeOnly
		// is set, ordered by name.
		ListTemplates(ctx context.Context, activeOnly bool) ([]core.ScheduleTemplate, error)
		UpdateTemplate(ctx context.Context, tpl core.ScheduleTemplate) error
		// DeleteTemplate removes the template and its payment records.
		DeleteTemplate(ctx context.Context, id string) error
	}

	PaymentStore interface {
		CreatePaymentRecord(ctx context.Context, rec core.PaymentRecord) error
		DeletePaymentRecord(ctx context.Context, id string) error
		ListPaymentRecords(ctx context.Context) ([]core.PaymentRecord, error)
		ListPaymentRecordsByTemplate(ctx context.Context, templateID string) ([]core.PaymentRecord, error)
	}

	BillStore interface {
		CreateBill(ctx context.Context, b core.Bill) error
		GetBill(ctx context.Context, id string) (core.Bill, error)
		ListBills(ctx context.Context) ([]core.Bill, error)
		UpdateBill(ctx context.Context, b core.Bill) error
		DeleteBill(ctx context.Context, id string) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns the ledger rows for one calendar month,
		// ordered by date ascending.
		ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error)
	}
)
