package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTemplate implements store.TemplateStore.
func (r *SQLiteRepository) CreateTemplate(ctx context.Context, tpl core.ScheduleTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, amount_cents, first_due_date, schedule_type,
			frequency, plan_count_total, plan_count_remaining, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tpl.ID, tpl.Name, tpl.Amount.Cents, core.FormatDate(tpl.FirstDueDate),
		string(tpl.ScheduleType), string(tpl.Frequency),
		tpl.PlanCountTotal, tpl.PlanCountRemaining, boolToInt(tpl.IsActive))
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	slog.InfoContext(ctx, "Template saved",
		"id", tpl.ID,
		"name", tpl.Name,
		"schedule_type", tpl.ScheduleType,
		"amount_cents", tpl.Amount.Cents)

	return nil
}

// GetTemplate implements store.TemplateStore.
func (r *SQLiteRepository) GetTemplate(ctx context.Context, id string) (core.ScheduleTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount_cents, first_due_date, schedule_type,
			frequency, plan_count_total, plan_count_remaining, is_active
		FROM templates WHERE id = ?`, id)
	tpl, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ScheduleTemplate{}, store.ErrNotFound
	}
	if err != nil {
		return core.ScheduleTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

// ListTemplates implements store.TemplateStore.
func (r *SQLiteRepository) ListTemplates(ctx context.Context, activeOnly bool) ([]core.ScheduleTemplate, error) {
	query := `
		SELECT id, name, amount_cents, first_due_date, schedule_type,
			frequency, plan_count_total, plan_count_remaining, is_active
		FROM templates`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []core.ScheduleTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// UpdateTemplate implements store.TemplateStore.
func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, tpl core.ScheduleTemplate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE templates
		SET name = ?, amount_cents = ?, first_due_date = ?, schedule_type = ?,
			frequency = ?, plan_count_total = ?, plan_count_remaining = ?,
			is_active = ?, updated_at = datetime('now')
		WHERE id = ?`,
		tpl.Name, tpl.Amount.Cents, core.FormatDate(tpl.FirstDueDate),
		string(tpl.ScheduleType), string(tpl.Frequency),
		tpl.PlanCountTotal, tpl.PlanCountRemaining, boolToInt(tpl.IsActive), tpl.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRow(res)
}

// DeleteTemplate implements store.TemplateStore. Payment records referencing
// the template go with it.
func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete template: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_records WHERE template_id = ?`, id); err != nil {
		return fmt.Errorf("delete template payments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// CreatePaymentRecord implements store.PaymentStore. The unique index on
// (template_id, due_date) backs the duplicate check.
func (r *SQLiteRepository) CreatePaymentRecord(ctx context.Context, rec core.PaymentRecord) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM payment_records WHERE template_id = ? AND due_date = ?`,
		rec.TemplateID, core.FormatDate(rec.DueDate)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check payment record: %w", err)
	}
	if exists > 0 {
		return store.ErrDuplicatePayment
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO payment_records (id, template_id, due_date, paid_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.TemplateID, core.FormatDate(rec.DueDate), rec.PaidAt.UTC().Format(time.RFC3339))
	if err != nil {
		// A concurrent write can slip past the COUNT; the unique index
		// still catches it here.
		if isUniqueViolation(err) {
			return store.ErrDuplicatePayment
		}
		return fmt.Errorf("create payment record: %w", err)
	}

	slog.InfoContext(ctx, "Payment record saved",
		"id", rec.ID,
		"template_id", rec.TemplateID,
		"due_date", core.FormatDate(rec.DueDate))

	return nil
}

// DeletePaymentRecord implements store.PaymentStore.
func (r *SQLiteRepository) DeletePaymentRecord(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment record: %w", err)
	}
	return requireRow(res)
}

// ListPaymentRecords implements store.PaymentStore.
func (r *SQLiteRepository) ListPaymentRecords(ctx context.Context) ([]core.PaymentRecord, error) {
	return r.queryPayments(ctx, `
		SELECT id, template_id, due_date, paid_at FROM payment_records ORDER BY due_date`)
}

// ListPaymentRecordsByTemplate implements store.PaymentStore.
func (r *SQLiteRepository) ListPaymentRecordsByTemplate(ctx context.Context, templateID string) ([]core.PaymentRecord, error) {
	return r.queryPayments(ctx, `
		SELECT id, template_id, due_date, paid_at FROM payment_records
		WHERE template_id = ? ORDER BY due_date`, templateID)
}

func (r *SQLiteRepository) queryPayments(ctx context.Context, query string, args ...any) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}
	defer rows.Close()

	var records []core.PaymentRecord
	for rows.Next() {
		var rec core.PaymentRecord
		var dueDate, paidAt string
		if err := rows.Scan(&rec.ID, &rec.TemplateID, &dueDate, &paidAt); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		if rec.DueDate, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
		}
		if rec.PaidAt, err = time.Parse(time.RFC3339, paidAt); err != nil {
			return nil, fmt.Errorf("parse paid at %q: %w", paidAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateBill implements store.BillStore.
func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) error {
	months, err := json.Marshal(paidMonthsOrEmpty(b.PaidMonths))
	if err != nil {
		return fmt.Errorf("marshal paid months: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bills (id, name, amount_cents, due_day, category, paid_months)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Amount.Cents, b.DueDay, b.Category, string(months))
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

// GetBill implements store.BillStore.
func (r *SQLiteRepository) GetBill(ctx context.Context, id string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount_cents, due_day, category, paid_months
		FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, store.ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

// ListBills implements store.BillStore.
func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount_cents, due_day, category, paid_months
		FROM bills ORDER BY due_day, name`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// UpdateBill implements store.BillStore.
func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	months, err := json.Marshal(paidMonthsOrEmpty(b.PaidMonths))
	if err != nil {
		return fmt.Errorf("marshal paid months: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE bills
		SET name = ?, amount_cents = ?, due_day = ?, category = ?,
			paid_months = ?, updated_at = datetime('now')
		WHERE id = ?`,
		b.Name, b.Amount.Cents, b.DueDay, b.Category, string(months), b.ID)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res)
}

// DeleteBill implements store.BillStore.
func (r *SQLiteRepository) DeleteBill(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireRow(res)
}

// CreateTransaction implements store.TransactionStore.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount_cents, date, category, place, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Amount.Cents, core.FormatDate(tx.Date),
		tx.Category, tx.Place, tx.Note)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"date", core.FormatDate(tx.Date))

	return nil
}

// DeleteTransaction implements store.TransactionStore.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// ListTransactions implements store.TransactionStore.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	monthStart := core.NewDate(year, month, 1)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, date, category, place, note
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date, created_at`,
		core.FormatDate(monthStart), core.FormatDate(monthEnd))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var txType, date string
		if err := rows.Scan(&tx.ID, &txType, &tx.Amount.Cents, &date, &tx.Category, &tx.Place, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TransactionType(txType)
		if tx.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (core.ScheduleTemplate, error) {
	var tpl core.ScheduleTemplate
	var firstDue, scheduleType, frequency string
	var isActive int
	err := row.Scan(&tpl.ID, &tpl.Name, &tpl.Amount.Cents, &firstDue, &scheduleType,
		&frequency, &tpl.PlanCountTotal, &tpl.PlanCountRemaining, &isActive)
	if err != nil {
		return core.ScheduleTemplate{}, err
	}
	tpl.ScheduleType = core.ScheduleType(scheduleType)
	tpl.Frequency = core.Frequency(frequency)
	tpl.IsActive = isActive != 0
	if tpl.FirstDueDate, err = core.ParseDate(firstDue); err != nil {
		return core.ScheduleTemplate{}, fmt.Errorf("parse first due date %q: %w", firstDue, err)
	}
	return tpl, nil
}

func scanBill(row rowScanner) (core.Bill, error) {
	var b core.Bill
	var months string
	err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &b.DueDay, &b.Category, &months)
	if err != nil {
		return core.Bill{}, err
	}
	if err := json.Unmarshal([]byte(months), &b.PaidMonths); err != nil {
		return core.Bill{}, fmt.Errorf("unmarshal paid months: %w", err)
	}
	return b, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// isUniqueViolation recognizes a unique-index constraint failure. The
// modernc driver surfaces SQLite errors as plain errors, so the SQLite
// message text is the stable thing to match on.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func paidMonthsOrEmpty(months []string) []string {
	if months == nil {
		return []string{}
	}
	return months
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
