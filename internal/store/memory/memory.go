// Package memory provides an in-memory implementation of the store ports,
// used by tests and for running the server without a database file.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store"
)

type Store struct {
	mu           sync.Mutex
	templates    map[string]core.ScheduleTemplate
	payments     map[string]core.PaymentRecord
	bills        map[string]core.Bill
	transactions map[string]core.Transaction
}

func New() *Store {
	return &Store{
		templates:    make(map[string]core.ScheduleTemplate),
		payments:     make(map[string]core.PaymentRecord),
		bills:        make(map[string]core.Bill),
		transactions: make(map[string]core.Transaction),
	}
}

func (s *Store) CreateTemplate(_ context.Context, tpl core.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

func (s *Store) GetTemplate(_ context.Context, id string) (core.ScheduleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.templates[id]
	if !ok {
		return core.ScheduleTemplate{}, store.ErrNotFound
	}
	return tpl, nil
}

func (s *Store) ListTemplates(_ context.Context, activeOnly bool) ([]core.ScheduleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ScheduleTemplate
	for _, tpl := range s.templates {
		if activeOnly && !tpl.IsActive {
			continue
		}
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateTemplate(_ context.Context, tpl core.ScheduleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.ID]; !ok {
		return store.ErrNotFound
	}
	s.templates[tpl.ID] = tpl
	return nil
}

func (s *Store) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.templates, id)
	for pid, rec := range s.payments {
		if rec.TemplateID == id {
			delete(s.payments, pid)
		}
	}
	return nil
}

func (s *Store) CreatePaymentRecord(_ context.Context, rec core.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.payments {
		if existing.TemplateID == rec.TemplateID && existing.DueDate.Equal(rec.DueDate) {
			return store.ErrDuplicatePayment
		}
	}
	s.payments[rec.ID] = rec
	return nil
}

func (s *Store) DeletePaymentRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

func (s *Store) ListPaymentRecords(_ context.Context) ([]core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PaymentRecord
	for _, rec := range s.payments {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *Store) ListPaymentRecordsByTemplate(_ context.Context, templateID string) ([]core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PaymentRecord
	for _, rec := range s.payments {
		if rec.TemplateID == templateID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *Store) CreateBill(_ context.Context, b core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[b.ID] = b
	return nil
}

func (s *Store) GetBill(_ context.Context, id string) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills[id]
	if !ok {
		return core.Bill{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Bill
	for _, b := range s.bills {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDay != out[j].DueDay {
			return out[i].DueDay < out[j].DueDay
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) UpdateBill(_ context.Context, b core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[b.ID]; !ok {
		return store.ErrNotFound
	}
	s.bills[b.ID] = b
	return nil
}

func (s *Store) DeleteBill(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.bills, id)
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	monthStart := core.NewDate(year, month, 1)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.Date.Before(monthStart) || tx.Date.After(monthEnd) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
