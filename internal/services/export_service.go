package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/store"
)

var exportHeader = []string{"date", "type", "amount", "category", "place", "note"}

// ExportService writes a month's ledger out as CSV or XLSX.
type ExportService struct {
	transactions store.TransactionStore
}

func NewExportService(transactions store.TransactionStore) *ExportService {
	return &ExportService{transactions: transactions}
}

func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, year, month int) error {
	txs, err := s.transactions.ListTransactions(ctx, year, month)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(exportRow(tx)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer, year, month int) error {
	txs, err := s.transactions.ListTransactions(ctx, year, month)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}
	for i, tx := range txs {
		for col, value := range exportRow(tx) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set row: %w", err)
			}
		}
	}

	return f.Write(w)
}

func exportRow(tx core.Transaction) []string {
	return []string{
		core.FormatDate(tx.Date),
		string(tx.Type),
		strconv.FormatFloat(tx.Amount.Dollars(), 'f', 2, 64),
		tx.Category,
		tx.Place,
		tx.Note,
	}
}
