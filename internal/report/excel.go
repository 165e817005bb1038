// Package report renders a trip's expenses into a spreadsheet for sharing
// outside the app.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/expense"
	"github.com/viajafacil/viajafacil/internal/models"
)

// Writer generates expense report workbooks.
type Writer struct {
	outputDir string
	logger    *zap.Logger
}

// NewWriter creates a report writer that saves workbooks under outputDir.
func NewWriter(outputDir string, logger *zap.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger:    logger,
	}
}

const (
	expenseSheet = "Despesas"
	summarySheet = "Resumo"
)

// WriteExpenseReport builds a two-sheet workbook for the trip: an itemized
// expense list and a budget summary. Returns the written file path.
func (w *Writer) WriteExpenseReport(trip *models.Trip) (string, error) {
	w.logger.Info("Writing expense report",
		zap.String("trip_id", trip.ID),
		zap.Int("expenses", len(trip.Expenses)))

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(expenseSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create expense sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		w.logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	headers := []string{"Data", "Descrição", "Categoria", "Moeda", "Valor Estrangeiro", "Câmbio", "Valor (BRL)"}
	for col, h := range headers {
		w.setCell(f, expenseSheet, cellRef(col, 0), h)
	}

	for row, e := range trip.Expenses {
		w.setCell(f, expenseSheet, cellRef(0, row+1), e.Date)
		w.setCell(f, expenseSheet, cellRef(1, row+1), e.Description)
		w.setCell(f, expenseSheet, cellRef(2, row+1), models.CanonicalCategory(e.Category))
		if e.IsForeign {
			w.setCell(f, expenseSheet, cellRef(3, row+1), e.CurrencySymbol)
			w.setCell(f, expenseSheet, cellRef(4, row+1), e.ForeignAmount)
			w.setCell(f, expenseSheet, cellRef(5, row+1), e.ExchangeRate)
		}
		w.setCell(f, expenseSheet, cellRef(6, row+1), e.Amount)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summary := expense.Summarize(trip)
	w.setCell(f, summarySheet, "A1", "Viagem")
	w.setCell(f, summarySheet, "B1", trip.Name)
	w.setCell(f, summarySheet, "A2", "Orçamento")
	w.setCell(f, summarySheet, "B2", summary.Budget)
	w.setCell(f, summarySheet, "A3", "Total Gasto")
	w.setCell(f, summarySheet, "B3", summary.Total)
	w.setCell(f, summarySheet, "A4", "Saldo")
	w.setCell(f, summarySheet, "B4", summary.Remaining)
	if summary.OverBudget {
		w.setCell(f, summarySheet, "C4", "ESTOURADO")
	}

	row := 6
	w.setCell(f, summarySheet, fmt.Sprintf("A%d", row), "Por Categoria")
	for _, cat := range summary.Categories {
		row++
		w.setCell(f, summarySheet, fmt.Sprintf("A%d", row), cat.Category)
		w.setCell(f, summarySheet, fmt.Sprintf("B%d", row), cat.Amount)
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("despesas_%s.xlsx", trip.ID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("Expense report written", zap.String("path", path))
	return path, nil
}

// setCell sets a cell value, logging rather than failing on error
func (w *Writer) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return ref
}
