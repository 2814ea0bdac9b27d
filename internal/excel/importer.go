package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
)

// Report summarizes one workbook import.
type Report struct {
	Imported           int
	ConsecutiveSkipped int
	RowsSkipped        int
	Replaced           int
}

// Importer reads prediction schedules from xlsx workbooks into the store.
type Importer struct {
	store *prediction.Store
}

// NewImporter creates an importer writing to store.
func NewImporter(store *prediction.Store) *Importer {
	return &Importer{store: store}
}

// ImportFile imports the first sheet of the workbook at path. Expected
// columns: date & time, game number, expected winner. Header rows and rows
// with an unparsable number or winner are skipped; a row whose number is
// exactly one more than the previous imported row is dropped as consecutive.
// When replace is true the existing schedule is cleared first.
func (i *Importer) ImportFile(path string, replace bool) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	report := &Report{}
	var preds []*prediction.Prediction
	lastNumero := -1

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		scheduledAt := strings.TrimSpace(row[0])

		numero, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			// Header row or garbage
			report.RowsSkipped++
			continue
		}

		winner, ok := card.ParseWinner(row[2])
		if !ok {
			report.RowsSkipped++
			continue
		}

		if lastNumero >= 0 && numero == lastNumero+1 {
			report.ConsecutiveSkipped++
			lastNumero = numero
			continue
		}
		lastNumero = numero

		preds = append(preds, &prediction.Prediction{
			Numero:      numero,
			Victoire:    winner,
			ScheduledAt: scheduledAt,
		})
		report.Imported++
	}

	if report.Imported == 0 {
		return nil, fmt.Errorf("aucune prédiction valide dans le fichier")
	}

	old, err := i.store.PutAll(preds, replace)
	if err != nil {
		return nil, fmt.Errorf("storing predictions: %w", err)
	}
	if replace {
		report.Replaced = old
	}
	return report, nil
}

// IsExcelFile reports whether a Telegram document looks like an Excel
// workbook, by mime type or file extension.
func IsExcelFile(fileName, mimeType string) bool {
	mimes := []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
		"application/octet-stream",
	}
	for _, m := range mimes {
		if mimeType != "" && strings.Contains(mimeType, m) {
			return true
		}
	}
	lower := strings.ToLower(fileName)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}
