package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/starford/digimark/internal/models"
)

// ExportHeader is the fixed column header of the CSV report.
var ExportHeader = []string{"ID", "Tanggal", "Kategori", "Channel", "Objective", "Spend/Budget", "Revenue", "Leads"}

// WriteCSV writes one row per record under ExportHeader. Numbers are written
// without thousands separators. The output is for offline analysis and is not
// meant to be re-imported.
func WriteCSV(w io.Writer, records []models.MarketingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Date,
			string(r.Category),
			string(r.Channel),
			string(r.Objective),
			formatNumber(r.Metrics.SpendOrBudget()),
			formatNumber(r.Metrics.Value(models.FieldRevenue)),
			formatNumber(r.Metrics.Value(models.FieldLeads)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename stamps the report name with now in UTC.
func ExportFilename(now time.Time) string {
	return "marketing_report_" + now.UTC().Format("20060102T150405Z") + ".csv"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
