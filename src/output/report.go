package output

import (
	"fmt"
	"strings"

	"sales-observer/src/exporter"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
)

// RenderReport prints the run summary, every table view and the insights.
func RenderReport(p *Printer, report *models.MReport) error {
	m := report.Metrics
	p.Title("Sales report %s", report.RunID)
	p.Info("Source: %s", report.Source)
	p.Info("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	p.Info("Rows: %d in, %d clean, %d dropped (%.3fs)", m.InputRows, m.CleanRows, m.DroppedRows, m.DurationSeconds)
	if dates := m.DroppedRows - m.BlankCellRows; dates > 0 {
		p.Warning("%d rows had an unparseable %s and were dropped", dates, models.ColDateSold)
	}
	if m.BlankCellRows > 0 {
		p.Warning("%d rows had an empty numeric cell and were dropped", m.BlankCellRows)
	}

	for _, view := range models.Views {
		if view == models.ViewInsights {
			continue
		}
		table, err := exporter.BuildTable(report, view)
		if err != nil {
			return err
		}
		p.Title("%s", viewTitle(view))
		if len(table.Rows) == 0 {
			p.Info("(no data)")
			continue
		}

		out := p.Table(table.Header)
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = displayCell(cell)
			}
			out.AddRow(cells)
		}
		if err := out.Render(); err != nil {
			return fmt.Errorf("render %s: %w", view, err)
		}
	}

	p.Title("Insights")
	if len(report.Insights) == 0 {
		p.Info("(no data)")
	}
	for _, in := range report.Insights {
		p.Success("%s", in.Message)
	}
	return nil
}

// -----------------------------------------------------------------------------

func viewTitle(view string) string {
	words := strings.Split(view, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func displayCell(v interface{}) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(2)
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprint(x)
	}
}
