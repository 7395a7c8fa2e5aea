package analysis

import (
	"strings"
	"time"

	"sales-observer/src/helpers"
	"sales-observer/src/models"
)

// Cleaner parses sale dates and derives the month bucket.
type Cleaner struct {
	Layouts []string
}

// -----------------------------------------------------------------------------

func NewCleaner(layouts []string) *Cleaner {
	return &Cleaner{Layouts: layouts}
}

// -----------------------------------------------------------------------------

// Clean returns a new table holding only rows whose date parses, each with its
// month bucket. The input table is left untouched.
func (c *Cleaner) Clean(raw *models.MRawTable) (*models.MCleanTable, error) {
	if raw == nil {
		return nil, helpers.NewConfigurationError(nil, "no input table")
	}
	if !raw.HasColumn(models.ColDateSold) {
		return nil, helpers.NewConfigurationError(helpers.ErrMissingColumn,
			"column %s not present in %s", models.ColDateSold, raw.Source)
	}

	out := &models.MCleanTable{Rows: make([]models.MCleanTransaction, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		date, ok := c.ParseDate(row.DateSold)
		if !ok {
			out.DroppedRows++
			continue
		}
		out.Rows = append(out.Rows, models.MCleanTransaction{
			MTransaction: row,
			Date:         date,
			Month:        int(date.Month()),
		})
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// ParseDate tries every layout in order. Blank values never parse.
func (c *Cleaner) ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range c.Layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
