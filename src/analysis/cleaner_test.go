package analysis

import (
	"testing"
	"time"

	"sales-observer/src/config"
	"sales-observer/src/helpers"
	"sales-observer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_DropsUnparseableDates(t *testing.T) {
	c := NewCleaner(config.Default().Cleaning.DateLayouts)
	raw := rawTable(
		tx("2024-03-05", "Clothing", "Produto 10", 5, "80", "400"),
		tx("2024-13-45", "Clothing", "Produto 10", 5, "80", "400"),
		tx("", "Clothing", "Produto 10", 5, "80", "400"),
		tx("2024-02-30", "Clothing", "Produto 10", 5, "80", "400"),
		tx("  2024-01-31  ", "Grocery", "Produto 1", 1, "10", "10"),
	)

	clean, err := c.Clean(raw)
	require.NoError(t, err)

	assert.Len(t, clean.Rows, 2)
	assert.Equal(t, 3, clean.DroppedRows)
	assert.LessOrEqual(t, len(clean.Rows), len(raw.Rows))
	assert.Equal(t, 3, clean.Rows[0].Month)
	assert.Equal(t, 1, clean.Rows[1].Month)
	for _, row := range clean.Rows {
		assert.False(t, row.Date.IsZero())
	}
}

func TestCleaner_DoesNotMutateInput(t *testing.T) {
	raw := sampleTable()
	before := raw.Clone()

	_, err := NewCleaner(config.Default().Cleaning.DateLayouts).Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw)
}

func TestCleaner_MissingDateColumnIsFatal(t *testing.T) {
	raw := sampleTable()
	raw.Columns = []string{models.ColCategory, models.ColTotalSales}

	_, err := NewCleaner([]string{"2006-01-02"}).Clean(raw)
	require.Error(t, err)

	var cfgErr *helpers.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, helpers.ErrMissingColumn)
}

func TestCleaner_ParseDateLayouts(t *testing.T) {
	c := NewCleaner(config.Default().Cleaning.DateLayouts)
	tests := []struct {
		in    string
		want  time.Time
		valid bool
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-05 14:30:00", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), true},
		{"2024-03-05T14:30:00Z", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), true},
		{"2024/03/05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"03/05/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"05-03-2024", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := c.ParseDate(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestCleaner_RowCountNeverGrows(t *testing.T) {
	c := NewCleaner(config.Default().Cleaning.DateLayouts)
	dates := []string{"2024-01-01", "garbage", "2024-06-30", "", "2023-12-31", "31/12/2023"}
	for n := 0; n <= len(dates); n++ {
		var rows []models.MTransaction
		for _, d := range dates[:n] {
			rows = append(rows, tx(d, "A", "P", 1, "1", "1"))
		}
		clean, err := c.Clean(rawTable(rows...))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(clean.Rows), n)
		assert.Equal(t, n, len(clean.Rows)+clean.DroppedRows)
	}
}
