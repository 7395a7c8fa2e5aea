package utils

import (
	"testing"
	"time"

	"sales-observer/src/logger"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessCalendar_NYSE(t *testing.T) {
	bc := NewBusinessCalendar("XNYS", logger.NewNop())
	assert.False(t, bc.Fallback)
	assert.Equal(t, "xnys", bc.MIC)

	assert.True(t, bc.IsBusinessDay(day(2024, time.March, 5)))
	assert.False(t, bc.IsBusinessDay(day(2024, time.March, 9)))
	assert.False(t, bc.IsBusinessDay(day(2024, time.July, 4)))
	assert.False(t, bc.IsBusinessDay(day(2024, time.December, 25)))
}

func TestBusinessCalendar_DateOnlyNotShifted(t *testing.T) {
	bc := NewBusinessCalendar("", logger.NewNop())
	// Monday 00:00 UTC is still Sunday evening in New York
	assert.True(t, bc.IsBusinessDay(day(2024, time.March, 4)))
}

func TestBusinessCalendar_Fallback(t *testing.T) {
	bc := NewBusinessCalendar("zzzz", logger.NewNop())
	assert.True(t, bc.Fallback)
	assert.True(t, bc.IsBusinessDay(day(2024, time.July, 4)))
	assert.False(t, bc.IsBusinessDay(day(2024, time.March, 10)))
}
