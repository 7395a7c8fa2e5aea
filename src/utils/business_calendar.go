package utils

import (
	"strings"
	"time"

	"sales-observer/src/logger"

	"github.com/scmhub/calendar"
)

const DefaultMIC = "xnys"

// BusinessCalendar tells business days from weekends and exchange holidays,
// using scmhub/calendar with a Monday to Friday fallback.
type BusinessCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// NewBusinessCalendar loads the calendar for an ISO 10383 market identifier.
func NewBusinessCalendar(mic string, log *logger.Logger) *BusinessCalendar {
	mic = strings.ToLower(strings.TrimSpace(mic))
	if mic == "" {
		mic = DefaultMIC
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		log.Warning("No calendar for MIC '%s', using Mon-Fri fallback", mic)
		return &BusinessCalendar{MIC: mic, Fallback: true, Timezone: time.UTC}
	}

	loc := cal.Loc
	if loc == nil {
		loc = time.UTC
	}
	return &BusinessCalendar{MIC: mic, Calendar: cal, Timezone: loc}
}

// -----------------------------------------------------------------------------

// IsBusinessDay checks the calendar date of t. Sale dates carry no zone, so
// the date is taken as is rather than converted into the market's timezone.
func (bc *BusinessCalendar) IsBusinessDay(t time.Time) bool {
	y, m, d := t.Date()
	local := time.Date(y, m, d, 12, 0, 0, 0, bc.Timezone)

	if bc.Fallback {
		weekday := local.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return bc.Calendar.IsBusinessDay(local)
}
