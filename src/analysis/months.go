package analysis

import (
	"fmt"
	"time"
)

var portugueseMonths = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthLabeler names month buckets in one locale.
// Every calendar month has a label; anything outside 1..12 is an error.
type MonthLabeler struct {
	locale string
	names  [12]string
}

// NewMonthLabeler supports "pt" and "en".
func NewMonthLabeler(locale string) (*MonthLabeler, error) {
	l := &MonthLabeler{locale: locale}
	switch locale {
	case "pt":
		l.names = portugueseMonths
	case "en":
		for i := range l.names {
			l.names[i] = time.Month(i + 1).String()
		}
	default:
		return nil, fmt.Errorf("unsupported month locale %q", locale)
	}
	return l, nil
}

// Label returns the name of month m.
func (l *MonthLabeler) Label(m int) (string, error) {
	if m < 1 || m > 12 {
		return "", fmt.Errorf("month bucket %d has no label", m)
	}
	return l.names[m-1], nil
}

// Labels builds the label table for the months actually observed.
func (l *MonthLabeler) Labels(months []int) (map[int]string, error) {
	out := make(map[int]string, len(months))
	for _, m := range months {
		name, err := l.Label(m)
		if err != nil {
			return nil, err
		}
		out[m] = name
	}
	return out, nil
}
