package tabular

import (
	"errors"
	"fmt"
)

// errBlankCell marks a row whose numeric cell is empty. Such rows are
// skipped and counted rather than failing the load.
var errBlankCell = errors.New("blank numeric cell")

type cellError struct {
	value  string
	reason string
}

func (e *cellError) Error() string {
	return fmt.Sprintf("%q is %s", e.value, e.reason)
}

func errNegative(v string) error   { return &cellError{value: v, reason: "negative"} }
func errNotInteger(v string) error { return &cellError{value: v, reason: "not a whole number"} }
