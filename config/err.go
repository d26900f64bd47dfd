package config

import (
	"errors"

	"github.com/ezrec/putater/translate"
)

var f = translate.From

var (
	ErrSyntax = errors.New(f("configuration syntax"))
)

// ErrMachine is a machine setting outside of its allowed range.
type ErrMachine struct {
	Setting string
	Value   int
	Min     int
	Max     int // Zero for no upper bound.
}

func (err *ErrMachine) Error() string {
	if err.Max == 0 {
		return f("machine %v %d is less than %d", err.Setting, err.Value, err.Min)
	}
	return f("machine %v %d not in [%d,%d]", err.Setting, err.Value, err.Min, err.Max)
}
