package check

import (
	"strings"

	"github.com/ezrec/putater/translate"
)

var f = translate.From

// ErrExpect lists the failed expectations of a script.
type ErrExpect struct {
	Script   string
	Failures []string
}

func (err *ErrExpect) Error() string {
	return f("%v: %d expectations failed: %v", err.Script, len(err.Failures), strings.Join(err.Failures, "; "))
}

// ErrRange is a register or address outside the machine.
type ErrRange struct {
	Builtin string
	Index   int
}

func (err *ErrRange) Error() string {
	return f("%v(%d) out of range", err.Builtin, err.Index)
}
