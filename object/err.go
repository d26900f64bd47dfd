package object

import (
	"errors"

	"github.com/ezrec/putater/translate"
)

var f = translate.From

var (
	ErrRawLength = errors.New(f("raw image has an odd number of bytes"))
	ErrLines     = errors.New(f("image line map does not match its words"))
)

// ErrVersion is an image written by an unknown format revision.
type ErrVersion int

func (err ErrVersion) Error() string {
	return f("image version %d not supported", int(err))
}
