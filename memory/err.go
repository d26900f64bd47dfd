package memory

import (
	"github.com/ezrec/putater/translate"
)

var f = translate.From

// ErrBounds is an effective address outside of the store.
type ErrBounds struct {
	Address uint32
	Page    int
	Size    int
}

func (err *ErrBounds) Error() string {
	return f("address 0x%x on page %d outside of %d bytes", err.Address, err.Page, err.Size)
}
