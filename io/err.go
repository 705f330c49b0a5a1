package io

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageLength = errors.New(f("image length is not a multiple of 4"))
)

// ErrAddress is returned when an access falls outside of memory.
type ErrAddress struct {
	Address int64
	Size    int
}

func (err ErrAddress) Error() string {
	return f("address 0x%x (size %d) out of range", err.Address, err.Size)
}

func (err ErrAddress) Is(target error) (ok bool) {
	_, ok = target.(ErrAddress)
	return
}
