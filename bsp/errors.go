// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrOpenFailed      = errors.New("open failed")
	ErrShortRead       = errors.New("short read")
	ErrEmptyInput      = errors.New("empty input")
	ErrTooSmall        = errors.New("too small")
	ErrBadMagic        = errors.New("bad magic")
	ErrMalformedLump   = errors.New("malformed lump")
	ErrLumpOutOfBounds = errors.New("lump out of bounds")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// noLump marks errors which are not caused by a specific lump.
const noLump LumpID = -1

// DecodeError is returned by Decode and Parse. Err wraps one of the Err*
// values of this package.
type DecodeError struct {
	Name string
	Lump LumpID
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Lump == noLump {
		return fmt.Sprintf("bsp %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("bsp %s: lump %v: %v", e.Name, e.Lump, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
