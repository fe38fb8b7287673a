// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "fmt"

// NotFoundError is returned when a requested array name is absent from a
// BinaryArrayMap.
type NotFoundError struct {
	Name ArrayName
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("array type %s not found", e.Name)
}

// DecompressionError wraps a failure in the codec layer (a malformed
// buffer, an unsupported codec for the requested conversion, ...).
type DecompressionError struct {
	Message string
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("an error occurred while decompressing: %s", e.Message)
}

// DataTypeSizeMismatchError is returned when a decoded buffer's length is
// not a multiple of the requested dtype's size.
type DataTypeSizeMismatchError struct{}

func (e *DataTypeSizeMismatchError) Error() string {
	return "the requested data type does not match the number of bytes available in the buffer"
}

func errNotFound(name ArrayName) error            { return &NotFoundError{Name: name} }
func errDecompression(format string, a ...any) error {
	return &DecompressionError{Message: fmt.Sprintf(format, a...)}
}
func errSizeMismatch() error { return &DataTypeSizeMismatchError{} }
