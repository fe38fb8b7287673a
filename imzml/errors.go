// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imzml

import "fmt"

// ParseError covers the file-level IMS parameters a reader demands be
// present before a reader can be considered successfully opened.
type ParseError struct {
	Kind string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case "MissingUUID":
		return "imzml: file-level UUID parameter (MS:1000080) is missing"
	case "MissingChecksum":
		return "imzml: file-level checksum parameter (MS:1000090) is missing"
	case "MissingDataMode":
		return "imzml: file-level data mode parameter (continuous MS:1000030 / processed MS:1000031) is missing"
	case "UUIDMismatch":
		return "imzml: ibd file UUID does not match the XML's recorded UUID"
	default:
		return "imzml: parse error"
	}
}

func errMissingUUID() error     { return &ParseError{Kind: "MissingUUID"} }
func errMissingChecksum() error { return &ParseError{Kind: "MissingChecksum"} }
func errMissingDataMode() error { return &ParseError{Kind: "MissingDataMode"} }
func errUUIDMismatch() error    { return &ParseError{Kind: "UUIDMismatch"} }

// RangeError is returned by the resolver when a binary data
// array's external offset/length would read past the end of the ibd file.
type RangeError struct {
	Offset, Length, FileSize int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("imzml: range [%d:%d) exceeds ibd file size %d", e.Offset, e.Offset+e.Length, e.FileSize)
}
