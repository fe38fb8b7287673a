// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import "fmt"

// ParserError is the taxonomy of mzML parse failures,
// ported from the state+underlying-error shape the parser's Rust
// ancestor uses (MzMLParserError).
type ParserError struct {
	Kind     string
	State    ParserState
	Context  string
	Underlying error
}

func (e *ParserError) Error() string {
	switch e.Kind {
	case "UnknownError":
		return fmt.Sprintf("an error occurred outside of normal conditions in %s", e.State)
	case "IncompleteSpectrum":
		return "an incomplete spectrum was parsed"
	case "IncompleteElementError":
		return fmt.Sprintf("an incomplete element %s was encountered in %s", e.Context, e.State)
	case "XMLError":
		return fmt.Sprintf("an XML error %v was encountered in %s", e.Underlying, e.State)
	case "IOError":
		return fmt.Sprintf("an IO error %v was encountered in %s", e.Underlying, e.State)
	default:
		return fmt.Sprintf("mzml parser error in %s: %v", e.State, e.Underlying)
	}
}

func (e *ParserError) Unwrap() error { return e.Underlying }

func errUnknown(state ParserState) error { return &ParserError{Kind: "UnknownError", State: state} }
func errIncompleteSpectrum() error {
	return &ParserError{Kind: "IncompleteSpectrum"}
}
func errIncompleteElement(context string, state ParserState) error {
	return &ParserError{Kind: "IncompleteElementError", Context: context, State: state}
}
func errXML(state ParserState, underlying error) error {
	return &ParserError{Kind: "XMLError", State: state, Underlying: underlying}
}
func errIO(state ParserState, underlying error) error {
	return &ParserError{Kind: "IOError", State: state, Underlying: underlying}
}

// IndexingError is the taxonomy of failures building or consulting the
// offset index.
type IndexingError struct {
	Kind       string
	Underlying error
}

func (e *IndexingError) Error() string {
	switch e.Kind {
	case "OffsetNotFound":
		return "requested offset was not found in the index"
	default:
		return fmt.Sprintf("mzml indexing error: %v", e.Underlying)
	}
}

func (e *IndexingError) Unwrap() error { return e.Underlying }

func errOffsetNotFound() error { return &IndexingError{Kind: "OffsetNotFound"} }

// RandomAccessError covers lookups against the reader's offset index.
type RandomAccessError struct {
	Kind       string
	ID         string
	Index      int
	Underlying error
}

func (e *RandomAccessError) Error() string {
	switch e.Kind {
	case "SpectrumNotFound":
		return "spectrum not found"
	case "SpectrumIdNotFound":
		return fmt.Sprintf("spectrum id %q not found", e.ID)
	case "SpectrumIndexNotFound":
		return fmt.Sprintf("spectrum index %d not found", e.Index)
	default:
		return fmt.Sprintf("random access error: %v", e.Underlying)
	}
}

func errSpectrumNotFound() error        { return &RandomAccessError{Kind: "SpectrumNotFound"} }
func errSpectrumIDNotFound(id string) error {
	return &RandomAccessError{Kind: "SpectrumIdNotFound", ID: id}
}
func errSpectrumIndexNotFound(i int) error {
	return &RandomAccessError{Kind: "SpectrumIndexNotFound", Index: i}
}
