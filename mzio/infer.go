// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mzio implements format inference, the Source/Sink dispatch
// layer, and the pre-buffered rewindable stream wrapper used for stdin.
package mzio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"strings"
)

// Format is one of the recognized container formats, or a sentinel for
// formats this module delegates to vendor bindings.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatMGF
	FormatMzML
	FormatMzMLb
	FormatImzML
	FormatThermoRaw
	FormatBrukerTDF
	FormatBrukerTSF
	FormatBrukerBAF
)

func (f Format) String() string {
	switch f {
	case FormatMGF:
		return "MGF"
	case FormatMzML:
		return "mzML"
	case FormatMzMLb:
		return "mzMLb"
	case FormatImzML:
		return "imzML"
	case FormatThermoRaw:
		return "Thermo-raw"
	case FormatBrukerTDF:
		return "Bruker TDF"
	case FormatBrukerTSF:
		return "Bruker TSF"
	case FormatBrukerBAF:
		return "Bruker BAF"
	default:
		return "Unknown"
	}
}

// InferFormat determines the format from a path's suffix alone, using a
// case-insensitive match on the final path component (or second-to-last
// if the path ends in .gz).
func InferFormat(path string) (format Format, gzipped bool) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".gz") {
		gzipped = true
		lower = strings.TrimSuffix(lower, ".gz")
	}
	switch {
	case strings.HasSuffix(lower, ".mgf"):
		return FormatMGF, gzipped
	case strings.HasSuffix(lower, ".mzml"):
		return FormatMzML, gzipped
	case strings.HasSuffix(lower, ".mzmlb"):
		return FormatMzMLb, gzipped
	case strings.HasSuffix(lower, ".imzml"):
		return FormatImzML, gzipped
	case strings.HasSuffix(lower, ".raw"):
		return FormatThermoRaw, gzipped
	case strings.HasSuffix(lower, ".tdf"):
		return FormatBrukerTDF, gzipped
	case strings.HasSuffix(lower, ".tsf"):
		return FormatBrukerTSF, gzipped
	case strings.HasSuffix(lower, ".baf"):
		return FormatBrukerBAF, gzipped
	default:
		return FormatUnknown, gzipped
	}
}

const sniffWindow = 1 << 20 // 1 MiB

var hdf5Magic = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

// InferFromStream peeks up to 1 MiB of r (which must support re-reading
// that prefix, e.g. via PrebufferedReader), transparently decoding a
// leading gzip stream if present, then sniffs the result for HDF5, MGF,
// mzML/indexedmzML, and IMS (imzML) markers.
func InferFromStream(r io.Reader) (format Format, gzipped bool, err error) {
	br := bufio.NewReaderSize(r, sniffWindow)
	peeked, err := br.Peek(sniffWindow)
	if err != nil && err != io.EOF {
		return FormatUnknown, false, err
	}

	prefix := peeked
	if len(prefix) >= 2 && prefix[0] == 0x1f && prefix[1] == 0x8b {
		gzipped = true
		gz, gerr := gzip.NewReader(bytes.NewReader(prefix))
		if gerr == nil {
			decoded, _ := io.ReadAll(io.LimitReader(gz, sniffWindow))
			prefix = decoded
		}
	}

	switch {
	case bytes.HasPrefix(prefix, hdf5Magic):
		return FormatMzMLb, gzipped, nil
	case bytes.Contains(prefix, []byte("BEGIN IONS")):
		return FormatMGF, gzipped, nil
	case looksLikeMzML(prefix):
		if bytes.Contains(prefix, []byte(`cv id="IMS"`)) {
			return FormatImzML, gzipped, nil
		}
		return FormatMzML, gzipped, nil
	default:
		return FormatUnknown, gzipped, nil
	}
}

func looksLikeMzML(prefix []byte) bool {
	if !bytes.Contains(prefix, []byte("<?xml")) {
		return false
	}
	return bytes.Contains(prefix, []byte("<mzML")) || bytes.Contains(prefix, []byte("<indexedmzML"))
}
