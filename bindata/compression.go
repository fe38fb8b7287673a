// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "github.com/saferwall/mzdata/cvparam"

// CompressionType is the range of compression and encoding states a raw
// byte buffer may be in during different stages of decoding. Other than
// Decoded, every state's bytes are what's actually stored on disk
// (modulo base64 in XML-backed formats).
type CompressionType uint8

const (
	Decoded CompressionType = iota
	NoCompression
	Zlib
	NumpressLinear
	NumpressSLOF
	NumpressPIC
	NumpressLinearZlib
	NumpressSLOFZlib
	NumpressPICZlib
	LinearPrediction
	DeltaPrediction
	Zstd
	DeltaZstd
)

func (c CompressionType) String() string {
	names := map[CompressionType]string{
		Decoded: "Decoded", NoCompression: "NoCompression", Zlib: "Zlib",
		NumpressLinear: "NumpressLinear", NumpressSLOF: "NumpressSLOF", NumpressPIC: "NumpressPIC",
		NumpressLinearZlib: "NumpressLinearZlib", NumpressSLOFZlib: "NumpressSLOFZlib", NumpressPICZlib: "NumpressPICZlib",
		LinearPrediction: "LinearPrediction", DeltaPrediction: "DeltaPrediction",
		Zstd: "Zstd", DeltaZstd: "DeltaZstd",
	}
	if s, ok := names[c]; ok {
		return s
	}
	return "Unknown"
}

// compressionAccessions mirrors mobiusklein/mzdata's BinaryCompressionType
// CV mapping exactly, including the upstream accession collision between
// "mean ion mobility drift time array" (MS:1002477) and "numpress-slof+zlib
// compression" — both use MS:1002477 in the published PSI-MS CV; resolving
// between them requires element context (array name vs compression
// cvParam), not the accession alone. See DESIGN.md.
var compressionAccessions = map[CompressionType]struct {
	name      string
	accession string
}{
	NoCompression:      {"no compression", "MS:1000576"},
	Zlib:                {"zlib compression", "MS:1000574"},
	NumpressLinear:      {"MS-Numpress linear prediction compression", "MS:1002312"},
	NumpressSLOF:        {"MS-Numpress short logged float compression", "MS:1002313"},
	NumpressPIC:         {"MS-Numpress positive integer compression", "MS:1002314"},
	NumpressLinearZlib:  {"MS-Numpress linear prediction compression followed by zlib compression", "MS:1002746"},
	NumpressSLOFZlib:    {"MS-Numpress short logged float compression followed by zlib compression", "MS:1002477"},
	NumpressPICZlib:     {"MS-Numpress positive integer compression followed by zlib compression", "MS:1002478"},
}

// AsParam renders the compression state as a CV parameter. Decoded has no
// on-disk representation and returns ok=false. Zstd/DeltaZstd are
// non-standard extensions with no PSI-MS accession; they are carried as a
// bare name, since MS-Numpress zstd variants have no CV accession yet.
func (c CompressionType) AsParam() (cvparam.Param, bool) {
	switch c {
	case Decoded:
		return cvparam.Param{}, false
	case Zstd:
		return cvparam.Param{Name: "byte-shuffle-zstd compression"}, true
	case DeltaZstd:
		return cvparam.Param{Name: "delta-byte-shuffle-zstd compression"}, true
	}
	info, ok := compressionAccessions[c]
	if !ok {
		return cvparam.Param{}, false
	}
	return cvparam.Param{Name: info.name, CVRef: "MS", Accession: info.accession}, true
}

// CompressionFromAccession resolves an incoming cvParam accession back to a
// CompressionType, for use while parsing a binaryDataArray's parameter
// list. Returns ok=false for accessions this layer doesn't recognize as a
// compression state (e.g. the colliding MS:1002477 when it names an array
// instead — the caller disambiguates by checking the parameter's name).
func CompressionFromAccession(accession string) (CompressionType, bool) {
	for c, info := range compressionAccessions {
		if info.accession == accession {
			return c, true
		}
	}
	return Decoded, false
}

// CompressionFromName resolves the non-standard zstd family, which has no
// accession to key off of.
func CompressionFromName(name string) (CompressionType, bool) {
	switch name {
	case "byte-shuffle-zstd compression":
		return Zstd, true
	case "delta-byte-shuffle-zstd compression":
		return DeltaZstd, true
	}
	return Decoded, false
}
