// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// losslessCases are every compression state whose round trip must recover
// the exact input bytes: plain copy, zlib, and zstd operate on the raw byte
// stream without any numeric quantization, and delta-zstd's first
// differences are exact for the small integer-valued inputs used here.
var losslessCases = []CompressionType{
	NoCompression, Zlib, Zstd, DeltaZstd,
}

func TestEncodeDecodeLosslessRoundTrip(t *testing.T) {
	values := []float64{100, 200, 150, 175, 300, 50, 999, 0, 123, 42}
	decoded := float64ToBytes(values)

	for _, c := range losslessCases {
		t.Run(c.String(), func(t *testing.T) {
			encoded, err := Encode(decoded, Float64, Decoded, c)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(encoded, Float64, c)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			got, err := bytesToFloat64(back)
			if err != nil {
				t.Fatalf("bytesToFloat64: %v", err)
			}
			if len(got) != len(values) {
				t.Fatalf("got %d values, want %d", len(got), len(values))
			}
			for i := range values {
				if got[i] != values[i] {
					t.Errorf("index %d: got %v, want %v", i, got[i], values[i])
				}
			}
		})
	}
}

// predictionCases round-trip exactly for small integer-valued floats:
// delta/linear prediction is pure addition and subtraction of values that
// fit well within float64's exact integer range, so no rounding occurs in
// either direction.
func TestEncodeDecodePredictionRoundTrip(t *testing.T) {
	values := []float64{1000, 1002, 998, 1010, 1005, 995, 1020, 980}
	decoded := float64ToBytes(values)

	for _, c := range []CompressionType{LinearPrediction, DeltaPrediction} {
		t.Run(c.String(), func(t *testing.T) {
			encoded, err := Encode(decoded, Float64, Decoded, c)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(encoded, Float64, c)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			got, err := bytesToFloat64(back)
			if err != nil {
				t.Fatalf("bytesToFloat64: %v", err)
			}
			for i := range values {
				if got[i] != values[i] {
					t.Errorf("index %d: got %v, want %v", i, got[i], values[i])
				}
			}
		})
	}
}

// TestEncodeDecodeNumpressPIC checks the lossless case for positive integer
// compression: when every input value is already integral, rounding to the
// nearest integer is a no-op, so the round trip is exact.
func TestEncodeDecodeNumpressPIC(t *testing.T) {
	values := []float64{0, 1, 42, 100, 9999, 123456}
	decoded := float64ToBytes(values)

	encoded, err := Encode(decoded, Float64, Decoded, NumpressPIC)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(encoded, Float64, NumpressPIC)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := bytesToFloat64(back)
	if err != nil {
		t.Fatalf("bytesToFloat64: %v", err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], values[i])
		}
	}
}

// TestEncodeDecodeNumpressLossy exercises linear and SLOF numpress, which
// are fixed-point-quantized and therefore only approximately invertible;
// this asserts the round trip stays within the codec's expected tolerance
// rather than exact equality.
func TestEncodeDecodeNumpressLossy(t *testing.T) {
	values := []float64{100.0, 200.5, 150.25, 175.75, 300.0, 50.125, 999.25, 123.5}
	decoded := float64ToBytes(values)

	cases := []struct {
		c   CompressionType
		tol float64
	}{
		{NumpressLinear, 0.01},
		{NumpressSLOF, 0.05},
		{NumpressLinearZlib, 0.01},
		{NumpressSLOFZlib, 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.c.String(), func(t *testing.T) {
			encoded, err := Encode(decoded, Float64, Decoded, tc.c)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(encoded, Float64, tc.c)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			got, err := bytesToFloat64(back)
			if err != nil {
				t.Fatalf("bytesToFloat64: %v", err)
			}
			for i := range values {
				if !almostEqual(got[i], values[i], tc.tol) {
					t.Errorf("index %d: got %v, want %v (tol %v)", i, got[i], values[i], tc.tol)
				}
			}
		})
	}
}

func TestEncodeSameStateIsNoop(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	out, err := Encode(buf, Float32, Zlib, Zlib)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) != len(buf) {
		t.Fatalf("expected identity passthrough, got length %d", len(out))
	}
}

func TestCompressionAsParamRoundTrip(t *testing.T) {
	cases := []CompressionType{
		NoCompression, Zlib, NumpressLinear, NumpressSLOF, NumpressPIC,
		NumpressLinearZlib, NumpressSLOFZlib, NumpressPICZlib,
	}
	for _, c := range cases {
		p, ok := c.AsParam()
		if !ok {
			t.Fatalf("%s: AsParam reported not ok", c)
		}
		got, ok := CompressionFromAccession(p.Accession)
		if !ok {
			t.Fatalf("%s: CompressionFromAccession(%s) reported not ok", c, p.Accession)
		}
		if got != c {
			t.Errorf("CompressionFromAccession(%s) = %s, want %s", p.Accession, got, c)
		}
	}
}

func TestCompressionFromNameZstdFamily(t *testing.T) {
	c, ok := CompressionFromName("byte-shuffle-zstd compression")
	if !ok || c != Zstd {
		t.Fatalf("got (%v, %v), want (Zstd, true)", c, ok)
	}
	c, ok = CompressionFromName("delta-byte-shuffle-zstd compression")
	if !ok || c != DeltaZstd {
		t.Fatalf("got (%v, %v), want (DeltaZstd, true)", c, ok)
	}
	if _, ok := CompressionFromName("not a real compression"); ok {
		t.Fatal("expected ok=false for unrecognized name")
	}
}

func TestDecodeUnsupportedState(t *testing.T) {
	if _, err := Decode([]byte{1}, Float64, CompressionType(255)); err == nil {
		t.Fatal("expected error for unrecognized compression state")
	}
}
