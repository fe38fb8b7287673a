// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import (
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstd encoders/decoders are expensive to construct and safe for concurrent
// use once built, so each is built once and shared across calls, avoiding
// per-call allocation churn.
var (
	zstdEncoderOnce sync.Once
	zstdEncoderRef  *zstd.Encoder
	zstdDecoderOnce sync.Once
	zstdDecoderRef  *zstd.Decoder
)

func zstdEncoderInstance() *zstd.Encoder {
	zstdEncoderOnce.Do(func() {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			panic(err) // construction with a nil writer cannot fail in practice
		}
		zstdEncoderRef = enc
	})
	return zstdEncoderRef
}

func zstdDecoderInstance() *zstd.Decoder {
	zstdDecoderOnce.Do(func() {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		zstdDecoderRef = dec
	})
	return zstdDecoderRef
}

func zstdEncode(raw []byte) ([]byte, error) {
	return zstdEncoderInstance().EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

func zstdDecode(compressed []byte) ([]byte, error) {
	out, err := zstdDecoderInstance().DecodeAll(compressed, nil)
	if err != nil {
		return nil, errDecompression("zstd decode: %v", err)
	}
	return out, nil
}

// deltaZstdEncode implements the delta-zstd codec: treat the buffer as
// typed values of dtype, compute plain successive first differences over
// the whole run (value[i] -= value[i-1] for i>=1, v[0] untouched -- a
// distinct transform from the delta-prediction compression type, which
// keeps the first two values literal and offsets from v[0]), byte-
// transpose (split into dtype.SizeOf() interleaved bands), then
// zstd-compress.
func deltaZstdEncode(decoded []byte, dtype DType) ([]byte, error) {
	deltaed, err := applyFirstDifference(decoded, dtype, true)
	if err != nil {
		return nil, err
	}
	transposed := byteTranspose(deltaed, dtype.SizeOf())
	return zstdEncode(transposed)
}

// deltaZstdDecode inverts deltaZstdEncode exactly: zstd-decompress, reverse
// the byte transpose, then invert the first-difference.
func deltaZstdDecode(compressed []byte, dtype DType) ([]byte, error) {
	transposed, err := zstdDecode(compressed)
	if err != nil {
		return nil, err
	}
	width := dtype.SizeOf()
	if width == 0 || len(transposed)%width != 0 {
		return nil, errSizeMismatch()
	}
	deltaed := reverseByteTranspose(transposed, width)
	return applyFirstDifference(deltaed, dtype, false)
}

// firstDifferenceEncode replaces every value but the first with its
// difference from its predecessor: v[i] -= v[i-1] for i >= 1. Walking
// from the end backward means v[i-1] is still the original value when
// it's consumed.
func firstDifferenceEncode[T number](v []T) {
	for i := len(v) - 1; i >= 1; i-- {
		v[i] -= v[i-1]
	}
}

// firstDifference inverts firstDifferenceEncode in place: v[i] += v[i-1]
// for i >= 1, walking forward so each v[i-1] is already restored to its
// original value before it's used.
func firstDifference[T number](v []T) {
	for i := 1; i < len(v); i++ {
		v[i] += v[i-1]
	}
}

// applyFirstDifference decodes buf into a typed slice matching dtype, runs
// the first-difference transform (or its inverse) in place, and
// re-serializes to little-endian bytes. Mirrors applyPrediction's
// decode/run/re-encode shape but with delta-zstd's own transform.
func applyFirstDifference(buf []byte, dtype DType, encode bool) ([]byte, error) {
	size := dtype.SizeOf()
	if size == 0 || len(buf)%size != 0 {
		return nil, errSizeMismatch()
	}
	n := len(buf) / size
	switch dtype {
	case Float32:
		v := make([]float32, n)
		for i := 0; i < n; i++ {
			v[i] = math.Float32frombits(byteOrder.Uint32(buf[i*4:]))
		}
		runFirstDifference(v, encode)
		out := make([]byte, len(buf))
		for i, x := range v {
			byteOrder.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out, nil
	case Float64:
		v := make([]float64, n)
		for i := 0; i < n; i++ {
			v[i] = math.Float64frombits(byteOrder.Uint64(buf[i*8:]))
		}
		runFirstDifference(v, encode)
		out := make([]byte, len(buf))
		for i, x := range v {
			byteOrder.PutUint64(out[i*8:], math.Float64bits(x))
		}
		return out, nil
	case Int32:
		v := make([]int32, n)
		for i := 0; i < n; i++ {
			v[i] = int32(byteOrder.Uint32(buf[i*4:]))
		}
		runFirstDifference(v, encode)
		out := make([]byte, len(buf))
		for i, x := range v {
			byteOrder.PutUint32(out[i*4:], uint32(x))
		}
		return out, nil
	case Int64:
		v := make([]int64, n)
		for i := 0; i < n; i++ {
			v[i] = int64(byteOrder.Uint64(buf[i*8:]))
		}
		runFirstDifference(v, encode)
		out := make([]byte, len(buf))
		for i, x := range v {
			byteOrder.PutUint64(out[i*8:], uint64(x))
		}
		return out, nil
	default:
		return nil, errDecompression("delta-zstd requires a sized numeric dtype, got %s", dtype)
	}
}

func runFirstDifference[T number](v []T, encode bool) {
	if encode {
		firstDifferenceEncode(v)
		return
	}
	firstDifference(v)
}

// byteTranspose splits a buffer of fixed-width elements into `width`
// interleaved bands: band i holds byte i of every element, in element
// order. This is the "byte-shuffle" step that groups like-valued bytes
// together (e.g. all the high-order bytes of a run of similar floats),
// which is what lets the downstream zstd pass exploit the redundancy.
func byteTranspose(data []byte, width int) []byte {
	if width <= 1 || len(data) == 0 {
		return append([]byte(nil), data...)
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			out[b*n+i] = data[i*width+b]
		}
	}
	return out
}

// reverseByteTranspose inverts byteTranspose.
func reverseByteTranspose(data []byte, width int) []byte {
	if width <= 1 || len(data) == 0 {
		return append([]byte(nil), data...)
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < width; b++ {
			out[i*width+b] = data[b*n+i]
		}
	}
	return out
}
