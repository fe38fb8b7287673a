// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "math"

// number is the set of dtypes linear/delta prediction can run over.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// deltaPredict inverts delta encoding in place: v[i] += v[i-1] - v[0] for
// i >= 2 (the first two values are the literal offset and first decoded
// value).
func deltaPredict[T number](v []T) {
	if len(v) < 2 {
		return
	}
	offset := v[0]
	prev := v[1]
	for i := 2; i < len(v); i++ {
		v[i] += prev - offset
		prev = v[i]
	}
}

// deltaPredictEncode is the exact inverse of deltaPredict.
func deltaPredictEncode[T number](v []T) {
	if len(v) < 2 {
		return
	}
	offset := v[0]
	prev := v[1]
	for i := 2; i < len(v); i++ {
		cur := v[i]
		v[i] = cur + offset - prev
		prev = cur
	}
}

// linearPredict inverts linear prediction in place:
// v[i] += 2*v[i-1] - v[i-2] - v[1] for i >= 2.
func linearPredict[T number](v []T) {
	if len(v) < 3 {
		return
	}
	offset := v[1]
	prev2, prev1 := v[0], v[1]
	for i := 2; i < len(v); i++ {
		decoded := v[i] + 2*prev1 - prev2 - offset
		prev2 = prev1
		prev1 = decoded
		v[i] = decoded
	}
}

// linearPredictEncode is the exact inverse of linearPredict.
func linearPredictEncode[T number](v []T) {
	if len(v) < 3 {
		return
	}
	offset := v[1]
	prev2, prev1 := v[0], v[1]
	for i := 2; i < len(v); i++ {
		decoded := v[i]
		v[i] = decoded + offset - 2*prev1 + prev2
		prev2 = prev1
		prev1 = decoded
	}
}

type predictScheme uint8

const (
	schemeDelta predictScheme = iota
	schemeLinear
)

func predictionDecode(buf []byte, dtype DType, scheme predictScheme) ([]byte, error) {
	return applyPrediction(buf, dtype, scheme, false)
}

func predictionEncode(buf []byte, dtype DType, scheme predictScheme) ([]byte, error) {
	return applyPrediction(buf, dtype, scheme, true)
}

// applyPrediction decodes buf into a typed slice matching dtype, runs the
// requested prediction scheme in place, and re-serializes to
// little-endian bytes.
func applyPrediction(buf []byte, dtype DType, scheme predictScheme, encode bool) ([]byte, error) {
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
		runPrediction(v, scheme, encode)
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
		runPrediction(v, scheme, encode)
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
		runPrediction(v, scheme, encode)
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
		runPrediction(v, scheme, encode)
		out := make([]byte, len(buf))
		for i, x := range v {
			byteOrder.PutUint64(out[i*8:], uint64(x))
		}
		return out, nil
	default:
		return nil, errDecompression("prediction codecs require a sized numeric dtype, got %s", dtype)
	}
}

func runPrediction[T number](v []T, scheme predictScheme, encode bool) {
	switch {
	case scheme == schemeDelta && !encode:
		deltaPredict(v)
	case scheme == schemeDelta && encode:
		deltaPredictEncode(v)
	case scheme == schemeLinear && !encode:
		linearPredict(v)
	case scheme == schemeLinear && encode:
		linearPredictEncode(v)
	}
}
