// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "math"

// MS-Numpress has no Go binding anywhere in the ecosystem (the reference
// implementation ships as a C++/Cython library with bindings for
// Python/Java/.NET only), so these three codecs are hand-implemented
// directly against the published algorithm
// (https://github.com/compomics/ms-numpress). See DESIGN.md for why no
// third-party dependency could serve this concern.

const (
	numpressLinearFixedPointDefault = 6e4
	numpressSLOFFixedPointDefault   = 0
	numpressPICFixedPointDefault    = 0
)

// numpressLinearEncode implements MSNumpress linear prediction encoding:
// each decoded value is scaled by a fixed point, delta/linear predicted,
// and the residual is packed into a variable-length halfbyte code. The
// fixed point is estimated from the data's max absolute value and stored
// as the first 8 bytes of the output (a float64), matching the reference
// encoder's header convention.
func numpressLinearEncode(decoded []byte) ([]byte, error) {
	values, err := bytesToFloat64(decoded)
	if err != nil {
		return nil, err
	}
	fp := numpressLinearFixedPoint(values)
	ints := make([]int32, len(values))
	for i, v := range values {
		ints[i] = int32(math.Round(v * fp))
	}
	out := make([]byte, 8)
	byteOrder.PutUint64(out, math.Float64bits(fp))

	var prev2, prev1 int64
	codes := make([]byte, 0, len(ints))
	for i, x := range ints {
		var pred int64
		switch i {
		case 0:
			pred = 0
		case 1:
			pred = int64(ints[0])
		default:
			pred = 2*prev1 - prev2
		}
		resid := int64(x) - pred
		codes = append(codes, numpressEncodeHalfbytes(resid)...)
		prev2, prev1 = prev1, int64(x)
	}
	return append(out, numpressPackHalfbytes(codes)...), nil
}

func numpressLinearDecode(buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, errDecompression("numpress linear: buffer too short for header")
	}
	fp := math.Float64frombits(byteOrder.Uint64(buf[:8]))
	if fp == 0 {
		return nil, errDecompression("numpress linear: zero fixed point in header")
	}
	residuals := numpressUnpackHalfbytes(buf[8:])

	ints := make([]int64, 0, len(residuals))
	var prev2, prev1 int64
	for i, r := range residuals {
		var pred int64
		switch i {
		case 0:
			pred = 0
		case 1:
			pred = ints[0]
		default:
			pred = 2*prev1 - prev2
		}
		x := pred + r
		ints = append(ints, x)
		prev2, prev1 = prev1, x
	}
	values := make([]float64, len(ints))
	for i, x := range ints {
		values[i] = float64(x) / fp
	}
	return float64ToBytes(values), nil
}

// numpressSLOFEncode implements short logged float compression: values are
// log-transformed then stored as fixed-point uint16 codes.
func numpressSLOFEncode(decoded []byte) ([]byte, error) {
	values, err := bytesToFloat64(decoded)
	if err != nil {
		return nil, err
	}
	fp := numpressSLOFFixedPoint(values)
	out := make([]byte, 8)
	byteOrder.PutUint64(out, math.Float64bits(fp))
	body := make([]byte, len(values)*2)
	for i, v := range values {
		code := uint16(math.Round(math.Log(v+1) * fp))
		byteOrder.PutUint16(body[i*2:], code)
	}
	return append(out, body...), nil
}

func numpressSLOFDecode(buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, errDecompression("numpress slof: buffer too short for header")
	}
	fp := math.Float64frombits(byteOrder.Uint64(buf[:8]))
	if fp == 0 {
		return nil, errDecompression("numpress slof: zero fixed point in header")
	}
	body := buf[8:]
	if len(body)%2 != 0 {
		return nil, errSizeMismatch()
	}
	n := len(body) / 2
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		code := byteOrder.Uint16(body[i*2:])
		values[i] = math.Exp(float64(code)/fp) - 1
	}
	return float64ToBytes(values), nil
}

// numpressPICEncode implements positive integer compression: values are
// rounded to the nearest integer and packed as variable-length halfbyte
// codes with no fixed-point header (fixed point is implicitly 1).
func numpressPICEncode(decoded []byte) ([]byte, error) {
	values, err := bytesToFloat64(decoded)
	if err != nil {
		return nil, err
	}
	codes := make([]byte, 0, len(values))
	for _, v := range values {
		codes = append(codes, numpressEncodeHalfbytes(int64(math.Round(v)))...)
	}
	return numpressPackHalfbytes(codes), nil
}

func numpressPICDecode(buf []byte) ([]byte, error) {
	residuals := numpressUnpackHalfbytes(buf)
	values := make([]float64, len(residuals))
	for i, r := range residuals {
		values[i] = float64(r)
	}
	return float64ToBytes(values), nil
}

func numpressLinearFixedPoint(values []float64) float64 {
	if len(values) == 0 {
		return numpressLinearFixedPointDefault
	}
	var max float64
	for _, v := range values {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	if max == 0 {
		return numpressLinearFixedPointDefault
	}
	return math.Floor(float64(math.MaxInt32)/max) / 2
}

func numpressSLOFFixedPoint(values []float64) float64 {
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 1
	}
	return float64(math.MaxUint16) / math.Log(max+1)
}

// numpressEncodeHalfbytes packs a signed residual into a variable-length
// halfbyte code: the residual is zigzag-mapped to an unsigned value, then
// emitted 3 bits per nibble, least significant first, with the top bit set
// on every nibble except the last.
func numpressEncodeHalfbytes(v int64) []byte {
	u := zigzag(v)
	var nibbles []byte
	for {
		n := byte(u & 0x7)
		u >>= 3
		if u != 0 {
			nibbles = append(nibbles, n|0x8)
		} else {
			nibbles = append(nibbles, n)
			break
		}
	}
	return nibbles
}

func numpressPackHalfbytes(nibbles []byte) []byte {
	out := make([]byte, 0, (len(nibbles)+1)/2)
	for i := 0; i < len(nibbles); i += 2 {
		lo := nibbles[i]
		var hi byte
		if i+1 < len(nibbles) {
			hi = nibbles[i+1]
		}
		out = append(out, lo|(hi<<4))
	}
	return out
}

func numpressUnpackHalfbytes(buf []byte) []int64 {
	nibbles := make([]byte, 0, len(buf)*2)
	for _, b := range buf {
		nibbles = append(nibbles, b&0xF, (b>>4)&0xF)
	}
	var out []int64
	var acc uint64
	var shift uint
	for _, n := range nibbles {
		acc |= uint64(n&0x7) << shift
		shift += 3
		if n&0x8 == 0 {
			out = append(out, unzigzag(acc))
			acc = 0
			shift = 0
		}
	}
	return out
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func bytesToFloat64(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, errSizeMismatch()
	}
	n := len(buf) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(byteOrder.Uint64(buf[i*8:]))
	}
	return out, nil
}

func float64ToBytes(values []float64) []byte {
	out := make([]byte, len(values)*8)
	for i, v := range values {
		byteOrder.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}
