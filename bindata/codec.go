// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
)

// Encode transcodes buf (currently in the `from` compression state, for an
// array of the given dtype) into the `to` state. Every non-Decoded state is
// reachable from Decoded and vice versa; composite states (e.g.
// NumpressLinearZlib) are reached by composing the two legs.
func Encode(buf []byte, dtype DType, from, to CompressionType) ([]byte, error) {
	if from == to {
		return buf, nil
	}
	decoded := buf
	if from != Decoded {
		var err error
		decoded, err = Decode(buf, dtype, from)
		if err != nil {
			return nil, err
		}
	}
	if to == Decoded {
		return decoded, nil
	}
	return encodeFromDecoded(decoded, dtype, to)
}

// Decode transcodes buf from the given compression state back to Decoded
// raw bytes.
func Decode(buf []byte, dtype DType, from CompressionType) ([]byte, error) {
	switch from {
	case Decoded, NoCompression:
		return buf, nil
	case Zlib:
		return zlibDecode(buf)
	case Zstd:
		return zstdDecode(buf)
	case DeltaZstd:
		return deltaZstdDecode(buf, dtype)
	case NumpressLinear:
		return numpressLinearDecode(buf)
	case NumpressSLOF:
		return numpressSLOFDecode(buf)
	case NumpressPIC:
		return numpressPICDecode(buf)
	case NumpressLinearZlib:
		raw, err := zlibDecode(buf)
		if err != nil {
			return nil, err
		}
		return numpressLinearDecode(raw)
	case NumpressSLOFZlib:
		raw, err := zlibDecode(buf)
		if err != nil {
			return nil, err
		}
		return numpressSLOFDecode(raw)
	case NumpressPICZlib:
		raw, err := zlibDecode(buf)
		if err != nil {
			return nil, err
		}
		return numpressPICDecode(raw)
	case LinearPrediction:
		return predictionDecode(buf, dtype, schemeLinear)
	case DeltaPrediction:
		return predictionDecode(buf, dtype, schemeDelta)
	default:
		return nil, errDecompression("unsupported compression state %s", from)
	}
}

func encodeFromDecoded(decoded []byte, dtype DType, to CompressionType) ([]byte, error) {
	switch to {
	case NoCompression:
		return decoded, nil
	case Zlib:
		return zlibEncode(decoded)
	case Zstd:
		return zstdEncode(decoded)
	case DeltaZstd:
		return deltaZstdEncode(decoded, dtype)
	case NumpressLinear:
		return numpressLinearEncode(decoded)
	case NumpressSLOF:
		return numpressSLOFEncode(decoded)
	case NumpressPIC:
		return numpressPICEncode(decoded)
	case NumpressLinearZlib:
		raw, err := numpressLinearEncode(decoded)
		if err != nil {
			return nil, err
		}
		return zlibEncode(raw)
	case NumpressSLOFZlib:
		raw, err := numpressSLOFEncode(decoded)
		if err != nil {
			return nil, err
		}
		return zlibEncode(raw)
	case NumpressPICZlib:
		raw, err := numpressPICEncode(decoded)
		if err != nil {
			return nil, err
		}
		return zlibEncode(raw)
	case LinearPrediction:
		return predictionEncode(decoded, dtype, schemeLinear)
	case DeltaPrediction:
		return predictionEncode(decoded, dtype, schemeDelta)
	default:
		return nil, errDecompression("unsupported compression state %s", to)
	}
}

func zlibEncode(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, errDecompression("zlib encode: %v", err)
	}
	if err := w.Close(); err != nil {
		return nil, errDecompression("zlib encode: %v", err)
	}
	return buf.Bytes(), nil
}

func zlibDecode(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errDecompression("zlib decode: %v", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errDecompression("zlib decode: %v", err)
	}
	return out, nil
}

// byteOrder is the little-endian convention mandated for every multi-byte
// value on disk.
var byteOrder = binary.LittleEndian
