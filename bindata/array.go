// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import (
	"math"

	"github.com/saferwall/mzdata/cvparam"
)

// ExternalRef points a DataArray at a byte range in an external backing
// store (an mzMLb HDF5 dataset, an imzML ibd sidecar) instead of carrying
// its bytes inline. Set by a format reader while parsing a
// <binaryDataArray>'s external-reference cvParams; resolved by that
// format's own range-fetch path, which then calls SetRaw.
type ExternalRef struct {
	Dataset string // HDF5 dataset path, or empty for a flat ibd file
	Offset  int64  // element offset, not byte offset
	Length  int64  // element count
}

// DataArray is a single named, typed column of binary data: the raw bytes
// as they currently sit (possibly still compressed), the dtype they
// decode to, and the compression state the bytes are in. Decoding is
// lazy: DecodeAndStore only runs the codec pipeline when a typed view is
// actually requested, and caches the Decoded bytes back into the struct.
type DataArray struct {
	Name        ArrayName
	DType       DType
	Compression CompressionType
	External    *ExternalRef
	data        []byte
	unit        cvparam.Unit
}

// NewDataArray constructs an empty array of the given name, defaulting to
// the name's preferred dtype and an uncompressed state.
func NewDataArray(name ArrayName) *DataArray {
	return &DataArray{Name: name, DType: name.PreferredDType(), Compression: Decoded}
}

// NewDataArrayWith constructs a DataArray wrapping pre-existing bytes in a
// known compression state.
func NewDataArrayWith(name ArrayName, dtype DType, compression CompressionType, data []byte) *DataArray {
	return &DataArray{Name: name, DType: dtype, Compression: compression, data: data}
}

// Len reports the number of decoded elements this array holds. Forces a
// decode if the array is not already in the Decoded state.
func (d *DataArray) Len() (int, error) {
	if err := d.DecodeAndStore(); err != nil {
		return 0, err
	}
	size := d.DType.SizeOf()
	if size == 0 {
		return 0, nil
	}
	return len(d.data) / size, nil
}

// SliceBuffer returns the raw bytes currently stored, whatever compression
// state they are in. Callers that need typed values should use ToF32 et
// al., which decode first.
func (d *DataArray) SliceBuffer() []byte { return d.data }

// SetRaw replaces the array's stored bytes wholesale, in its current
// compression state. Used by format readers that have just decoded a
// payload (base64, HDF5 range fetch, IBD range fetch) off the wire.
func (d *DataArray) SetRaw(data []byte) { d.data = data }

// DecodeAndStore runs the codec pipeline to bring the array's stored bytes
// into the Decoded state, replacing the stored buffer and compression tag
// in place. A no-op if the array is already Decoded.
func (d *DataArray) DecodeAndStore() error {
	if d.Compression == Decoded {
		return nil
	}
	raw, err := Decode(d.data, d.DType, d.Compression)
	if err != nil {
		return err
	}
	d.data = raw
	d.Compression = Decoded
	return nil
}

// StoreAs re-encodes the array's currently-decoded bytes into the target
// compression state, replacing the stored buffer in place.
func (d *DataArray) StoreAs(to CompressionType) error {
	if err := d.DecodeAndStore(); err != nil {
		return err
	}
	if to == Decoded {
		return nil
	}
	encoded, err := encodeFromDecoded(d.data, d.DType, to)
	if err != nil {
		return err
	}
	d.data = encoded
	d.Compression = to
	return nil
}

// Push appends a single float64 value to the array, coercing to the
// array's dtype. Forces decode first; the array must already be Float32,
// Float64, Int32, or Int64.
func (d *DataArray) Push(value float64) error {
	if err := d.DecodeAndStore(); err != nil {
		return err
	}
	switch d.DType {
	case Float32:
		v, err := d.ToF32()
		if err != nil {
			return err
		}
		d.data = float32SliceToBytes(append(v, float32(value)))
	case Float64:
		v, err := d.ToF64()
		if err != nil {
			return err
		}
		d.data = float64ToBytes(append(v, value))
	case Int32:
		v, err := d.ToI32()
		if err != nil {
			return err
		}
		d.data = int32SliceToBytes(append(v, int32(value)))
	case Int64:
		v, err := d.ToI64()
		if err != nil {
			return err
		}
		d.data = int64SliceToBytes(append(v, int64(value)))
	default:
		return errDecompression("cannot push a numeric value onto dtype %s", d.DType)
	}
	return nil
}

// ToF32 returns a decoded view of the array as float32s. The array's dtype
// must already be Float32.
func (d *DataArray) ToF32() ([]float32, error) {
	if err := d.requireDType(Float32); err != nil {
		return nil, err
	}
	if err := d.DecodeAndStore(); err != nil {
		return nil, err
	}
	return bytesToFloat32(d.data)
}

// ToF64 returns a decoded view of the array as float64s. The array's dtype
// must already be Float64.
func (d *DataArray) ToF64() ([]float64, error) {
	if err := d.requireDType(Float64); err != nil {
		return nil, err
	}
	if err := d.DecodeAndStore(); err != nil {
		return nil, err
	}
	return bytesToFloat64(d.data)
}

// ToI32 returns a decoded view of the array as int32s. The array's dtype
// must already be Int32.
func (d *DataArray) ToI32() ([]int32, error) {
	if err := d.requireDType(Int32); err != nil {
		return nil, err
	}
	if err := d.DecodeAndStore(); err != nil {
		return nil, err
	}
	return bytesToInt32(d.data)
}

// ToI64 returns a decoded view of the array as int64s. The array's dtype
// must already be Int64.
func (d *DataArray) ToI64() ([]int64, error) {
	if err := d.requireDType(Int64); err != nil {
		return nil, err
	}
	if err := d.DecodeAndStore(); err != nil {
		return nil, err
	}
	return bytesToInt64(d.data)
}

// Coerce converts the array's decoded elements to a new dtype in place
// (e.g. Float64 mz array down-cast to Float32 for a lower-precision
// writer). Only numeric dtype pairs are supported.
func (d *DataArray) Coerce(to DType) error {
	if d.DType == to {
		return nil
	}
	if err := d.DecodeAndStore(); err != nil {
		return err
	}
	values, err := d.asFloat64Slice()
	if err != nil {
		return err
	}
	switch to {
	case Float32:
		v := make([]float32, len(values))
		for i, x := range values {
			v[i] = float32(x)
		}
		d.data = float32SliceToBytes(v)
	case Float64:
		d.data = float64ToBytes(values)
	case Int32:
		v := make([]int32, len(values))
		for i, x := range values {
			v[i] = int32(x)
		}
		d.data = int32SliceToBytes(v)
	case Int64:
		v := make([]int64, len(values))
		for i, x := range values {
			v[i] = int64(x)
		}
		d.data = int64SliceToBytes(v)
	default:
		return errDecompression("cannot coerce to non-numeric dtype %s", to)
	}
	d.DType = to
	return nil
}

func (d *DataArray) asFloat64Slice() ([]float64, error) {
	switch d.DType {
	case Float32:
		v, err := bytesToFloat32(d.data)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case Float64:
		return bytesToFloat64(d.data)
	case Int32:
		v, err := bytesToInt32(d.data)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case Int64:
		v, err := bytesToInt64(d.data)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, errDecompression("cannot coerce non-numeric dtype %s", d.DType)
	}
}

func (d *DataArray) requireDType(want DType) error {
	if d.DType != want {
		return errDecompression("array %s holds dtype %s, requested %s", d.Name, d.DType, want)
	}
	return nil
}

func bytesToFloat32(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, errSizeMismatch()
	}
	n := len(buf) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(byteOrder.Uint32(buf[i*4:]))
	}
	return out, nil
}

func bytesToInt32(buf []byte) ([]int32, error) {
	if len(buf)%4 != 0 {
		return nil, errSizeMismatch()
	}
	n := len(buf) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(byteOrder.Uint32(buf[i*4:]))
	}
	return out, nil
}

func bytesToInt64(buf []byte) ([]int64, error) {
	if len(buf)%8 != 0 {
		return nil, errSizeMismatch()
	}
	n := len(buf) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(byteOrder.Uint64(buf[i*8:]))
	}
	return out, nil
}

func float32SliceToBytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		byteOrder.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func int32SliceToBytes(values []int32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		byteOrder.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

func int64SliceToBytes(values []int64) []byte {
	out := make([]byte, len(values)*8)
	for i, v := range values {
		byteOrder.PutUint64(out[i*8:], uint64(v))
	}
	return out
}
