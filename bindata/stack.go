// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import (
	"math"
	"sort"
)

// BinaryArrayMap3D stacks a flat, ion-mobility-resolved BinaryArrayMap (one
// row per point, one of its arrays recording each row's mobility value)
// into a structure addressable by mobility value, and can unstack back into
// that flat layout. The mobility axis is the de-duplicated, sorted set of
// values the source array carries.
type BinaryArrayMap3D struct {
	axisName ArrayName
	axis     []float64
	frames   map[float64]*BinaryArrayMap
}

// NewBinaryArrayMap3D constructs an empty 3D map keyed on the given
// ion-mobility axis name (e.g. Name(RawIonMobilityArray)).
func NewBinaryArrayMap3D(axisName ArrayName) *BinaryArrayMap3D {
	return &BinaryArrayMap3D{axisName: axisName, frames: make(map[float64]*BinaryArrayMap)}
}

// AxisName reports which ion-mobility dimension this stack is keyed on.
func (s *BinaryArrayMap3D) AxisName() ArrayName { return s.axisName }

// Axis returns the sorted, de-duplicated mobility values this stack holds.
func (s *BinaryArrayMap3D) Axis() []float64 { return s.axis }

// Frame returns the 1D array map for a given mobility value, if present.
func (s *BinaryArrayMap3D) Frame(value float64) (*BinaryArrayMap, bool) {
	m, ok := s.frames[value]
	return m, ok
}

// Frames returns the per-mobility-value frames in ascending axis order.
func (s *BinaryArrayMap3D) Frames() []*BinaryArrayMap {
	out := make([]*BinaryArrayMap, 0, len(s.axis))
	for _, v := range s.axis {
		out = append(out, s.frames[v])
	}
	return out
}

// StackFrom builds a BinaryArrayMap3D from frames the caller has already
// partitioned by mobility value. Lower-level than Stack: use it when the
// per-value split already exists (e.g. it was read frame-by-frame off the
// wire) rather than re-deriving it from a flat array.
func StackFrom(axisName ArrayName, framesByMobility map[float64]*BinaryArrayMap) (*BinaryArrayMap3D, error) {
	s := NewBinaryArrayMap3D(axisName)
	axis := make([]float64, 0, len(framesByMobility))
	for v := range framesByMobility {
		axis = append(axis, v)
	}
	sort.Float64s(axis)
	for i := 1; i < len(axis); i++ {
		if !(axis[i] > axis[i-1]) {
			return nil, errDecompression("duplicate or unordered mobility axis value %v", axis[i])
		}
	}
	s.axis = axis
	s.frames = framesByMobility
	return s, nil
}

// Stack derives a BinaryArrayMap3D from a single flat BinaryArrayMap that
// carries one ion-mobility array with one value per row. The axis is built
// by sorting (original_index, im_value) pairs by im_value and walking them
// in that order, starting a new axis entry only when the current value is
// strictly greater than the last accepted one -- values within float
// equality collapse into the same bin. Every other array's rows are then
// partitioned into those bins, preserving each row's original relative
// order within its bin. The inverse of Unstack.
func Stack(source *BinaryArrayMap) (*BinaryArrayMap3D, error) {
	axisArr, err := source.IonMobility()
	if err != nil {
		return nil, err
	}
	imValues, err := axisArr.asFloat64Slice()
	if err != nil {
		return nil, err
	}
	for _, v := range imValues {
		if math.IsNaN(v) {
			return nil, errDecompression("ion mobility array %s contains NaN", axisArr.Name)
		}
	}

	type pair struct {
		index int
		value float64
	}
	pairs := make([]pair, len(imValues))
	for i, v := range imValues {
		pairs[i] = pair{index: i, value: v}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	var axis []float64
	binOf := make([]int, len(pairs))
	for _, p := range pairs {
		if len(axis) == 0 || p.value > axis[len(axis)-1] {
			axis = append(axis, p.value)
		}
		binOf[p.index] = len(axis) - 1
	}

	s := NewBinaryArrayMap3D(axisArr.Name)
	s.axis = axis
	s.frames = make(map[float64]*BinaryArrayMap, len(axis))
	for _, v := range axis {
		s.frames[v] = NewBinaryArrayMap()
	}

	var buildErr error
	source.Iter(func(arr *DataArray) bool {
		if arr.Name.Kind() == axisArr.Name.Kind() {
			return true
		}
		values, err := arr.asFloat64Slice()
		if err != nil {
			buildErr = err
			return false
		}
		if len(values) != len(binOf) {
			buildErr = errDecompression("array %s has %d rows, want %d to match the ion-mobility axis", arr.Name, len(values), len(binOf))
			return false
		}
		perBin := make([][]float64, len(axis))
		for i, v := range values {
			b := binOf[i]
			perBin[b] = append(perBin[b], v)
		}
		for bi, v := range axis {
			out := NewDataArray(arr.Name)
			out.DType = arr.DType
			for _, x := range perBin[bi] {
				if err := out.Push(x); err != nil {
					buildErr = err
					return false
				}
			}
			s.frames[v].Add(out)
		}
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return s, nil
}

// Unstack flattens every per-mobility-value frame's arrays into single
// concatenated DataArrays (one per array name present across all frames),
// plus a parallel ion-mobility array recording which frame each flattened
// row came from. This is the layout mzMLb and imzML store ion-mobility
// data in on disk: one long run per array, not one run per frame. The
// inverse of Stack.
func (s *BinaryArrayMap3D) Unstack() (*BinaryArrayMap, error) {
	flat := NewBinaryArrayMap()
	seen := make(map[arrayKind]bool)
	var mobilityColumn []float64

	for _, v := range s.axis {
		frame := s.frames[v]
		count := -1
		frame.Iter(func(arr *DataArray) bool {
			seen[arr.Name.Kind()] = true
			n, err := arr.Len()
			if err != nil {
				return true
			}
			if count < 0 {
				count = n
			}
			return true
		})
		if count < 0 {
			count = 0
		}
		for i := 0; i < count; i++ {
			mobilityColumn = append(mobilityColumn, v)
		}
	}

	for kind := range seen {
		name := ArrayName{kind: kind}
		out := NewDataArray(name)
		var values []float64
		for _, v := range s.axis {
			frame := s.frames[v]
			arr, ok := frame.Get(name)
			if !ok {
				continue
			}
			vs, err := arr.asFloat64Slice()
			if err != nil {
				return nil, err
			}
			values = append(values, vs...)
		}
		for _, v := range values {
			if err := out.Push(v); err != nil {
				return nil, err
			}
		}
		flat.Add(out)
	}

	mobility := NewDataArray(s.axisName)
	for _, v := range mobilityColumn {
		if err := mobility.Push(v); err != nil {
			return nil, err
		}
	}
	flat.Add(mobility)
	return flat, nil
}
