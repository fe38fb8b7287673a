// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "sync"

// BinaryArrayMap is the unordered collection of DataArrays attached to one
// spectrum or chromatogram, keyed by ArrayName. Lookup by kind is O(1);
// iteration order is unspecified.
type BinaryArrayMap struct {
	arrays map[arrayKind]*DataArray
	custom map[string]*DataArray
}

// NewBinaryArrayMap constructs an empty map.
func NewBinaryArrayMap() *BinaryArrayMap {
	return &BinaryArrayMap{arrays: make(map[arrayKind]*DataArray), custom: make(map[string]*DataArray)}
}

// Len reports the number of arrays held, standard and non-standard combined.
func (m *BinaryArrayMap) Len() int {
	return len(m.arrays) + len(m.custom)
}

// IsEmpty reports whether the map holds no arrays at all.
func (m *BinaryArrayMap) IsEmpty() bool {
	return m.Len() == 0
}

// Add inserts or replaces the array under its own Name.
func (m *BinaryArrayMap) Add(arr *DataArray) {
	if arr.Name.Kind() == NonStandardDataArray {
		m.custom[arr.Name.CustomName()] = arr
		return
	}
	m.arrays[arr.Name.Kind()] = arr
}

// Get returns the array for a closed-set ArrayName, if present.
func (m *BinaryArrayMap) Get(name ArrayName) (*DataArray, bool) {
	if name.Kind() == NonStandardDataArray {
		arr, ok := m.custom[name.CustomName()]
		return arr, ok
	}
	arr, ok := m.arrays[name.Kind()]
	return arr, ok
}

// HasArray reports whether an array of this name is present.
func (m *BinaryArrayMap) HasArray(name ArrayName) bool {
	_, ok := m.Get(name)
	return ok
}

// HasIonMobility reports whether any stored array describes an ion-mobility
// dimension.
func (m *BinaryArrayMap) HasIonMobility() bool {
	for kind := range m.arrays {
		if (ArrayName{kind: kind}).IsIonMobility() {
			return true
		}
	}
	return false
}

// Clear empties the map.
func (m *BinaryArrayMap) Clear() {
	m.arrays = make(map[arrayKind]*DataArray)
	m.custom = make(map[string]*DataArray)
}

// Iter calls fn once per stored array. Iteration stops early if fn returns
// false.
func (m *BinaryArrayMap) Iter(fn func(*DataArray) bool) {
	for _, arr := range m.arrays {
		if !fn(arr) {
			return
		}
	}
	for _, arr := range m.custom {
		if !fn(arr) {
			return
		}
	}
}

// Mzs returns the decoded m/z array, or an error if absent.
func (m *BinaryArrayMap) Mzs() ([]float64, error) {
	arr, ok := m.Get(Name(MZArray))
	if !ok {
		return nil, errNotFound(Name(MZArray))
	}
	return arr.ToF64()
}

// Intensities returns the decoded intensity array, or an error if absent.
func (m *BinaryArrayMap) Intensities() ([]float32, error) {
	arr, ok := m.Get(Name(IntensityArray))
	if !ok {
		return nil, errNotFound(Name(IntensityArray))
	}
	return arr.ToF32()
}

// Charges returns the decoded charge array, or an error if absent.
func (m *BinaryArrayMap) Charges() ([]int32, error) {
	arr, ok := m.Get(Name(ChargeArray))
	if !ok {
		return nil, errNotFound(Name(ChargeArray))
	}
	return arr.ToI32()
}

// IonMobility returns the first ion-mobility-flavored array found, or an
// error if none is present. A spectrum carries at most one ion-mobility
// dimension in practice, so the first match is definitive.
func (m *BinaryArrayMap) IonMobility() (*DataArray, error) {
	for kind, arr := range m.arrays {
		if (ArrayName{kind: kind}).IsIonMobility() {
			return arr, nil
		}
	}
	return nil, errNotFound(Name(IonMobilityArray))
}

// DecodeAllArrays forces every stored array into the Decoded state. Arrays
// are decoded concurrently once more than two are present, since each
// decode is independent CPU-bound work, following the package's usual
// worker-pool-over-independent-units pattern.
func (m *BinaryArrayMap) DecodeAllArrays() error {
	all := make([]*DataArray, 0, m.Len())
	m.Iter(func(a *DataArray) bool {
		all = append(all, a)
		return true
	})
	if len(all) <= 2 {
		for _, arr := range all {
			if err := arr.DecodeAndStore(); err != nil {
				return err
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(all))
	for i, arr := range all {
		wg.Add(1)
		go func(i int, arr *DataArray) {
			defer wg.Done()
			errs[i] = arr.DecodeAndStore()
		}(i, arr)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Search returns the index of the m/z value nearest query, among those
// within tolerance (same units as query), tie-breaking on smallest
// absolute error -- the same nearest-within-tolerance rule
// peak.PeakSet.HasPeak applies over an already-built peak set. The second
// return value is false (with no meaningful index) if no value falls
// within tolerance, the m/z array is absent, or it is empty.
func (m *BinaryArrayMap) Search(query, tolerance float64) (int, bool, error) {
	mzs, err := m.Mzs()
	if err != nil {
		return -1, false, err
	}
	if len(mzs) == 0 {
		return -1, false, nil
	}
	lo, hi := 0, len(mzs)
	for lo < hi {
		mid := (lo + hi) / 2
		if mzs[mid] < query {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	best := -1
	bestDelta := tolerance
	for _, j := range []int{lo - 1, lo} {
		if j < 0 || j >= len(mzs) {
			continue
		}
		delta := mzs[j] - query
		if delta < 0 {
			delta = -delta
		}
		if delta <= bestDelta {
			bestDelta = delta
			best = j
		}
	}
	if best < 0 {
		return -1, false, nil
	}
	return best, true, nil
}
