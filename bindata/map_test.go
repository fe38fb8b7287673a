// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "testing"

func buildFrame(mzs []float64, intensities []float32) *BinaryArrayMap {
	m := NewBinaryArrayMap()
	mz := NewDataArrayWith(Name(MZArray), Float64, Decoded, float64ToBytes(mzs))
	in := NewDataArrayWith(Name(IntensityArray), Float32, Decoded, float32SliceToBytes(intensities))
	m.Add(mz)
	m.Add(in)
	return m
}

func TestBinaryArrayMapGetAndMzsIntensities(t *testing.T) {
	m := buildFrame([]float64{100, 200, 300}, []float32{10, 20, 30})
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if !m.HasArray(Name(MZArray)) {
		t.Fatal("expected MZArray present")
	}
	mzs, err := m.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(mzs) != 3 || mzs[1] != 200 {
		t.Fatalf("unexpected mzs: %v", mzs)
	}
	intensities, err := m.Intensities()
	if err != nil {
		t.Fatalf("Intensities: %v", err)
	}
	if len(intensities) != 3 || intensities[2] != 30 {
		t.Fatalf("unexpected intensities: %v", intensities)
	}
}

func TestBinaryArrayMapNotFound(t *testing.T) {
	m := NewBinaryArrayMap()
	if _, err := m.Mzs(); err == nil {
		t.Fatal("expected error for missing m/z array")
	}
	if _, err := m.Charges(); err == nil {
		t.Fatal("expected error for missing charge array")
	}
}

func TestBinaryArrayMapCustomArray(t *testing.T) {
	m := NewBinaryArrayMap()
	custom := NewDataArrayWith(NonStandard("my-array"), Float32, Decoded, float32SliceToBytes([]float32{1, 2}))
	m.Add(custom)
	if !m.HasArray(NonStandard("my-array")) {
		t.Fatal("expected custom array present")
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
}

func TestBinaryArrayMapSearch(t *testing.T) {
	m := buildFrame([]float64{100, 200, 300, 400}, []float32{1, 2, 3, 4})

	// 210 is unambiguously closer to 200 (delta 10) than to 300 (delta 90),
	// and 200 sits strictly before the binary search's insertion point, so
	// this exercises the lo-1 candidate winning over lo.
	idx, ok, err := m.Search(210, 60)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !ok || idx != 1 {
		t.Fatalf("Search(210, 60) = (%d, %v), want (1, true)", idx, ok)
	}

	// 290 is unambiguously closer to 300 (delta 10) than to 200 (delta 90).
	idx, ok, err = m.Search(290, 60)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !ok || idx != 2 {
		t.Fatalf("Search(290, 60) = (%d, %v), want (2, true)", idx, ok)
	}

	// 250 is equidistant (delta 50) from both 200 and 300; ties are broken
	// by scan order (lo-1 checked, then lo, with <= letting an equal delta
	// replace it), so the lo candidate (300, index 2) wins.
	idx, ok, err = m.Search(250, 60)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !ok || idx != 2 {
		t.Fatalf("Search(250, 60) = (%d, %v), want (2, true)", idx, ok)
	}

	// 500 is 100 away from the nearest value (400), outside a tolerance of 10.
	idx, ok, err = m.Search(500, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ok || idx != -1 {
		t.Fatalf("Search(500, 10) = (%d, %v), want (-1, false)", idx, ok)
	}

	// An empty m/z array never reports a match.
	empty := buildFrame(nil, nil)
	if _, ok, err := empty.Search(100, 1000); err != nil || ok {
		t.Fatalf("Search over empty array = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestBinaryArrayMapClearAndIter(t *testing.T) {
	m := buildFrame([]float64{1, 2}, []float32{1, 2})
	count := 0
	m.Iter(func(*DataArray) bool {
		count++
		return true
	})
	if count != 2 {
		t.Fatalf("Iter visited %d arrays, want 2", count)
	}
	m.Clear()
	if !m.IsEmpty() {
		t.Fatal("expected empty map after Clear")
	}
}

func TestBinaryArrayMapDecodeAllArrays(t *testing.T) {
	m := NewBinaryArrayMap()
	mz := NewDataArray(Name(MZArray))
	for _, v := range []float64{1, 2, 3} {
		if err := mz.Push(v); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if err := mz.StoreAs(Zlib); err != nil {
		t.Fatalf("StoreAs: %v", err)
	}
	m.Add(mz)

	// numpress operates on float64-packed buffers regardless of the
	// array's nominal dtype, so force Float64 here to exercise it.
	in := NewDataArrayWith(Name(IntensityArray), Float64, Decoded, float64ToBytes([]float64{10, 20, 30}))
	if err := in.StoreAs(NumpressSLOF); err != nil {
		t.Fatalf("StoreAs: %v", err)
	}
	m.Add(in)

	if err := m.DecodeAllArrays(); err != nil {
		t.Fatalf("DecodeAllArrays: %v", err)
	}
	mzArr, _ := m.Get(Name(MZArray))
	if mzArr.Compression != Decoded {
		t.Fatalf("mz array still compressed: %s", mzArr.Compression)
	}
	inArr, _ := m.Get(Name(IntensityArray))
	if inArr.Compression != Decoded {
		t.Fatalf("intensity array still compressed: %s", inArr.Compression)
	}
}

func TestBinaryArrayMapHasIonMobility(t *testing.T) {
	m := NewBinaryArrayMap()
	if m.HasIonMobility() {
		t.Fatal("empty map should not report ion mobility")
	}
	m.Add(NewDataArray(Name(RawIonMobilityArray)))
	if !m.HasIonMobility() {
		t.Fatal("expected ion mobility array to be detected")
	}
}
