// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bindata

import "testing"

func TestStackFromAndFrames(t *testing.T) {
	frames := map[float64]*BinaryArrayMap{
		1.5: buildFrame([]float64{100, 200}, []float32{10, 20}),
		0.5: buildFrame([]float64{300, 400}, []float32{30, 40}),
		2.5: buildFrame([]float64{500, 600}, []float32{50, 60}),
	}

	stacked, err := StackFrom(Name(RawIonMobilityArray), frames)
	if err != nil {
		t.Fatalf("StackFrom: %v", err)
	}
	axis := stacked.Axis()
	want := []float64{0.5, 1.5, 2.5}
	if len(axis) != len(want) {
		t.Fatalf("axis = %v, want %v", axis, want)
	}
	for i := range want {
		if axis[i] != want[i] {
			t.Errorf("axis[%d] = %v, want %v", i, axis[i], want[i])
		}
	}

	ordered := stacked.Frames()
	if len(ordered) != 3 {
		t.Fatalf("Frames returned %d frames, want 3", len(ordered))
	}
	firstMzs, err := ordered[0].Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if firstMzs[0] != 300 {
		t.Fatalf("Frames did not preserve ascending mobility order: got %v first", firstMzs)
	}
}

func TestStackFromSingleFrame(t *testing.T) {
	frames := map[float64]*BinaryArrayMap{
		1.0: buildFrame([]float64{1}, []float32{1}),
	}
	if _, err := StackFrom(Name(RawIonMobilityArray), frames); err != nil {
		t.Fatalf("single-frame stack should not error: %v", err)
	}
}

func TestBinaryArrayMap3DUnstack(t *testing.T) {
	frames := map[float64]*BinaryArrayMap{
		1.0: buildFrame([]float64{100, 200}, []float32{1, 2}),
		2.0: buildFrame([]float64{300, 400}, []float32{3, 4}),
	}
	stacked, err := StackFrom(Name(RawIonMobilityArray), frames)
	if err != nil {
		t.Fatalf("StackFrom: %v", err)
	}
	if stacked.AxisName().Kind() != RawIonMobilityArray {
		t.Fatalf("AxisName = %s, want RawIonMobilityArray", stacked.AxisName())
	}

	flat, err := stacked.Unstack()
	if err != nil {
		t.Fatalf("Unstack: %v", err)
	}
	mzs, err := flat.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(mzs) != 4 {
		t.Fatalf("flattened mzs length = %d, want 4", len(mzs))
	}
	mobility, ok := flat.Get(Name(RawIonMobilityArray))
	if !ok {
		t.Fatal("expected flattened mobility column present")
	}
	n, err := mobility.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 4 {
		t.Fatalf("mobility column length = %d, want 4", n)
	}
	mobilityValues, err := mobility.ToF32()
	if err != nil {
		t.Fatalf("ToF32: %v", err)
	}
	want := []float32{1.0, 1.0, 2.0, 2.0}
	for i := range want {
		if mobilityValues[i] != want[i] {
			t.Fatalf("mobility column = %v, want %v", mobilityValues, want)
		}
	}
}

// buildIonMobilityFrame constructs a flat BinaryArrayMap the way Stack
// expects: an m/z array, an intensity array, and a raw ion-mobility array
// all carrying one value per row.
func buildIonMobilityFrame(mzs []float64, intensities []float32, mobility []float64) *BinaryArrayMap {
	m := buildFrame(mzs, intensities)
	m.Add(NewDataArrayWith(Name(RawIonMobilityArray), Float64, Decoded, float64ToBytes(mobility)))
	return m
}

// TestStack exercises a 3-mobility-bin raw ion-mobility array of length 12
// (4 points per bin), already sorted by mobility value so row order within
// each bin matches original order trivially.
func TestStack(t *testing.T) {
	mzs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	intensities := []float32{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}
	mobility := []float64{
		0.5, 0.5, 0.5, 0.5,
		1.5, 1.5, 1.5, 1.5,
		2.5, 2.5, 2.5, 2.5,
	}
	source := buildIonMobilityFrame(mzs, intensities, mobility)

	stacked, err := Stack(source)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	if stacked.AxisName().Kind() != RawIonMobilityArray {
		t.Fatalf("AxisName = %s, want RawIonMobilityArray", stacked.AxisName())
	}
	axis := stacked.Axis()
	want := []float64{0.5, 1.5, 2.5}
	if len(axis) != len(want) {
		t.Fatalf("axis = %v, want %v", axis, want)
	}
	for i := range want {
		if axis[i] != want[i] {
			t.Errorf("axis[%d] = %v, want %v", i, axis[i], want[i])
		}
	}

	for i, v := range want {
		frame, ok := stacked.Frame(v)
		if !ok {
			t.Fatalf("missing frame for axis value %v", v)
		}
		frameMzs, err := frame.Mzs()
		if err != nil {
			t.Fatalf("Mzs: %v", err)
		}
		wantMzs := mzs[i*4 : i*4+4]
		if len(frameMzs) != len(wantMzs) {
			t.Fatalf("frame %v mzs = %v, want %v", v, frameMzs, wantMzs)
		}
		for j := range wantMzs {
			if frameMzs[j] != wantMzs[j] {
				t.Fatalf("frame %v mzs = %v, want %v", v, frameMzs, wantMzs)
			}
		}
		if frame.HasArray(Name(RawIonMobilityArray)) {
			t.Fatalf("frame %v should not replay the axis array itself", v)
		}
	}
}

// TestStackUnorderedRows confirms bin assignment follows mobility value,
// not row position: interleaved rows still land in the right bin, in their
// original relative order within that bin.
func TestStackUnorderedRows(t *testing.T) {
	mzs := []float64{10, 20, 30, 40}
	intensities := []float32{1, 2, 3, 4}
	mobility := []float64{2.0, 1.0, 2.0, 1.0}
	source := buildIonMobilityFrame(mzs, intensities, mobility)

	stacked, err := Stack(source)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	axis := stacked.Axis()
	want := []float64{1.0, 2.0}
	if len(axis) != len(want) || axis[0] != want[0] || axis[1] != want[1] {
		t.Fatalf("axis = %v, want %v", axis, want)
	}

	lowFrame, _ := stacked.Frame(1.0)
	lowMzs, err := lowFrame.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(lowMzs) != 2 || lowMzs[0] != 20 || lowMzs[1] != 40 {
		t.Fatalf("bin 1.0 mzs = %v, want [20 40]", lowMzs)
	}

	highFrame, _ := stacked.Frame(2.0)
	highMzs, err := highFrame.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(highMzs) != 2 || highMzs[0] != 10 || highMzs[1] != 30 {
		t.Fatalf("bin 2.0 mzs = %v, want [10 30]", highMzs)
	}
}

func TestStackMissingIonMobilityArray(t *testing.T) {
	source := buildFrame([]float64{1, 2}, []float32{1, 2})
	if _, err := Stack(source); err == nil {
		t.Fatal("expected error when source carries no ion-mobility array")
	}
}

// TestStackRoundTripsThroughUnstack confirms Stack and Unstack are inverses
// for a source already sorted by mobility value.
func TestStackRoundTripsThroughUnstack(t *testing.T) {
	mzs := []float64{1, 2, 3, 4, 5, 6}
	intensities := []float32{1, 2, 3, 4, 5, 6}
	mobility := []float64{0.5, 0.5, 0.5, 1.5, 1.5, 1.5}
	source := buildIonMobilityFrame(mzs, intensities, mobility)

	stacked, err := Stack(source)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	flat, err := stacked.Unstack()
	if err != nil {
		t.Fatalf("Unstack: %v", err)
	}
	gotMzs, err := flat.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(gotMzs) != len(mzs) {
		t.Fatalf("round-tripped mzs length = %d, want %d", len(gotMzs), len(mzs))
	}
	for i := range mzs {
		if gotMzs[i] != mzs[i] {
			t.Fatalf("round-tripped mzs = %v, want %v", gotMzs, mzs)
		}
	}
}
