// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package peak

import "testing"

func TestNewPeakSetSortsAndIndexes(t *testing.T) {
	s := NewPeakSet([]CentroidPeak{
		{MZ: 300, Intensity: 3},
		{MZ: 100, Intensity: 1},
		{MZ: 200, Intensity: 2},
	})
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	all := s.All()
	wantMZ := []float64{100, 200, 300}
	for i, p := range all {
		if p.MZ != wantMZ[i] {
			t.Errorf("peak %d: mz = %v, want %v", i, p.MZ, wantMZ[i])
		}
		if p.Index != i {
			t.Errorf("peak %d: Index = %d, want %d", i, p.Index, i)
		}
	}
}

func TestPeakSetHasPeak(t *testing.T) {
	s := NewPeakSet([]CentroidPeak{{MZ: 100}, {MZ: 200}, {MZ: 300.05}})
	p, ok := s.HasPeak(300, 0.1)
	if !ok || p.MZ != 300.05 {
		t.Fatalf("HasPeak(300, 0.1) = (%v, %v), want (300.05, true)", p.MZ, ok)
	}
	if _, ok := s.HasPeak(150, 0.1); ok {
		t.Fatal("HasPeak(150, 0.1) should find nothing between 100 and 200")
	}
}

func TestPeakSetBetweenMZ(t *testing.T) {
	s := NewPeakSet([]CentroidPeak{{MZ: 100}, {MZ: 150}, {MZ: 200}, {MZ: 250}})
	got := s.BetweenMZ(140, 210)
	if len(got) != 2 || got[0].MZ != 150 || got[1].MZ != 200 {
		t.Fatalf("BetweenMZ(140, 210) = %+v, want [150, 200]", got)
	}
	if len(s.BetweenMZ(1000, 2000)) != 0 {
		t.Fatal("expected no peaks in an out-of-range window")
	}
}

func TestNewDeconvolutedPeakSetSortsByNeutralMass(t *testing.T) {
	s := NewDeconvolutedPeakSet([]DeconvolutedPeak{
		{NeutralMass: 500, Charge: 2},
		{NeutralMass: 100, Charge: 1},
		{NeutralMass: 300, Charge: 3},
	})
	all := s.All()
	want := []float64{100, 300, 500}
	for i, p := range all {
		if p.NeutralMass != want[i] {
			t.Errorf("peak %d: NeutralMass = %v, want %v", i, p.NeutralMass, want[i])
		}
		if p.Index != i {
			t.Errorf("peak %d: Index = %d, want %d", i, p.Index, i)
		}
	}
}
