// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package peak holds the minimal centroided/deconvoluted peak types that
// stand in for the full external peak-processing library this system's
// spectra are parameterized over (PeakDataLevel intentionally keeps
// fitting/averaging machinery out of scope, but the containers themselves
// are needed to hold CentroidSpectrumPeak-level data read from disk).
package peak

import "sort"

// CentroidPeak is a single resolved m/z/intensity observation.
type CentroidPeak struct {
	MZ        float64
	Intensity float32
	Index     int
}

// DeconvolutedPeak is a CentroidPeak further resolved to a neutral mass and
// charge state.
type DeconvolutedPeak struct {
	NeutralMass float64
	Intensity   float32
	Charge      int32
	Index       int
}

// PeakSet is a sorted-by-mz collection of CentroidPeaks supporting
// nearest-neighbor and range queries.
type PeakSet struct {
	peaks []CentroidPeak
}

// NewPeakSet builds a PeakSet from an unsorted slice of peaks, sorting by
// m/z and assigning Index in that order.
func NewPeakSet(peaks []CentroidPeak) *PeakSet {
	sorted := append([]CentroidPeak(nil), peaks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MZ < sorted[j].MZ })
	for i := range sorted {
		sorted[i].Index = i
	}
	return &PeakSet{peaks: sorted}
}

// Len reports the number of peaks in the set.
func (s *PeakSet) Len() int { return len(s.peaks) }

// All returns the full sorted peak slice.
func (s *PeakSet) All() []CentroidPeak { return s.peaks }

// HasPeak returns the peak nearest to mz within the given error tolerance
// (in the same units as mz), or false if none falls within it.
func (s *PeakSet) HasPeak(mz, tolerance float64) (CentroidPeak, bool) {
	i := sort.Search(len(s.peaks), func(i int) bool { return s.peaks[i].MZ >= mz })
	best := -1
	bestDelta := tolerance
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(s.peaks) {
			continue
		}
		delta := s.peaks[j].MZ - mz
		if delta < 0 {
			delta = -delta
		}
		if delta <= bestDelta {
			bestDelta = delta
			best = j
		}
	}
	if best < 0 {
		return CentroidPeak{}, false
	}
	return s.peaks[best], true
}

// BetweenMZ returns every peak with m/z in [low, high].
func (s *PeakSet) BetweenMZ(low, high float64) []CentroidPeak {
	start := sort.Search(len(s.peaks), func(i int) bool { return s.peaks[i].MZ >= low })
	var out []CentroidPeak
	for i := start; i < len(s.peaks) && s.peaks[i].MZ <= high; i++ {
		out = append(out, s.peaks[i])
	}
	return out
}

// DeconvolutedPeakSet is the deconvoluted analogue of PeakSet, sorted by
// neutral mass.
type DeconvolutedPeakSet struct {
	peaks []DeconvolutedPeak
}

// NewDeconvolutedPeakSet builds a DeconvolutedPeakSet sorted by neutral
// mass, assigning Index in that order.
func NewDeconvolutedPeakSet(peaks []DeconvolutedPeak) *DeconvolutedPeakSet {
	sorted := append([]DeconvolutedPeak(nil), peaks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].NeutralMass < sorted[j].NeutralMass })
	for i := range sorted {
		sorted[i].Index = i
	}
	return &DeconvolutedPeakSet{peaks: sorted}
}

// Len reports the number of peaks in the set.
func (s *DeconvolutedPeakSet) Len() int { return len(s.peaks) }

// All returns the full sorted peak slice.
func (s *DeconvolutedPeakSet) All() []DeconvolutedPeak { return s.peaks }
