// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package iterator

import (
	"io"
	"testing"

	"github.com/saferwall/mzdata"
)

// sliceSource is a SinglePassSource/groupSource backed by a plain slice,
// used to drive both iterators without a real backend reader.
type sliceSource struct {
	specs []*mzdata.Spectrum
	i     int
}

func (s *sliceSource) Next() (*mzdata.Spectrum, error) {
	if s.i >= len(s.specs) {
		return nil, io.EOF
	}
	spec := s.specs[s.i]
	s.i++
	return spec, nil
}

func ms(id string, level uint8, t float64) *mzdata.Spectrum {
	return &mzdata.Spectrum{
		Description: mzdata.SpectrumDescription{
			ID:      id,
			MSLevel: level,
			Acquisition: mzdata.Acquisition{
				Scans: []mzdata.ScanEvent{{StartTime: t}},
			},
		},
	}
}

func msWithPrecursor(id string, t float64, precursorID string) *mzdata.Spectrum {
	spec := ms(id, 2, t)
	spec.Description.Precursor = &mzdata.Precursor{PrecursorID: precursorID}
	return spec
}

func TestSpectrumGroupingIteratorBasicGrouping(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		ms("scan=1", 1, 1.0),
		msWithPrecursor("scan=2", 1.1, "scan=1"),
		msWithPrecursor("scan=3", 1.2, "scan=1"),
		ms("scan=4", 1, 1.3),
		msWithPrecursor("scan=5", 1.4, "scan=4"),
	}}
	g := NewSpectrumGroupingIterator(src)

	group1, err := g.Next()
	if err != nil {
		t.Fatalf("Next (1): %v", err)
	}
	if group1.Precursor.Description.ID != "scan=1" {
		t.Fatalf("group1 precursor = %s, want scan=1", group1.Precursor.Description.ID)
	}
	if len(group1.Products) != 2 || group1.Products[0].Description.ID != "scan=2" || group1.Products[1].Description.ID != "scan=3" {
		t.Fatalf("group1 products = %+v", group1.Products)
	}

	group2, err := g.Next()
	if err != nil {
		t.Fatalf("Next (2): %v", err)
	}
	if group2.Precursor.Description.ID != "scan=4" {
		t.Fatalf("group2 precursor = %s, want scan=4", group2.Precursor.Description.ID)
	}
	if len(group2.Products) != 1 || group2.Products[0].Description.ID != "scan=5" {
		t.Fatalf("group2 products = %+v", group2.Products)
	}

	if _, err := g.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last group, got %v", err)
	}
}

// TestSpectrumGroupingIteratorFallbackToMostRecentMS1 verifies a product
// whose PrecursorID doesn't name any previously seen MS1 still attaches
// to the group currently being built (the most recent MS1).
func TestSpectrumGroupingIteratorFallbackToMostRecentMS1(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		ms("scan=1", 1, 1.0),
		msWithPrecursor("scan=2", 1.1, "scan=unknown"),
	}}
	g := NewSpectrumGroupingIterator(src)

	group, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(group.Products) != 1 || group.Products[0].Description.ID != "scan=2" {
		t.Fatalf("expected fallback attachment of scan=2, got %+v", group.Products)
	}
}

// TestSpectrumGroupingIteratorLeadingProductsNoPrecursor verifies products
// seen before any MS1 still form a group (with a nil Precursor).
func TestSpectrumGroupingIteratorLeadingProductsNoPrecursor(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		msWithPrecursor("scan=1", 1.0, "scan=never-seen"),
	}}
	g := NewSpectrumGroupingIterator(src)

	group, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if group.Precursor != nil {
		t.Fatalf("expected nil precursor for a leading product, got %+v", group.Precursor)
	}
	if len(group.Products) != 1 || group.Products[0].Description.ID != "scan=1" {
		t.Fatalf("unexpected products: %+v", group.Products)
	}
}

func TestStreamingSpectrumIteratorPushBack(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		ms("scan=1", 1, 1.0),
		ms("scan=2", 1, 2.0),
	}}
	s := NewStreamingSpectrumIterator(src)

	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Description.ID != "scan=1" || s.Cursor() != 1 {
		t.Fatalf("first = %s, cursor = %d", first.Description.ID, s.Cursor())
	}

	s.PushBack(first)
	if s.Cursor() != 0 {
		t.Fatalf("Cursor() after PushBack = %d, want 0", s.Cursor())
	}

	again, err := s.Next()
	if err != nil {
		t.Fatalf("Next after PushBack: %v", err)
	}
	if again.Description.ID != "scan=1" {
		t.Fatalf("Next after PushBack = %s, want scan=1 (re-delivered)", again.Description.ID)
	}

	second, err := s.Next()
	if err != nil || second.Description.ID != "scan=2" {
		t.Fatalf("Next = %v, %v, want scan=2", second, err)
	}

	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestStreamingSpectrumIteratorGetByTime(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		ms("scan=1", 1, 1.0),
		ms("scan=2", 1, 2.0),
		ms("scan=3", 1, 3.0),
	}}
	s := NewStreamingSpectrumIterator(src)

	spec, err := s.GetByTime(2.1)
	if err != nil {
		t.Fatalf("GetByTime: %v", err)
	}
	if spec.Description.ID != "scan=2" {
		t.Fatalf("GetByTime(2.1) = %s, want scan=2 (nearest)", spec.Description.ID)
	}

	// The overshoot (scan=3) was pushed back, so the next Next() call
	// must return it rather than skipping past it.
	next, err := s.Next()
	if err != nil {
		t.Fatalf("Next after GetByTime: %v", err)
	}
	if next.Description.ID != "scan=3" {
		t.Fatalf("Next after GetByTime = %s, want scan=3", next.Description.ID)
	}
}

func TestStreamingSpectrumIteratorStartFromIndex(t *testing.T) {
	src := &sliceSource{specs: []*mzdata.Spectrum{
		ms("scan=1", 1, 1.0),
		ms("scan=2", 1, 2.0),
		ms("scan=3", 1, 3.0),
	}}
	s := NewStreamingSpectrumIterator(src)

	if err := s.StartFromIndex(2); err != nil {
		t.Fatalf("StartFromIndex(2): %v", err)
	}
	spec, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if spec.Description.ID != "scan=3" {
		t.Fatalf("Next after StartFromIndex(2) = %s, want scan=3", spec.Description.ID)
	}

	if err := s.StartFromIndex(0); err != ErrSeekBackward {
		t.Fatalf("expected ErrSeekBackward, got %v", err)
	}
}

func TestStreamingSpectrumIteratorDetailLevel(t *testing.T) {
	s := NewStreamingSpectrumIterator(&sliceSource{})
	s.SetDetailLevel(mzdata.DetailFull)
	if s.DetailLevel() != mzdata.DetailFull {
		t.Fatalf("DetailLevel() = %v, want DetailFull", s.DetailLevel())
	}
}
