// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package iterator

import (
	"io"

	"github.com/saferwall/mzdata"
)

// SpectrumGroup is one precursor-and-its-products unit: an MS1 spectrum
// (if one was seen) followed by every MSn spectrum linked to it, in
// source order.
type SpectrumGroup struct {
	Precursor *mzdata.Spectrum
	Products  []*mzdata.Spectrum
}

// groupSource is the minimal shape SpectrumGroupingIterator needs: plain
// sequential consumption, whether backed by a random-access reader
// (via Iter) or a streaming one.
type groupSource interface {
	Next() (*mzdata.Spectrum, error)
}

// randomAccessAsSource adapts a SpectrumSource to groupSource by walking
// it with GetByIndex.
type randomAccessAsSource struct {
	src SpectrumSource
	i   int
}

func (a *randomAccessAsSource) Next() (*mzdata.Spectrum, error) {
	if a.i >= a.src.Len() {
		return nil, io.EOF
	}
	spec, err := a.src.GetByIndex(a.i)
	a.i++
	return spec, err
}

// SpectrumGroupingIterator consumes a source in index order and emits
// {ms1_precursor?, msn_products[]} groups. Every product is attached to
// the group of the most recently seen MS1 spectrum (a group with a nil
// Precursor if none has been seen yet), whether or not its PrecursorID
// names that MS1; a product whose PrecursorID names an earlier MS1 is not
// moved to that MS1's group. A group is flushed once a new MS1 arrives.
type SpectrumGroupingIterator struct {
	src groupSource

	pendingMS1   *mzdata.Spectrum
	pendingByID  map[string]*mzdata.Spectrum
	currentGroup *SpectrumGroup
	done         bool
}

// NewSpectrumGroupingIterator wraps any plain forward-consumable source.
func NewSpectrumGroupingIterator(src groupSource) *SpectrumGroupingIterator {
	return &SpectrumGroupingIterator{
		src:         src,
		pendingByID: make(map[string]*mzdata.Spectrum),
	}
}

// NewSpectrumGroupingIteratorFromRandomAccess wraps a SpectrumSource,
// walking it in index order.
func NewSpectrumGroupingIteratorFromRandomAccess(src SpectrumSource) *SpectrumGroupingIterator {
	return NewSpectrumGroupingIterator(&randomAccessAsSource{src: src})
}

// Next returns the next complete group, or io.EOF once the source and
// any buffered group are exhausted.
func (g *SpectrumGroupingIterator) Next() (*SpectrumGroup, error) {
	if g.done {
		return nil, io.EOF
	}
	for {
		spec, err := g.src.Next()
		if err == io.EOF {
			g.done = true
			if g.currentGroup == nil {
				return nil, io.EOF
			}
			out := g.currentGroup
			g.currentGroup = nil
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		if spec.Description.MSLevel <= 1 {
			flushed := g.currentGroup
			g.currentGroup = &SpectrumGroup{Precursor: spec}
			g.pendingMS1 = spec
			if id := spec.Description.ID; id != "" {
				g.pendingByID[id] = spec
			}
			if flushed != nil {
				return flushed, nil
			}
			continue
		}

		g.attachProduct(spec)
	}
}

func (g *SpectrumGroupingIterator) attachProduct(spec *mzdata.Spectrum) {
	if g.currentGroup == nil {
		g.currentGroup = &SpectrumGroup{}
	}
	if ref := precursorRef(spec); ref != "" {
		if _, ok := g.pendingByID[ref]; ok {
			g.currentGroup.Products = append(g.currentGroup.Products, spec)
			return
		}
	}
	// fall back to the most recently seen MS1, regardless of ref match
	g.currentGroup.Products = append(g.currentGroup.Products, spec)
}

func precursorRef(spec *mzdata.Spectrum) string {
	if spec.Description.Precursor == nil {
		return ""
	}
	return spec.Description.Precursor.PrecursorID
}
