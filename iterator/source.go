// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package iterator implements the format-agnostic random-access and
// streaming adapters every backend reader is driven through: the
// SpectrumSource interface, a forward-scanning streaming wrapper with
// one-element push-back, and the MS1->MSn grouping iterator.
package iterator

import "github.com/saferwall/mzdata"

// SpectrumSource is the common interface the random-access backend
// readers (mzml.Reader, mzmlb.Reader, imzml.Reader) satisfy; mgf.Reader
// only offers Next and is driven as a SinglePassSource instead.
type SpectrumSource interface {
	Reset() error
	DetailLevel() mzdata.DetailLevel
	SetDetailLevel(level mzdata.DetailLevel)
	GetByID(id string) (*mzdata.Spectrum, error)
	GetByIndex(index int) (*mzdata.Spectrum, error)
	GetByTime(t float64) (*mzdata.Spectrum, error)
	Len() int
}

// Iter yields every spectrum of src in index order via repeated
// GetByIndex calls.
func Iter(src SpectrumSource) func(yield func(*mzdata.Spectrum, error) bool) {
	return func(yield func(*mzdata.Spectrum, error) bool) {
		for i := 0; i < src.Len(); i++ {
			spec, err := src.GetByIndex(i)
			if !yield(spec, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// RandomAccessSpectrumIterator adds seek operations that reposition the
// iterator's cursor, each returning nil on success and a typed error on
// failure.
type RandomAccessSpectrumIterator interface {
	SpectrumSource
	StartFromID(id string) error
	StartFromIndex(index int) error
	StartFromTime(t float64) error
}
