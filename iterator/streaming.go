// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package iterator

import (
	"errors"
	"io"

	"github.com/saferwall/mzdata"
)

// ErrSeekBackward is returned when a StreamingSpectrumIterator is asked to
// seek to a position before its current cursor; it can only scan forward.
var ErrSeekBackward = errors.New("iterator: cannot seek backward in a streaming source")

// SinglePassSource is the minimal shape a streaming backend (mgf.Reader,
// a network socket) exposes: sequential Next() calls with no random
// access.
type SinglePassSource interface {
	Next() (*mzdata.Spectrum, error)
}

// StreamingSpectrumIterator wraps any single-pass source, adding a
// one-element push-back buffer so a caller doing a forward scan (e.g.
// GetByTime looking past its target) can un-consume the spectrum it
// over-read.
type StreamingSpectrumIterator struct {
	src      SinglePassSource
	pushed   *mzdata.Spectrum
	hasPushed bool
	cursor   int
	detail   mzdata.DetailLevel
}

// NewStreamingSpectrumIterator wraps src.
func NewStreamingSpectrumIterator(src SinglePassSource) *StreamingSpectrumIterator {
	return &StreamingSpectrumIterator{src: src}
}

// Next returns the next spectrum, consuming the push-back buffer first if
// set.
func (s *StreamingSpectrumIterator) Next() (*mzdata.Spectrum, error) {
	if s.hasPushed {
		s.hasPushed = false
		spec := s.pushed
		s.pushed = nil
		s.cursor++
		return spec, nil
	}
	spec, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	s.cursor++
	return spec, nil
}

// PushBack un-consumes a spectrum just returned by Next, making it the
// next value Next() returns. Only one spectrum may be buffered at a time.
func (s *StreamingSpectrumIterator) PushBack(spec *mzdata.Spectrum) {
	s.pushed = spec
	s.hasPushed = true
	s.cursor--
}

// DetailLevel reports the advisory detail level.
func (s *StreamingSpectrumIterator) DetailLevel() mzdata.DetailLevel { return s.detail }

// SetDetailLevel sets the advisory detail level.
func (s *StreamingSpectrumIterator) SetDetailLevel(level mzdata.DetailLevel) { s.detail = level }

// Cursor reports how many spectra have been consumed so far.
func (s *StreamingSpectrumIterator) Cursor() int { return s.cursor }

// StartFromIndex only succeeds if target is at or after the current
// cursor; the difference is consumed (and discarded) by scanning forward.
func (s *StreamingSpectrumIterator) StartFromIndex(target int) error {
	if target < s.cursor {
		return ErrSeekBackward
	}
	for s.cursor < target {
		if _, err := s.Next(); err != nil {
			if err == io.EOF {
				return err
			}
			return err
		}
	}
	return nil
}

// GetByTime scans forward until it finds the spectrum whose start time is
// nearest t, pushing back the first spectrum that overshoots so a
// subsequent Next() resumes correctly.
func (s *StreamingSpectrumIterator) GetByTime(t float64) (*mzdata.Spectrum, error) {
	var best *mzdata.Spectrum
	bestDelta := -1.0
	for {
		spec, err := s.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		st := spec.Description.Acquisition.StartTime()
		delta := st - t
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			bestDelta = delta
			best = spec
		}
		if st > t {
			s.PushBack(spec)
			break
		}
	}
	if best == nil {
		return nil, io.EOF
	}
	return best, nil
}
