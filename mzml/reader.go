// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"bufio"
	"encoding/xml"
	"io"
	"math"
	"os"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/internal/mzlog"
	"github.com/saferwall/mzdata/offsetindex"
)

// ReaderOptions configures a Reader's construction.
type ReaderOptions struct {
	DetailLevel mzdata.DetailLevel
	Logger      mzlog.Logger
}

// Reader provides random and sequential access over an mzML document. It
// owns its byte source, its offset index, and its parsed file metadata;
// spectra it yields are fully owned by the caller.
type Reader struct {
	source      io.ReadSeeker
	sourceSize  int64
	detailLevel mzdata.DetailLevel
	logger      *mzlog.Helper

	Metadata *FileMetadata

	spectra       *offsetindex.OffsetIndex
	chromatograms *offsetindex.OffsetIndex

	cursor int
	err    error

	// resolveExternal, when set, is called on every raw array that carries
	// an ExternalRef once a spectrum finishes parsing (mzMLb/imzML hand
	// the reader a resolver that fetches bytes from their own backing
	// store and calls arr.SetRaw).
	resolveExternal func(*bindata.DataArray) error
}

// SetExternalResolver installs the callback used to populate DataArrays
// that carry an ExternalRef instead of inline binary content.
func (r *Reader) SetExternalResolver(fn func(*bindata.DataArray) error) {
	r.resolveExternal = fn
}

// Open builds a Reader over a *os.File, choosing the fast indexed path
// when an indexListOffset is present and falling back to a linear scan
// otherwise.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errIO(Start, err)
	}
	return NewReader(f, opts)
}

// NewReader builds a Reader over an already-open seekable source.
func NewReader(source io.ReadSeeker, opts ReaderOptions) (*Reader, error) {
	r := &Reader{
		source:      source,
		detailLevel: opts.DetailLevel,
		logger:      mzlog.NewHelper(opts.Logger),
	}

	size, err := seekSize(source)
	if err != nil {
		return nil, errIO(Start, err)
	}
	r.sourceSize = size

	if ra, ok := source.(io.ReaderAt); ok {
		if offset, ok := extractIndexListOffset(ra, size); ok {
			if _, err := source.Seek(offset, io.SeekStart); err == nil {
				dec := xml.NewDecoder(bufio.NewReader(source))
				spectra, chromatograms, perr := parseIndexList(dec)
				if perr == nil {
					r.spectra, r.chromatograms = spectra, chromatograms
				}
			}
		}
	}

	if r.spectra == nil {
		r.logger.Debugf("no usable indexListOffset, falling back to linear scan")
		spectra, chromatograms, err := linearScanIndex(source)
		if err != nil {
			return nil, err
		}
		r.spectra, r.chromatograms = spectra, chromatograms
	}

	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, errIO(Start, err)
	}
	meta, err := parseMetadata(source)
	if err != nil {
		return nil, err
	}
	r.Metadata = meta
	return r, nil
}

// NewReaderWithIndex builds a Reader from a byte source whose offset
// indices were already constructed elsewhere (mzMLb reads them from
// companion HDF5 datasets instead of an indexListOffset or linear scan).
// Metadata is still parsed from the source itself.
func NewReaderWithIndex(source io.ReadSeeker, spectra, chromatograms *offsetindex.OffsetIndex, opts ReaderOptions) (*Reader, error) {
	r := &Reader{
		source:        source,
		detailLevel:   opts.DetailLevel,
		logger:        mzlog.NewHelper(opts.Logger),
		spectra:       spectra,
		chromatograms: chromatograms,
	}
	size, err := seekSize(source)
	if err != nil {
		return nil, errIO(Start, err)
	}
	r.sourceSize = size

	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, errIO(Start, err)
	}
	meta, err := parseMetadata(source)
	if err != nil {
		return nil, err
	}
	r.Metadata = meta
	return r, nil
}

func seekSize(s io.ReadSeeker) (int64, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}

// parseMetadata runs the metadata accumulator from the current reader
// position (normally the start of the document) up to the first spectrum.
func parseMetadata(source io.Reader) (*FileMetadata, error) {
	dec := xml.NewDecoder(bufio.NewReader(source))
	acc := newMetadataAccumulator()
	for !acc.done {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errXML(acc.state, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if stop, err := acc.handleStart(t); err != nil {
				return nil, err
			} else if stop {
				return acc.meta, nil
			}
		case xml.EndElement:
			acc.handleEnd(t)
		}
	}
	return acc.meta, nil
}

// Len reports the number of spectra in the source.
func (r *Reader) Len() int { return r.spectra.Len() }

// Reset returns the cursor to the start of the spectrum list.
func (r *Reader) Reset() error {
	r.cursor = 0
	return nil
}

// DetailLevel reports the reader's current advisory detail level.
func (r *Reader) DetailLevel() mzdata.DetailLevel { return r.detailLevel }

// SetDetailLevel changes the advisory detail level for subsequent reads.
func (r *Reader) SetDetailLevel(level mzdata.DetailLevel) { r.detailLevel = level }

// StartFromID seeks the cursor to the spectrum with the given id.
func (r *Reader) StartFromID(id string) error {
	offset, ok := r.spectra.Get(id)
	if !ok {
		return errSpectrumIDNotFound(id)
	}
	for i := 0; i < r.spectra.Len(); i++ {
		_, off, _ := r.spectra.GetByOrdinal(i)
		if off == offset {
			r.cursor = i
			return nil
		}
	}
	return errSpectrumIDNotFound(id)
}

// StartFromIndex seeks the cursor to the given ordinal.
func (r *Reader) StartFromIndex(index int) error {
	if index < 0 || index >= r.spectra.Len() {
		return errSpectrumIndexNotFound(index)
	}
	r.cursor = index
	return nil
}

// StartFromTime seeks the cursor to the spectrum nearest the given start
// time, per the same binary search GetByTime uses.
func (r *Reader) StartFromTime(t float64) error {
	spec, err := r.GetByTime(t)
	if err != nil {
		return err
	}
	return r.StartFromIndex(spec.Description.Index)
}

// GetByIndex parses and returns the spectrum at ordinal i.
func (r *Reader) GetByIndex(i int) (*mzdata.Spectrum, error) {
	id, offset, err := r.spectra.GetByOrdinal(i)
	if err != nil {
		return nil, errSpectrumIndexNotFound(i)
	}
	spec, err := r.parseSpectrumAt(offset)
	if err != nil {
		return nil, err
	}
	if spec.Description.ID == "" {
		spec.Description.ID = id
	}
	spec.Description.Index = i
	r.cursor = i + 1
	return spec, nil
}

// GetByID parses and returns the spectrum with the given native id.
func (r *Reader) GetByID(id string) (*mzdata.Spectrum, error) {
	offset, ok := r.spectra.Get(id)
	if !ok {
		return nil, errSpectrumIDNotFound(id)
	}
	return r.parseSpectrumAt(offset)
}

// GetByTime returns the spectrum whose scan start time is nearest to t
// (minutes), binary-searching the index and converging within 1e-3 min or
// to the nearest neighbour when the bracket collapses.
func (r *Reader) GetByTime(t float64) (*mzdata.Spectrum, error) {
	lo, hi := 0, r.spectra.Len()-1
	if hi < 0 {
		return nil, errSpectrumNotFound()
	}
	var best *mzdata.Spectrum
	bestDelta := math.Inf(1)

	for lo <= hi {
		mid := (lo + hi) / 2
		spec, err := r.GetByIndex(mid)
		if err != nil {
			return nil, err
		}
		st := spec.Description.Acquisition.StartTime()
		delta := math.Abs(st - t)
		if delta < bestDelta {
			bestDelta = delta
			best = spec
		}
		if delta <= 1e-3 {
			return spec, nil
		}
		if st < t {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == nil {
		return nil, errSpectrumNotFound()
	}
	return best, nil
}

// resolveExternalArrays fetches bytes for every raw array carrying an
// ExternalRef, when a resolver and non-metadata-only detail level are
// both in effect.
func (r *Reader) resolveExternalArrays(spec *mzdata.Spectrum) error {
	if r.resolveExternal == nil || spec.Peaks.Raw == nil {
		return nil
	}
	if r.detailLevel == mzdata.DetailMetadataOnly {
		return nil
	}
	var resolveErr error
	spec.Peaks.Raw.Iter(func(arr *bindata.DataArray) bool {
		if arr.External == nil {
			return true
		}
		if err := r.resolveExternal(arr); err != nil {
			resolveErr = err
			return false
		}
		return true
	})
	return resolveErr
}

// parseSpectrumAt seeks to offset, restoring the prior position on
// failure so a seek error never leaves the reader moved.
func (r *Reader) parseSpectrumAt(offset int64) (*mzdata.Spectrum, error) {
	checkpoint, err := r.source.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errIO(Resume, err)
	}
	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		r.source.Seek(checkpoint, io.SeekStart)
		return nil, errIO(Resume, err)
	}

	dec := xml.NewDecoder(bufio.NewReader(r.source))
	acc := newSpectrumAccumulator(r.detailLevel)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errIncompleteSpectrum()
		}
		if err != nil {
			return nil, errXML(acc.state, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := acc.handleStart(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if err := acc.handleText(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			done, err := acc.handleEnd(t)
			if err != nil {
				return nil, err
			}
			if done {
				if err := r.resolveExternalArrays(&acc.spec); err != nil {
					return nil, err
				}
				if err := acc.spec.TryBuildPeaks(); err != nil {
					return nil, err
				}
				return &acc.spec, nil
			}
		}
	}
}
