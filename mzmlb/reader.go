// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzmlb

import (
	"bytes"
	"fmt"

	"github.com/scigolib/hdf5"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/internal/mzlog"
	"github.com/saferwall/mzdata/mzml"
	"github.com/saferwall/mzdata/offsetindex"
)

// defaultChunkSize matches the 2**20-element chunk size the original
// mzMLb reader defaults to: up to 8 MiB per cached chunk for 64-bit m/z.
const defaultChunkSize = 1 << 20

// ReaderOptions configures a Reader's construction.
type ReaderOptions struct {
	ChunkSize   int64
	DetailLevel mzdata.DetailLevel
	Logger      mzlog.Logger
}

// Reader provides the same random/sequential access mzml.Reader does,
// over an mzMLb (HDF5) container: metadata and spectrum structure come
// from the embedded "mzML" byte dataset, binary data arrays come from
// adjacent datasets addressed by external-reference cvParams.
type Reader struct {
	handle   *hdf5.File
	registry *ExternalDataRegistry
	inner    *mzml.Reader

	SchemaVersion string
}

// Open opens path as an HDF5 file and builds a Reader over it.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	handle, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: opening %s: %w", path, err)
	}
	return newReader(handle, opts)
}

func newReader(handle *hdf5.File, opts ReaderOptions) (*Reader, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	mzmlDS, err := handle.Dataset("mzML")
	if err != nil {
		return nil, fmt.Errorf("mzmlb: missing mzML dataset: %w", err)
	}
	schemaVersion, _ := mzmlDS.Attr("version")

	spectra, chromatograms, err := parseCompanionIndex(handle)
	if err != nil {
		return nil, err
	}

	byteReader, err := newDatasetByteReader(mzmlDS)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: wrapping mzML dataset: %w", err)
	}

	registry, err := NewExternalDataRegistry(handle, chunkSize)
	if err != nil {
		return nil, err
	}

	inner, err := mzml.NewReaderWithIndex(byteReader, spectra, chromatograms, mzml.ReaderOptions{
		DetailLevel: opts.DetailLevel,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	inner.SetExternalResolver(func(arr *bindata.DataArray) error {
		return registry.Resolve(arr, arr.External)
	})

	return &Reader{handle: handle, registry: registry, inner: inner, SchemaVersion: schemaVersion}, nil
}

// parseCompanionIndex builds the spectrum/chromatogram offset indices
// from mzMLb's own index datasets, mirroring the original reader's
// "mzML_spectrumIndex"/"mzML_spectrumIndex_idRef" pair exactly: a
// NUL-separated id dataset zipped against a parallel uint64 offset
// dataset.
func parseCompanionIndex(handle *hdf5.File) (spectra, chromatograms *offsetindex.OffsetIndex, err error) {
	spectra, err = parseOneIndex(handle, "mzML_spectrumIndex_idRef", "mzML_spectrumIndex")
	if err != nil {
		return nil, nil, err
	}
	chromatograms, err = parseOneIndex(handle, "mzML_chromatogramIndex_idRef", "mzML_chromatogramIndex")
	if err != nil {
		// Chromatogram index datasets are optional; absence isn't fatal.
		chromatograms = offsetindex.New()
		chromatograms.Init()
	}
	return spectra, chromatograms, nil
}

func parseOneIndex(handle *hdf5.File, idDataset, offsetDataset string) (*offsetindex.OffsetIndex, error) {
	idsDS, err := handle.Dataset(idDataset)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: missing %s: %w", idDataset, err)
	}
	idsSize, err := idsDS.Size()
	if err != nil {
		return nil, err
	}
	idBytes, err := idsDS.ReadRange(0, idsSize)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: reading %s: %w", idDataset, err)
	}

	offsetsDS, err := handle.Dataset(offsetDataset)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: missing %s: %w", offsetDataset, err)
	}
	offsets, err := offsetsDS.ReadUint64Slice()
	if err != nil {
		return nil, fmt.Errorf("mzmlb: reading %s: %w", offsetDataset, err)
	}

	idx := offsetindex.New()
	ids := bytes.Split(idBytes, []byte{0})
	for i, raw := range ids {
		if i >= len(offsets) {
			break
		}
		if len(raw) == 0 || offsets[i] == 0 {
			continue
		}
		idx.Insert(string(raw), int64(offsets[i]))
	}
	idx.Init()
	return idx, nil
}

// Len reports the number of spectra.
func (r *Reader) Len() int { return r.inner.Len() }

// Metadata exposes the embedded mzML document's file metadata.
func (r *Reader) Metadata() *mzml.FileMetadata { return r.inner.Metadata }

// Reset, DetailLevel, SetDetailLevel, GetByID, GetByIndex, GetByTime,
// StartFromID, StartFromIndex, StartFromTime delegate directly to the
// wrapped mzml.Reader: mzMLb only changes how bytes are sourced, not how
// the document is organized.
func (r *Reader) Reset() error                                     { return r.inner.Reset() }
func (r *Reader) DetailLevel() mzdata.DetailLevel                  { return r.inner.DetailLevel() }
func (r *Reader) SetDetailLevel(level mzdata.DetailLevel)          { r.inner.SetDetailLevel(level) }
func (r *Reader) GetByID(id string) (*mzdata.Spectrum, error)      { return r.inner.GetByID(id) }
func (r *Reader) GetByIndex(i int) (*mzdata.Spectrum, error)       { return r.inner.GetByIndex(i) }
func (r *Reader) GetByTime(t float64) (*mzdata.Spectrum, error)    { return r.inner.GetByTime(t) }
func (r *Reader) StartFromID(id string) error                     { return r.inner.StartFromID(id) }
func (r *Reader) StartFromIndex(index int) error                  { return r.inner.StartFromIndex(index) }
func (r *Reader) StartFromTime(t float64) error                   { return r.inner.StartFromTime(t) }

// Close releases the registry's open dataset handles and the backing
// HDF5 file.
func (r *Reader) Close() error {
	if err := r.registry.Close(); err != nil {
		return err
	}
	return r.handle.Close()
}
