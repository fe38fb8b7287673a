// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mzmlb implements the HDF5-backed mzMLb container: the embedded
// mzML XML document stored as a byte dataset, with binary data arrays
// offloaded to adjacent HDF5 datasets and addressed from the XML via
// external-reference cvParams.
package mzmlb

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/scigolib/hdf5"

	"github.com/saferwall/mzdata/bindata"
)

const defaultChunkCacheSize = 64

// reservedDatasetNames are the mzMLb-internal datasets that never appear
// as external-reference targets.
var reservedDatasetNames = map[string]bool{
	"/mzML":                      true,
	"/mzML_spectrumIndex":        true,
	"/mzML_spectrumIndex_idRef":  true,
	"/mzML_chromatogramIndex":     true,
	"/mzML_chromatogramIndex_idRef": true,
}

type cacheKey struct {
	name  string
	block int64
}

// ExternalDataRegistry resolves a bindata.ExternalRef into bytes by
// fetching (and caching) fixed-size chunks from the backing HDF5 file,
// so a scan across adjacent spectra's arrays doesn't re-read the whole
// dataset one small range at a time.
type ExternalDataRegistry struct {
	handle    *hdf5.File
	chunkSize int64
	datasets  map[string]*hdf5.Dataset
	cache     *lru.Cache[cacheKey, []byte]
}

// NewExternalDataRegistry opens every non-reserved dataset in handle and
// prepares a chunk_size-element read-ahead cache.
func NewExternalDataRegistry(handle *hdf5.File, chunkSize int64) (*ExternalDataRegistry, error) {
	if chunkSize <= 0 {
		chunkSize = 1 << 20
	}
	names, err := handle.DatasetNames()
	if err != nil {
		return nil, fmt.Errorf("mzmlb: listing datasets: %w", err)
	}
	reg := &ExternalDataRegistry{handle: handle, chunkSize: chunkSize, datasets: make(map[string]*hdf5.Dataset)}
	for _, name := range names {
		if reservedDatasetNames[name] {
			continue
		}
		ds, err := handle.Dataset(name)
		if err != nil {
			return nil, fmt.Errorf("mzmlb: opening dataset %s: %w", name, err)
		}
		reg.datasets[name] = ds
	}
	cache, err := lru.New[cacheKey, []byte](defaultChunkCacheSize)
	if err != nil {
		return nil, err
	}
	reg.cache = cache
	return reg, nil
}

// Resolve fetches the bytes ref describes and stores them on arr via
// SetRaw, leaving arr's compression state as Decoded: mzMLb's external
// datasets always hold already-decoded typed values.
func (reg *ExternalDataRegistry) Resolve(arr *bindata.DataArray, ref *bindata.ExternalRef) error {
	ds, ok := reg.datasets[ref.Dataset]
	if !ok {
		return fmt.Errorf("mzmlb: external dataset %q not found", ref.Dataset)
	}
	size := arr.DType.SizeOf()
	if size == 0 {
		return fmt.Errorf("mzmlb: array %s has no fixed element size", arr.Name)
	}

	start := ref.Offset
	end := ref.Offset + ref.Length
	block := start / reg.chunkSize

	buf := make([]byte, 0, ref.Length*int64(size))
	for cursor := start; cursor < end; {
		key := cacheKey{name: ref.Dataset, block: cursor / reg.chunkSize}
		chunkStart := key.block * reg.chunkSize
		chunk, ok := reg.cache.Get(key)
		if !ok {
			chunkEnd := chunkStart + reg.chunkSize
			data, err := ds.ReadRange(chunkStart, chunkEnd)
			if err != nil {
				return fmt.Errorf("mzmlb: reading %s[%d:%d]: %w", ref.Dataset, chunkStart, chunkEnd, err)
			}
			chunk = data
			reg.cache.Add(key, chunk)
		}

		withinStart := (cursor - chunkStart) * int64(size)
		withinEnd := withinStart + int64(size)
		remainingInChunk := int64(len(chunk)) - withinStart
		take := end - cursor
		if take*int64(size) > remainingInChunk {
			take = remainingInChunk / int64(size)
		}
		_ = withinEnd
		buf = append(buf, chunk[withinStart:withinStart+take*int64(size)]...)
		cursor += take
		if take == 0 {
			break
		}
	}
	_ = block
	arr.SetRaw(buf)
	return nil
}

// Close releases every dataset handle the registry opened.
func (reg *ExternalDataRegistry) Close() error {
	var firstErr error
	for _, ds := range reg.datasets {
		if err := ds.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
