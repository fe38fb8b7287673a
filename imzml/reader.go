// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package imzml implements the ion-image container: an mzML-shaped XML
// document (delegated entirely to the mzml package) whose binary data
// arrays are empty <binary> elements, paired with an adjacent ".ibd" file
// that holds the actual array bytes at the offsets the XML's external-
// reference cvParams record.
package imzml

import (
	"fmt"
	"strings"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
	"github.com/saferwall/mzdata/internal/chunkio"
	"github.com/saferwall/mzdata/internal/mzlog"
	"github.com/saferwall/mzdata/mzml"
)

// DataMode is the imzML storage layout: every spectrum shares one m/z
// axis (Continuous) or each spectrum carries its own (Processed).
type DataMode uint8

const (
	DataModeUnknown DataMode = iota
	DataModeContinuous
	DataModeProcessed
)

// ReaderOptions configures a Reader's construction.
type ReaderOptions struct {
	DetailLevel mzdata.DetailLevel
	Logger      mzlog.Logger
}

// Reader pairs an mzml.Reader (for metadata and spectrum structure) with
// a memory-mapped ibd sidecar (for binary data array payloads).
type Reader struct {
	inner *mzml.Reader
	ibd   *chunkio.MappedFile

	UUID     string
	Checksum string
	Mode     DataMode
}

// Open opens the XML file at xmlPath and its sibling ibd file (same stem,
// ".ibd" extension), returning a Reader once the mandatory file-level IMS
// parameters (UUID, checksum, data mode) have been validated present.
func Open(xmlPath string, opts ReaderOptions) (*Reader, error) {
	inner, err := mzml.Open(xmlPath, mzml.ReaderOptions{
		DetailLevel: opts.DetailLevel,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	uuid, checksum, mode, err := extractFileParams(inner.Metadata.FileDescription.Contents)
	if err != nil {
		return nil, err
	}

	ibdPath := ibdPathFor(xmlPath)
	mapped, err := chunkio.OpenReadOnly(ibdPath)
	if err != nil {
		return nil, err
	}

	r := &Reader{inner: inner, ibd: mapped, UUID: uuid, Checksum: checksum, Mode: mode}
	inner.SetExternalResolver(r.resolve)
	return r, nil
}

// ibdPathFor derives "<stem>.ibd" from an XML path regardless of whether
// it ends in ".imzml" or ".xml", matching common producer conventions.
func ibdPathFor(xmlPath string) string {
	stem := strings.TrimSuffix(xmlPath, ".imzML")
	stem = strings.TrimSuffix(stem, ".imzml")
	stem = strings.TrimSuffix(stem, ".xml")
	stem = strings.TrimSuffix(stem, ".XML")
	return stem + ".ibd"
}

// extractFileParams reads the three mandatory IMS file-level parameters
// out of the fileDescription/fileContent parameter list, failing per
// if any is absent.
func extractFileParams(contents cvparam.ParamList) (uuid, checksum string, mode DataMode, err error) {
	uuidParam, ok := contents.Get("MS:1000080")
	if !ok {
		return "", "", 0, errMissingUUID()
	}
	checksumParam, ok := contents.Get("MS:1000090")
	if !ok {
		return "", "", 0, errMissingChecksum()
	}
	mode = DataModeUnknown
	if contents.Has("MS:1000030") {
		mode = DataModeContinuous
	} else if contents.Has("MS:1000031") {
		mode = DataModeProcessed
	} else {
		return "", "", 0, errMissingDataMode()
	}
	return uuidParam.Value, checksumParam.Value, mode, nil
}

// resolve fetches [offset, offset+length*dtype.size_of()) from the mapped
// ibd file and installs it on arr. The imzML IMS:1000102 offset is a byte
// offset (unlike mzMLb's element-addressed external refs); IMS:1000103's
// length is an element count.
func (r *Reader) resolve(arr *bindata.DataArray) error {
	ref := arr.External
	size := arr.DType.SizeOf()
	if size == 0 {
		return fmt.Errorf("imzml: array %s has no fixed element size", arr.Name)
	}
	start := ref.Offset
	length := ref.Length * int64(size)
	buf, err := r.ibd.ReadRange(start, length)
	if err != nil {
		return &RangeError{Offset: start, Length: length, FileSize: r.ibd.Size()}
	}
	arr.SetRaw(buf)
	return nil
}

// Len reports the number of spectra.
func (r *Reader) Len() int { return r.inner.Len() }

// Metadata exposes the delegated mzml document's file metadata.
func (r *Reader) Metadata() *mzml.FileMetadata { return r.inner.Metadata }

// Reset, DetailLevel, SetDetailLevel, GetByID, GetByIndex, GetByTime,
// StartFromID, StartFromIndex, StartFromTime delegate to the wrapped
// mzml.Reader: imzML only changes where binary payloads come from.
func (r *Reader) Reset() error                                  { return r.inner.Reset() }
func (r *Reader) DetailLevel() mzdata.DetailLevel               { return r.inner.DetailLevel() }
func (r *Reader) SetDetailLevel(level mzdata.DetailLevel)       { r.inner.SetDetailLevel(level) }
func (r *Reader) GetByID(id string) (*mzdata.Spectrum, error)   { return r.inner.GetByID(id) }
func (r *Reader) GetByIndex(i int) (*mzdata.Spectrum, error)    { return r.inner.GetByIndex(i) }
func (r *Reader) GetByTime(t float64) (*mzdata.Spectrum, error) { return r.inner.GetByTime(t) }
func (r *Reader) StartFromID(id string) error                  { return r.inner.StartFromID(id) }
func (r *Reader) StartFromIndex(index int) error                { return r.inner.StartFromIndex(index) }
func (r *Reader) StartFromTime(t float64) error                 { return r.inner.StartFromTime(t) }

// Close unmaps and closes the ibd file.
func (r *Reader) Close() error {
	return r.ibd.Close()
}
