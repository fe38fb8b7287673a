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
	"github.com/saferwall/mzdata/mzml"
)

// schemaVersion is stamped onto the "mzML" dataset's version attribute,
// matching the upstream mzMLb 1.0 schema.
const schemaVersion = "mzMLb 1.0"

// bufferKey identifies one growable external dataset: every spectrum's
// m/z array for a given dtype shares one dataset, appended to in
// document order, same as the original writer's BufferName.
type bufferKey struct {
	arrayName bindata.ArrayName
	dtype     bindata.DType
}

func (k bufferKey) datasetName() string {
	return fmt.Sprintf("/spectrum_%s_%s", k.arrayName, k.dtype)
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	InlineReferenceGroups bool
}

// Writer serializes spectra into an mzMLb container: the mzML XML body
// is buffered in memory and written as the "mzML" HDF5 dataset at Close,
// while each binary data array is appended to its own growable external
// dataset and referenced from the XML via external-reference cvParams.
type Writer struct {
	handle *hdf5.File
	opts   WriterOptions

	xmlBuf    bytes.Buffer
	xmlWriter *mzml.Writer
	buffers   map[bufferKey]*bytes.Buffer
}

// Create creates a new HDF5 file at path and wraps it.
func Create(path string, opts WriterOptions) (*Writer, error) {
	handle, err := hdf5.Create(path)
	if err != nil {
		return nil, fmt.Errorf("mzmlb: creating %s: %w", path, err)
	}
	w := &Writer{handle: handle, opts: opts, buffers: make(map[bufferKey]*bytes.Buffer)}
	w.xmlWriter = mzml.NewWriter(&w.xmlBuf, mzml.WriterOptions{InlineReferenceGroups: opts.InlineReferenceGroups})
	w.xmlWriter.SetExternalArrayer(w.externalArrayer)
	return w, nil
}

// WriteHeader delegates to the embedded mzml.Writer's header emission.
func (w *Writer) WriteHeader(meta *mzml.FileMetadata) error {
	return w.xmlWriter.WriteHeader(meta)
}

// WriteSpectrum appends each raw array to its external dataset buffer and
// writes the mzML spectrum element (with external-reference cvParams)
// into the in-memory XML buffer.
func (w *Writer) WriteSpectrum(spec *mzdata.Spectrum) error {
	return w.xmlWriter.WriteSpectrum(spec)
}

// externalArrayer is installed onto the mzml.Writer; it never declines
// (ok is always true) since mzMLb always offloads array content.
func (w *Writer) externalArrayer(arr *bindata.DataArray) (dataset string, offset, length int64, ok bool, err error) {
	if err := arr.StoreAs(bindata.NoCompression); err != nil {
		return "", 0, 0, false, err
	}
	key := bufferKey{arrayName: arr.Name, dtype: arr.DType}
	buf, exists := w.buffers[key]
	if !exists {
		buf = &bytes.Buffer{}
		w.buffers[key] = buf
	}
	size := arr.DType.SizeOf()
	if size == 0 {
		return "", 0, 0, false, fmt.Errorf("mzmlb: array %s has no fixed element size", arr.Name)
	}
	raw := arr.SliceBuffer()
	priorElems := int64(buf.Len() / size)
	buf.Write(raw)
	return key.datasetName(), priorElems, int64(len(raw) / size), true, nil
}

// Close finalizes every external dataset, writes the mzML XML body as
// the "mzML" dataset with its version attribute, and closes the file.
func (w *Writer) Close() error {
	if err := w.xmlWriter.Close(); err != nil {
		return err
	}

	for key, buf := range w.buffers {
		if _, err := w.handle.CreateDataset(key.datasetName(), buf.Bytes()); err != nil {
			return fmt.Errorf("mzmlb: writing dataset %s: %w", key.datasetName(), err)
		}
	}

	mzmlDS, err := w.handle.CreateDataset("mzML", w.xmlBuf.Bytes())
	if err != nil {
		return fmt.Errorf("mzmlb: writing mzML dataset: %w", err)
	}
	if err := mzmlDS.SetAttr("version", schemaVersion); err != nil {
		return fmt.Errorf("mzmlb: setting version attribute: %w", err)
	}

	return w.handle.Close()
}
