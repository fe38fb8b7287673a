// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imzml

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
	"github.com/saferwall/mzdata/mzml"
)

func cvparamUUID(id uuid.UUID) cvparam.Param {
	return cvparam.Param{Name: "universally unique identifier", CVRef: "IMS", Accession: "MS:1000080", Value: id.String()}
}

func cvparamMode(mode DataMode) cvparam.Param {
	if mode == DataModeProcessed {
		return cvparam.Param{Name: "processed", CVRef: "IMS", Accession: "MS:1000031"}
	}
	return cvparam.Param{Name: "continuous", CVRef: "IMS", Accession: "MS:1000030"}
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	Mode DataMode
}

// Writer serializes spectra into an imzML document plus its ibd sidecar:
// every raw array is appended to the ibd file and referenced from the
// XML via IMS external-reference cvParams, mirroring the mzmlb.Writer's
// append-then-reference shape over a flat file instead of HDF5 datasets.
type Writer struct {
	xml   *mzml.Writer
	ibd   *os.File
	uuid  uuid.UUID
	mode  DataMode
	cursor int64
}

// Create creates the XML file at xmlPath and "<stem>.ibd" beside it,
// writing the ibd's leading 16-byte UUID header up front.
func Create(xmlPath string, opts WriterOptions) (*Writer, error) {
	xmlF, err := os.Create(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("imzml: creating %s: %w", xmlPath, err)
	}
	ibdPath := ibdPathFor(xmlPath)
	ibdF, err := os.Create(ibdPath)
	if err != nil {
		xmlF.Close()
		return nil, fmt.Errorf("imzml: creating %s: %w", ibdPath, err)
	}

	id := uuid.New()
	if _, err := ibdF.Write(id[:]); err != nil {
		xmlF.Close()
		ibdF.Close()
		return nil, fmt.Errorf("imzml: writing ibd UUID header: %w", err)
	}

	w := &Writer{ibd: ibdF, uuid: id, mode: opts.Mode, cursor: int64(len(id))}
	w.xml = mzml.NewWriter(xmlF, mzml.WriterOptions{InlineReferenceGroups: true})
	w.xml.SetExternalArrayer(w.externalArrayer)
	w.xml.UseIMSExternalParams(true)
	return w, nil
}

// WriteHeader stamps the mandatory IMS file-level parameters (UUID and
// data mode) into the fileDescription before delegating to the wrapped
// mzml.Writer. The checksum parameter (MS:1000090) is intentionally
// omitted here: it covers the full ibd payload, which isn't known until
// every spectrum has been written, and the XML header precedes the
// spectrum list in a forward-only stream. Callers needing a verifiable
// checksum must compute it over the closed ibd file and patch the XML
// out of band.
func (w *Writer) WriteHeader(meta *mzml.FileMetadata) error {
	meta.FileDescription.Contents.Push(cvparamUUID(w.uuid))
	meta.FileDescription.Contents.Push(cvparamMode(w.mode))
	return w.xml.WriteHeader(meta)
}

// WriteSpectrum appends each raw array's bytes to the ibd file and emits
// the spectrum element with IMS external-reference cvParams.
func (w *Writer) WriteSpectrum(spec *mzdata.Spectrum) error {
	return w.xml.WriteSpectrum(spec)
}

func (w *Writer) externalArrayer(arr *bindata.DataArray) (dataset string, offset, length int64, ok bool, err error) {
	if err := arr.StoreAs(bindata.NoCompression); err != nil {
		return "", 0, 0, false, err
	}
	size := arr.DType.SizeOf()
	if size == 0 {
		return "", 0, 0, false, fmt.Errorf("imzml: array %s has no fixed element size", arr.Name)
	}
	raw := arr.SliceBuffer()
	n, err := w.ibd.Write(raw)
	if err != nil {
		return "", 0, 0, false, fmt.Errorf("imzml: appending to ibd file: %w", err)
	}
	byteOffset := w.cursor
	w.cursor += int64(n)
	return "", byteOffset, int64(len(raw) / size), true, nil
}

// Close flushes the XML document and closes the ibd file.
func (w *Writer) Close() error {
	if err := w.xml.Close(); err != nil {
		return err
	}
	return w.ibd.Close()
}
