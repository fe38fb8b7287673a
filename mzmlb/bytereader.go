// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzmlb

import (
	"io"

	"github.com/scigolib/hdf5"
)

// datasetByteReader adapts an HDF5 byte dataset (the "mzML" dataset
// holding the embedded XML document) to io.ReadSeeker so the mzml SAX
// parser can consume it exactly as it would a plain file.
type datasetByteReader struct {
	ds       *hdf5.Dataset
	size     int64
	position int64
}

func newDatasetByteReader(ds *hdf5.Dataset) (*datasetByteReader, error) {
	size, err := ds.Size()
	if err != nil {
		return nil, err
	}
	return &datasetByteReader{ds: ds, size: size}, nil
}

func (r *datasetByteReader) Read(p []byte) (int, error) {
	if r.position >= r.size {
		return 0, io.EOF
	}
	end := r.position + int64(len(p))
	if end > r.size {
		end = r.size
	}
	buf, err := r.ds.ReadRange(r.position, end)
	if err != nil {
		return 0, err
	}
	n := copy(p, buf)
	r.position += int64(n)
	return n, nil
}

func (r *datasetByteReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		r.position = offset
	case io.SeekCurrent:
		r.position += offset
	case io.SeekEnd:
		r.position = r.size + offset
	default:
		return 0, io.ErrUnexpectedEOF
	}
	if r.position < 0 {
		r.position = 0
	}
	return r.position, nil
}

// ReadAt lets the mzML reader treat this as an io.ReaderAt for the
// indexListOffset tail scan, though mzMLb never exercises that path
// since its spectrum index always comes from the companion datasets.
func (r *datasetByteReader) ReadAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > r.size {
		end = r.size
	}
	if off >= r.size {
		return 0, io.EOF
	}
	buf, err := r.ds.ReadRange(off, end)
	if err != nil {
		return 0, err
	}
	n := copy(p, buf)
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
