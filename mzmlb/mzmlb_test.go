// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzmlb

import (
	"testing"

	"github.com/saferwall/mzdata/bindata"
)

// Most of this package's logic is only reachable through a real HDF5
// file handle (hdf5.File/hdf5.Dataset have no interface seam to fake),
// so only the pure, file-independent pieces are covered here: dataset
// naming and the reserved-name guard.

func TestBufferKeyDatasetName(t *testing.T) {
	key := bufferKey{arrayName: bindata.Name(bindata.MZArray), dtype: bindata.Float64}
	got := key.datasetName()
	want := "/spectrum_MZArray_Float64"
	if got != want {
		t.Fatalf("datasetName() = %q, want %q", got, want)
	}
}

func TestReservedDatasetNamesCoversMzmlbInternals(t *testing.T) {
	for _, name := range []string{
		"/mzML",
		"/mzML_spectrumIndex",
		"/mzML_spectrumIndex_idRef",
		"/mzML_chromatogramIndex",
		"/mzML_chromatogramIndex_idRef",
	} {
		if !reservedDatasetNames[name] {
			t.Errorf("expected %q to be a reserved dataset name", name)
		}
	}
	if reservedDatasetNames["/spectrum_MZArray_Float64"] {
		t.Error("an external array dataset name must not be reserved")
	}
}
