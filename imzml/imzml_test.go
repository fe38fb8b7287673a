// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imzml

import (
	"path/filepath"
	"testing"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
	"github.com/saferwall/mzdata/mzml"
)

func TestIBDPathForStripsKnownExtensions(t *testing.T) {
	cases := map[string]string{
		"run.imzML": "run.ibd",
		"run.imzml": "run.ibd",
		"run.xml":   "run.ibd",
		"run.XML":   "run.ibd",
		"run":       "run.ibd",
	}
	for in, want := range cases {
		if got := ibdPathFor(in); got != want {
			t.Errorf("ibdPathFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractFileParamsMissingUUID(t *testing.T) {
	contents := cvparam.ParamList{}
	contents.Push(cvparam.Param{Accession: "MS:1000090", Value: "abc"})
	contents.Push(cvparam.Param{Accession: "MS:1000030"})
	if _, _, _, err := extractFileParams(contents); err == nil {
		t.Fatal("expected error for missing UUID param")
	}
}

func TestExtractFileParamsMissingDataMode(t *testing.T) {
	contents := cvparam.ParamList{}
	contents.Push(cvparam.Param{Accession: "MS:1000080", Value: "uuid"})
	contents.Push(cvparam.Param{Accession: "MS:1000090", Value: "checksum"})
	if _, _, _, err := extractFileParams(contents); err == nil {
		t.Fatal("expected error for missing data mode param")
	}
}

func TestExtractFileParamsContinuousAndProcessed(t *testing.T) {
	base := func(modeAccession string) cvparam.ParamList {
		contents := cvparam.ParamList{}
		contents.Push(cvparam.Param{Accession: "MS:1000080", Value: "the-uuid"})
		contents.Push(cvparam.Param{Accession: "MS:1000090", Value: "the-checksum"})
		contents.Push(cvparam.Param{Accession: modeAccession})
		return contents
	}

	uuid, checksum, mode, err := extractFileParams(base("MS:1000030"))
	if err != nil {
		t.Fatalf("extractFileParams (continuous): %v", err)
	}
	if uuid != "the-uuid" || checksum != "the-checksum" || mode != DataModeContinuous {
		t.Fatalf("got (%q, %q, %v), want (the-uuid, the-checksum, continuous)", uuid, checksum, mode)
	}

	_, _, mode, err = extractFileParams(base("MS:1000031"))
	if err != nil {
		t.Fatalf("extractFileParams (processed): %v", err)
	}
	if mode != DataModeProcessed {
		t.Fatalf("mode = %v, want processed", mode)
	}
}

// TestWriteThenOpenRoundTrip exercises the full Writer->Open path: two
// spectra's m/z and intensity arrays are appended to the ibd sidecar and
// referenced from the XML via IMS external cvParams, then a fresh Reader
// resolves them back via the mapped ibd file.
func TestWriteThenOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "run.imzML")

	w, err := Create(xmlPath, WriterOptions{Mode: DataModeProcessed})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	meta := &mzml.FileMetadata{
		Run: mzml.MassSpectrometryRun{ID: "run1", DefaultInstrumentConfigRef: "IC1"},
	}
	if err := w.WriteHeader(meta); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	spec := mzdata.Spectrum{
		Description: mzdata.SpectrumDescription{
			ID: "spectrum=1,x=1,y=1", Index: 0, MSLevel: 1,
			Acquisition: mzdata.Acquisition{Scans: []mzdata.ScanEvent{
				{StartTime: 0, InstrumentConfigurationRef: "IC1"},
			}},
		},
		Peaks: mzdata.PeakDataLevel{Kind: mzdata.PeakDataRaw, Raw: bindata.NewBinaryArrayMap()},
	}
	mzArr := bindata.NewDataArray(bindata.Name(bindata.MZArray))
	for _, v := range []float64{500, 501, 502} {
		if err := mzArr.Push(v); err != nil {
			t.Fatalf("Push mz: %v", err)
		}
	}
	inArr := bindata.NewDataArray(bindata.Name(bindata.IntensityArray))
	for _, v := range []float64{1, 2, 3} {
		if err := inArr.Push(v); err != nil {
			t.Fatalf("Push intensity: %v", err)
		}
	}
	spec.Peaks.Raw.Add(mzArr)
	spec.Peaks.Raw.Add(inArr)
	if err := w.WriteSpectrum(&spec); err != nil {
		t.Fatalf("WriteSpectrum: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(xmlPath, ReaderOptions{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.Mode != DataModeProcessed {
		t.Fatalf("Mode = %v, want processed", r.Mode)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	got, err := r.GetByIndex(0)
	if err != nil {
		t.Fatalf("GetByIndex: %v", err)
	}
	mzs, err := got.Peaks.Raw.Mzs()
	if err != nil {
		t.Fatalf("Mzs: %v", err)
	}
	if len(mzs) != 3 || mzs[0] != 500 || mzs[2] != 502 {
		t.Fatalf("resolved mz array = %v, want [500 501 502]", mzs)
	}
	intensities, err := got.Peaks.Raw.Intensities()
	if err != nil {
		t.Fatalf("Intensities: %v", err)
	}
	if len(intensities) != 3 || intensities[1] != 2 {
		t.Fatalf("resolved intensity array = %v, want [1 2 3]", intensities)
	}
}
