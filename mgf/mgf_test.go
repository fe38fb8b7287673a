// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mgf

import (
	"io"
	"strings"
	"testing"

	"github.com/saferwall/mzdata"
)

const sampleMGF = `BEGIN IONS
TITLE=spectrum 1
RTINSECONDS=90.0
PEPMASS=500.25 1000.0 2+
CHARGE=2+
100.1 10.0
200.2 50.0
300.3 20.0
END IONS
BEGIN IONS
TITLE=spectrum 2
RTINSECONDS=120.0
PEPMASS=600.5
150.0 5.0 1+
250.0 95.0 1+
END IONS
`

func TestReaderNextParsesHeadersAndPeaks(t *testing.T) {
	r := NewReader(strings.NewReader(sampleMGF))

	spec1, err := r.Next()
	if err != nil {
		t.Fatalf("Next (1): %v", err)
	}
	if spec1.Description.ID != "spectrum 1" {
		t.Fatalf("ID = %q, want %q", spec1.Description.ID, "spectrum 1")
	}
	if spec1.Description.MSLevel != 2 {
		t.Fatalf("MSLevel = %d, want 2", spec1.Description.MSLevel)
	}
	if len(spec1.Description.Acquisition.Scans) != 1 || spec1.Description.Acquisition.Scans[0].StartTime != 1.5 {
		t.Fatalf("expected start time 1.5 min (90s/60), got %+v", spec1.Description.Acquisition.Scans)
	}
	if spec1.Description.Precursor == nil || spec1.Description.Precursor.SelectedIon.MZ != 500.25 {
		t.Fatalf("unexpected precursor: %+v", spec1.Description.Precursor)
	}
	if spec1.Description.Precursor.SelectedIon.Charge == nil || *spec1.Description.Precursor.SelectedIon.Charge != 2 {
		t.Fatalf("expected precursor charge 2, got %+v", spec1.Description.Precursor.SelectedIon.Charge)
	}
	// Spectrum 1's peak lines carry no per-peak charge token, so only
	// mz+intensity arrays exist and promotion stops at centroid.
	if spec1.Peaks.Kind != mzdata.PeakDataCentroid {
		t.Fatalf("expected centroid promotion (no per-peak charge column), got kind %v", spec1.Peaks.Kind)
	}

	spec2, err := r.Next()
	if err != nil {
		t.Fatalf("Next (2): %v", err)
	}
	if spec2.Description.ID != "spectrum 2" {
		t.Fatalf("ID = %q, want %q", spec2.Description.ID, "spectrum 2")
	}
	if spec2.Peaks.Kind != mzdata.PeakDataDeconvoluted {
		t.Fatalf("expected deconvoluted promotion for spectrum 2 (charge present on peak lines), got kind %v", spec2.Peaks.Kind)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReaderMalformedPeakLine(t *testing.T) {
	doc := "BEGIN IONS\nTITLE=bad\nnot-a-number 10.0\nEND IONS\n"
	r := NewReader(strings.NewReader(doc))
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for malformed peak line")
	}
}

func TestReaderEndIonsWithoutBegin(t *testing.T) {
	doc := "END IONS\n"
	r := NewReader(strings.NewReader(doc))
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for END IONS without matching BEGIN IONS")
	}
}

func TestParseChargeToken(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"2+", 2}, {"1-", -1}, {"3", 3},
	}
	for _, c := range cases {
		got, ok, err := parseChargeToken(c.in)
		if err != nil {
			t.Fatalf("parseChargeToken(%q): %v", c.in, err)
		}
		if !ok || got != c.want {
			t.Errorf("parseChargeToken(%q) = (%d, %v), want (%d, true)", c.in, got, ok, c.want)
		}
	}
	if _, _, err := parseChargeToken("+2"); err == nil {
		t.Fatal("expected error for leading sign after stripping trailing sign")
	}
}

func TestBuildOffsetIndex(t *testing.T) {
	idx, err := BuildOffsetIndex(strings.NewReader(sampleMGF))
	if err != nil {
		t.Fatalf("BuildOffsetIndex: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	offset, ok := idx.Get("spectrum 2")
	if !ok {
		t.Fatal("expected spectrum 2 present in index")
	}
	// Confirm the recorded offset really does point at spectrum 2's
	// BEGIN IONS line.
	tail := sampleMGF[offset:]
	if !strings.HasPrefix(tail, "BEGIN IONS") {
		t.Fatalf("offset %d does not point at a BEGIN IONS line: %q...", offset, tail[:min(20, len(tail))])
	}
}
