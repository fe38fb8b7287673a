// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cvparam

import (
	"regexp"
	"testing"
)

func TestThermoNativeIDParseAndFormat(t *testing.T) {
	id := "controllerType=0 controllerNumber=1 scan=20"
	captures, ok := ThermoNativeID.Parse(id)
	if !ok {
		t.Fatalf("Parse(%q) failed", id)
	}
	want := map[string]string{"controllerType": "0", "controllerNumber": "1", "scan": "20"}
	for k, v := range want {
		if captures[k] != v {
			t.Errorf("captures[%q] = %q, want %q", k, captures[k], v)
		}
	}
	if got := ThermoNativeID.Format(captures); got != id {
		t.Errorf("Format(Parse(id)) = %q, want %q", got, id)
	}
}

func TestBrukerAndSpectrumNativeID(t *testing.T) {
	captures, ok := BrukerScanNativeID.Parse("scan=42")
	if !ok || captures["scan"] != "42" {
		t.Fatalf("BrukerScanNativeID.Parse failed: %+v, %v", captures, ok)
	}
	captures, ok = SpectrumNativeID.Parse("spectrum=7")
	if !ok || captures["spectrum"] != "7" {
		t.Fatalf("SpectrumNativeID.Parse failed: %+v, %v", captures, ok)
	}
}

func TestFindNativeIDFormatPicksCorrectFormat(t *testing.T) {
	f, ok := FindNativeIDFormat("controllerType=0 controllerNumber=1 scan=99")
	if !ok || f.Name != ThermoNativeID.Name {
		t.Fatalf("expected Thermo format, got %q, ok=%v", f.Name, ok)
	}
	f, ok = FindNativeIDFormat("scan=5")
	if !ok || f.Name != BrukerScanNativeID.Name {
		t.Fatalf("expected Bruker format, got %q, ok=%v", f.Name, ok)
	}
	f, ok = FindNativeIDFormat("spectrum=3")
	if !ok || f.Name != SpectrumNativeID.Name {
		t.Fatalf("expected spectrum index format, got %q, ok=%v", f.Name, ok)
	}
	if _, ok := FindNativeIDFormat("totally-unrecognized-id"); ok {
		t.Fatal("expected no match for an unrecognized id")
	}
}

func TestRegisterNativeIDFormat(t *testing.T) {
	custom := NativeIDFormat{
		Name:    "test-only custom nativeID format",
		Pattern: regexp.MustCompile(`^custom=(?P<custom>\d+)$`),
	}
	RegisterNativeIDFormat(custom)
	f, ok := FindNativeIDFormat("custom=55")
	if !ok || f.Name != custom.Name {
		t.Fatalf("expected custom format to be discovered, got %q, ok=%v", f.Name, ok)
	}
}
