// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import "testing"

func TestIncrementingIdMapInternAssignsStableOrdinals(t *testing.T) {
	m := NewIncrementingIdMap()
	a := m.Intern("IC1")
	b := m.Intern("IC2")
	again := m.Intern("IC1")
	if a != 0 || b != 1 {
		t.Fatalf("got a=%d b=%d, want a=0 b=1", a, b)
	}
	if again != a {
		t.Fatalf("re-interning IC1 = %d, want %d (stable)", again, a)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
}

func TestIncrementingIdMapLookup(t *testing.T) {
	m := NewIncrementingIdMap()
	if _, ok := m.Lookup("unseen"); ok {
		t.Fatal("expected Lookup of an unseen key to fail")
	}
	m.Intern("seen")
	id, ok := m.Lookup("seen")
	if !ok || id != 0 {
		t.Fatalf("Lookup(seen) = (%d, %v), want (0, true)", id, ok)
	}
}

func TestParserStateString(t *testing.T) {
	if got := Spectrum.String(); got != "Spectrum" {
		t.Fatalf("Spectrum.String() = %q, want Spectrum", got)
	}
	if got := ParserState(255).String(); got != "Unknown" {
		t.Fatalf("unmapped state String() = %q, want Unknown", got)
	}
}
