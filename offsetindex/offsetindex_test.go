// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package offsetindex

import "testing"

func TestInsertionOrderPreserved(t *testing.T) {
	idx := New()
	idx.Insert("scan=3", 300)
	idx.Insert("scan=1", 100)
	idx.Insert("scan=2", 200)
	idx.Init()

	want := []string{"scan=3", "scan=1", "scan=2"}
	got := idx.Ids()
	if len(got) != len(want) {
		t.Fatalf("Ids() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ids()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
}

func TestGetByOrdinalMatchesInsertionOrder(t *testing.T) {
	idx := New()
	idx.Insert("a", 10)
	idx.Insert("b", 20)
	idx.Insert("c", 30)
	idx.Init()

	id, offset, err := idx.GetByOrdinal(1)
	if err != nil {
		t.Fatalf("GetByOrdinal(1): %v", err)
	}
	if id != "b" || offset != 20 {
		t.Fatalf("GetByOrdinal(1) = (%q, %d), want (b, 20)", id, offset)
	}

	if _, _, err := idx.GetByOrdinal(5); err == nil {
		t.Fatal("expected error for out-of-range ordinal")
	}
	if _, _, err := idx.GetByOrdinal(-1); err == nil {
		t.Fatal("expected error for negative ordinal")
	}
}

func TestReinsertUpdatesOffsetNotPosition(t *testing.T) {
	idx := New()
	idx.Insert("a", 1)
	idx.Insert("b", 2)
	idx.Insert("a", 99)
	idx.Init()

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (re-insert should not add a new slot)", idx.Len())
	}
	off, ok := idx.Get("a")
	if !ok || off != 99 {
		t.Fatalf("Get(a) = (%d, %v), want (99, true)", off, ok)
	}
	id, _, err := idx.GetByOrdinal(0)
	if err != nil {
		t.Fatalf("GetByOrdinal(0): %v", err)
	}
	if id != "a" {
		t.Fatalf("GetByOrdinal(0) id = %q, want a (position unchanged by re-insert)", id)
	}
}

func TestHasAndInitializedFlag(t *testing.T) {
	idx := New()
	if idx.Initialized() {
		t.Fatal("fresh index should not report Initialized")
	}
	if idx.Has("x") {
		t.Fatal("fresh index should not have any id")
	}
	idx.Insert("x", 42)
	if !idx.Has("x") {
		t.Fatal("expected Has(x) true after Insert")
	}
	idx.Init()
	if !idx.Initialized() {
		t.Fatal("expected Initialized true after Init")
	}
}
