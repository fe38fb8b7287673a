// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package offsetindex implements the shared id -> byte offset directory
// that backs random access across every indexed container format
// (mzML's indexedmzML/indexList, mzMLb's index dataset, imzML's delegate
// mzML index). Order of insertion is preserved so ordinal lookups match
// on-disk document order.
package offsetindex

import "fmt"

// OffsetIndex is an ordered id -> offset map, built either by parsing a
// format's trailing index (fast path) or by a full linear scan (fallback
// for truncated or unindexed files).
type OffsetIndex struct {
	order       []string
	offsets     map[string]int64
	initialized bool
}

// New returns an empty, uninitialized index.
func New() *OffsetIndex {
	return &OffsetIndex{offsets: make(map[string]int64)}
}

// Init marks the index as populated. Call once the index has been filled
// by either the fast-path parse or the linear-scan fallback.
func (idx *OffsetIndex) Init() { idx.initialized = true }

// Initialized reports whether the index has been populated yet.
func (idx *OffsetIndex) Initialized() bool { return idx.initialized }

// Insert records the byte offset for an id, appending it to iteration
// order. Re-inserting an existing id updates its offset without changing
// its position.
func (idx *OffsetIndex) Insert(id string, offset int64) {
	if _, exists := idx.offsets[id]; !exists {
		idx.order = append(idx.order, id)
	}
	idx.offsets[id] = offset
}

// Get returns the offset recorded for an id.
func (idx *OffsetIndex) Get(id string) (int64, bool) {
	off, ok := idx.offsets[id]
	return off, ok
}

// GetByOrdinal returns the (id, offset) pair at position i in insertion
// order, for iteration by index rather than by id.
func (idx *OffsetIndex) GetByOrdinal(i int) (string, int64, error) {
	if i < 0 || i >= len(idx.order) {
		return "", 0, fmt.Errorf("offsetindex: ordinal %d out of range [0,%d)", i, len(idx.order))
	}
	id := idx.order[i]
	return id, idx.offsets[id], nil
}

// Len reports the number of entries in the index.
func (idx *OffsetIndex) Len() int { return len(idx.order) }

// Ids returns the ids in insertion (document) order.
func (idx *OffsetIndex) Ids() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Has reports whether an id is present in the index.
func (idx *OffsetIndex) Has(id string) bool {
	_, ok := idx.offsets[id]
	return ok
}
