// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

// IncrementingIdMap is a monotonically growing string -> uint32 interner,
// used to assign stable ordinal ids to instrument configurations as they
// are first seen during the metadata pass.
type IncrementingIdMap struct {
	ids  map[string]uint32
	next uint32
}

// NewIncrementingIdMap returns an empty interner.
func NewIncrementingIdMap() *IncrementingIdMap {
	return &IncrementingIdMap{ids: make(map[string]uint32)}
}

// Intern returns the ordinal for key, assigning the next available ordinal
// the first time key is seen.
func (m *IncrementingIdMap) Intern(key string) uint32 {
	if id, ok := m.ids[key]; ok {
		return id
	}
	id := m.next
	m.ids[key] = id
	m.next++
	return id
}

// Lookup returns the ordinal assigned to key without allocating a new one.
func (m *IncrementingIdMap) Lookup(key string) (uint32, bool) {
	id, ok := m.ids[key]
	return id, ok
}

// Len reports how many distinct keys have been interned.
func (m *IncrementingIdMap) Len() int { return len(m.ids) }
