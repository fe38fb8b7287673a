// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cvparam wraps the controlled-vocabulary parameter model consumed
// by every spectrum container backend. The CV term database itself (full
// accession/name/parent graphs) is an external collaborator; this package
// only carries the (name, value, accession, cv-id, unit) tuple and the
// native-ID format bridge used to parse and format spectrum identifiers.
package cvparam

import "strings"

// Unit is an opaque tag identifying the unit a parameter's value is
// expressed in. The zero value is UnitUnknown.
type Unit string

// Units referenced directly by the bindata and mzml packages. Additional
// units may be carried verbatim from a source document without being named
// here.
const (
	UnitUnknown        Unit = ""
	UnitMZ             Unit = "MS:1000040" // m/z
	UnitDetectorCounts Unit = "MS:1000131" // number of detector counts
	UnitMinute         Unit = "UO:0000031"
	UnitSecond         Unit = "UO:0000010"
	UnitNanometer      Unit = "UO:0000018"
	UnitVoltSecondPerSquareCentimeter Unit = "MS:1002814"
	UnitElectronvolt   Unit = "UO:0000266"
	UnitPercent        Unit = "UO:0000187"
)

// Param is a single controlled-vocabulary (or user) parameter attached to a
// spectrum, scan, precursor, or data array element.
type Param struct {
	Name       string
	Value      string
	CVRef      string // e.g. "MS", "UO", "" for a user parameter
	Accession  string // e.g. "MS:1000514"; empty for a user parameter
	Unit       Unit
}

// IsUserParam reports whether this parameter carries no CV accession, i.e.
// it is a free-form "userParam" rather than a "cvParam".
func (p Param) IsUserParam() bool {
	return p.Accession == ""
}

// NamedWith returns a copy of p renamed, preserving its value/accession/unit.
func (p Param) NamedWith(name string) Param {
	p.Name = name
	return p
}

// ParamList is an ordered bag of parameters attached to one XML element (or
// MGF header block). Order is preserved on read so unrecognized parameters
// round-trip positionally even though their semantics are opaque to this
// package.
type ParamList []Param

// Get returns the first parameter whose accession matches, if any.
func (l ParamList) Get(accession string) (Param, bool) {
	for _, p := range l {
		if p.Accession == accession {
			return p, true
		}
	}
	return Param{}, false
}

// GetByName returns the first parameter whose name matches (case-sensitive,
// matching the CV's own naming convention), if any.
func (l ParamList) GetByName(name string) (Param, bool) {
	for _, p := range l {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Push appends a parameter, preserving insertion order.
func (l *ParamList) Push(p Param) {
	*l = append(*l, p)
}

// Has reports whether a parameter with the given accession is present.
func (l ParamList) Has(accession string) bool {
	_, ok := l.Get(accession)
	return ok
}

// CURIE splits a compact accession ("MS:1000514") into its CV prefix and
// numeric component, returning ok=false if it is not colon-delimited.
func CURIE(accession string) (cvRef string, num string, ok bool) {
	idx := strings.IndexByte(accession, ':')
	if idx < 0 {
		return "", "", false
	}
	return accession[:idx], accession[idx+1:], true
}
