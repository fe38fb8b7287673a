// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import "github.com/saferwall/mzdata/cvparam"

// SourceFile describes one raw input file the run was converted from.
type SourceFile struct {
	ID       string
	Name     string
	Location string
	Params   cvparam.ParamList
}

// FileDescription is the fileDescription element: file-level content
// terms plus the list of source files it was converted from.
type FileDescription struct {
	Contents    cvparam.ParamList
	SourceFiles []SourceFile
}

// Software is one entry from the softwareList.
type Software struct {
	ID      string
	Version string
	Params  cvparam.ParamList
}

// Component is one piece of an instrument configuration (source, analyzer,
// or detector), ordered by its position within the componentList.
type Component struct {
	Kind   string // "source", "analyzer", or "detector"
	Order  int
	Params cvparam.ParamList
}

// InstrumentConfiguration is one entry from the instrumentConfigurationList,
// keyed by an ordinal assigned via IncrementingIdMap.
type InstrumentConfiguration struct {
	ID         string
	Ordinal    uint32
	Components []Component
	SoftwareRef string
	Params     cvparam.ParamList
}

// ProcessingMethod is one step within a dataProcessing entry.
type ProcessingMethod struct {
	Order       int
	SoftwareRef string
	Params      cvparam.ParamList
}

// DataProcessing is one entry from the dataProcessingList.
type DataProcessing struct {
	ID      string
	Methods []ProcessingMethod
}

// Sample is one entry from the sampleList.
type Sample struct {
	ID     string
	Name   string
	Params cvparam.ParamList
}

// MassSpectrometryRun carries the run-level attributes and id lookups.
type MassSpectrometryRun struct {
	ID                         string
	DefaultInstrumentConfigRef string
	DefaultSourceFileRef       string
	StartTimeStamp             string
}

// FileMetadata is the accumulated file-scoped document produced by the
// metadata accumulator before the first Spectrum/SpectrumList element
// (including the Run element's attributes).
type FileMetadata struct {
	FileDescription          FileDescription
	InstrumentConfigurations []InstrumentConfiguration
	Software                 []Software
	Samples                  []Sample
	DataProcessings          []DataProcessing
	ReferenceParamGroups     map[string]cvparam.ParamList
	Run                      MassSpectrometryRun

	instrumentOrdinals *IncrementingIdMap
}

// NewFileMetadata returns an empty accumulator target.
func NewFileMetadata() *FileMetadata {
	return &FileMetadata{
		ReferenceParamGroups: make(map[string]cvparam.ParamList),
		instrumentOrdinals:   NewIncrementingIdMap(),
	}
}

// InstrumentOrdinal returns the stable ordinal assigned to an instrument
// configuration id, interning it if this is the first time it's seen.
func (m *FileMetadata) InstrumentOrdinal(ref string) uint32 {
	return m.instrumentOrdinals.Intern(ref)
}

// ResolveReferenceGroups flattens a list of referenced paramGroup ids into
// their concatenated parameter lists, in reference order. This is the
// "reference parameter groups are inlined at read time" read-side policy.
func (m *FileMetadata) ResolveReferenceGroups(refs []string) cvparam.ParamList {
	var out cvparam.ParamList
	for _, ref := range refs {
		if group, ok := m.ReferenceParamGroups[ref]; ok {
			out = append(out, group...)
		}
	}
	return out
}
