// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mzml implements the streaming SAX parser and writer for the
// mzML spectrum container format: a token-driven state machine over
// encoding/xml's Decoder, a metadata accumulator for file-scoped
// descriptors, a spectrum accumulator that yields one Spectrum per
// element, and offset-index-backed random access.
package mzml

// ParserState is the closed set of states the parser cursor can occupy,
// mirroring the MzMLParserState enum this package's state machine is
// grounded on.
type ParserState uint8

const (
	Start ParserState = iota
	Resume

	CVList
	FileDescription
	FileContents
	SourceFileList
	SourceFile

	ReferenceParamGroupList
	ReferenceParamGroup

	SoftwareList
	Software

	InstrumentConfigurationList
	InstrumentConfiguration
	ComponentList
	Source
	Analyzer
	Detector

	DataProcessingList
	DataProcessing
	ProcessingMethod

	Run

	Spectrum
	SpectrumDone

	SpectrumList
	SpectrumListDone

	BinaryDataArrayList
	BinaryDataArray
	Binary

	ScanList
	Scan
	ScanWindowList
	ScanWindow

	PrecursorList
	Precursor
	IsolationWindow
	SelectedIonList
	SelectedIon
	Activation

	Chromatogram
	ChromatogramDone

	ParserError
	EOF
)

var stateNames = map[ParserState]string{
	Start: "Start", Resume: "Resume", CVList: "CVList",
	FileDescription: "FileDescription", FileContents: "FileContents",
	SourceFileList: "SourceFileList", SourceFile: "SourceFile",
	ReferenceParamGroupList: "ReferenceParamGroupList", ReferenceParamGroup: "ReferenceParamGroup",
	SoftwareList: "SoftwareList", Software: "Software",
	InstrumentConfigurationList: "InstrumentConfigurationList", InstrumentConfiguration: "InstrumentConfiguration",
	ComponentList: "ComponentList", Source: "Source", Analyzer: "Analyzer", Detector: "Detector",
	DataProcessingList: "DataProcessingList", DataProcessing: "DataProcessing", ProcessingMethod: "ProcessingMethod",
	Run: "Run", Spectrum: "Spectrum", SpectrumDone: "SpectrumDone",
	SpectrumList: "SpectrumList", SpectrumListDone: "SpectrumListDone",
	BinaryDataArrayList: "BinaryDataArrayList", BinaryDataArray: "BinaryDataArray", Binary: "Binary",
	ScanList: "ScanList", Scan: "Scan", ScanWindowList: "ScanWindowList", ScanWindow: "ScanWindow",
	PrecursorList: "PrecursorList", Precursor: "Precursor", IsolationWindow: "IsolationWindow",
	SelectedIonList: "SelectedIonList", SelectedIon: "SelectedIon", Activation: "Activation",
	Chromatogram: "Chromatogram", ChromatogramDone: "ChromatogramDone",
	ParserError: "ParserError", EOF: "EOF",
}

func (s ParserState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
