// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"encoding/xml"

	"github.com/saferwall/mzdata/cvparam"
)

// metadataAccumulator consumes events from document start until the first
// <spectrum> or <spectrumList> start tag, producing a FileMetadata; a <run>
// start tag has its attributes recorded and does not stop the pass.
// Unknown parameters are retained on whichever element is currently open.
type metadataAccumulator struct {
	state ParserState
	stack []ParserState
	meta  *FileMetadata

	currentSourceFile       *SourceFile
	currentSoftware         *Software
	currentInstrumentConfig *InstrumentConfiguration
	currentComponent        *Component
	currentDataProcessing   *DataProcessing
	currentMethod           *ProcessingMethod
	currentRefGroupID       string
	componentOrdinal        int
	methodOrdinal           int

	done bool
}

func newMetadataAccumulator() *metadataAccumulator {
	return &metadataAccumulator{state: Start, meta: NewFileMetadata()}
}

func (a *metadataAccumulator) push(s ParserState) {
	a.stack = append(a.stack, a.state)
	a.state = s
}

func (a *metadataAccumulator) pop() {
	if len(a.stack) == 0 {
		return
	}
	a.state = a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
}

func attr(tok xml.StartElement, name string) string {
	for _, a := range tok.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (a *metadataAccumulator) handleStart(tok xml.StartElement) (bool, error) {
	switch tok.Name.Local {
	case "spectrumList", "spectrum", "run":
		if tok.Name.Local == "run" {
			a.meta.Run.ID = attr(tok, "id")
			a.meta.Run.DefaultInstrumentConfigRef = attr(tok, "defaultInstrumentConfigurationRef")
			a.meta.Run.DefaultSourceFileRef = attr(tok, "defaultSourceFileRef")
			a.meta.Run.StartTimeStamp = attr(tok, "startTimeStamp")
			return false, nil
		}
		a.done = true
		return true, nil
	case "fileDescription":
		a.push(FileDescription)
	case "fileContent":
		a.push(FileContents)
	case "sourceFileList":
		a.push(SourceFileList)
	case "sourceFile":
		a.push(SourceFile)
		a.meta.FileDescription.SourceFiles = append(a.meta.FileDescription.SourceFiles, SourceFile{
			ID: attr(tok, "id"), Name: attr(tok, "name"), Location: attr(tok, "location"),
		})
		a.currentSourceFile = &a.meta.FileDescription.SourceFiles[len(a.meta.FileDescription.SourceFiles)-1]
	case "referenceableParamGroupList":
		a.push(ReferenceParamGroupList)
	case "referenceableParamGroup":
		a.push(ReferenceParamGroup)
		a.currentRefGroupID = attr(tok, "id")
	case "softwareList":
		a.push(SoftwareList)
	case "software":
		a.push(Software)
		a.meta.Software = append(a.meta.Software, Software{ID: attr(tok, "id"), Version: attr(tok, "version")})
		a.currentSoftware = &a.meta.Software[len(a.meta.Software)-1]
	case "instrumentConfigurationList":
		a.push(InstrumentConfigurationList)
	case "instrumentConfiguration":
		a.push(InstrumentConfiguration)
		id := attr(tok, "id")
		a.meta.InstrumentConfigurations = append(a.meta.InstrumentConfigurations, InstrumentConfiguration{
			ID: id, Ordinal: a.meta.InstrumentOrdinal(id),
		})
		a.currentInstrumentConfig = &a.meta.InstrumentConfigurations[len(a.meta.InstrumentConfigurations)-1]
		a.componentOrdinal = 0
	case "componentList":
		a.push(ComponentList)
	case "source":
		a.push(Source)
		a.addComponent("source")
	case "analyzer":
		a.push(Analyzer)
		a.addComponent("analyzer")
	case "detector":
		a.push(Detector)
		a.addComponent("detector")
	case "dataProcessingList":
		a.push(DataProcessingList)
	case "dataProcessing":
		a.push(DataProcessing)
		a.meta.DataProcessings = append(a.meta.DataProcessings, DataProcessing{ID: attr(tok, "id")})
		a.currentDataProcessing = &a.meta.DataProcessings[len(a.meta.DataProcessings)-1]
		a.methodOrdinal = 0
	case "processingMethod":
		a.push(ProcessingMethod)
		if a.currentDataProcessing != nil {
			a.currentDataProcessing.Methods = append(a.currentDataProcessing.Methods, ProcessingMethod{
				Order: a.methodOrdinal, SoftwareRef: attr(tok, "softwareRef"),
			})
			a.currentMethod = &a.currentDataProcessing.Methods[len(a.currentDataProcessing.Methods)-1]
			a.methodOrdinal++
		}
	case "cvParam":
		a.handleCVParam(paramFromCVAttrs(tok))
	case "userParam":
		a.handleCVParam(paramFromUserAttrs(tok))
	}
	return false, nil
}

func (a *metadataAccumulator) addComponent(kind string) {
	if a.currentInstrumentConfig == nil {
		return
	}
	a.currentInstrumentConfig.Components = append(a.currentInstrumentConfig.Components, Component{
		Kind: kind, Order: a.componentOrdinal,
	})
	a.currentComponent = &a.currentInstrumentConfig.Components[len(a.currentInstrumentConfig.Components)-1]
	a.componentOrdinal++
}

func (a *metadataAccumulator) handleCVParam(p cvparam.Param) {
	switch a.state {
	case FileContents:
		a.meta.FileDescription.Contents.Push(p)
	case SourceFile:
		if a.currentSourceFile != nil {
			a.currentSourceFile.Params.Push(p)
		}
	case ReferenceParamGroup:
		a.meta.ReferenceParamGroups[a.currentRefGroupID] = append(a.meta.ReferenceParamGroups[a.currentRefGroupID], p)
	case Software:
		if a.currentSoftware != nil {
			a.currentSoftware.Params.Push(p)
		}
	case Source, Analyzer, Detector:
		if a.currentComponent != nil {
			a.currentComponent.Params.Push(p)
		}
	case ProcessingMethod:
		if a.currentMethod != nil {
			a.currentMethod.Params.Push(p)
		}
	case InstrumentConfiguration:
		if a.currentInstrumentConfig != nil {
			a.currentInstrumentConfig.Params.Push(p)
		}
	}
}

func (a *metadataAccumulator) handleEnd(tok xml.EndElement) {
	switch tok.Name.Local {
	case "sourceFile":
		a.currentSourceFile = nil
		a.pop()
	case "software":
		a.currentSoftware = nil
		a.pop()
	case "instrumentConfiguration":
		a.currentInstrumentConfig = nil
		a.pop()
	case "source", "analyzer", "detector":
		a.currentComponent = nil
		a.pop()
	case "dataProcessing":
		a.currentDataProcessing = nil
		a.pop()
	case "processingMethod":
		a.currentMethod = nil
		a.pop()
	case "referenceableParamGroup":
		a.currentRefGroupID = ""
		a.pop()
	case "fileDescription", "fileContent", "sourceFileList",
		"referenceableParamGroupList", "softwareList",
		"instrumentConfigurationList", "componentList",
		"dataProcessingList":
		a.pop()
	}
}
