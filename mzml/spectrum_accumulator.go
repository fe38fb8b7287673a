// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"encoding/base64"
	"encoding/xml"
	"strconv"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
)

// spectrumAccumulator consumes events from a <spectrum> (or <chromatogram>)
// start tag to its matching end tag and produces a fully populated
// Spectrum. It routes isolation-window, scan-window, selected-ion,
// activation, and binary-data-array parameters by tracking which nested
// element is currently open.
type spectrumAccumulator struct {
	state ParserState
	stack []ParserState

	spec mzdata.Spectrum

	currentArray    *bindata.DataArray
	currentWindow   *mzdata.ScanWindow
	currentScan     *mzdata.ScanEvent
	currentIon      *mzdata.SelectedIon
	detailLevel     mzdata.DetailLevel
}

func newSpectrumAccumulator(detail mzdata.DetailLevel) *spectrumAccumulator {
	return &spectrumAccumulator{
		state:       Spectrum,
		detailLevel: detail,
		spec: mzdata.Spectrum{
			Peaks: mzdata.PeakDataLevel{Kind: mzdata.PeakDataRaw, Raw: bindata.NewBinaryArrayMap()},
		},
	}
}

func (a *spectrumAccumulator) push(s ParserState) {
	a.stack = append(a.stack, a.state)
	a.state = s
}

func (a *spectrumAccumulator) pop() {
	if len(a.stack) == 0 {
		return
	}
	a.state = a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
}

// handleStart processes a StartElement while inside the spectrum subtree.
func (a *spectrumAccumulator) handleStart(tok xml.StartElement) error {
	switch tok.Name.Local {
	case "spectrum":
		for _, attr := range tok.Attr {
			switch attr.Name.Local {
			case "id":
				a.spec.Description.ID = attr.Value
			case "index":
				if v, err := strconv.Atoi(attr.Value); err == nil {
					a.spec.Description.Index = v
				}
			}
		}
	case "scanList":
		a.push(ScanList)
	case "scan":
		a.push(Scan)
		a.spec.Description.Acquisition.Scans = append(a.spec.Description.Acquisition.Scans, mzdata.ScanEvent{})
		a.currentScan = &a.spec.Description.Acquisition.Scans[len(a.spec.Description.Acquisition.Scans)-1]
		for _, attr := range tok.Attr {
			if attr.Name.Local == "instrumentConfigurationRef" {
				a.currentScan.InstrumentConfigurationRef = attr.Value
			}
		}
	case "scanWindowList":
		a.push(ScanWindowList)
	case "scanWindow":
		a.push(ScanWindow)
		if a.currentScan != nil {
			a.currentScan.ScanWindows = append(a.currentScan.ScanWindows, mzdata.ScanWindow{})
			a.currentWindow = &a.currentScan.ScanWindows[len(a.currentScan.ScanWindows)-1]
		}
	case "precursorList":
		a.push(PrecursorList)
	case "precursor":
		a.push(Precursor)
		a.spec.Description.Precursor = &mzdata.Precursor{}
		for _, attr := range tok.Attr {
			switch attr.Name.Local {
			case "spectrumRef":
				a.spec.Description.Precursor.PrecursorID = attr.Value
			}
		}
	case "isolationWindow":
		a.push(IsolationWindow)
	case "selectedIonList":
		a.push(SelectedIonList)
	case "selectedIon":
		a.push(SelectedIon)
		if a.spec.Description.Precursor != nil {
			a.currentIon = &a.spec.Description.Precursor.SelectedIon
		}
	case "activation":
		a.push(Activation)
	case "binaryDataArrayList":
		a.push(BinaryDataArrayList)
	case "binaryDataArray":
		a.push(BinaryDataArray)
		a.currentArray = bindata.NewDataArray(bindata.Name(bindata.Unknown))
		a.currentArray.Compression = bindata.NoCompression
	case "binary":
		a.push(Binary)
	case "cvParam":
		a.handleCVParam(paramFromCVAttrs(tok))
	case "userParam":
		a.spec.Description.Params.Push(paramFromUserAttrs(tok))
	}
	return nil
}

func (a *spectrumAccumulator) handleCVParam(p cvparam.Param) {
	switch a.state {
	case IsolationWindow:
		applyIsolationWindowParam(&a.spec.Description.Precursor.IsolationWindow, p)
	case SelectedIon:
		if a.currentIon != nil {
			applySelectedIonParam(a.currentIon, p)
		}
	case Activation:
		if a.spec.Description.Precursor != nil {
			a.spec.Description.Precursor.Activation.Params.Push(p)
			if looksLikeDissociationMethod(p) {
				a.spec.Description.Precursor.Activation.Methods.Push(p)
			}
		}
	case ScanWindow:
		if a.currentWindow != nil {
			applyScanWindowParam(a.currentWindow, p)
		}
	case Scan:
		if a.currentScan != nil {
			applyScanParam(a.currentScan, p)
		}
	case BinaryDataArray:
		if a.currentArray != nil {
			applyBinaryDataArrayParam(a.currentArray, p)
		}
	default:
		applyTopLevelSpectrumParam(&a.spec, p)
	}
}

func (a *spectrumAccumulator) handleText(text []byte) error {
	if a.state != Binary || a.currentArray == nil {
		return nil
	}
	if a.detailLevel == mzdata.DetailMetadataOnly {
		return nil
	}
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(decoded, text)
	if err != nil {
		return errXML(Binary, err)
	}
	a.currentArray.SetRaw(decoded[:n])
	return nil
}

func (a *spectrumAccumulator) handleEnd(tok xml.EndElement) (bool, error) {
	switch tok.Name.Local {
	case "binaryDataArray":
		if a.currentArray != nil {
			a.spec.Peaks.Raw.Add(a.currentArray)
			a.currentArray = nil
		}
		a.pop()
	case "scan":
		a.currentScan = nil
		a.pop()
	case "scanWindow":
		a.currentWindow = nil
		a.pop()
	case "selectedIon":
		a.currentIon = nil
		a.pop()
	case "scanList", "scanWindowList", "precursorList", "selectedIonList",
		"isolationWindow", "precursor", "activation", "binaryDataArrayList", "binary":
		a.pop()
	case "spectrum":
		return true, nil
	case "chromatogram":
		return true, nil
	}
	return false, nil
}

func applyTopLevelSpectrumParam(s *mzdata.Spectrum, p cvparam.Param) {
	switch p.Accession {
	case "MS:1000511": // ms level
		if lvl, err := strconv.Atoi(p.Value); err == nil {
			s.Description.MSLevel = uint8(lvl)
		}
		return
	case "MS:1000130": // positive scan
		s.Description.Polarity = mzdata.PolarityPositive
		return
	case "MS:1000129": // negative scan
		s.Description.Polarity = mzdata.PolarityNegative
		return
	case "MS:1000128": // profile spectrum
		s.Description.SignalContinuity = mzdata.SignalContinuityProfile
		return
	case "MS:1000127": // centroid spectrum
		s.Description.SignalContinuity = mzdata.SignalContinuityCentroid
		return
	}
	s.Description.Params.Push(p)
}

func applyIsolationWindowParam(w *mzdata.IsolationWindow, p cvparam.Param) {
	switch p.Accession {
	case "MS:1000827": // isolation window target m/z
		w.Target = parseFloat(p.Value)
		if w.State == mzdata.IsolationWindowUnknown {
			w.State = mzdata.IsolationWindowOffset
		}
	case "MS:1000828": // isolation window lower offset
		w.LowerBound = w.Target - parseFloat(p.Value)
		w.State = bumpIsolationState(w.State)
	case "MS:1000829": // isolation window upper offset
		w.UpperBound = w.Target + parseFloat(p.Value)
		w.State = bumpIsolationState(w.State)
	}
}

func bumpIsolationState(cur mzdata.IsolationWindowState) mzdata.IsolationWindowState {
	if cur == mzdata.IsolationWindowOffset {
		return mzdata.IsolationWindowComplete
	}
	return mzdata.IsolationWindowExplicit
}

func applySelectedIonParam(ion *mzdata.SelectedIon, p cvparam.Param) {
	switch p.Accession {
	case "MS:1000744": // selected ion m/z
		ion.MZ = parseFloat(p.Value)
		return
	case "MS:1000042": // peak intensity
		ion.Intensity = float32(parseFloat(p.Value))
		return
	case "MS:1000041": // charge state
		if v, err := strconv.Atoi(p.Value); err == nil {
			c := int32(v)
			ion.Charge = &c
		}
		return
	}
	ion.Params.Push(p)
}

func applyScanWindowParam(w *mzdata.ScanWindow, p cvparam.Param) {
	switch p.Accession {
	case "MS:1000501": // scan window lower limit
		w.Lower = parseFloat(p.Value)
	case "MS:1000500": // scan window upper limit
		w.Upper = parseFloat(p.Value)
	}
}

func applyScanParam(s *mzdata.ScanEvent, p cvparam.Param) {
	switch p.Accession {
	case "MS:1000016": // scan start time
		s.StartTime = parseFloat(p.Value)
		return
	case "MS:1000927": // ion injection time
		s.InjectionTime = parseFloat(p.Value)
		return
	}
	s.Params.Push(p)
}

func looksLikeDissociationMethod(p cvparam.Param) bool {
	switch p.Accession {
	case "MS:1000133", "MS:1000134", "MS:1000135", "MS:1000250", "MS:1000422", "MS:1000598":
		return true
	default:
		return false
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
