// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package bindata implements the binary data-array subsystem: a
// polymorphic container for typed numeric arrays with pluggable
// compression codecs that decode-on-demand, cache, and reinterpret raw
// bytes as typed slices.
package bindata

import (
	"fmt"

	"github.com/saferwall/mzdata/cvparam"
)

// ArrayName is the semantic tag of a DataArray, drawn from a closed set
// mirroring the PSI-MS controlled vocabulary's binary-data-array terms.
type ArrayName struct {
	kind       arrayKind
	customName string
}

type arrayKind uint8

const (
	Unknown arrayKind = iota
	MZArray
	IntensityArray
	ChargeArray
	SignalToNoiseArray
	TimeArray
	WavelengthArray
	IonMobilityArray
	MeanIonMobilityArray
	MeanDriftTimeArray
	MeanInverseReducedIonMobilityArray
	RawIonMobilityArray
	RawDriftTimeArray
	RawInverseReducedIonMobilityArray
	DeconvolutedIonMobilityArray
	DeconvolutedDriftTimeArray
	DeconvolutedInverseReducedIonMobilityArray
	BaselineArray
	ResolutionArray
	PressureArray
	TemperatureArray
	FlowRateArray
	NonStandardDataArray
)

// Name constructs the ArrayName for one of the closed, non-custom kinds.
func Name(kind arrayKind) ArrayName { return ArrayName{kind: kind} }

// NonStandard constructs a NonStandardDataArray tagged with a custom name.
func NonStandard(name string) ArrayName {
	return ArrayName{kind: NonStandardDataArray, customName: name}
}

// Kind reports the array's closed-set tag.
func (a ArrayName) Kind() arrayKind { return a.kind }

// CustomName returns the user-supplied name for a NonStandardDataArray; it
// is empty for every other kind.
func (a ArrayName) CustomName() string { return a.customName }

func (a ArrayName) String() string {
	if a.kind == NonStandardDataArray {
		return fmt.Sprintf("NonStandardDataArray(%s)", a.customName)
	}
	return arrayKindNames[a.kind]
}

var arrayKindNames = map[arrayKind]string{
	Unknown:                            "Unknown",
	MZArray:                            "MZArray",
	IntensityArray:                     "IntensityArray",
	ChargeArray:                        "ChargeArray",
	SignalToNoiseArray:                 "SignalToNoiseArray",
	TimeArray:                          "TimeArray",
	WavelengthArray:                    "WavelengthArray",
	IonMobilityArray:                   "IonMobilityArray",
	MeanIonMobilityArray:               "MeanIonMobilityArray",
	MeanDriftTimeArray:                 "MeanDriftTimeArray",
	MeanInverseReducedIonMobilityArray: "MeanInverseReducedIonMobilityArray",
	RawIonMobilityArray:                "RawIonMobilityArray",
	RawDriftTimeArray:                  "RawDriftTimeArray",
	RawInverseReducedIonMobilityArray:  "RawInverseReducedIonMobilityArray",
	DeconvolutedIonMobilityArray:       "DeconvolutedIonMobilityArray",
	DeconvolutedDriftTimeArray:         "DeconvolutedDriftTimeArray",
	DeconvolutedInverseReducedIonMobilityArray: "DeconvolutedInverseReducedIonMobilityArray",
	BaselineArray:    "BaselineArray",
	ResolutionArray:  "ResolutionArray",
	PressureArray:    "PressureArray",
	TemperatureArray: "TemperatureArray",
	FlowRateArray:    "FlowRateArray",
	NonStandardDataArray: "NonStandardDataArray",
}

// IsIonMobility reports whether the array describes an ion-mobility
// quantity (any of the raw/mean/deconvoluted x drift-time/inverse-reduced/
// generic variants).
func (a ArrayName) IsIonMobility() bool {
	switch a.kind {
	case IonMobilityArray, MeanIonMobilityArray, MeanDriftTimeArray,
		MeanInverseReducedIonMobilityArray, RawIonMobilityArray, RawDriftTimeArray,
		RawInverseReducedIonMobilityArray, DeconvolutedIonMobilityArray,
		DeconvolutedDriftTimeArray, DeconvolutedInverseReducedIonMobilityArray:
		return true
	default:
		return false
	}
}

// PreferredDType is the dtype a freshly-constructed array of this kind
// should use absent other information: Float64 for m/z, Int32 for charge,
// Float32 for everything else.
func (a ArrayName) PreferredDType() DType {
	switch a.kind {
	case MZArray:
		return Float64
	case ChargeArray:
		return Int32
	default:
		return Float32
	}
}

// accession/unit table for the closed array kinds, grounded on the PSI-MS
// CV accessions carried by mobiusklein/mzdata's ArrayType::as_param.
var arrayAccessions = map[arrayKind]struct {
	name      string
	accession string
	unit      cvparam.Unit
}{
	MZArray:            {"m/z array", "MS:1000514", cvparam.UnitMZ},
	IntensityArray:      {"intensity array", "MS:1000515", cvparam.UnitDetectorCounts},
	ChargeArray:         {"charge array", "MS:1000516", cvparam.UnitUnknown},
	TimeArray:           {"time array", "MS:1000595", cvparam.UnitMinute},
	WavelengthArray:     {"wavelength array", "MS:1000617", cvparam.UnitNanometer},
	SignalToNoiseArray:  {"signal to noise array", "MS:1000517", cvparam.UnitUnknown},
	IonMobilityArray:     {"ion mobility array", "MS:1002893", cvparam.UnitUnknown},
	RawIonMobilityArray:  {"raw ion mobility array", "MS:1003007", cvparam.UnitUnknown},
	RawDriftTimeArray:    {"raw ion mobility drift time array", "MS:1003153", cvparam.UnitUnknown},
	RawInverseReducedIonMobilityArray: {"raw inverse reduced ion mobility array", "MS:1003008", cvparam.UnitVoltSecondPerSquareCentimeter},
	MeanIonMobilityArray: {"mean ion mobility array", "MS:1002816", cvparam.UnitUnknown},
	MeanDriftTimeArray:   {"mean ion mobility drift time array", "MS:1002477", cvparam.UnitUnknown},
	MeanInverseReducedIonMobilityArray: {"mean inverse reduced ion mobility array", "MS:1003006", cvparam.UnitUnknown},
	DeconvolutedIonMobilityArray: {"deconvoluted ion mobility array", "MS:1003154", cvparam.UnitUnknown},
	DeconvolutedDriftTimeArray:   {"deconvoluted ion mobility drift time array", "MS:1003156", cvparam.UnitUnknown},
	DeconvolutedInverseReducedIonMobilityArray: {"deconvoluted inverse reduced ion mobility array", "MS:1003155", cvparam.UnitUnknown},
	BaselineArray:    {"baseline array", "MS:1002530", cvparam.UnitUnknown},
	ResolutionArray:  {"resolution array", "MS:1002529", cvparam.UnitUnknown},
	PressureArray:    {"pressure array", "MS:1000821", cvparam.UnitUnknown},
	TemperatureArray: {"temperature array", "MS:1000822", cvparam.UnitUnknown},
	FlowRateArray:    {"flow rate array", "MS:1000820", cvparam.UnitUnknown},
}

// AsParam renders the array name as a CV parameter, the way it is recorded
// in a binaryDataArray element's parameter list.
func (a ArrayName) AsParam() cvparam.Param {
	if a.kind == NonStandardDataArray {
		return cvparam.Param{Name: "non-standard data array", Value: a.customName, CVRef: "MS", Accession: "MS:1000786"}
	}
	info, ok := arrayAccessions[a.kind]
	if !ok {
		return cvparam.Param{Name: "unknown"}
	}
	return cvparam.Param{Name: info.name, CVRef: "MS", Accession: info.accession, Unit: info.unit}
}

// ArrayNameFromParamName maps a binaryDataArray cvParam name back to its
// ArrayName, as seen while parsing an mzML document. The "non-standard data
// array" parameter produces a NonStandardDataArray tagged with value;
// any other unrecognized name returns ok=false.
func ArrayNameFromParamName(name, value string) (ArrayName, bool) {
	for kind, info := range arrayAccessions {
		if info.name == name {
			return ArrayName{kind: kind}, true
		}
	}
	if name == "non-standard data array" {
		return NonStandard(value), true
	}
	return ArrayName{}, false
}

// DType is the canonical primitive data type found in MS data file formats.
type DType uint8

const (
	DTypeUnknown DType = iota
	Float32
	Float64
	Int32
	Int64
	ASCII
)

// SizeOf is the byte width of one element of this dtype. ASCII and Unknown
// are treated as byte-granular (size 1).
func (d DType) SizeOf() int {
	switch d {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		return 1
	}
}

func (d DType) String() string {
	switch d {
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case ASCII:
		return "ASCII"
	default:
		return "Unknown"
	}
}
