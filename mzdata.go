// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package mzdata is the root of a random-access reader/writer framework
// over mass-spectrometry spectrum container formats (mzML, MGF, mzMLb,
// imzML). It carries the format-agnostic spectrum model; backend-specific
// parsing lives in the mzml, mgf, mzmlb, and imzml subpackages.
package mzdata

import (
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
	"github.com/saferwall/mzdata/peak"
)

// DetailLevel is an advisory hint about how much of a spectrum a reader
// should materialize. It is advisory only: a reader that cannot skip
// binary decoding must still honor the external contract and never panic;
// DetailMetadataOnly should suppress decompression of large arrays.
type DetailLevel uint8

const (
	DetailMetadataOnly DetailLevel = iota
	DetailMZsAndIntensities
	DetailFull
)

// Polarity is the ionization mode a spectrum was acquired in.
type Polarity uint8

const (
	PolarityUnknown Polarity = iota
	PolarityPositive
	PolarityNegative
)

// SignalContinuity reports whether a spectrum's peaks are discrete
// (centroid) or sampled (profile).
type SignalContinuity uint8

const (
	SignalContinuityUnknown SignalContinuity = iota
	SignalContinuityCentroid
	SignalContinuityProfile
)

// ScanWindow is a lower/upper m/z bound pair scanned during acquisition.
type ScanWindow struct {
	Lower float64
	Upper float64
}

// ScanEvent describes one scan within a spectrum's acquisition.
type ScanEvent struct {
	StartTime               float64 // minutes
	InjectionTime            float64 // milliseconds
	ScanWindows              []ScanWindow
	InstrumentConfigurationRef string
	Params                   cvparam.ParamList
}

// Acquisition is the ordered list of scan events that produced a spectrum.
type Acquisition struct {
	Scans []ScanEvent
}

// StartTime returns the start time of the first scan, or 0 if there are
// none.
func (a Acquisition) StartTime() float64 {
	if len(a.Scans) == 0 {
		return 0
	}
	return a.Scans[0].StartTime
}

// IsolationWindowState tracks how much of an isolation window has been
// observed while parsing.
type IsolationWindowState uint8

const (
	IsolationWindowUnknown IsolationWindowState = iota
	IsolationWindowOffset
	IsolationWindowExplicit
	IsolationWindowComplete
)

// IsolationWindow is the precursor m/z window selected for fragmentation.
type IsolationWindow struct {
	Target     float64
	LowerBound float64
	UpperBound float64
	State      IsolationWindowState
}

// SelectedIon is the precursor ion chosen from a survey scan.
type SelectedIon struct {
	MZ        float64
	Intensity float32
	Charge    *int32
	Params    cvparam.ParamList
}

// Activation describes the dissociation method and energy applied to a
// precursor.
type Activation struct {
	Methods cvparam.ParamList
	Energies []float32
	Params   cvparam.ParamList
}

// Precursor is the ion selected and fragmented to produce an MSn spectrum.
type Precursor struct {
	SelectedIon     SelectedIon
	IsolationWindow IsolationWindow
	PrecursorID     string // weak reference; resolved via the owning source
	ProductID       string
	Activation      Activation
}

// SpectrumDescription is the format-agnostic metadata envelope for one
// spectrum, independent of which container format it was read from.
type SpectrumDescription struct {
	ID                string
	Index             int
	MSLevel           uint8
	Polarity          Polarity
	SignalContinuity  SignalContinuity
	Params            cvparam.ParamList
	Acquisition       Acquisition
	Precursor         *Precursor
}

// PeakDataLevelKind discriminates which variant of PeakDataLevel is held.
type PeakDataLevelKind uint8

const (
	PeakDataMissing PeakDataLevelKind = iota
	PeakDataRaw
	PeakDataCentroid
	PeakDataDeconvoluted
)

// PeakDataLevel is a tagged union over a spectrum's possible peak
// representations: absent, raw binary arrays, centroided peaks, or
// deconvoluted (charge-resolved) peaks. A spectrum owns at most one
// non-missing level.
type PeakDataLevel struct {
	Kind         PeakDataLevelKind
	Raw          *bindata.BinaryArrayMap
	Centroid     *peak.PeakSet
	Deconvoluted *peak.DeconvolutedPeakSet
}

// Spectrum bundles a SpectrumDescription with a PeakDataLevel.
type Spectrum struct {
	Description SpectrumDescription
	Peaks       PeakDataLevel
}

// TryBuildPeaks promotes a raw array map to the richest peak level its
// contained arrays support: deconvoluted requires m/z, intensity, and
// charge; centroid requires m/z and intensity. Arrays falling short of
// either, or whose arrays differ in length, stay as PeakDataRaw rather
// than erroring, matching the
// "promotes when required arrays are present" contract (never panics,
// unlike the upstream implementation this is grounded on).
func (s *Spectrum) TryBuildPeaks() error {
	if s.Peaks.Kind != PeakDataRaw || s.Peaks.Raw == nil {
		return nil
	}
	raw := s.Peaks.Raw
	hasMZ := raw.HasArray(bindata.Name(bindata.MZArray))
	hasIntensity := raw.HasArray(bindata.Name(bindata.IntensityArray))
	hasCharge := raw.HasArray(bindata.Name(bindata.ChargeArray))

	if hasMZ && hasIntensity && hasCharge {
		mzs, err := raw.Mzs()
		if err != nil {
			return err
		}
		intensities, err := raw.Intensities()
		if err != nil {
			return err
		}
		charges, err := raw.Charges()
		if err != nil {
			return err
		}
		if len(intensities) != len(mzs) || len(charges) != len(mzs) {
			return nil
		}
		peaks := make([]peak.DeconvolutedPeak, len(mzs))
		for i := range mzs {
			peaks[i] = peak.DeconvolutedPeak{
				NeutralMass: neutralMass(mzs[i], charges[i]),
				Intensity:   intensities[i],
				Charge:      charges[i],
			}
		}
		s.Peaks = PeakDataLevel{Kind: PeakDataDeconvoluted, Deconvoluted: peak.NewDeconvolutedPeakSet(peaks)}
		return nil
	}
	if hasMZ && hasIntensity {
		mzs, err := raw.Mzs()
		if err != nil {
			return err
		}
		intensities, err := raw.Intensities()
		if err != nil {
			return err
		}
		if len(intensities) != len(mzs) {
			return nil
		}
		peaks := make([]peak.CentroidPeak, len(mzs))
		for i := range mzs {
			peaks[i] = peak.CentroidPeak{MZ: mzs[i], Intensity: intensities[i]}
		}
		s.Peaks = PeakDataLevel{Kind: PeakDataCentroid, Centroid: peak.NewPeakSet(peaks)}
	}
	return nil
}

const protonMass = 1.00727646688

// neutralMass converts an observed m/z and charge to the underlying
// neutral mass (used by TryBuildPeaks to fill each deconvoluted peak's
// NeutralMass).
func neutralMass(mz float64, charge int32) float64 {
	return mz*float64(charge) - float64(charge)*protonMass
}

// massToMZ is the inverse of neutralMass: the m/z a neutral mass would be
// observed at under the given charge.
func massToMZ(mass float64, charge int32) float64 {
	if charge == 0 {
		return mass
	}
	return (mass + float64(charge)*protonMass) / float64(charge)
}

// Summary holds the aggregate statistics defined consistently across every
// peak level.
type Summary struct {
	BasePeakMZ        float64
	BasePeakIntensity float32
	TIC               float64
	MZMin             float64
	MZMax             float64
	Len               int
}

// Summarize computes base peak, total ion current, m/z range, and element
// count over whichever peak level is populated.
func (s *Spectrum) Summarize() Summary {
	switch s.Peaks.Kind {
	case PeakDataRaw:
		return summarizeRaw(s.Peaks.Raw)
	case PeakDataCentroid:
		return summarizeCentroid(s.Peaks.Centroid)
	case PeakDataDeconvoluted:
		return summarizeDeconvoluted(s.Peaks.Deconvoluted)
	default:
		return Summary{}
	}
}

func summarizeRaw(m *bindata.BinaryArrayMap) Summary {
	if m == nil {
		return Summary{}
	}
	mzs, err := m.Mzs()
	if err != nil {
		return Summary{}
	}
	intensities, err := m.Intensities()
	if err != nil || len(mzs) != len(intensities) || len(mzs) == 0 {
		return Summary{Len: len(mzs)}
	}
	out := Summary{MZMin: mzs[0], MZMax: mzs[0], Len: len(mzs)}
	for i, mz := range mzs {
		out.TIC += float64(intensities[i])
		if intensities[i] > out.BasePeakIntensity {
			out.BasePeakIntensity = intensities[i]
			out.BasePeakMZ = mz
		}
		if mz < out.MZMin {
			out.MZMin = mz
		}
		if mz > out.MZMax {
			out.MZMax = mz
		}
	}
	return out
}

func summarizeCentroid(s *peak.PeakSet) Summary {
	if s == nil || s.Len() == 0 {
		return Summary{}
	}
	peaks := s.All()
	out := Summary{MZMin: peaks[0].MZ, MZMax: peaks[0].MZ, Len: len(peaks)}
	for _, p := range peaks {
		out.TIC += float64(p.Intensity)
		if p.Intensity > out.BasePeakIntensity {
			out.BasePeakIntensity = p.Intensity
			out.BasePeakMZ = p.MZ
		}
		if p.MZ < out.MZMin {
			out.MZMin = p.MZ
		}
		if p.MZ > out.MZMax {
			out.MZMax = p.MZ
		}
	}
	return out
}

func summarizeDeconvoluted(s *peak.DeconvolutedPeakSet) Summary {
	if s == nil || s.Len() == 0 {
		return Summary{}
	}
	peaks := s.All()
	first := massToMZ(peaks[0].NeutralMass, peaks[0].Charge)
	out := Summary{MZMin: first, MZMax: first, Len: len(peaks)}
	for _, p := range peaks {
		mz := massToMZ(p.NeutralMass, p.Charge)
		out.TIC += float64(p.Intensity)
		if p.Intensity > out.BasePeakIntensity {
			out.BasePeakIntensity = p.Intensity
			out.BasePeakMZ = mz
		}
		if mz < out.MZMin {
			out.MZMin = mz
		}
		if mz > out.MZMax {
			out.MZMax = mz
		}
	}
	return out
}
