// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mgf

import (
	"fmt"
	"io"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
)

// Writer emits MGF blocks: a BEGIN IONS/header/peak-rows/END IONS
// sequence per spectrum, matching the on-disk MGF contract.
type Writer struct {
	w io.Writer
}

// NewWriter wraps an io.Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteSpectrum emits one spectrum as an MGF block.
func (w *Writer) WriteSpectrum(spec *mzdata.Spectrum) error {
	if _, err := fmt.Fprintln(w.w, "BEGIN IONS"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "TITLE=%s\n", spec.Description.ID); err != nil {
		return err
	}
	if len(spec.Description.Acquisition.Scans) > 0 {
		rt := spec.Description.Acquisition.StartTime() * 60
		if _, err := fmt.Fprintf(w.w, "RTINSECONDS=%g\n", rt); err != nil {
			return err
		}
	}
	if p := spec.Description.Precursor; p != nil {
		if _, err := fmt.Fprintf(w.w, "PEPMASS=%g", p.SelectedIon.MZ); err != nil {
			return err
		}
		if p.SelectedIon.Intensity != 0 {
			if _, err := fmt.Fprintf(w.w, " %g", p.SelectedIon.Intensity); err != nil {
				return err
			}
		}
		if p.SelectedIon.Charge != nil {
			sign := "+"
			mag := *p.SelectedIon.Charge
			if mag < 0 {
				sign = "-"
				mag = -mag
			}
			if _, err := fmt.Fprintf(w.w, " %d%s", mag, sign); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w.w); err != nil {
			return err
		}
		if p.SelectedIon.Charge != nil {
			sign := "+"
			mag := *p.SelectedIon.Charge
			if mag < 0 {
				sign = "-"
				mag = -mag
			}
			if _, err := fmt.Fprintf(w.w, "CHARGE=%d%s\n", mag, sign); err != nil {
				return err
			}
		}
	}

	if spec.Peaks.Kind != mzdata.PeakDataRaw || spec.Peaks.Raw == nil {
		_, err := fmt.Fprintln(w.w, "END IONS")
		return err
	}
	mzs, err := spec.Peaks.Raw.Mzs()
	if err != nil {
		return err
	}
	var intensities []float32
	if spec.Peaks.Raw.HasArray(bindata.Name(bindata.IntensityArray)) {
		intensities, _ = spec.Peaks.Raw.Intensities()
	}
	var charges []int32
	if spec.Peaks.Raw.HasArray(bindata.Name(bindata.ChargeArray)) {
		charges, _ = spec.Peaks.Raw.Charges()
	}
	for i, mz := range mzs {
		intensity := float32(0)
		if i < len(intensities) {
			intensity = intensities[i]
		}
		if len(charges) > i {
			if _, err := fmt.Fprintf(w.w, "%g\t%g\t%d\n", mz, intensity, charges[i]); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w.w, "%g\t%g\n", mz, intensity); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintln(w.w, "END IONS")
	return err
}
