// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mgf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
	"github.com/saferwall/mzdata/offsetindex"
)

// Reader parses an MGF stream into spectra, one BEGIN IONS/END IONS block
// at a time.
type Reader struct {
	scanner *bufio.Scanner
	state   State
}

// NewReader wraps an io.Reader for sequential, single-pass parsing.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r), state: Start}
}

// Next parses and returns the next spectrum block, or io.EOF when the
// stream is exhausted.
func (r *Reader) Next() (*mzdata.Spectrum, error) {
	var spec *mzdata.Spectrum
	var mzs, intensities []float64
	var charges []int32
	haveCharge := false

	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case line == "BEGIN IONS":
			r.state = ScanHeaders
			spec = &mzdata.Spectrum{}
			spec.Description.MSLevel = 2
			spec.Description.SignalContinuity = mzdata.SignalContinuityCentroid
			mzs, intensities, charges, haveCharge = nil, nil, nil, false
		case line == "END IONS":
			r.state = Between
			if spec == nil {
				return nil, errMalformedHeaderLine("END IONS without matching BEGIN IONS")
			}
			arrays := bindata.NewBinaryArrayMap()
			mzArr := bindata.NewDataArray(bindata.Name(bindata.MZArray))
			for _, v := range mzs {
				if err := mzArr.Push(v); err != nil {
					return nil, err
				}
			}
			intensityArr := bindata.NewDataArray(bindata.Name(bindata.IntensityArray))
			for _, v := range intensities {
				if err := intensityArr.Push(v); err != nil {
					return nil, err
				}
			}
			arrays.Add(mzArr)
			arrays.Add(intensityArr)
			if haveCharge {
				chargeArr := bindata.NewDataArray(bindata.Name(bindata.ChargeArray))
				for _, c := range charges {
					if err := chargeArr.Push(float64(c)); err != nil {
						return nil, err
					}
				}
				arrays.Add(chargeArr)
			}
			spec.Peaks = mzdata.PeakDataLevel{Kind: mzdata.PeakDataRaw, Raw: arrays}
			if err := spec.TryBuildPeaks(); err != nil {
				return nil, err
			}
			return spec, nil
		case r.state == ScanHeaders && isHeaderLine(line):
			if spec == nil {
				return nil, errMalformedHeaderLine("header line outside BEGIN IONS block")
			}
			if err := applyHeaderLine(spec, line); err != nil {
				return nil, err
			}
		default:
			if spec == nil {
				continue // preamble before the first BEGIN IONS
			}
			r.state = Peaks
			mz, intensity, charge, hasCharge, err := parsePeakLine(line)
			if err != nil {
				return nil, err
			}
			mzs = append(mzs, mz)
			intensities = append(intensities, intensity)
			if hasCharge {
				haveCharge = true
				for len(charges) < len(mzs)-1 {
					charges = append(charges, 0)
				}
				charges = append(charges, charge)
			} else if haveCharge {
				charges = append(charges, 0)
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func isHeaderLine(line string) bool {
	idx := strings.IndexByte(line, '=')
	if idx <= 0 {
		return false
	}
	key := line[:idx]
	for _, c := range key {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func applyHeaderLine(spec *mzdata.Spectrum, line string) error {
	idx := strings.IndexByte(line, '=')
	key, value := line[:idx], line[idx+1:]
	switch key {
	case "TITLE":
		spec.Description.ID = value
	case "RTINSECONDS":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errMalformedHeaderLine("RTINSECONDS: " + err.Error())
		}
		spec.Description.Acquisition.Scans = append(spec.Description.Acquisition.Scans, mzdata.ScanEvent{
			StartTime: seconds / 60,
		})
	case "PEPMASS":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return errMalformedHeaderLine("PEPMASS: empty")
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return errMalformedHeaderLine("PEPMASS mz: " + err.Error())
		}
		ion := mzdata.SelectedIon{MZ: mz}
		if len(fields) > 1 {
			if intensity, err := strconv.ParseFloat(fields[1], 64); err == nil {
				ion.Intensity = float32(intensity)
			}
		}
		if len(fields) > 2 {
			if charge, _, err := parseChargeToken(fields[2]); err == nil {
				ion.Charge = &charge
			}
		}
		spec.Description.Precursor = &mzdata.Precursor{SelectedIon: ion}
	case "CHARGE":
		charge, _, err := parseChargeToken(value)
		if err != nil {
			return errMalformedHeaderLine("CHARGE: " + err.Error())
		}
		if spec.Description.Precursor == nil {
			spec.Description.Precursor = &mzdata.Precursor{}
		}
		spec.Description.Precursor.SelectedIon.Charge = &charge
	default:
		spec.Description.Params.Push(cvparam.Param{Name: strings.ToLower(key), Value: value})
	}
	return nil
}

// parseChargeToken parses an MGF charge token: a magnitude followed by an
// optional trailing sign character (e.g. "2+", "1-"); a leading sign
// after stripping the trailing one is an error.
func parseChargeToken(tok string) (int32, bool, error) {
	if tok == "" {
		return 0, false, errMalformedHeaderLine("empty charge token")
	}
	sign := int32(1)
	body := tok
	last := tok[len(tok)-1]
	if last == '+' || last == '-' {
		if last == '-' {
			sign = -1
		}
		body = tok[:len(tok)-1]
	}
	if body == "" {
		return 0, false, errMalformedHeaderLine("charge token has no magnitude: " + tok)
	}
	if body[0] == '+' || body[0] == '-' {
		return 0, false, errMalformedHeaderLine("charge token has a leading sign after stripping trailing sign: " + tok)
	}
	mag, err := strconv.ParseInt(body, 10, 32)
	if err != nil {
		return 0, false, errMalformedHeaderLine("charge magnitude: " + err.Error())
	}
	return int32(mag) * sign, true, nil
}

func parsePeakLine(line string) (mz, intensity float64, charge int32, hasCharge bool, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, 0, false, errNotEnoughColumns(line)
	}
	mz, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, 0, false, errMalformedPeakLine(line)
	}
	intensity, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, 0, false, errMalformedPeakLine(line)
	}
	if len(fields) >= 3 {
		c, _, cerr := parseChargeToken(fields[2])
		if cerr != nil {
			return 0, 0, 0, false, errMalformedPeakLine(line)
		}
		charge, hasCharge = c, true
	}
	return mz, intensity, charge, hasCharge, nil
}

// BuildOffsetIndex scans r once, recording the byte offset of every
// BEGIN IONS line keyed by its block's TITLE value (blocks with an empty
// title are skipped). r must support io.Seeker so the index build can
// rewind the stream afterward.
func BuildOffsetIndex(r io.ReadSeeker) (*offsetindex.OffsetIndex, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	idx := offsetindex.New()
	br := bufio.NewReader(r)
	var offset int64
	var pendingOffset int64
	var pending bool

	for {
		line, err := br.ReadString('\n')
		lineLen := int64(len(line))
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "BEGIN IONS":
			pendingOffset = offset
			pending = true
		case pending && strings.HasPrefix(trimmed, "TITLE="):
			title := strings.TrimSpace(trimmed[len("TITLE="):])
			if title != "" {
				idx.Insert(title, pendingOffset)
			}
			pending = false
		}
		offset += lineLen
		if err != nil {
			break
		}
	}
	idx.Init()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return idx, nil
}
