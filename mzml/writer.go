// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
)

// WriterOptions configures a Writer. The Writer does not consult
// InlineReferenceGroups: it never emits a referenceableParamGroupList,
// and FileMetadata.ReferenceParamGroups is not written.
type WriterOptions struct {
	InlineReferenceGroups bool
}

// Writer serializes spectra into an indexedmzML document, tracking byte
// offsets as it writes so it can emit a trailing <indexList>.
type Writer struct {
	w       *bufio.Writer
	offset  int64
	opts    WriterOptions
	spectrumOffsets []indexEntry
	written int

	// externalArrayer, when set, lets an outer format (mzMLb, imzML) park
	// an array's bytes in its own backing store instead of inline base64:
	// it returns the external-reference triple to emit as cvParams, and
	// ok=false to fall back to the default inline encoding.
	externalArrayer func(arr *bindata.DataArray) (dataset string, offset, length int64, ok bool, err error)

	// externalIMS selects the IMS-vocabulary external-reference cvParams
	// (imzML) instead of the mzMLb MS:1002841-3 triple.
	externalIMS bool
}

// SetExternalArrayer installs the callback used to offload binary data
// array content to an external store instead of inline base64.
func (w *Writer) SetExternalArrayer(fn func(arr *bindata.DataArray) (dataset string, offset, length int64, ok bool, err error)) {
	w.externalArrayer = fn
}

// UseIMSExternalParams switches the external-reference cvParam triple
// emitted by writeBinaryDataArray from mzMLb's MS:1002841-3 to imzML's
// IMS:1000102-4, for writers whose externalArrayer targets an ibd file
// rather than an HDF5 dataset.
func (w *Writer) UseIMSExternalParams(on bool) { w.externalIMS = on }

type indexEntry struct {
	id     string
	offset int64
}

// NewWriter wraps an io.Writer, storing opts as given.
func NewWriter(w io.Writer, opts WriterOptions) *Writer {
	return &Writer{w: bufio.NewWriter(w), opts: opts}
}

func (w *Writer) writeString(s string) {
	n, _ := w.w.WriteString(s)
	w.offset += int64(n)
}

// WriteHeader emits the XML declaration, the indexedmzML/mzML open tags,
// and the file-scoped metadata sections.
func (w *Writer) WriteHeader(meta *FileMetadata) error {
	w.writeString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	w.writeString(`<indexedmzML xmlns="http://psi.hupo.org/ms/mzml">` + "\n")
	w.writeString(`<mzML xmlns="http://psi.hupo.org/ms/mzml" version="1.1.0">` + "\n")

	w.writeString(`<fileDescription>` + "\n<fileContent>\n")
	writeParamList(w, meta.FileDescription.Contents)
	w.writeString("</fileContent>\n<sourceFileList count=\"" + strconv.Itoa(len(meta.FileDescription.SourceFiles)) + "\">\n")
	for _, sf := range meta.FileDescription.SourceFiles {
		w.writeString(fmt.Sprintf("<sourceFile id=%q name=%q location=%q>\n", sf.ID, sf.Name, sf.Location))
		writeParamList(w, sf.Params)
		w.writeString("</sourceFile>\n")
	}
	w.writeString("</sourceFileList>\n</fileDescription>\n")

	w.writeString(fmt.Sprintf("<softwareList count=%q>\n", strconv.Itoa(len(meta.Software))))
	for _, sw := range meta.Software {
		w.writeString(fmt.Sprintf("<software id=%q version=%q>\n", sw.ID, sw.Version))
		writeParamList(w, sw.Params)
		w.writeString("</software>\n")
	}
	w.writeString("</softwareList>\n")

	w.writeString(fmt.Sprintf("<instrumentConfigurationList count=%q>\n", strconv.Itoa(len(meta.InstrumentConfigurations))))
	for _, ic := range meta.InstrumentConfigurations {
		w.writeString(fmt.Sprintf("<instrumentConfiguration id=%q>\n", ic.ID))
		writeParamList(w, ic.Params)
		w.writeString("<componentList count=\"" + strconv.Itoa(len(ic.Components)) + "\">\n")
		for _, c := range ic.Components {
			w.writeString(fmt.Sprintf("<%s order=%q>\n", c.Kind, strconv.Itoa(c.Order)))
			writeParamList(w, c.Params)
			w.writeString(fmt.Sprintf("</%s>\n", c.Kind))
		}
		w.writeString("</componentList>\n</instrumentConfiguration>\n")
	}
	w.writeString("</instrumentConfigurationList>\n")

	w.writeString(fmt.Sprintf("<dataProcessingList count=%q>\n", strconv.Itoa(len(meta.DataProcessings))))
	for _, dp := range meta.DataProcessings {
		w.writeString(fmt.Sprintf("<dataProcessing id=%q>\n", dp.ID))
		for _, m := range dp.Methods {
			w.writeString(fmt.Sprintf("<processingMethod order=%q softwareRef=%q>\n", strconv.Itoa(m.Order), m.SoftwareRef))
			writeParamList(w, m.Params)
			w.writeString("</processingMethod>\n")
		}
		w.writeString("</dataProcessing>\n")
	}
	w.writeString("</dataProcessingList>\n")

	w.writeString(fmt.Sprintf("<run id=%q defaultInstrumentConfigurationRef=%q>\n", meta.Run.ID, meta.Run.DefaultInstrumentConfigRef))
	// TODO: count is unknown until every WriteSpectrum call has landed; a
	// writer that needs an exact count must seek back and patch this
	// attribute, which a plain io.Writer sink can't do. Until callers need
	// strict validation against this count, 0 is a placeholder.
	w.writeString(`<spectrumList count="0">` + "\n")
	return nil
}

func writeParamList(w *Writer, params cvparam.ParamList) {
	for _, p := range params {
		if p.IsUserParam() {
			w.writeString(fmt.Sprintf("<userParam name=%q value=%q/>\n", p.Name, p.Value))
			continue
		}
		unit := ""
		if p.Unit != cvparam.UnitUnknown {
			unit = fmt.Sprintf(" unitAccession=%q", string(p.Unit))
		}
		w.writeString(fmt.Sprintf("<cvParam cvRef=%q accession=%q name=%q value=%q%s/>\n", p.CVRef, p.Accession, p.Name, p.Value, unit))
	}
}

// WriteSpectrum serializes one spectrum and records its offset for the
// trailing index.
func (w *Writer) WriteSpectrum(spec *mzdata.Spectrum) error {
	w.spectrumOffsets = append(w.spectrumOffsets, indexEntry{id: spec.Description.ID, offset: w.offset})

	d := spec.Description
	w.writeString(fmt.Sprintf("<spectrum id=%q index=%q defaultArrayLength=\"0\">\n", d.ID, strconv.Itoa(d.Index)))
	w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000511\" name=\"ms level\" value=%q/>\n", strconv.Itoa(int(d.MSLevel))))
	writeParamList(w, d.Params)

	if len(d.Acquisition.Scans) > 0 {
		w.writeString("<scanList count=\"" + strconv.Itoa(len(d.Acquisition.Scans)) + "\">\n")
		for _, scan := range d.Acquisition.Scans {
			w.writeString(fmt.Sprintf("<scan instrumentConfigurationRef=%q>\n", scan.InstrumentConfigurationRef))
			w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000016\" name=\"scan start time\" value=%q/>\n", strconv.FormatFloat(scan.StartTime, 'g', -1, 64)))
			writeParamList(w, scan.Params)
			if len(scan.ScanWindows) > 0 {
				w.writeString("<scanWindowList count=\"" + strconv.Itoa(len(scan.ScanWindows)) + "\">\n")
				for _, win := range scan.ScanWindows {
					w.writeString("<scanWindow>\n")
					w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000501\" name=\"scan window lower limit\" value=%q/>\n", strconv.FormatFloat(win.Lower, 'g', -1, 64)))
					w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000500\" name=\"scan window upper limit\" value=%q/>\n", strconv.FormatFloat(win.Upper, 'g', -1, 64)))
					w.writeString("</scanWindow>\n")
				}
				w.writeString("</scanWindowList>\n")
			}
			w.writeString("</scan>\n")
		}
		w.writeString("</scanList>\n")
	}

	if d.Precursor != nil {
		w.writeString("<precursorList count=\"1\">\n<precursor")
		if d.Precursor.PrecursorID != "" {
			w.writeString(fmt.Sprintf(" spectrumRef=%q", d.Precursor.PrecursorID))
		}
		w.writeString(">\n<isolationWindow>\n")
		w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000827\" name=\"isolation window target m/z\" value=%q/>\n", strconv.FormatFloat(d.Precursor.IsolationWindow.Target, 'g', -1, 64)))
		w.writeString("</isolationWindow>\n<selectedIonList count=\"1\">\n<selectedIon>\n")
		w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000744\" name=\"selected ion m/z\" value=%q/>\n", strconv.FormatFloat(d.Precursor.SelectedIon.MZ, 'g', -1, 64)))
		if d.Precursor.SelectedIon.Charge != nil {
			w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1000041\" name=\"charge state\" value=%q/>\n", strconv.Itoa(int(*d.Precursor.SelectedIon.Charge))))
		}
		w.writeString("</selectedIon>\n</selectedIonList>\n<activation>\n")
		writeParamList(w, d.Precursor.Activation.Params)
		w.writeString("</activation>\n</precursor>\n</precursorList>\n")
	}

	if spec.Peaks.Kind == mzdata.PeakDataRaw && spec.Peaks.Raw != nil {
		arrays := spec.Peaks.Raw
		w.writeString(fmt.Sprintf("<binaryDataArrayList count=%q>\n", strconv.Itoa(arrays.Len())))
		var werr error
		arrays.Iter(func(arr *bindata.DataArray) bool {
			if e := w.writeBinaryDataArray(arr); e != nil {
				werr = e
				return false
			}
			return true
		})
		if werr != nil {
			return werr
		}
		w.writeString("</binaryDataArrayList>\n")
	}

	w.writeString("</spectrum>\n")
	w.written++
	return nil
}

// dtypeParam maps a DataArray's dtype to the binary-data-type cvParam every
// real binaryDataArray element declares, mirroring applyBinaryDataArrayParam's
// read-side MS:1000521/523/519/522 cases.
func dtypeParam(dt bindata.DType) (accession, name string, ok bool) {
	switch dt {
	case bindata.Float32:
		return "MS:1000521", "32-bit float", true
	case bindata.Float64:
		return "MS:1000523", "64-bit float", true
	case bindata.Int32:
		return "MS:1000519", "32-bit integer", true
	case bindata.Int64:
		return "MS:1000522", "64-bit integer", true
	default:
		return "", "", false
	}
}

func (w *Writer) writeBinaryDataArray(arr *bindata.DataArray) error {
	if w.externalArrayer != nil {
		dataset, offset, length, ok, err := w.externalArrayer(arr)
		if err != nil {
			return err
		}
		if ok {
			w.writeString("<binaryDataArray encodedLength=\"0\">\n")
			if dtypeAccession, dtypeName, ok := dtypeParam(arr.DType); ok {
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=%q name=%q/>\n", dtypeAccession, dtypeName))
			}
			nameParam := arr.Name.AsParam()
			w.writeString(fmt.Sprintf("<cvParam cvRef=%q accession=%q name=%q/>\n", nameParam.CVRef, nameParam.Accession, nameParam.Name))
			if w.externalIMS {
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"IMS\" accession=\"IMS:1000102\" name=\"external offset\" value=%q/>\n", strconv.FormatInt(offset, 10)))
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"IMS\" accession=\"IMS:1000103\" name=\"external array length\" value=%q/>\n", strconv.FormatInt(length, 10)))
			} else {
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1002841\" name=\"external HDF5 dataset\" value=%q/>\n", dataset))
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1002843\" name=\"external array length\" value=%q/>\n", strconv.FormatInt(length, 10)))
				w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=\"MS:1002842\" name=\"external offset\" value=%q/>\n", strconv.FormatInt(offset, 10)))
			}
			w.writeString("<binary></binary>\n</binaryDataArray>\n")
			return nil
		}
	}

	if err := arr.StoreAs(bindata.NoCompression); err != nil {
		return err
	}
	raw := arr.SliceBuffer()
	encoded := base64.StdEncoding.EncodeToString(raw)

	w.writeString(fmt.Sprintf("<binaryDataArray encodedLength=%q>\n", strconv.Itoa(len(encoded))))
	if dtypeAccession, dtypeName, ok := dtypeParam(arr.DType); ok {
		w.writeString(fmt.Sprintf("<cvParam cvRef=\"MS\" accession=%q name=%q/>\n", dtypeAccession, dtypeName))
	}
	nameParam := arr.Name.AsParam()
	w.writeString(fmt.Sprintf("<cvParam cvRef=%q accession=%q name=%q/>\n", nameParam.CVRef, nameParam.Accession, nameParam.Name))
	if compParam, ok := arr.Compression.AsParam(); ok {
		w.writeString(fmt.Sprintf("<cvParam cvRef=%q accession=%q name=%q/>\n", compParam.CVRef, compParam.Accession, compParam.Name))
	}
	w.writeString("<binary>" + encoded + "</binary>\n</binaryDataArray>\n")
	return nil
}

// Close emits the closing tags, the trailing indexList, and the final
// indexListOffset, flushing the underlying writer.
func (w *Writer) Close() error {
	w.writeString("</spectrumList>\n</run>\n</mzML>\n")
	indexListOffset := w.offset
	w.writeString(fmt.Sprintf("<indexList count=\"1\">\n<index name=\"spectrum\">\n"))
	for _, e := range w.spectrumOffsets {
		w.writeString(fmt.Sprintf("<offset idRef=%q>%d</offset>\n", e.id, e.offset))
	}
	w.writeString("</index>\n</indexList>\n")
	w.writeString(fmt.Sprintf("<indexListOffset>%d</indexListOffset>\n", indexListOffset))
	w.writeString("</indexedmzML>\n")
	return w.w.Flush()
}
