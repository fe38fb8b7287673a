// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"bufio"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"

	"github.com/saferwall/mzdata/offsetindex"
)

// indexListOffsetPattern matches the trailing <indexListOffset>N</indexListOffset>
// element, used for the tail-of-file index extraction.
var indexListOffsetPattern = regexp.MustCompile(`<indexListOffset>(\d+)</indexListOffset>`)

const indexTailWindow = 200

// extractIndexListOffset seeks to the last indexTailWindow bytes of r and
// regex-extracts the indexListOffset value. Returns ok=false if the
// pattern is absent or the seek/read fails (the caller falls back to a
// linear scan).
func extractIndexListOffset(r io.ReaderAt, size int64) (int64, bool) {
	start := size - indexTailWindow
	if start < 0 {
		start = 0
	}
	buf := make([]byte, size-start)
	if _, err := r.ReadAt(buf, start); err != nil && err != io.EOF {
		return 0, false
	}
	m := indexListOffsetPattern.FindSubmatch(buf)
	if m == nil {
		return 0, false
	}
	offset, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// parseIndexList reads the <indexList> element starting at the current
// decoder position, populating spectrum and chromatogram offset indices.
func parseIndexList(dec *xml.Decoder) (spectra, chromatograms *offsetindex.OffsetIndex, err error) {
	spectra = offsetindex.New()
	chromatograms = offsetindex.New()
	var currentIndex *offsetindex.OffsetIndex
	var currentID string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errXML(Resume, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "index":
				name := attr(xml.StartElement{Attr: t.Attr}, "name")
				if name == "chromatogram" {
					currentIndex = chromatograms
				} else {
					currentIndex = spectra
				}
			case "offset":
				currentID = attr(xml.StartElement{Attr: t.Attr}, "idRef")
			}
		case xml.CharData:
			if currentIndex != nil && currentID != "" {
				if v, err := strconv.ParseInt(string(t), 10, 64); err == nil {
					currentIndex.Insert(currentID, v)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "offset":
				currentID = ""
			case "indexList":
				spectra.Init()
				chromatograms.Init()
				return spectra, chromatograms, nil
			}
		}
	}
	spectra.Init()
	chromatograms.Init()
	return spectra, chromatograms, nil
}

// linearScanIndex builds an offset index by scanning the whole stream
// recording the byte offset of every <spectrum and <chromatogram element,
// the fallback path when no indexedmzML envelope is present or it is
// corrupt.
func linearScanIndex(r io.ReadSeeker) (spectra, chromatograms *offsetindex.OffsetIndex, err error) {
	spectra = offsetindex.New()
	chromatograms = offsetindex.New()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(r)
	dec := xml.NewDecoder(br)
	var offset int64

	for {
		startOffset := offset
		tok, terr := dec.Token()
		offset = dec.InputOffset()
		if terr == io.EOF {
			break
		}
		if terr != nil {
			return nil, nil, errXML(Resume, terr)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "spectrum":
			spectra.Insert(attr(start, "id"), startOffset)
		case "chromatogram":
			chromatograms.Insert(attr(start, "id"), startOffset)
		}
	}
	spectra.Init()
	chromatograms.Init()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	return spectra, chromatograms, nil
}
