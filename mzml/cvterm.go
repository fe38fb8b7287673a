// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mzml

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/saferwall/mzdata/bindata"
	"github.com/saferwall/mzdata/cvparam"
)

// cvParamXML mirrors a <cvParam> element's attributes.
type cvParamXML struct {
	Accession string `xml:"accession,attr"`
	CVRef     string `xml:"cvRef,attr"`
	Name      string `xml:"name,attr"`
	Value     string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

// userParamXML mirrors a <userParam> element's attributes.
type userParamXML struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"`
}

func paramFromCVAttrs(start xml.StartElement) cvparam.Param {
	p := cvparam.Param{}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "accession":
			p.Accession = a.Value
		case "cvRef":
			p.CVRef = a.Value
		case "name":
			p.Name = a.Value
		case "value":
			p.Value = a.Value
		case "unitAccession":
			p.Unit = cvparam.Unit(a.Value)
		}
	}
	return p
}

func paramFromUserAttrs(start xml.StartElement) cvparam.Param {
	p := cvparam.Param{}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "name":
			p.Name = a.Value
		case "value":
			p.Value = a.Value
		}
	}
	return p
}

// applyBinaryDataArrayParam routes a single cvParam seen inside a
// <binaryDataArray>/<cvParam> element onto the array being built: the
// MS:1002312..1002314 family (and *Zlib siblings) sets compression; array
// name parameters set the semantic name; numeric-type parameters set
// dtype.
func applyBinaryDataArrayParam(arr *bindata.DataArray, p cvparam.Param) {
	if compression, ok := bindata.CompressionFromAccession(p.Accession); ok {
		arr.Compression = compression
		return
	}
	if name, ok := bindata.ArrayNameFromParamName(p.Name, p.Value); ok {
		arr.Name = name
		return
	}
	switch p.Accession {
	case "MS:1000521": // 32-bit float
		arr.DType = bindata.Float32
	case "MS:1000523": // 64-bit float
		arr.DType = bindata.Float64
	case "MS:1000519": // 32-bit integer
		arr.DType = bindata.Int32
	case "MS:1000522": // 64-bit integer
		arr.DType = bindata.Int64
	case "MS:1000576": // no compression
		arr.Compression = bindata.NoCompression
	case "MS:1002841": // external HDF5 dataset name (mzMLb)
		ref := externalRef(arr)
		name := p.Value
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		ref.Dataset += name
	case "MS:1002842": // external offset (mzMLb, imzML)
		externalRef(arr).Offset, _ = strconv.ParseInt(p.Value, 10, 64)
	case "MS:1002843": // external array length (mzMLb, imzML)
		externalRef(arr).Length, _ = strconv.ParseInt(p.Value, 10, 64)
	case "IMS:1000102": // external offset (imzML ibd file, byte offset)
		externalRef(arr).Offset, _ = strconv.ParseInt(p.Value, 10, 64)
	case "IMS:1000103": // external array length (imzML, element count)
		externalRef(arr).Length, _ = strconv.ParseInt(p.Value, 10, 64)
	case "IMS:1000104": // external encoded length (informational, not used for reads)
	}
}

// externalRef lazily attaches an ExternalRef to arr so repeated calls
// accumulate dataset/offset/length onto the same struct.
func externalRef(arr *bindata.DataArray) *bindata.ExternalRef {
	if arr.External == nil {
		arr.External = &bindata.ExternalRef{}
	}
	return arr.External
}
