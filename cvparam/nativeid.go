// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cvparam

import (
	"fmt"
	"regexp"
	"strings"
)

// NativeIDFormat is a parameter whose value encodes a regular-expression
// schema with named capture groups, used to parse and re-emit a spectrum's
// native id string (e.g. "controllerType=0 controllerNumber=1 scan=20").
type NativeIDFormat struct {
	Name    string
	Pattern *regexp.Regexp
}

// groupNames returns the pattern's named capture groups in declaration
// order, skipping the unnamed (index 0) whole-match group.
func (f NativeIDFormat) groupNames() []string {
	names := f.Pattern.SubexpNames()
	out := make([]string, 0, len(names))
	for _, n := range names[1:] {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Parse matches id against the format's pattern and returns the named
// captures. ok is false if the pattern does not match.
func (f NativeIDFormat) Parse(id string) (captures map[string]string, ok bool) {
	m := f.Pattern.FindStringSubmatch(id)
	if m == nil {
		return nil, false
	}
	captures = make(map[string]string, len(m))
	for i, name := range f.Pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		captures[name] = m[i]
	}
	return captures, true
}

// Format renders values (keyed by capture group name, in the pattern's
// declared group order) back into a native id string: "key=value" tokens
// for named groups, joined by single spaces.
func (f NativeIDFormat) Format(values map[string]string) string {
	names := f.groupNames()
	tokens := make([]string, 0, len(names))
	for _, name := range names {
		if v, ok := values[name]; ok {
			tokens = append(tokens, fmt.Sprintf("%s=%s", name, v))
		}
	}
	return strings.Join(tokens, " ")
}

// Well-known native-ID formats. Additional formats may be registered with
// RegisterNativeIDFormat by a backend that recognizes a vendor-specific
// scheme not covered here.
var (
	ThermoNativeID = NativeIDFormat{
		Name:    "Thermo nativeID format",
		Pattern: regexp.MustCompile(`controllerType=(?P<controllerType>\d+) controllerNumber=(?P<controllerNumber>\d+) scan=(?P<scan>\d+)`),
	}
	BrukerScanNativeID = NativeIDFormat{
		Name:    "Bruker/Agilent scan number nativeID format",
		Pattern: regexp.MustCompile(`^scan=(?P<scan>\d+)$`),
	}
	SpectrumNativeID = NativeIDFormat{
		Name:    "spectrum index nativeID format",
		Pattern: regexp.MustCompile(`^spectrum=(?P<spectrum>\d+)$`),
	}
)

var registry = map[string]NativeIDFormat{
	ThermoNativeID.Name:     ThermoNativeID,
	BrukerScanNativeID.Name: BrukerScanNativeID,
	SpectrumNativeID.Name:   SpectrumNativeID,
}

// RegisterNativeIDFormat adds (or replaces) a format in the global registry
// so that FindNativeIDFormat can discover it.
func RegisterNativeIDFormat(f NativeIDFormat) {
	registry[f.Name] = f
}

// FindNativeIDFormat returns the first registered format whose pattern
// matches id, trying Thermo, then Bruker/Agilent, then the generic
// spectrum-index fallback, then any format registered afterwards.
func FindNativeIDFormat(id string) (NativeIDFormat, bool) {
	for _, f := range []NativeIDFormat{ThermoNativeID, BrukerScanNativeID, SpectrumNativeID} {
		if _, ok := f.Parse(id); ok {
			return f, true
		}
	}
	for name, f := range registry {
		if name == ThermoNativeID.Name || name == BrukerScanNativeID.Name || name == SpectrumNativeID.Name {
			continue
		}
		if _, ok := f.Parse(id); ok {
			return f, true
		}
	}
	return NativeIDFormat{}, false
}
