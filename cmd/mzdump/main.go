// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command mzdump is a thin CLI surface over the mzdata reader stack: it
// dumps per-spectrum summaries (id, ms level, TIC, base peak, m/z range)
// from any supported container, using a cobra root+subcommand layout with
// a bounded worker pool for directory fan-out.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/saferwall/mzdata"
	"github.com/saferwall/mzdata/imzml"
	"github.com/saferwall/mzdata/iterator"
	"github.com/saferwall/mzdata/mgf"
	"github.com/saferwall/mzdata/mzio"
	"github.com/saferwall/mzdata/mzml"
	"github.com/saferwall/mzdata/mzmlb"
)

var (
	wantMS1  bool
	wantMSn  bool
	workers  int
)

type record struct {
	Path     string  `json:"path"`
	ID       string  `json:"id"`
	Index    int     `json:"index"`
	MSLevel  uint8   `json:"ms_level"`
	TIC      float64 `json:"tic"`
	BasePeak float64 `json:"base_peak_mz"`
	MZLow    float64 `json:"mz_min"`
	MZHigh   float64 `json:"mz_max"`
}

func dumpOne(path string) ([]record, error) {
	format, gzipped := mzio.InferFormat(path)
	if gzipped {
		return nil, fmt.Errorf("mzdump: %s: gzipped files are not supported by this dumper", path)
	}

	var out []record
	emit := func(spec *mzdata.Spectrum) {
		s := spec.Summarize()
		out = append(out, record{
			Path: path, ID: spec.Description.ID, Index: spec.Description.Index,
			MSLevel: spec.Description.MSLevel, TIC: s.TIC, BasePeak: s.BasePeakMZ,
			MZLow: s.MZMin, MZHigh: s.MZMax,
		})
	}
	keep := func(level uint8) bool {
		if level <= 1 {
			return wantMS1
		}
		return wantMSn
	}

	switch format {
	case mzio.FormatMzML:
		r, err := mzml.Open(path, mzml.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		for spec, err := range iterator.Iter(r) {
			if err != nil {
				return out, err
			}
			if keep(spec.Description.MSLevel) {
				emit(spec)
			}
		}
	case mzio.FormatMzMLb:
		r, err := mzmlb.Open(path, mzmlb.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer r.Close()
		for spec, err := range iterator.Iter(r) {
			if err != nil {
				return out, err
			}
			if keep(spec.Description.MSLevel) {
				emit(spec)
			}
		}
	case mzio.FormatImzML:
		r, err := imzml.Open(path, imzml.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer r.Close()
		for spec, err := range iterator.Iter(r) {
			if err != nil {
				return out, err
			}
			if keep(spec.Description.MSLevel) {
				emit(spec)
			}
		}
	case mzio.FormatMGF:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		mr := mgf.NewReader(f)
		for {
			spec, err := mr.Next()
			if err != nil {
				break
			}
			if keep(spec.Description.MSLevel) {
				emit(spec)
			}
		}
	default:
		return nil, fmt.Errorf("mzdump: %s: unrecognized or unsupported format", path)
	}
	return out, nil
}

func walkAndDump(root string) ([]record, error) {
	var paths []string
	if info, err := os.Stat(root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		paths = []string{root}
	} else {
		if err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				paths = append(paths, p)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	jobs := make(chan string, len(paths))
	results := make(chan []record, len(paths))
	var wg sync.WaitGroup
	n := workers
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				recs, err := dumpOne(p)
				if err != nil {
					fmt.Fprintf(os.Stderr, "mzdump: %s: %v\n", p, err)
					continue
				}
				results <- recs
			}
		}()
	}
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)
	go func() { wg.Wait(); close(results) }()

	var all []record
	for recs := range results {
		all = append(all, recs...)
	}
	return all, nil
}

func main() {
	root := &cobra.Command{
		Use:   "mzdump",
		Short: "A mass-spectrometry container dumper",
		Long:  "Dumps per-spectrum summaries from mzML, mzMLb, imzML, and MGF containers.",
	}

	dump := &cobra.Command{
		Use:   "dump [file-or-directory]",
		Short: "Dumps spectrum summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := walkAndDump(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
	dump.Flags().BoolVar(&wantMS1, "ms1", true, "include MS1 spectra")
	dump.Flags().BoolVar(&wantMSn, "ms2", true, "include MSn (n>1) spectra")
	dump.Flags().IntVar(&workers, "workers", 4, "concurrent files processed when given a directory")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mzdump version 0.1.0")
		},
	}

	root.AddCommand(dump, version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
