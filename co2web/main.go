// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2web serves an interactive dashboard for exploring a CO₂
// emissions dataset.
//
// It loads the Our World in Data CO₂ dataset (or a user-supplied CSV
// with the same required columns) once per source, then serves one
// page with three views: the top absolute emitters for a chosen year,
// an emissions-over-time comparison highlighting one country, and the
// per-capita ranking. Fetched datasets are snapshotted to an on-disk
// cache so restarting the server does not refetch them.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sitong02/co2dash/co2data"
)

var (
	flagHTTP  = flag.String("http", "localhost:8707", "serve on `address`")
	flagData  = flag.String("data", co2data.DefaultURL, "load dataset from `source` (URL or file path)")
	flagFocus = flag.String("country", "China", "default focus `country` for the trend view")
	flagCache = flag.String("cache", defaultCacheDir(), "keep dataset snapshots in `dir` (empty disables caching)")
)

func main() {
	log.SetPrefix("co2web: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}

	loader := &co2data.Loader{CacheDir: *flagCache}
	log.Printf("loading %s", *flagData)
	ds, err := loader.Load(co2data.SourceFor(*flagData))
	if err != nil {
		log.Fatal(err)
	}
	if ds.Len() == 0 {
		log.Fatal("dataset has no usable rows")
	}

	srv := &server{
		loader:        loader,
		defaultFocus:  *flagFocus,
		defaultSource: *flagData,
		ds:            ds,
		source:        *flagData,
	}
	http.HandleFunc("/", srv.page)
	http.HandleFunc("/chart/top.svg", srv.topChart)
	http.HandleFunc("/chart/trend.svg", srv.trendChart)
	http.HandleFunc("/chart/percapita.svg", srv.perCapitaChart)
	http.HandleFunc("/upload", srv.upload)
	http.HandleFunc("/reset", srv.reset)

	log.Printf("serving on http://%s", *flagHTTP)
	log.Fatal(http.ListenAndServe(*flagHTTP, nil))
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "co2dash")
}
