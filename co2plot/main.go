// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2plot prints CO₂ emissions rankings or plots the
// emissions trend for one country against its peers.
//
// By default it writes an SVG of the focus country's emissions over
// time, compared against the other top emitters of the ranking year.
// With -table it instead prints the top absolute and per-capita
// rankings as tables, along with the world total and median for the
// ranking year.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/sitong02/co2dash/chart"
	"github.com/sitong02/co2dash/co2data"
	"github.com/sitong02/co2dash/rank"
)

var (
	flagData    = flag.String("data", co2data.DefaultURL, "load dataset from `source` (URL or file path)")
	flagCache   = flag.String("cache", defaultCacheDir(), "keep dataset snapshots in `dir` (empty disables caching)")
	flagYear    = flag.Int("year", 0, "ranking `year` (default: 2014, or the latest year)")
	flagCountry = flag.String("country", "China", "focus `country` for the trend plot")
	flagRange   = flag.String("range", "", "trend year range as `min-max` (default: 1950 to latest)")
	flagN       = flag.Int("n", 10, "rank the top `count` countries")
	flagOut     = flag.String("o", "", "write output to `file` (default: stdout)")
	flagTable   = flag.Bool("table", false, "print ranking tables instead of an SVG plot")
)

func main() {
	log.SetPrefix("co2plot: ")
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
	ds, err := loader.Load(co2data.SourceFor(*flagData))
	if err != nil {
		log.Fatal(err)
	}
	if ds.Len() == 0 {
		log.Fatal("dataset has no usable rows")
	}

	lo, hi := ds.YearRange()
	year := *flagYear
	if year == 0 {
		year = min(2014, hi)
	}
	if year < lo || year > hi {
		log.Fatalf("year %d outside dataset range %d-%d", year, lo, hi)
	}
	from, to := max(lo, 1950), hi
	if *flagRange != "" {
		from, to, err = parseRange(*flagRange)
		if err != nil {
			log.Fatal(err)
		}
	}

	f := os.Stdout
	if *flagOut != "" {
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	if *flagTable {
		printTables(f, ds, year, *flagN)
		return
	}

	series := rank.TrendSeries(ds, *flagCountry, from, to, year)
	if err := chart.Trend(f, series, 720, 480); err != nil {
		log.Fatal(err)
	}
}

func printTables(f *os.File, ds *co2data.Dataset, year, n int) {
	top, sum := rank.TopAbsolute(ds, year, n)
	fmt.Fprintf(f, "# Top emitters — %d\n", year)
	table.Fprint(f, rankTable(top, "co2 (Mt)"))
	fmt.Fprintf(f, "world total %.0f Mt, median %.0f Mt over %d countries\n",
		sum.Sum, sum.Median, sum.Count)

	fmt.Fprintf(f, "\n# Top per-capita emitters — %d\n", year)
	table.Fprint(f, rankTable(rank.TopPerCapita(ds, year, n), "co2 (t/person)"))
}

func rankTable(entries []rank.Entry, valueCol string) *table.Table {
	countries := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		countries[i] = e.Country
		values[i] = e.Value
	}
	return new(table.Builder).
		Add("country", countries).
		Add(valueCol, values).
		Done()
}

// parseRange parses a "min-max" year range.
func parseRange(s string) (from, to int, err error) {
	lo, hi, ok := strings.Cut(s, "-")
	if ok {
		from, err = strconv.Atoi(lo)
		if err == nil {
			to, err = strconv.Atoi(hi)
		}
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("bad year range %q; expected min-max", s)
	}
	if from > to {
		from, to = to, from
	}
	return from, to, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "co2dash")
}
