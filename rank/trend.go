// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rank

import (
	"math"
	"sort"

	"github.com/sitong02/co2dash/co2data"
)

// A Series is one country's absolute co2 over time, sorted by year.
// Exactly one series in a TrendSeries result has Focus set.
type Series struct {
	Country string
	Focus   bool
	Years   []int
	CO2     []float64
}

// maxPeers bounds the comparison pool: top 8 by co2 in the ranking
// year, minus the focus country, keeping at most 5.
const (
	poolSize = 8
	maxPeers = 5
)

// TrendSeries returns the co2-over-time series for focus plus its
// comparison peers, restricted to years in [minYear, maxYear]. Peers
// are the top emitters of rankingYear. Note that the peer pool is
// drawn from the raw per-year ranking, with no aggregate-row
// exclusion, so "World" can show up as a peer; that mirrors the
// upstream dashboard and is kept deliberately.
//
// The focus series is always first and is returned even when it has
// no observations in range. Peers with no observations are omitted.
// If rankingYear has no data the result is the focus series alone.
func TrendSeries(ds *co2data.Dataset, focus string, minYear, maxYear, rankingYear int) []Series {
	pool := topCountries(ds, rankingYear, poolSize)
	var peers []string
	for _, c := range pool {
		if c == focus {
			continue
		}
		peers = append(peers, c)
		if len(peers) == maxPeers {
			break
		}
	}

	series := []Series{collect(ds, focus, minYear, maxYear, true)}
	for _, peer := range peers {
		s := collect(ds, peer, minYear, maxYear, false)
		if len(s.Years) > 0 {
			series = append(series, s)
		}
	}
	return series
}

// topCountries returns the countries with the n largest co2 values in
// year, descending, with no aggregate filtering.
func topCountries(ds *co2data.Dataset, year, n int) []string {
	var entries []Entry
	for i := range ds.Country {
		if ds.Year[i] != year || math.IsNaN(ds.CO2[i]) {
			continue
		}
		entries = append(entries, Entry{Country: ds.Country[i], Value: ds.CO2[i]})
	}
	entries = top(entries, n)
	countries := make([]string, len(entries))
	for i, e := range entries {
		countries[i] = e.Country
	}
	return countries
}

func collect(ds *co2data.Dataset, country string, minYear, maxYear int, focus bool) Series {
	s := Series{Country: country, Focus: focus}
	for i := range ds.Country {
		if ds.Country[i] != country || ds.Year[i] < minYear || ds.Year[i] > maxYear {
			continue
		}
		if math.IsNaN(ds.CO2[i]) {
			continue
		}
		s.Years = append(s.Years, ds.Year[i])
		s.CO2 = append(s.CO2, ds.CO2[i])
	}
	// OWID data is already year-ordered per country, but uploads
	// need not be.
	idx := make([]int, len(s.Years))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return s.Years[idx[i]] < s.Years[idx[j]] })
	years := make([]int, len(idx))
	co2 := make([]float64, len(idx))
	for i, j := range idx {
		years[i] = s.Years[j]
		co2[i] = s.CO2[j]
	}
	s.Years, s.CO2 = years, co2
	return s
}
