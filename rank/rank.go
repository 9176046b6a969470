// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rank ranks and selects emissions records.
//
// Every operation is a pure function of an immutable
// co2data.Dataset and its parameters: no state, no mutation, and
// identical inputs always produce identical results.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/sitong02/co2dash/co2data"
)

// An Entry is one country's row in a ranking. Value is the ranked
// quantity (absolute co2 or co2 per capita, depending on the query).
type Entry struct {
	Country    string
	ISOCode    string  // "" when the dataset has no iso_code column
	Value      float64
	Population float64 // NaN when unknown
}

// A Summary describes the full filtered set a ranking was drawn
// from, not just the top entries. Median is NaN when the set is
// empty.
type Summary struct {
	Count  int
	Sum    float64
	Median float64
}

// aggregateCodes are OWID iso codes for rows that aggregate multiple
// countries.
var aggregateCodes = map[string]bool{
	"OWID_WRL": true,
	"OWID_KOS": true,
}

// isAggregate reports whether a row represents a non-country grouping
// such as "World" or "International transport".
func isAggregate(country, iso string) bool {
	c := strings.ToLower(country)
	if strings.Contains(c, "world") || strings.Contains(c, "international") {
		return true
	}
	return aggregateCodes[iso]
}

// TopAbsolute returns the n largest emitters by absolute co2 for
// year, in descending order with ties kept in dataset order.
// Aggregate rows and rows without a co2 value are excluded. The
// Summary covers the whole filtered set. An empty year yields an
// empty ranking, not an error.
func TopAbsolute(ds *co2data.Dataset, year, n int) ([]Entry, Summary) {
	var entries []Entry
	for i := range ds.Country {
		if ds.Year[i] != year || math.IsNaN(ds.CO2[i]) {
			continue
		}
		iso := ""
		if ds.HasISOCode() {
			iso = ds.ISOCode[i]
		}
		if isAggregate(ds.Country[i], iso) {
			continue
		}
		entries = append(entries, Entry{
			Country:    ds.Country[i],
			ISOCode:    iso,
			Value:      ds.CO2[i],
			Population: populationAt(ds, i),
		})
	}
	sum := summarize(entries)
	return top(entries, n), sum
}

// TopPerCapita returns the n largest emitters by co2 per capita for
// year, in descending order with ties kept in dataset order. When the
// dataset has a population column, countries at or below one million
// people are excluded so micro-states don't dominate the ranking.
func TopPerCapita(ds *co2data.Dataset, year, n int) []Entry {
	var entries []Entry
	for i := range ds.Country {
		if ds.Year[i] != year || math.IsNaN(ds.PerCapita[i]) {
			continue
		}
		if ds.HasPopulation() && !(ds.Population[i] > 1e6) {
			continue
		}
		iso := ""
		if ds.HasISOCode() {
			iso = ds.ISOCode[i]
		}
		entries = append(entries, Entry{
			Country:    ds.Country[i],
			ISOCode:    iso,
			Value:      ds.PerCapita[i],
			Population: populationAt(ds, i),
		})
	}
	return top(entries, n)
}

func populationAt(ds *co2data.Dataset, i int) float64 {
	if ds.HasPopulation() {
		return ds.Population[i]
	}
	return math.NaN()
}

// top sorts entries by Value descending (stable, so equal values keep
// their dataset order) and truncates to at most n.
func top(entries []Entry, n int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if n < 0 {
		n = 0
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func summarize(entries []Entry) Summary {
	xs := make([]float64, len(entries))
	var sum float64
	for i, e := range entries {
		xs[i] = e.Value
		sum += e.Value
	}
	return Summary{
		Count:  len(entries),
		Sum:    sum,
		Median: stats.Sample{Xs: xs}.Quantile(0.5),
	}
}
