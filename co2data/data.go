// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package co2data loads and holds the Our World in Data CO₂ emissions
// dataset.
//
// A Dataset is a column-oriented snapshot of one (country, year)
// observation table. It is built once by ParseCSV (or read back from
// an Arrow IPC snapshot) and never mutated afterwards, so it may be
// shared freely between queries and requests.
package co2data

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
)

// Dataset is an immutable collection of (country, year) observations,
// stored column-wise. All slices have the same length, except that
// ISOCode and Population are nil when the source file had no such
// column. Missing numeric values are NaN.
type Dataset struct {
	Country    []string
	Year       []int
	CO2        []float64
	PerCapita  []float64
	ISOCode    []string
	Population []float64
}

// Len returns the number of observations.
func (ds *Dataset) Len() int {
	return len(ds.Country)
}

// HasISOCode reports whether the source had an iso_code column.
func (ds *Dataset) HasISOCode() bool {
	return ds.ISOCode != nil
}

// HasPopulation reports whether the source had a population column.
func (ds *Dataset) HasPopulation() bool {
	return ds.Population != nil
}

// YearRange returns the smallest and largest year observed. If the
// dataset is empty, it returns (0, 0).
func (ds *Dataset) YearRange() (min, max int) {
	if ds.Len() == 0 {
		return 0, 0
	}
	min, max = ds.Year[0], ds.Year[0]
	for _, y := range ds.Year[1:] {
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	return
}

// CountryNames returns the distinct country names in the dataset,
// sorted.
func (ds *Dataset) CountryNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range ds.Country {
		if !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return names
}

// Table returns a go-gg table view of the dataset for plotting and
// printing. The iso code and population columns appear only if the
// source had them.
func (ds *Dataset) Table() *table.Table {
	b := new(table.Builder).
		Add("country", ds.Country).
		Add("year", ds.Year).
		Add("co2", ds.CO2).
		Add("co2 per capita", ds.PerCapita)
	if ds.HasISOCode() {
		b.Add("iso code", ds.ISOCode)
	}
	if ds.HasPopulation() {
		b.Add("population", ds.Population)
	}
	return b.Done()
}

// nan fills in for missing numeric observations.
var nan = math.NaN()
