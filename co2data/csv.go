// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package co2data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// RequiredColumns are the columns a source CSV must have. Loading
// fails if any of them is absent.
var RequiredColumns = []string{"country", "year", "co2", "co2_per_capita"}

// ErrMissingColumn is returned (wrapped) by ParseCSV when a required
// column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// ParseCSV reads a CO₂ dataset in OWID CSV format. The header row
// binds columns by name; iso_code and population are optional. Rows
// with a missing country or year are dropped and year is coerced to
// an integer. Unparseable or empty numeric fields become NaN.
func ParseCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset: %w", ErrMissingColumn)
	} else if err != nil {
		return nil, err
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	countryCol, yearCol := cols["country"], cols["year"]
	co2Col, capitaCol := cols["co2"], cols["co2_per_capita"]
	isoCol, hasISO := cols["iso_code"]
	popCol, hasPop := cols["population"]

	ds := new(Dataset)
	if hasISO {
		ds.ISOCode = []string{}
	}
	if hasPop {
		ds.Population = []float64{}
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		country := rec[countryCol]
		year, ok := parseYear(rec[yearCol])
		if country == "" || !ok {
			continue
		}
		ds.Country = append(ds.Country, country)
		ds.Year = append(ds.Year, year)
		ds.CO2 = append(ds.CO2, parseFloat(rec[co2Col]))
		ds.PerCapita = append(ds.PerCapita, parseFloat(rec[capitaCol]))
		if hasISO {
			ds.ISOCode = append(ds.ISOCode, rec[isoCol])
		}
		if hasPop {
			ds.Population = append(ds.Population, parseFloat(rec[popCol]))
		}
	}
	return ds, nil
}

// parseYear coerces a year field to an integer. OWID years are plain
// integers, but spreadsheet exports sometimes write them as floats
// ("2014.0"), so accept those too.
func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nan
	}
	return f
}
