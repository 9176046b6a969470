// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package co2data

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `iso_code,country,year,co2,co2_per_capita,population
CHN,China,2014,9000,6.9,1300000000
USA,United States,2014,5000,16.5,318000000
OWID_WRL,World,2014,35000,4.9,7200000000
CHN,China,2013,8800,6.8,1290000000
`

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 4 {
		t.Fatalf("got %d rows, want 4", ds.Len())
	}
	if !ds.HasISOCode() || !ds.HasPopulation() {
		t.Errorf("optional columns not detected: iso=%v pop=%v", ds.HasISOCode(), ds.HasPopulation())
	}
	if ds.Country[0] != "China" || ds.Year[0] != 2014 || ds.CO2[0] != 9000 ||
		ds.PerCapita[0] != 6.9 || ds.ISOCode[0] != "CHN" || ds.Population[0] != 1.3e9 {
		t.Errorf("first row parsed as %s %d %v %v %s %v",
			ds.Country[0], ds.Year[0], ds.CO2[0], ds.PerCapita[0], ds.ISOCode[0], ds.Population[0])
	}

	if lo, hi := ds.YearRange(); lo != 2013 || hi != 2014 {
		t.Errorf("got year range %d-%d, want 2013-2014", lo, hi)
	}
	want := []string{"China", "United States", "World"}
	if got := ds.CountryNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("got countries %v, want %v", got, want)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	for _, drop := range RequiredColumns {
		var header, row []string
		for _, c := range RequiredColumns {
			if c != drop {
				header = append(header, c)
				row = append(row, "1")
			}
		}
		in := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"
		_, err := ParseCSV(strings.NewReader(in))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("dropping %s: got err %v, want ErrMissingColumn", drop, err)
		}
		if err == nil || !strings.Contains(err.Error(), drop) {
			t.Errorf("dropping %s: error %v does not name the column", drop, err)
		}
	}
}

func TestParseCSVCleaning(t *testing.T) {
	in := `country,year,co2,co2_per_capita
China,2014.0,9000,6.9
,2014,123,1
France,,456,2
Germany,notayear,789,3
Italy,2014,,
`
	ds, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	// The anonymous, yearless, and bad-year rows are dropped; the
	// float-formatted year is coerced.
	if got, want := ds.Country, []string{"China", "Italy"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got countries %v, want %v", got, want)
	}
	if ds.Year[0] != 2014 {
		t.Errorf("got year %d, want 2014 (coerced from 2014.0)", ds.Year[0])
	}
	if !math.IsNaN(ds.CO2[1]) || !math.IsNaN(ds.PerCapita[1]) {
		t.Errorf("empty numeric fields should be NaN, got %v %v", ds.CO2[1], ds.PerCapita[1])
	}
	if ds.HasISOCode() || ds.HasPopulation() {
		t.Errorf("optional columns invented: iso=%v pop=%v", ds.HasISOCode(), ds.HasPopulation())
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("got %v, want ErrMissingColumn for empty input", err)
	}
}

func TestTable(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	tab := ds.Table()
	if tab.Len() != ds.Len() {
		t.Errorf("table has %d rows, dataset has %d", tab.Len(), ds.Len())
	}
	for _, col := range []string{"country", "year", "co2", "co2 per capita", "iso code", "population"} {
		if tab.Column(col) == nil {
			t.Errorf("table is missing column %q", col)
		}
	}
}
