// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package co2data

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Snapshots persist a parsed Dataset as a single Arrow IPC record
// batch. Reading a snapshot back is much cheaper than refetching and
// reparsing the source CSV, which is what makes load-once caching
// work across runs.

func snapshotSchema(hasISO, hasPop bool) *arrow.Schema {
	fields := []arrow.Field{
		{Name: "country", Type: arrow.BinaryTypes.String},
		{Name: "year", Type: arrow.PrimitiveTypes.Int64},
		{Name: "co2", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "co2_per_capita", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}
	if hasISO {
		fields = append(fields, arrow.Field{Name: "iso_code", Type: arrow.BinaryTypes.String})
	}
	if hasPop {
		fields = append(fields, arrow.Field{Name: "population", Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteSnapshot writes ds to w in Arrow IPC stream format.
func WriteSnapshot(w io.Writer, ds *Dataset) error {
	schema := snapshotSchema(ds.HasISOCode(), ds.HasPopulation())
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	country := b.Field(0).(*array.StringBuilder)
	year := b.Field(1).(*array.Int64Builder)
	co2 := b.Field(2).(*array.Float64Builder)
	capita := b.Field(3).(*array.Float64Builder)
	next := 4
	var iso *array.StringBuilder
	if ds.HasISOCode() {
		iso = b.Field(next).(*array.StringBuilder)
		next++
	}
	var pop *array.Float64Builder
	if ds.HasPopulation() {
		pop = b.Field(next).(*array.Float64Builder)
	}

	appendFloat := func(fb *array.Float64Builder, v float64) {
		if math.IsNaN(v) {
			fb.AppendNull()
		} else {
			fb.Append(v)
		}
	}
	for i := range ds.Country {
		country.Append(ds.Country[i])
		year.Append(int64(ds.Year[i]))
		appendFloat(co2, ds.CO2[i])
		appendFloat(capita, ds.PerCapita[i])
		if iso != nil {
			iso.Append(ds.ISOCode[i])
		}
		if pop != nil {
			appendFloat(pop, ds.Population[i])
		}
	}

	rec := b.NewRecord()
	defer rec.Release()
	wr := ipc.NewWriter(w, ipc.WithSchema(schema))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return err
	}
	return wr.Close()
}

// ReadSnapshot reads a Dataset previously written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Dataset, error) {
	rd, err := ipc.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rd.Release()

	schema := rd.Schema()
	col := func(name string) (int, bool) {
		idxs := schema.FieldIndices(name)
		if len(idxs) == 0 {
			return 0, false
		}
		return idxs[0], true
	}
	countryIdx, ok1 := col("country")
	yearIdx, ok2 := col("year")
	co2Idx, ok3 := col("co2")
	capitaIdx, ok4 := col("co2_per_capita")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("snapshot schema is missing required columns")
	}
	isoIdx, hasISO := col("iso_code")
	popIdx, hasPop := col("population")

	ds := new(Dataset)
	if hasISO {
		ds.ISOCode = []string{}
	}
	if hasPop {
		ds.Population = []float64{}
	}
	floatAt := func(a *array.Float64, i int) float64 {
		if a.IsNull(i) {
			return nan
		}
		return a.Value(i)
	}
	for rd.Next() {
		rec := rd.Record()
		country := rec.Column(countryIdx).(*array.String)
		year := rec.Column(yearIdx).(*array.Int64)
		co2 := rec.Column(co2Idx).(*array.Float64)
		capita := rec.Column(capitaIdx).(*array.Float64)
		for i := 0; i < int(rec.NumRows()); i++ {
			ds.Country = append(ds.Country, country.Value(i))
			ds.Year = append(ds.Year, int(year.Value(i)))
			ds.CO2 = append(ds.CO2, floatAt(co2, i))
			ds.PerCapita = append(ds.PerCapita, floatAt(capita, i))
		}
		if hasISO {
			iso := rec.Column(isoIdx).(*array.String)
			for i := 0; i < int(rec.NumRows()); i++ {
				ds.ISOCode = append(ds.ISOCode, iso.Value(i))
			}
		}
		if hasPop {
			pop := rec.Column(popIdx).(*array.Float64)
			for i := 0; i < int(rec.NumRows()); i++ {
				ds.Population = append(ds.Population, floatAt(pop, i))
			}
		}
	}
	if rd.Err() != nil {
		return nil, rd.Err()
	}
	return ds, nil
}

// WriteSnapshotFile writes ds to path via a temporary file so a
// partial write never leaves a truncated snapshot behind.
func WriteSnapshotFile(path string, ds *Dataset) error {
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return err
	}
	err = WriteSnapshot(f, ds)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path + ".tmp")
		return err
	}
	if err := os.Rename(path+".tmp", path); err != nil {
		os.Remove(path + ".tmp")
		return err
	}
	return nil
}

// ReadSnapshotFile reads a snapshot written by WriteSnapshotFile.
func ReadSnapshotFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
