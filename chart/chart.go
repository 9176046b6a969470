// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders ranking and trend results as SVG.
package chart

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/sitong02/co2dash/rank"
)

// Trend renders a set of co2-over-time series as a line chart. All
// series share one color-per-country scale; the focus series is
// additionally drawn on top with point markers so it stands out from
// the peers.
func Trend(w io.Writer, series []rank.Series, width, height int) error {
	var countries []string
	var years []int
	var co2 []float64
	var focus rank.Series
	for _, s := range series {
		if s.Focus {
			focus = s
		}
		for i := range s.Years {
			countries = append(countries, s.Country)
			years = append(years, s.Years[i])
			co2 = append(co2, s.CO2[i])
		}
	}
	if len(years) == 0 {
		noData(w, width, height)
		return nil
	}

	tab := new(table.Builder).
		Add("country", countries).
		Add("year", years).
		Add("co2", co2).
		Done()
	p := gg.NewPlot(tab)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: "year", Y: "co2", Color: "country"})
	if len(focus.Years) > 0 {
		ftab := new(table.Builder).
			Add("year", focus.Years).
			Add("co2", focus.CO2).
			Done()
		p.Save()
		p.SetData(ftab)
		p.Add(gg.LayerLines{X: "year", Y: "co2"})
		p.Add(gg.LayerPoints{X: "year", Y: "co2"})
		p.Restore()
	}
	p.Add(gg.AxisLabel("x", "Year"))
	p.Add(gg.AxisLabel("y", "CO₂ (million tonnes)"))
	if focus.Country != "" {
		p.Add(gg.Title("CO₂ over Time — Highlight: " + focus.Country))
	}
	return p.WriteSVG(w, width, height)
}

// Bars renders ranking entries as a horizontal bar chart, largest
// first, with the value printed after each bar.
func Bars(w io.Writer, entries []rank.Entry, title, unit string, width int) {
	const (
		rowH   = 24
		topPad = 40
		labelW = 170
		pad    = 8
	)
	height := topPad + rowH*len(entries) + pad
	if len(entries) == 0 {
		noData(w, width, 120)
		return
	}

	max := entries[0].Value
	for _, e := range entries {
		if e.Value > max {
			max = e.Value
		}
	}
	plotW := width - labelW - 110

	c := svg.New(w)
	c.Start(width, height)
	c.Text(pad, 24, title, "font-family:sans-serif;font-size:16px;fill:#222")
	for i, e := range entries {
		y := topPad + i*rowH
		bw := 0
		if max > 0 {
			bw = int(float64(plotW) * e.Value / max)
		}
		c.Text(labelW-pad, y+rowH/2+4, e.Country,
			"font-family:sans-serif;font-size:12px;text-anchor:end;fill:#222")
		c.Rect(labelW, y+4, bw, rowH-8, "fill:#337ab7")
		c.Text(labelW+bw+6, y+rowH/2+4, fmt.Sprintf("%.1f %s", e.Value, unit),
			"font-family:sans-serif;font-size:11px;fill:#555")
	}
	c.End()
}

// noData draws a placeholder for an empty selection. An empty result
// is an ordinary outcome, not an error.
func noData(w io.Writer, width, height int) {
	c := svg.New(w)
	c.Start(width, height)
	c.Text(width/2, height/2, "no data for this selection",
		"font-family:sans-serif;font-size:14px;text-anchor:middle;fill:#777")
	c.End()
}
