// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/sitong02/co2dash/rank"
)

type pageData struct {
	Source        string
	Uploaded      bool
	MinYear       int
	MaxYear       int
	Countries     []string
	Query         query
	Top           []rank.Entry
	Summary       rank.Summary
	PerCapita     []rank.Entry
	Peers         []string
	HasPopulation bool
}

const page = `
<html>
  <head>
    <meta charset="utf-8" />
    <title>Main Findings Dashboard</title>
    <style>
body {
  font-family: sans-serif;
  color: #222;
  max-width: 75em;
  margin: 0 auto;
  padding: 0 1em;
}
h1 {
  margin-bottom: 0;
}
p.caption {
  color: #777;
  margin-top: 4px;
}
section {
  border-top: 1px solid #ddd;
  margin-top: 2em;
}
form.controls {
  background: #f7f7f7;
  padding: 8px;
  margin: 1em 0;
}
form.controls label {
  margin-right: 1.5em;
}
table {
  border-spacing: 0;
  border-collapse: collapse;
}
table>tbody>tr>td, table>thead>tr>th {
  padding: 4px 12px;
  border-top: 1px solid #ddd;
}
td.num {
  text-align: right;
}
div.metric {
  display: inline-block;
  margin-right: 2em;
  margin-bottom: 1em;
}
div.metric .value {
  font-size: 150%;
}
div.metric .label {
  color: #777;
  font-size: 90%;
}
div.cols {
  display: flex;
  gap: 2em;
  align-items: flex-start;
  flex-wrap: wrap;
}
blockquote.takeaways {
  background: #f4f8fb;
  border-left: 4px solid #337ab7;
  margin: 1em 0;
  padding: 0.5em 1em;
}
    </style>
  </head>
  <body>
    <h1>Main Findings Dashboard</h1>
    <p class="caption">A concise, presentation-ready dashboard showing
    only the key results from the case study (Sections 8–10).
    Dataset: {{.Source}} ({{.MinYear}}–{{.MaxYear}}).</p>

    <form class="controls" action="/" method="GET">
      <label>Ranking year
        <input type="number" name="year" min="{{.MinYear}}" max="{{.MaxYear}}" value="{{.Query.Year}}">
      </label>
      <label>Focus country
        <select name="country">
          {{range .Countries}}
          <option{{if eq . $.Query.Focus}} selected{{end}}>{{.}}</option>
          {{end}}
        </select>
      </label>
      <label>Show years
        <input type="number" name="from" min="{{.MinYear}}" max="{{.MaxYear}}" value="{{.Query.From}}">
        –
        <input type="number" name="to" min="{{.MinYear}}" max="{{.MaxYear}}" value="{{.Query.To}}">
      </label>
      <input type="submit" value="Update">
    </form>
    <form class="controls" action="/upload" method="POST" enctype="multipart/form-data">
      <label>Upload CSV (columns at least: country, year, co2, co2_per_capita; population optional)
        <input type="file" name="dataset" accept=".csv">
      </label>
      <input type="submit" value="Use uploaded dataset">
      {{if .Uploaded}}<a href="/reset">switch back to the default OWID dataset</a>{{end}}
    </form>

    <section>
      <h2>Section 8: Top Emitters — {{.Query.Year}}</h2>
      <div class="cols">
        <img src="/chart/top.svg?year={{.Query.Year}}" alt="top emitters">
        <div>
          <div class="metric">
            <div class="value">{{comma .Summary.Sum}}</div>
            <div class="label">World CO₂ (Mt)</div>
          </div>
          <div class="metric">
            <div class="value">{{comma .Summary.Median}}</div>
            <div class="label">Median CO₂ (Mt)</div>
          </div>
          <table>
            <thead><tr><th>Country</th><th>CO₂ (Mt)</th></tr></thead>
            <tbody>
              {{range .Top}}
              <tr><td>{{.Country}}</td><td class="num">{{printf "%.0f" .Value}}</td></tr>
              {{else}}
              <tr><td colspan="2">no data for {{$.Query.Year}}</td></tr>
              {{end}}
            </tbody>
          </table>
        </div>
      </div>
      <blockquote class="takeaways">
        <b>Section 8 — Key Takeaways:</b>
        <ul>
          <li>Emissions are concentrated among a small set of countries.</li>
          <li>Note any notable outliers or changes vs. previous years.</li>
        </ul>
      </blockquote>
    </section>

    <section>
      <h2>Section 9: Trends (Highlight) — {{.Query.Focus}}</h2>
      <p class="caption">Comparing {{.Query.Focus}} to:
      {{if .Peers}}{{join .Peers}}{{else}}—{{end}}</p>
      <img src="/chart/trend.svg?country={{.Query.Focus | urlquery}}&from={{.Query.From}}&to={{.Query.To}}&year={{.Query.Year}}" alt="emissions trend">
      <blockquote class="takeaways">
        <b>Section 9 — Key Takeaways:</b>
        <ul>
          <li>Describe the long-run trend (steady increase/decrease, structural break).</li>
          <li>Compare the highlighted country vs. peers: earlier peak? faster growth?</li>
          <li>Note policy or economic events that align with inflection points.</li>
        </ul>
      </blockquote>
    </section>

    <section>
      <h2>Section 10: Per-capita Rankings — {{.Query.Year}}</h2>
      {{if .HasPopulation}}
      <p class="caption">Countries with one million people or fewer are
      excluded.</p>
      {{end}}
      <div class="cols">
        <img src="/chart/percapita.svg?year={{.Query.Year}}" alt="per-capita ranking">
        <table>
          <thead><tr><th>Country</th><th>CO₂ (t/person)</th></tr></thead>
          <tbody>
            {{range .PerCapita}}
            <tr><td>{{.Country}}</td><td class="num">{{printf "%.1f" .Value}}</td></tr>
            {{else}}
            <tr><td colspan="2">no data for {{$.Query.Year}}</td></tr>
            {{end}}
          </tbody>
        </table>
      </div>
      <blockquote class="takeaways">
        <b>Section 10 — Key Takeaways:</b>
        <ul>
          <li>Per-capita leaders are mostly small, energy-intensive economies.</li>
          <li>Ranking by per-capita emissions tells a very different story than absolute totals.</li>
        </ul>
      </blockquote>
    </section>
  </body>
</html>
`

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"comma": commaFormat,
	"join":  joinComma,
}).Parse(page))

// commaFormat renders a metric value with thousands separators and no
// decimals, e.g. 35,713. NaN (empty selection) renders as a dash.
func commaFormat(v float64) string {
	if v != v {
		return "—"
	}
	s := fmt.Sprintf("%.0f", v)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg, s = true, s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func joinComma(xs []string) string {
	return strings.Join(xs, ", ")
}
