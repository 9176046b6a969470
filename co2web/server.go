// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/sitong02/co2dash/chart"
	"github.com/sitong02/co2dash/co2data"
	"github.com/sitong02/co2dash/rank"
)

const topN = 10

type server struct {
	loader        *co2data.Loader
	defaultFocus  string
	defaultSource string

	// The dataset snapshot itself is immutable; the mutex only
	// guards swapping it for a newly uploaded one.
	mu     sync.Mutex
	ds     *co2data.Dataset
	source string
}

func (s *server) dataset() (*co2data.Dataset, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds, s.source
}

func (s *server) setDataset(ds *co2data.Dataset, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds, s.source = ds, source
}

// A query holds the user's control settings, already validated
// against the dataset: the ranking year, the focus country, and the
// trend view's year range.
type query struct {
	Year     int
	Focus    string
	From, To int
}

// parseQuery reads control values from the request, falling back to
// the same defaults the upstream dashboard uses: ranking year 2014
// (or the latest year), trend range starting at 1950, and the
// configured focus country when the dataset has it.
func (s *server) parseQuery(ds *co2data.Dataset, r *http.Request) query {
	lo, hi := ds.YearRange()

	q := query{
		Year: clampInt(r.FormValue("year"), min(2014, hi), lo, hi),
		From: clampInt(r.FormValue("from"), max(lo, 1950), lo, hi),
		To:   clampInt(r.FormValue("to"), hi, lo, hi),
	}
	if q.From > q.To {
		q.From, q.To = q.To, q.From
	}

	countries := ds.CountryNames()
	q.Focus = r.FormValue("country")
	if !contains(countries, q.Focus) {
		q.Focus = s.defaultFocus
		if !contains(countries, q.Focus) && len(countries) > 0 {
			q.Focus = countries[0]
		}
	}
	return q
}

func (s *server) page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ds, source := s.dataset()
	q := s.parseQuery(ds, r)

	top, sum := rank.TopAbsolute(ds, q.Year, topN)
	series := rank.TrendSeries(ds, q.Focus, q.From, q.To, q.Year)
	var peers []string
	for _, ser := range series {
		if !ser.Focus {
			peers = append(peers, ser.Country)
		}
	}

	minYear, maxYear := ds.YearRange()
	err := pageTemplate.Execute(w, &pageData{
		Source:        source,
		Uploaded:      source != s.defaultSource,
		MinYear:       minYear,
		MaxYear:       maxYear,
		Countries:     ds.CountryNames(),
		Query:         q,
		Top:           top,
		Summary:       sum,
		PerCapita:     rank.TopPerCapita(ds, q.Year, topN),
		Peers:         peers,
		HasPopulation: ds.HasPopulation(),
	})
	if err != nil {
		log.Print(err)
	}
}

func (s *server) topChart(w http.ResponseWriter, r *http.Request) {
	ds, _ := s.dataset()
	q := s.parseQuery(ds, r)
	entries, _ := rank.TopAbsolute(ds, q.Year, topN)
	w.Header().Set("Content-Type", "image/svg+xml")
	chart.Bars(w, entries, "Top 10 Emitters — "+strconv.Itoa(q.Year), "Mt", 640)
}

func (s *server) perCapitaChart(w http.ResponseWriter, r *http.Request) {
	ds, _ := s.dataset()
	q := s.parseQuery(ds, r)
	entries := rank.TopPerCapita(ds, q.Year, topN)
	w.Header().Set("Content-Type", "image/svg+xml")
	chart.Bars(w, entries, "Top 10 Per-capita Emitters — "+strconv.Itoa(q.Year), "t/person", 640)
}

func (s *server) trendChart(w http.ResponseWriter, r *http.Request) {
	ds, _ := s.dataset()
	q := s.parseQuery(ds, r)
	series := rank.TrendSeries(ds, q.Focus, q.From, q.To, q.Year)
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.Trend(w, series, 720, 480); err != nil {
		log.Print(err)
	}
}

// upload replaces the session's dataset with a user-supplied CSV. A
// bad upload (unreadable, or missing required columns) leaves the
// current dataset in place and reports a blocking error.
func (s *server) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	f, hdr, err := r.FormFile("dataset")
	if err != nil {
		http.Error(w, "upload failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "upload failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	src := &co2data.UploadSource{Name: hdr.Filename, Data: data}
	ds, err := s.loader.Load(src)
	if err != nil {
		http.Error(w, "cannot use uploaded dataset: "+err.Error(), http.StatusBadRequest)
		return
	}
	if ds.Len() == 0 {
		http.Error(w, "uploaded dataset has no usable rows", http.StatusBadRequest)
		return
	}
	s.setDataset(ds, hdr.Filename)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// reset switches back from an uploaded dataset to the configured
// default source. The default's snapshot is still cached, so this is
// cheap.
func (s *server) reset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loader.Load(co2data.SourceFor(s.defaultSource))
	if err != nil {
		http.Error(w, "cannot reload default dataset: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.setDataset(ds, s.defaultSource)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// clampInt parses s as an integer bounded to [min, max], or returns
// def if s is empty or malformed.
func clampInt(s string, def, min, max int) int {
	v := def
	if s != "" {
		n, err := strconv.Atoi(s)
		if err == nil {
			v = n
		}
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
