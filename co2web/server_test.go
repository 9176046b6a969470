// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitong02/co2dash/co2data"
)

const sampleCSV = `iso_code,country,year,co2,co2_per_capita,population
CHN,China,2014,9000,6.9,1300000000
USA,United States,2014,5000,16.5,318000000
OWID_WRL,World,2014,35000,4.9,7200000000
CHN,China,1960,780,1.2,660000000
USA,United States,1960,2890,16.0,180000000
`

func testServer(t *testing.T) *server {
	t.Helper()
	ds, err := co2data.ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	return &server{
		loader:       &co2data.Loader{CacheDir: t.TempDir()},
		defaultFocus: "China",
		ds:           ds,
		source:       "test data",
	}
}

func TestParseQueryDefaults(t *testing.T) {
	s := testServer(t)
	ds, _ := s.dataset()
	q := s.parseQuery(ds, httptest.NewRequest("GET", "/", nil))
	if q.Year != 2014 {
		t.Errorf("got default year %d, want 2014", q.Year)
	}
	if q.Focus != "China" {
		t.Errorf("got default focus %q, want China", q.Focus)
	}
	if q.From != 1960 || q.To != 2014 {
		t.Errorf("got default range %d-%d, want 1960-2014", q.From, q.To)
	}
}

func TestParseQueryClamping(t *testing.T) {
	s := testServer(t)
	ds, _ := s.dataset()
	q := s.parseQuery(ds, httptest.NewRequest("GET", "/?year=1700&from=3000&to=1800&country=Atlantis", nil))
	if q.Year != 1960 {
		t.Errorf("got year %d, want clamped to 1960", q.Year)
	}
	if q.From != 1960 || q.To != 2014 {
		t.Errorf("got range %d-%d, want reordered and clamped to 1960-2014", q.From, q.To)
	}
	if q.Focus != "China" {
		t.Errorf("got focus %q for an unknown country, want the default", q.Focus)
	}
}

func TestPage(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.page(rec, httptest.NewRequest("GET", "/?year=2014", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Section 8: Top Emitters",
		"Section 9: Trends",
		"Section 10: Per-capita Rankings",
		"China",
		"14,000", // world total excludes the World aggregate row
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
}

func TestChartHandlers(t *testing.T) {
	s := testServer(t)
	for path, h := range map[string]http.HandlerFunc{
		"/chart/top.svg?year=2014":       s.topChart,
		"/chart/percapita.svg?year=2014": s.perCapitaChart,
		"/chart/trend.svg?country=China": s.trendChart,
	} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got status %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("%s: got content type %q", path, ct)
		}
		if !strings.Contains(rec.Body.String(), "<svg") {
			t.Errorf("%s: response is not SVG", path)
		}
	}
}

func uploadRequest(t *testing.T, contents string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("dataset", "upload.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(contents))
	mw.Close()
	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadReplacesDataset(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.upload(rec, uploadRequest(t, "country,year,co2,co2_per_capita\nFreedonia,1933,12,3.4\n"))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want redirect", rec.Code)
	}
	ds, source := s.dataset()
	if source != "upload.csv" {
		t.Errorf("got source %q", source)
	}
	if ds.Len() != 1 || ds.Country[0] != "Freedonia" {
		t.Errorf("dataset not replaced: %v", ds.Country)
	}
}

func TestResetRestoresDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0666); err != nil {
		t.Fatal(err)
	}
	s := testServer(t)
	s.defaultSource = path

	rec := httptest.NewRecorder()
	s.upload(rec, uploadRequest(t, "country,year,co2,co2_per_capita\nFreedonia,1933,12,3.4\n"))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload: got status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.reset(rec, httptest.NewRequest("GET", "/reset", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("reset: got status %d", rec.Code)
	}
	ds, source := s.dataset()
	if source != path {
		t.Errorf("got source %q, want the default", source)
	}
	if ds.Len() != 5 {
		t.Errorf("got %d rows after reset, want 5", ds.Len())
	}
}

func TestUploadMissingColumns(t *testing.T) {
	s := testServer(t)
	before, _ := s.dataset()
	rec := httptest.NewRecorder()
	s.upload(rec, uploadRequest(t, "country,year\nFreedonia,1933\n"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
	after, _ := s.dataset()
	if after != before {
		t.Errorf("bad upload replaced the dataset")
	}
}

func TestCommaFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{7000, "7,000"},
		{35713.4, "35,713"},
		{1234567, "1,234,567"},
		{-7000, "-7,000"},
	}
	for _, test := range tests {
		if got := commaFormat(test.in); got != test.want {
			t.Errorf("commaFormat(%v) = %q, want %q", test.in, got, test.want)
		}
	}
}
