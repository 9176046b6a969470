// Copyright 2025 The co2dash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package co2data

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultURL is the canonical remote location of the OWID CO₂
// dataset.
const DefaultURL = "https://raw.githubusercontent.com/owid/co2-data/master/owid-co2-data.csv"

// A Source identifies and opens one CSV dataset. Key is stable for a
// given source identity (URL or upload contents) and keys the on-disk
// snapshot cache.
type Source interface {
	Key() string
	Label() string
	Open() (io.ReadCloser, error)
}

// URLSource fetches a dataset over HTTP.
type URLSource string

func (s URLSource) Key() string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(string(s))))
}

func (s URLSource) Label() string { return string(s) }

func (s URLSource) Open() (io.ReadCloser, error) {
	resp, err := http.Get(string(s))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", string(s), resp.Status)
	}
	return resp.Body, nil
}

// FileSource reads a dataset from the local file system.
type FileSource string

func (s FileSource) Key() string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("file:"+string(s))))
}

func (s FileSource) Label() string { return string(s) }

func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(s))
}

// UploadSource wraps a user-supplied CSV held in memory. Its cache
// key is the hash of the contents, so a new upload naturally replaces
// the previous one.
type UploadSource struct {
	Name string
	Data []byte
}

func (s *UploadSource) Key() string {
	return fmt.Sprintf("%x", sha256.Sum256(s.Data))
}

func (s *UploadSource) Label() string { return s.Name }

func (s *UploadSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// SourceFor returns a URLSource or FileSource depending on whether
// the argument looks like an HTTP URL.
func SourceFor(arg string) Source {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return URLSource(arg)
	}
	return FileSource(arg)
}

// A Loader loads datasets, keeping an Arrow IPC snapshot per source
// in CacheDir so a dataset is fetched and parsed at most once. An
// empty CacheDir disables caching.
type Loader struct {
	CacheDir string
}

// Load returns the dataset for src, preferring the cached snapshot.
func (l *Loader) Load(src Source) (*Dataset, error) {
	var snapPath string
	if l.CacheDir != "" {
		snapPath = filepath.Join(l.CacheDir, src.Key()+".arrow")
		if ds, err := ReadSnapshotFile(snapPath); err == nil {
			return ds, nil
		}
	}

	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Label(), err)
	}
	defer r.Close()
	ds, err := ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Label(), err)
	}

	if snapPath != "" {
		// Snapshot failures only cost a refetch next time.
		if err := os.MkdirAll(l.CacheDir, 0777); err == nil {
			WriteSnapshotFile(snapPath, ds)
		}
	}
	return ds, nil
}
