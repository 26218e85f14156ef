// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package snell

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// buildArchive returns a zip archive holding the given files.
func buildArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestArchiveURL(t *testing.T) {
	got := ArchiveURL(DefaultDownloadBase, "5.0.0", "aarch64")
	want := "https://dl.nssurge.com/snell/snell-server-v5.0.0-linux-aarch64.zip"
	if got != want {
		t.Fatalf("unexpected url:\n got: %s\nwant: %s", got, want)
	}
}

func TestFetchBinary(t *testing.T) {
	payload := []byte("#!ELF fake server binary")
	archive := buildArchive(t, map[string][]byte{
		"snell-server": payload,
		"LICENSE":      []byte("upstream license"),
	})

	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(srv.URL)
	path, err := f.FetchBinary(context.Background(), "5.0.0", "amd64", dir)
	if err != nil {
		t.Fatalf("FetchBinary failed: %v", err)
	}
	if requested != "/snell-server-v5.0.0-linux-amd64.zip" {
		t.Fatalf("unexpected request path: %s", requested)
	}
	if path != filepath.Join(dir, BinaryFileName) {
		t.Fatalf("unexpected binary path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read extracted binary: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("extracted binary does not match payload")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat binary: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Fatalf("binary is not executable: %v", info.Mode())
	}
}

func TestFetchBinary_MissingEntry(t *testing.T) {
	archive := buildArchive(t, map[string][]byte{"README": []byte("no binary here")})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	if _, err := f.FetchBinary(context.Background(), "5.0.0", "amd64", t.TempDir()); err == nil {
		t.Fatalf("expected error for archive without the server binary")
	}
}

func TestFetchBinary_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	if _, err := f.FetchBinary(context.Background(), "9.9.9", "amd64", t.TempDir()); err == nil {
		t.Fatalf("expected error for missing upstream version")
	}
}
