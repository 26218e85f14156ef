// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package snell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// DefaultDownloadBase is the upstream release host. Overridable through
// configuration for mirrors.
const DefaultDownloadBase = "https://dl.nssurge.com/snell"

// maxArchiveSize caps the downloaded archive; upstream zips are a few MB.
const maxArchiveSize = 128 << 20

// ArchiveURL builds the download URL for a given base, version and artifact
// architecture token (see sysinfo.ArtifactArch).
func ArchiveURL(base, version, arch string) string {
	return fmt.Sprintf("%s/snell-server-v%s-linux-%s.zip", base, version, arch)
}

// Fetcher downloads and extracts upstream server archives.
type Fetcher struct {
	Base   string
	Client *http.Client
}

// NewFetcher returns a Fetcher for the given release base URL.
func NewFetcher(base string) *Fetcher {
	if base == "" {
		base = DefaultDownloadBase
	}
	return &Fetcher{
		Base:   base,
		Client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// FetchBinary downloads the archive for version/arch and extracts the server
// binary into destDir with the executable bit set. It returns the path of
// the extracted binary.
func (f *Fetcher) FetchBinary(ctx context.Context, version, arch, destDir string) (string, error) {
	url := ArchiveURL(f.Base, version, arch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	archive, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize))
	if err != nil {
		return "", fmt.Errorf("read archive body: %w", err)
	}

	return extractBinary(archive, destDir)
}

// extractBinary finds the server binary inside the zip archive and writes it
// to destDir.
func extractBinary(archive []byte, destDir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	for _, zf := range zr.File {
		if filepath.Base(zf.Name) != BinaryFileName || zf.FileInfo().IsDir() {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("open %s in archive: %w", zf.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxArchiveSize))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", zf.Name, err)
		}
		dest := filepath.Join(destDir, BinaryFileName)
		if err := os.WriteFile(dest, data, 0o755); err != nil {
			return "", fmt.Errorf("write binary: %w", err)
		}
		return dest, nil
	}
	return "", fmt.Errorf("archive contains no %s binary", BinaryFileName)
}
