// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package sysinfo answers the environment questions the installer needs:
// which OS family the host runs, which upstream artifact architecture fits,
// and where the host is reachable from the outside.
package sysinfo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"
)

// OSFamily is the coarse distribution family used for messages and checks.
type OSFamily string

const (
	FamilyDebian  OSFamily = "debian"
	FamilyRHEL    OSFamily = "rhel"
	FamilyAlpine  OSFamily = "alpine"
	FamilyArch    OSFamily = "arch"
	FamilyUnknown OSFamily = "unknown"
)

// osReleasePath is a variable so tests can point it at a fixture.
var osReleasePath = "/etc/os-release"

// DetectOSFamily classifies the host from /etc/os-release (ID, then ID_LIKE).
// Hosts without the file report FamilyUnknown rather than an error; the
// installer only uses the family for messaging.
func DetectOSFamily() OSFamily {
	f, err := os.Open(osReleasePath)
	if err != nil {
		return FamilyUnknown
	}
	defer f.Close()
	return parseOSRelease(f)
}

func parseOSRelease(r io.Reader) OSFamily {
	var id, idLike string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "ID="):
			id = strings.Trim(strings.TrimPrefix(line, "ID="), `"`)
		case strings.HasPrefix(line, "ID_LIKE="):
			idLike = strings.Trim(strings.TrimPrefix(line, "ID_LIKE="), `"`)
		}
	}

	for _, candidate := range append([]string{id}, strings.Fields(idLike)...) {
		switch candidate {
		case "debian", "ubuntu":
			return FamilyDebian
		case "rhel", "centos", "fedora", "rocky", "almalinux":
			return FamilyRHEL
		case "alpine":
			return FamilyAlpine
		case "arch":
			return FamilyArch
		}
	}
	return FamilyUnknown
}

// ArtifactArch maps the running GOARCH to the architecture token used in
// upstream Snell release archive names.
func ArtifactArch() (string, error) {
	return artifactArchFor(runtime.GOARCH)
}

func artifactArchFor(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "amd64", nil
	case "arm64":
		return "aarch64", nil
	case "arm":
		return "armv7l", nil
	case "386":
		return "i386", nil
	default:
		return "", fmt.Errorf("no upstream artifact for architecture %q", goarch)
	}
}

// ipEndpoints are queried in order until one answers with a plausible address.
var ipEndpoints = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
}

// PublicIP asks a public echo service for the host's outward-facing address.
// Best effort: failures return an error and the caller falls back to a
// placeholder in the client config line.
func PublicIP(ctx context.Context) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	var lastErr error
	for _, url := range ipEndpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("ip lookup %s: status %d", url, resp.StatusCode)
			continue
		}
		ip := strings.TrimSpace(string(body))
		if ip != "" {
			return ip, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no ip endpoints configured")
	}
	return "", fmt.Errorf("discover public ip: %w", lastErr)
}
