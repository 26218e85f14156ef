// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package sysinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseOSRelease(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    OSFamily
	}{
		{"ubuntu", "NAME=\"Ubuntu\"\nID=ubuntu\nID_LIKE=debian\n", FamilyDebian},
		{"debian", "ID=debian\n", FamilyDebian},
		{"centos", "ID=\"centos\"\nID_LIKE=\"rhel fedora\"\n", FamilyRHEL},
		{"rocky_via_like", "ID=rocky\nID_LIKE=\"rhel centos fedora\"\n", FamilyRHEL},
		{"alpine", "ID=alpine\n", FamilyAlpine},
		{"arch", "ID=arch\n", FamilyArch},
		{"mystery", "ID=plan9ish\n", FamilyUnknown},
		{"empty", "", FamilyUnknown},
	}
	for _, tc := range cases {
		if got := parseOSRelease(strings.NewReader(tc.content)); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestArtifactArchFor(t *testing.T) {
	cases := map[string]string{
		"amd64": "amd64",
		"arm64": "aarch64",
		"arm":   "armv7l",
		"386":   "i386",
	}
	for goarch, want := range cases {
		got, err := artifactArchFor(goarch)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", goarch, err)
		}
		if got != want {
			t.Fatalf("%s: expected %q, got %q", goarch, want, got)
		}
	}

	if _, err := artifactArchFor("s390x"); err == nil {
		t.Fatalf("expected error for unsupported arch")
	}
}

func TestPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("203.0.113.7\n"))
	}))
	defer srv.Close()

	prev := ipEndpoints
	ipEndpoints = []string{srv.URL}
	defer func() { ipEndpoints = prev }()

	ip, err := PublicIP(context.Background())
	if err != nil {
		t.Fatalf("PublicIP failed: %v", err)
	}
	if ip != "203.0.113.7" {
		t.Fatalf("unexpected ip: %q", ip)
	}
}

func TestPublicIP_AllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	prev := ipEndpoints
	ipEndpoints = []string{srv.URL}
	defer func() { ipEndpoints = prev }()

	if _, err := PublicIP(context.Background()); err == nil {
		t.Fatalf("expected error when every endpoint fails")
	}
}
