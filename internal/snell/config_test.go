// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package snell

import (
	"strings"
	"testing"
)

func TestServerConfigRender(t *testing.T) {
	c := ServerConfig{Host: "0.0.0.0", Port: 23456, PSK: "deadbeef", IPv6: false}
	out := c.Render()

	for _, want := range []string{
		"[snell-server]",
		"listen = 0.0.0.0:23456",
		"psk = deadbeef",
		"ipv6 = false",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered config missing %q:\n%s", want, out)
		}
	}
}

func TestParseConfig(t *testing.T) {
	in := `# generated
[snell-server]
listen = 0.0.0.0:31337
psk = cafebabe
ipv6 = true
`
	c, err := ParseConfig(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if c.Host != "0.0.0.0" || c.Port != 31337 {
		t.Fatalf("unexpected listen: %s", c.Listen())
	}
	if c.PSK != "cafebabe" {
		t.Fatalf("unexpected psk: %q", c.PSK)
	}
	if !c.IPv6 {
		t.Fatalf("expected ipv6 true")
	}
}

func TestParseConfig_RoundTrip(t *testing.T) {
	orig := ServerConfig{Host: "0.0.0.0", Port: 40001, PSK: "s3cret", IPv6: false}
	parsed, err := ParseConfig(strings.NewReader(orig.Render()))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if parsed != orig {
		t.Fatalf("round trip mismatch: %+v != %+v", parsed, orig)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"no_section":  "listen = 0.0.0.0:1\npsk = x\n",
		"no_listen":   "[snell-server]\npsk = x\n",
		"no_psk":      "[snell-server]\nlisten = 0.0.0.0:1\n",
		"bad_listen":  "[snell-server]\nlisten = nonsense\npsk = x\n",
		"bad_port":    "[snell-server]\nlisten = 0.0.0.0:http\npsk = x\n",
		"broken_line": "[snell-server]\nlisten 0.0.0.0:1\npsk = x\n",
	}
	for name, in := range cases {
		if _, err := ParseConfig(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestClientLine(t *testing.T) {
	c := ServerConfig{Host: "0.0.0.0", Port: 23456, PSK: "deadbeef"}
	got := ClientLine("myserver", "203.0.113.7", c, "5.0.0")
	want := "myserver = snell, 203.0.113.7, 23456, psk=deadbeef, version=5"
	if got != want {
		t.Fatalf("unexpected client line:\n got: %s\nwant: %s", got, want)
	}
}
