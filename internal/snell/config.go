// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package snell renders and parses the artifacts a Snell deployment is made
// of: the server config file, the compose descriptor, the Dockerfile and the
// upstream binary archive. The file formats are owned by third parties; this
// package only produces well-formed instances of them.
package snell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConfFileName is the config file name both on disk and inside the container.
const ConfFileName = "snell-server.conf"

// ServerConfig is the structured form of snell-server.conf. Two real keys
// plus the static ipv6 flag; the consuming binary defines the format.
type ServerConfig struct {
	Host string // listen host, usually 0.0.0.0
	Port int
	PSK  string
	IPv6 bool
}

// Listen returns the combined listen address.
func (c ServerConfig) Listen() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Render produces the snell-server.conf content the upstream binary parses.
func (c ServerConfig) Render() string {
	var b strings.Builder
	b.WriteString("[snell-server]\n")
	fmt.Fprintf(&b, "listen = %s\n", c.Listen())
	fmt.Fprintf(&b, "psk = %s\n", c.PSK)
	fmt.Fprintf(&b, "ipv6 = %t\n", c.IPv6)
	return b.String()
}

// ParseConfig reads a snell-server.conf back into a ServerConfig. Used by
// show-info so the file on disk stays the source of truth for credentials.
func ParseConfig(r io.Reader) (ServerConfig, error) {
	var c ServerConfig
	inSection := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inSection = line == "[snell-server]"
			continue
		}
		if !inSection {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return c, fmt.Errorf("malformed config line: %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "listen":
			host, portStr, found := strings.Cut(value, ":")
			if !found {
				return c, fmt.Errorf("malformed listen address: %q", value)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return c, fmt.Errorf("malformed listen port: %q", portStr)
			}
			c.Host = host
			c.Port = port
		case "psk":
			c.PSK = value
		case "ipv6":
			c.IPv6 = value == "true"
		}
	}
	if err := sc.Err(); err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if c.Port == 0 {
		return c, fmt.Errorf("config has no listen address")
	}
	if c.PSK == "" {
		return c, fmt.Errorf("config has no psk")
	}
	return c, nil
}

// ClientLine builds the one-line client proxy definition users paste into
// Surge-compatible clients. host may be a discovered public IP or a
// placeholder when discovery failed.
func ClientLine(name, host string, c ServerConfig, version string) string {
	major := version
	if i := strings.Index(version, "."); i > 0 {
		major = version[:i]
	}
	return fmt.Sprintf("%s = snell, %s, %d, psk=%s, version=%s", name, host, c.Port, c.PSK, major)
}
