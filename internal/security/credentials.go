// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Port range handed out for fresh installs. High enough to avoid well-known
// services, low enough to stay inside the unprivileged range everywhere.
const (
	MinPort = 20000
	MaxPort = 60000
)

// pskBytes is the entropy of a generated pre-shared key. 16 bytes hex-encode
// to a 32 character PSK, matching what Snell clients expect to paste.
const pskBytes = 16

// GeneratePSK returns a fresh random pre-shared key.
func GeneratePSK() (Secret, error) {
	buf := make([]byte, pskBytes)
	if _, err := rand.Read(buf); err != nil {
		return Secret{}, fmt.Errorf("generate psk: %w", err)
	}
	return FromString(hex.EncodeToString(buf)), nil
}

// RandomPort picks a random listen port in [MinPort, MaxPort].
func RandomPort() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(MaxPort-MinPort+1)))
	if err != nil {
		return 0, fmt.Errorf("generate port: %w", err)
	}
	return MinPort + int(n.Int64()), nil
}

// NewDeploymentID returns a short random identifier for a deployment record.
func NewDeploymentID() (string, error) {
	id, err := gonanoid.New(12)
	if err != nil {
		return "", fmt.Errorf("generate deployment id: %w", err)
	}
	return id, nil
}
