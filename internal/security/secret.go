// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package security holds credential generation and the Secret wrapper that
// keeps the PSK out of logs and JSON output.
package security

import (
	"encoding/json"
	"fmt"
)

// Secret wraps sensitive bytes so they cannot leak through fmt or JSON.
// The raw value is only reachable via Bytes/String accessors that callers
// must invoke deliberately.
type Secret struct {
	b []byte
}

// FromString wraps s in a Secret.
func FromString(s string) Secret {
	return Secret{b: []byte(s)}
}

// Bytes returns the underlying secret bytes. The slice aliases the secret;
// callers must not hold on to it longer than needed.
func (s Secret) Bytes() []byte { return s.b }

// Reveal returns the secret as a string.
func (s Secret) Reveal() string { return string(s.b) }

// Zero overwrites the underlying bytes in place.
func (s *Secret) Zero() {
	for i := range s.b {
		s.b[i] = 0
	}
}

// String implements fmt.Stringer and always redacts.
func (s Secret) String() string { return "[SECRET]" }

// Format implements fmt.Formatter so every verb redacts.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte("[SECRET]"))
}

// MarshalJSON implements json.Marshaler and always redacts.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal("[SECRET]")
}
