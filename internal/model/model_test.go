// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestDeploymentListen(t *testing.T) {
	d := Deployment{Port: 23410}
	if got := d.Listen(); got != "0.0.0.0:23410" {
		t.Fatalf("unexpected listen address: %q", got)
	}
}
