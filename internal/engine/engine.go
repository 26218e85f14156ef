// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package engine delegates container lifecycle operations to the host's
// container engine CLI. All process supervision, restart policy and
// networking semantics are owned by the engine; this package only shells
// out and reports exit status.
package engine

import (
	"context"

	"github.com/snelldock/snelldock/internal/model"
)

// Engine is the container lifecycle surface the deployment manager needs.
// DockerCompose is the real implementation; Fake backs tests.
type Engine interface {
	// Probe verifies the engine binary and its compose subcommand exist.
	Probe(ctx context.Context) error
	// Build builds the image for the compose project.
	Build(ctx context.Context) error
	// Up creates and starts the stack detached.
	Up(ctx context.Context) error
	// Down stops and removes the stack.
	Down(ctx context.Context) error
	// Restart restarts the stack's containers.
	Restart(ctx context.Context) error
	// RemoveImage removes the built image by tag.
	RemoveImage(ctx context.Context, tag string) error
	// State reports the container's runtime state.
	State(ctx context.Context, container string) (model.ContainerState, error)
}
