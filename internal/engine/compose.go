// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/snelldock/snelldock/internal/logging"
	"github.com/snelldock/snelldock/internal/model"
)

// lookPath is a variable so tests can fake binary presence.
var lookPath = exec.LookPath

// DockerCompose drives a compose project through the engine CLI. It works
// with the modern `docker compose` plugin and falls back to the legacy
// standalone `docker-compose` binary when the plugin probe fails.
type DockerCompose struct {
	Binary string // engine binary name, normally "docker"
	Dir    string // compose project directory

	legacy bool
	runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// NewDockerCompose returns a DockerCompose bound to the given engine binary
// and project directory.
func NewDockerCompose(binary, dir string) *DockerCompose {
	if binary == "" {
		binary = "docker"
	}
	return &DockerCompose{
		Binary: binary,
		Dir:    dir,
		runner: runCommand,
	}
}

// runCommand executes one engine CLI invocation and captures combined
// output, which is attached to the error on failure.
func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, tail(out))
	}
	return out, nil
}

// tail returns the last few lines of CLI output for error messages.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	lines := strings.Split(s, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " / ")
}

// Probe checks that the engine binary exists in PATH and that a compose
// implementation is usable, selecting legacy docker-compose if needed.
func (d *DockerCompose) Probe(ctx context.Context) error {
	if _, err := lookPath(d.Binary); err != nil {
		return fmt.Errorf("container engine %q not found in PATH: %w", d.Binary, err)
	}
	if _, err := d.runner(ctx, d.Dir, d.Binary, "compose", "version"); err == nil {
		d.legacy = false
		return nil
	}
	if _, err := lookPath("docker-compose"); err == nil {
		d.legacy = true
		logging.Debugf("engine: falling back to legacy docker-compose binary")
		return nil
	}
	return fmt.Errorf("engine %q has no usable compose subcommand", d.Binary)
}

// composeCommand returns the binary and leading args for a compose call,
// honoring the legacy fallback chosen by Probe.
func (d *DockerCompose) composeCommand(args ...string) (string, []string) {
	if d.legacy {
		return "docker-compose", args
	}
	return d.Binary, append([]string{"compose"}, args...)
}

func (d *DockerCompose) compose(ctx context.Context, args ...string) error {
	name, full := d.composeCommand(args...)
	logging.Debugf("engine: %s %s", name, strings.Join(full, " "))
	_, err := d.runner(ctx, d.Dir, name, full...)
	return err
}

// Build builds the image for the compose project.
func (d *DockerCompose) Build(ctx context.Context) error {
	return d.compose(ctx, "build")
}

// Up creates and starts the stack detached.
func (d *DockerCompose) Up(ctx context.Context) error {
	return d.compose(ctx, "up", "-d")
}

// Down stops and removes the stack.
func (d *DockerCompose) Down(ctx context.Context) error {
	return d.compose(ctx, "down")
}

// Restart restarts the stack's containers.
func (d *DockerCompose) Restart(ctx context.Context) error {
	return d.compose(ctx, "restart")
}

// RemoveImage removes the built image by tag. Engine-level, not compose.
func (d *DockerCompose) RemoveImage(ctx context.Context, tag string) error {
	_, err := d.runner(ctx, d.Dir, d.Binary, "image", "rm", tag)
	return err
}

// State inspects the named container. A failed inspect means the container
// does not exist.
func (d *DockerCompose) State(ctx context.Context, container string) (model.ContainerState, error) {
	out, err := d.runner(ctx, d.Dir, d.Binary, "inspect", "-f", "{{.State.Running}}", container)
	if err != nil {
		return model.StateAbsent, nil
	}
	switch strings.TrimSpace(string(out)) {
	case "true":
		return model.StateRunning, nil
	case "false":
		return model.StateStopped, nil
	default:
		return model.StateUnknown, fmt.Errorf("unexpected inspect output: %q", strings.TrimSpace(string(out)))
	}
}
