// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package engine

import (
	"context"
	"fmt"

	"github.com/snelldock/snelldock/internal/model"
)

// Fake is an in-memory Engine used by tests. It records the calls it
// receives and can be told to fail specific operations.
type Fake struct {
	Calls         []string
	FailOn        map[string]error
	ContainerUp   bool
	ContainerSeen bool
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{FailOn: map[string]error{}}
}

func (f *Fake) record(op string) error {
	f.Calls = append(f.Calls, op)
	if err, ok := f.FailOn[op]; ok {
		return err
	}
	return nil
}

func (f *Fake) Probe(ctx context.Context) error { return f.record("probe") }

func (f *Fake) Build(ctx context.Context) error { return f.record("build") }

func (f *Fake) Up(ctx context.Context) error {
	if err := f.record("up"); err != nil {
		return err
	}
	f.ContainerUp = true
	f.ContainerSeen = true
	return nil
}

func (f *Fake) Down(ctx context.Context) error {
	if err := f.record("down"); err != nil {
		return err
	}
	f.ContainerUp = false
	f.ContainerSeen = false
	return nil
}

func (f *Fake) Restart(ctx context.Context) error { return f.record("restart") }

func (f *Fake) RemoveImage(ctx context.Context, tag string) error {
	return f.record(fmt.Sprintf("rmi %s", tag))
}

func (f *Fake) State(ctx context.Context, container string) (model.ContainerState, error) {
	if err := f.record("state"); err != nil {
		return model.StateUnknown, err
	}
	if !f.ContainerSeen {
		return model.StateAbsent, nil
	}
	if f.ContainerUp {
		return model.StateRunning, nil
	}
	return model.StateStopped, nil
}
