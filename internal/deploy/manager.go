// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package deploy orchestrates the deployment lifecycle: it generates
// credentials, writes the proxy's config and build files, fetches the
// upstream binary and drives the container engine. All engine semantics
// stay behind the engine.Engine interface.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snelldock/snelldock/internal/db"
	"github.com/snelldock/snelldock/internal/engine"
	"github.com/snelldock/snelldock/internal/logging"
	"github.com/snelldock/snelldock/internal/model"
	"github.com/snelldock/snelldock/internal/security"
	"github.com/snelldock/snelldock/internal/snell"
	"github.com/snelldock/snelldock/internal/sysinfo"
)

// ErrNotInstalled is returned by lifecycle operations that need an existing
// deployment when none is installed.
var ErrNotInstalled = errors.New("no deployment installed")

// Settings carries the configuration the manager needs. Values come from
// viper in the cmd layer.
type Settings struct {
	WorkDir      string // directory holding config, compose file and binary
	Version      string // upstream server version to deploy
	DownloadBase string // release mirror; empty means upstream default
}

// Manager performs the five lifecycle operations. It is safe for use from
// a single goroutine; operations are strictly sequential.
type Manager struct {
	settings Settings
	engine   engine.Engine
	store    db.Store

	// fetchBinary is swappable in tests to avoid network access.
	fetchBinary func(ctx context.Context, version, arch, destDir string) (string, error)
	// artifactArch is swappable in tests to pin the host architecture.
	artifactArch func() (string, error)
}

// NewManager wires a Manager from its dependencies.
func NewManager(settings Settings, eng engine.Engine, store db.Store) *Manager {
	f := snell.NewFetcher(settings.DownloadBase)
	return &Manager{
		settings:     settings,
		engine:       eng,
		store:        store,
		fetchBinary:  f.FetchBinary,
		artifactArch: sysinfo.ArtifactArch,
	}
}

// Install provisions a fresh deployment: credentials, files, binary, image,
// container, state record. The first failing step aborts the whole install.
func (m *Manager) Install(ctx context.Context) (*model.Deployment, error) {
	if err := m.engine.Probe(ctx); err != nil {
		return nil, fmt.Errorf("environment check: %w", err)
	}
	arch, err := m.artifactArch()
	if err != nil {
		return nil, fmt.Errorf("environment check: %w", err)
	}
	logging.Debugf("environment: os family %s, artifact arch %s", sysinfo.DetectOSFamily(), arch)

	psk, err := security.GeneratePSK()
	if err != nil {
		return nil, err
	}
	port, err := security.RandomPort()
	if err != nil {
		return nil, err
	}
	publicID, err := security.NewDeploymentID()
	if err != nil {
		return nil, err
	}

	cfg := snell.ServerConfig{Host: "0.0.0.0", Port: port, PSK: psk.Reveal(), IPv6: false}
	if err := m.writeArtifacts(cfg, m.settings.Version); err != nil {
		return nil, err
	}

	if _, err := m.fetchBinary(ctx, m.settings.Version, arch, m.settings.WorkDir); err != nil {
		return nil, fmt.Errorf("fetch server binary: %w", err)
	}

	if err := m.engine.Build(ctx); err != nil {
		return nil, fmt.Errorf("build image: %w", err)
	}
	if err := m.engine.Up(ctx); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	d := model.Deployment{
		PublicID: publicID,
		Port:     port,
		PSK:      psk.Reveal(),
		Version:  m.settings.Version,
		IPv6:     cfg.IPv6,
	}
	id, err := m.store.CreateDeployment(d)
	if err != nil {
		return nil, fmt.Errorf("record deployment: %w", err)
	}
	d.ID = id
	d.IsActive = true

	logging.Infof("installed snell v%s on port %d", d.Version, d.Port)
	return &d, nil
}

// Update re-fetches the configured server version, rebuilds the image and
// recreates the container. Deployment files are only replaced after the
// fetch succeeded, so a dead mirror never breaks a running deployment.
func (m *Manager) Update(ctx context.Context) (*model.Deployment, error) {
	d, err := m.requireInstalled()
	if err != nil {
		return nil, err
	}
	arch, err := m.artifactArch()
	if err != nil {
		return nil, fmt.Errorf("environment check: %w", err)
	}

	// Fetch into a staging dir first.
	staging, err := os.MkdirTemp("", "snelldock-update-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	fetched, err := m.fetchBinary(ctx, m.settings.Version, arch, staging)
	if err != nil {
		return nil, fmt.Errorf("fetch server binary: %w", err)
	}
	data, err := os.ReadFile(fetched)
	if err != nil {
		return nil, fmt.Errorf("read staged binary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.settings.WorkDir, snell.BinaryFileName), data, 0o755); err != nil {
		return nil, fmt.Errorf("install staged binary: %w", err)
	}

	// Refresh build files; the image tag tracks the version.
	cfg := snell.ServerConfig{Host: "0.0.0.0", Port: d.Port, PSK: d.PSK, IPv6: d.IPv6}
	if err := m.writeArtifacts(cfg, m.settings.Version); err != nil {
		return nil, err
	}

	if err := m.engine.Build(ctx); err != nil {
		return nil, fmt.Errorf("build image: %w", err)
	}
	if err := m.engine.Up(ctx); err != nil {
		return nil, fmt.Errorf("recreate container: %w", err)
	}

	d.Version = m.settings.Version
	if err := m.store.UpdateDeployment(*d); err != nil {
		return nil, fmt.Errorf("record update: %w", err)
	}

	logging.Infof("updated deployment to snell v%s", d.Version)
	return d, nil
}

// Restart delegates a container restart to the engine.
func (m *Manager) Restart(ctx context.Context) error {
	if _, err := m.requireInstalled(); err != nil {
		return err
	}
	if err := m.engine.Restart(ctx); err != nil {
		return fmt.Errorf("restart container: %w", err)
	}
	_ = m.store.LogAction("RESTART", "container restarted")
	return nil
}

// Remove tears the deployment down: container, image, generated files and
// the active state record.
func (m *Manager) Remove(ctx context.Context) error {
	d, err := m.requireInstalled()
	if err != nil {
		return err
	}

	if err := m.engine.Down(ctx); err != nil {
		return fmt.Errorf("stop container: %w", err)
	}
	if err := m.engine.RemoveImage(ctx, snell.ImageTag(d.Version)); err != nil {
		// The container is already gone; a stale image is not worth
		// keeping the deployment record alive for.
		logging.Warnf("remove image: %v", err)
	}

	for _, name := range []string{snell.ConfFileName, snell.ComposeFileName, snell.DockerfileName, snell.BinaryFileName} {
		if err := os.Remove(filepath.Join(m.settings.WorkDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}

	if err := m.store.DeactivateDeployment(d.ID); err != nil {
		return fmt.Errorf("record removal: %w", err)
	}
	logging.Infof("removed deployment %s", d.PublicID)
	return nil
}

// Info returns the current deployment joined with the on-disk config. The
// config file stays the source of truth for the credentials the container
// actually uses.
func (m *Manager) Info() (*model.Deployment, snell.ServerConfig, error) {
	d, err := m.requireInstalled()
	if err != nil {
		return nil, snell.ServerConfig{}, err
	}
	f, err := os.Open(filepath.Join(m.settings.WorkDir, snell.ConfFileName))
	if err != nil {
		return nil, snell.ServerConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := snell.ParseConfig(f)
	if err != nil {
		return nil, snell.ServerConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return d, cfg, nil
}

// Status reports the engine's view of the proxy container.
func (m *Manager) Status(ctx context.Context) (model.ContainerState, error) {
	return m.engine.State(ctx, snell.ServiceName)
}

// Installed reports whether an active deployment record exists.
func (m *Manager) Installed() (bool, error) {
	d, err := m.store.GetActiveDeployment()
	if err != nil {
		return false, err
	}
	return d != nil, nil
}

func (m *Manager) requireInstalled() (*model.Deployment, error) {
	d, err := m.store.GetActiveDeployment()
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotInstalled
	}
	return d, nil
}

// writeArtifacts writes the config, compose descriptor and Dockerfile into
// the workdir. Re-running overwrites; the files carry no state of their own
// beyond what the ServerConfig holds.
func (m *Manager) writeArtifacts(cfg snell.ServerConfig, version string) error {
	if err := os.MkdirAll(m.settings.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}

	// 0600: the config carries the PSK.
	if err := os.WriteFile(filepath.Join(m.settings.WorkDir, snell.ConfFileName), []byte(cfg.Render()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", snell.ConfFileName, err)
	}

	composeOut, err := snell.NewCompose(version).Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(m.settings.WorkDir, snell.ComposeFileName), composeOut, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", snell.ComposeFileName, err)
	}

	if err := os.WriteFile(filepath.Join(m.settings.WorkDir, snell.DockerfileName), []byte(snell.RenderDockerfile()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", snell.DockerfileName, err)
	}
	return nil
}
