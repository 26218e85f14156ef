// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package snell

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// File names of the generated build artifacts inside the workdir.
const (
	ComposeFileName = "docker-compose.yml"
	DockerfileName  = "Dockerfile"
	BinaryFileName  = "snell-server"
)

// ServiceName is the compose service and container name.
const ServiceName = "snell-server"

// ConfContainerPath is where the config is bind-mounted inside the container.
const ConfContainerPath = "/etc/snell-server.conf"

// Compose models the subset of the compose schema the deployment uses:
// one service, host networking, a read-only config mount and an
// always-restart policy. Marshaled with goccy/go-yaml.
type Compose struct {
	Services map[string]ComposeService `yaml:"services"`
}

// ComposeService is a single service entry in the descriptor.
type ComposeService struct {
	Build         string   `yaml:"build"`
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name"`
	Restart       string   `yaml:"restart"`
	NetworkMode   string   `yaml:"network_mode"`
	Volumes       []string `yaml:"volumes"`
}

// ImageTag returns the local image reference for a given upstream version.
func ImageTag(version string) string {
	return fmt.Sprintf("snelldock/snell-server:v%s", version)
}

// NewCompose builds the orchestration descriptor for a deployment of the
// given upstream version.
func NewCompose(version string) Compose {
	return Compose{
		Services: map[string]ComposeService{
			ServiceName: {
				Build:         ".",
				Image:         ImageTag(version),
				ContainerName: ServiceName,
				Restart:       "always",
				NetworkMode:   "host",
				Volumes: []string{
					fmt.Sprintf("./%s:%s:ro", ConfFileName, ConfContainerPath),
				},
			},
		},
	}
}

// Render marshals the descriptor to YAML.
func (c Compose) Render() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal compose descriptor: %w", err)
	}
	return out, nil
}

// RenderDockerfile produces the minimal image build file. The binary is
// fetched on the host at install time, so the build stage only copies it in.
func RenderDockerfile() string {
	return `FROM debian:bookworm-slim
COPY ` + BinaryFileName + ` /usr/local/bin/` + BinaryFileName + `
RUN chmod +x /usr/local/bin/` + BinaryFileName + `
ENTRYPOINT ["/usr/local/bin/` + BinaryFileName + `", "-c", "` + ConfContainerPath + `"]
`
}
