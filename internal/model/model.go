// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared by the store,
// the deployment manager and the UI layers.
package model // import "github.com/snelldock/snelldock/internal/model"

import "fmt"

// Deployment is the persistent record of the managed proxy deployment.
// There is at most one live deployment per host; historical rows are kept
// for the audit trail.
type Deployment struct {
	ID        int    // The primary key.
	PublicID  string // Short random identifier, stable across updates.
	Port      int    // Listen port of the proxy.
	PSK       string // Pre-shared key handed to clients.
	Version   string // Upstream server version baked into the image.
	IPv6      bool   // Whether the proxy listens on IPv6 as well.
	IsActive  bool   // False once the deployment has been removed.
	CreatedAt string // RFC 3339 timestamp of the initial install.
	UpdatedAt string // RFC 3339 timestamp of the last lifecycle change.
}

// Listen returns the address the proxy listens on, in the form the server
// config file expects.
func (d Deployment) Listen() string {
	return fmt.Sprintf("0.0.0.0:%d", d.Port)
}

// AuditLogEntry represents a single entry in the audit log.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}

// ContainerState is the engine-reported state of the proxy container.
type ContainerState string

const (
	// StateRunning means the engine reports the container as up.
	StateRunning ContainerState = "running"
	// StateStopped means the container exists but is not running.
	StateStopped ContainerState = "stopped"
	// StateAbsent means no container for the deployment exists.
	StateAbsent ContainerState = "absent"
	// StateUnknown means the engine could not be queried.
	StateUnknown ContainerState = "unknown"
)
