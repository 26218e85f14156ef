// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/snelldock/snelldock/internal/model"

// Store defines the interface for all state persistence in Snelldock.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Deployment methods
	GetActiveDeployment() (*model.Deployment, error)
	CreateDeployment(d model.Deployment) (int, error)
	UpdateDeployment(d model.Deployment) error
	DeactivateDeployment(id int) error

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	RecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error
}
