// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the per-backend Store implementations. All three
// delegate to the shared Bun adapters; the named types exist so backend
// specific behavior has a place to live when it diverges.
package db

import (
	"fmt"

	"github.com/snelldock/snelldock/internal/model"
	"github.com/uptrace/bun"
)

// bunStore implements Store on top of a *bun.DB.
type bunStore struct {
	bun *bun.DB
}

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct{ bunStore }

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct{ bunStore }

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct{ bunStore }

// GetActiveDeployment retrieves the live deployment record, if any.
func (s bunStore) GetActiveDeployment() (*model.Deployment, error) {
	return GetActiveDeploymentBun(s.bun)
}

// CreateDeployment inserts a new active deployment and logs the action.
func (s bunStore) CreateDeployment(d model.Deployment) (int, error) {
	id, err := CreateDeploymentBun(s.bun, d)
	if err == nil {
		_ = s.LogAction("INSTALL", fmt.Sprintf("deployment %s on port %d (snell v%s)", d.PublicID, d.Port, d.Version))
	}
	return id, err
}

// UpdateDeployment persists deployment changes and logs the action.
func (s bunStore) UpdateDeployment(d model.Deployment) error {
	err := UpdateDeploymentBun(s.bun, d)
	if err == nil {
		_ = s.LogAction("UPDATE", fmt.Sprintf("deployment %s now snell v%s", d.PublicID, d.Version))
	}
	return err
}

// DeactivateDeployment marks the deployment removed and logs the action.
func (s bunStore) DeactivateDeployment(id int) error {
	err := DeactivateDeploymentBun(s.bun, id)
	if err == nil {
		_ = s.LogAction("REMOVE", fmt.Sprintf("deployment id %d", id))
	}
	return err
}

// GetAllAuditLogEntries returns the full audit log, newest first.
func (s bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// RecentAuditLogEntries returns the newest audit entries up to limit.
func (s bunStore) RecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	return RecentAuditLogEntriesBun(s.bun, limit)
}

// LogAction appends an audit entry attributed to the current OS user.
func (s bunStore) LogAction(action, details string) error {
	return LogActionBun(s.bun, action, details)
}
