// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/snelldock/snelldock/internal/model"
	"github.com/uptrace/bun"
)

// DeploymentModel maps the `deployments` table for Bun queries.
type DeploymentModel struct {
	bun.BaseModel `bun:"table:deployments"`
	ID            int    `bun:"id,pk,autoincrement"`
	PublicID      string `bun:"public_id"`
	Port          int    `bun:"port"`
	PSK           string `bun:"psk"`
	Version       string `bun:"version"`
	IPv6          bool   `bun:"ipv6"`
	IsActive      bool   `bun:"is_active"`
	CreatedAt     string `bun:"created_at"`
	UpdatedAt     string `bun:"updated_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

func deploymentModelToModel(m DeploymentModel) model.Deployment {
	return model.Deployment{
		ID:        m.ID,
		PublicID:  m.PublicID,
		Port:      m.Port,
		PSK:       m.PSK,
		Version:   m.Version,
		IPv6:      m.IPv6,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GetActiveDeploymentBun returns the active deployment, or nil when the
// host has none installed.
func GetActiveDeploymentBun(bdb *bun.DB) (*model.Deployment, error) {
	ctx := context.Background()

	var dm DeploymentModel
	err := bdb.NewSelect().Model(&dm).Where("is_active = ?", true).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := deploymentModelToModel(dm)
	return &m, nil
}

// CreateDeploymentBun deactivates any existing deployment rows and inserts
// the new active one within a single transaction.
func CreateDeploymentBun(bdb *bun.DB, d model.Deployment) (int, error) {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Raw UPDATE without WHERE: Bun refuses unfiltered Update queries to
	// protect against accidental full-table writes, but this one is the point.
	if _, err := ExecRaw(ctx, tx, "UPDATE deployments SET is_active = FALSE"); err != nil {
		return 0, fmt.Errorf("failed to deactivate old deployments: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	dm := DeploymentModel{
		PublicID:  d.PublicID,
		Port:      d.Port,
		PSK:       d.PSK,
		Version:   d.Version,
		IPv6:      d.IPv6,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := tx.NewInsert().Model(&dm).Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to insert deployment: %w", MapDBError(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return dm.ID, nil
}

// UpdateDeploymentBun persists mutable fields of an existing deployment.
func UpdateDeploymentBun(bdb *bun.DB, d model.Deployment) error {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := bdb.NewUpdate().Model((*DeploymentModel)(nil)).
		Set("port = ?", d.Port).
		Set("psk = ?", d.PSK).
		Set("version = ?", d.Version).
		Set("ipv6 = ?", d.IPv6).
		Set("updated_at = ?", now).
		Where("id = ?", d.ID).
		Exec(ctx)
	return MapDBError(err)
}

// DeactivateDeploymentBun marks one deployment row inactive.
func DeactivateDeploymentBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := bdb.NewUpdate().Model((*DeploymentModel)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	return MapDBError(err)
}

// GetAllAuditLogEntriesBun returns all audit entries, newest first.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
	}
	return out, nil
}

// RecentAuditLogEntriesBun returns the newest entries up to limit.
func RecentAuditLogEntriesBun(bdb *bun.DB, limit int) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
	}
	return out, nil
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (timestamp, username, action, details) VALUES (?, ?, ?, ?)", ts, username, action, details)
	return MapDBError(err)
}
