// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snelldock/snelldock/internal/db"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/i18n"
	"github.com/snelldock/snelldock/internal/snell"
	"github.com/snelldock/snelldock/internal/sysinfo"
	"github.com/spf13/cobra"
)

// installCmd provisions a fresh deployment.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Snell proxy container",
	Long: `Checks the environment, generates random credentials, writes the proxy
config and container build files, fetches the upstream server binary and
starts the container.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		d, err := mgr.Install(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.install.done", d.Port))
		fmt.Println(i18n.T("cli.install.psk", d.PSK))
		return nil
	},
}

// updateCmd re-fetches the configured version and rebuilds the container.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the proxy to the configured Snell version",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		d, err := mgr.Update(cmd.Context())
		if err != nil {
			return notInstalledFriendly(err)
		}
		fmt.Println(i18n.T("cli.update.done", d.Version))
		return nil
	},
}

// restartCmd restarts the proxy container.
var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the proxy container",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.Restart(cmd.Context()); err != nil {
			return notInstalledFriendly(err)
		}
		fmt.Println(i18n.T("cli.restart.done"))
		return nil
	},
}

// removeCmd tears the deployment down.
var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"delete"},
	Short:   "Remove the deployment, its image and generated files",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(cmd.Context()); err != nil {
			return notInstalledFriendly(err)
		}
		fmt.Println(i18n.T("cli.remove.done"))
		return nil
	},
}

// infoCmd prints the connection details and a ready-to-paste client line.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show connection info for the deployed proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		d, cfg, err := mgr.Info()
		if err != nil {
			return notInstalledFriendly(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		host, err := sysinfo.PublicIP(ctx)
		if err != nil || host == "" {
			host = "<server-ip>"
		}

		fmt.Printf("%s: %s\n", i18n.T("info.listen"), cfg.Listen())
		fmt.Printf("%s: %s\n", i18n.T("info.psk"), cfg.PSK)
		fmt.Printf("%s: %s\n", i18n.T("info.version"), d.Version)
		fmt.Printf("%s: %t\n", i18n.T("info.ipv6"), cfg.IPv6)
		fmt.Printf("\n%s:\n  %s\n", i18n.T("info.client_line"), snell.ClientLine("snelldock", host, cfg, d.Version))
		return nil
	},
}

// statusCmd reports the engine's view of the container.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the container state",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		state, err := mgr.Status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("cli.status.state", i18n.T("dashboard.state."+string(state))))
		return nil
	},
}

// auditCmd prints the audit log, newest first.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.GetAllAuditLogEntries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(i18n.T("cli.audit.empty"))
			return nil
		}
		for _, e := range entries {
			ts := e.Timestamp
			if len(ts) > 19 {
				ts = ts[:19]
			}
			fmt.Printf("%s  %-10s %-8s %s\n", ts, e.Username, e.Action, e.Details)
		}
		return nil
	},
}

// notInstalledFriendly rewrites the not-installed sentinel into the
// localized message users see.
func notInstalledFriendly(err error) error {
	if errors.Is(err, deploy.ErrNotInstalled) {
		return errors.New(i18n.T("common.not_installed"))
	}
	return err
}
