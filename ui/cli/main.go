// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for Snelldock using the
// Cobra library. It defines the root command, the lifecycle subcommands and
// the main entry point for execution. Running the root command without a
// subcommand launches the interactive TUI.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/snelldock/snelldock/internal/config"
	"github.com/snelldock/snelldock/internal/db"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/engine"
	"github.com/snelldock/snelldock/internal/i18n"
	"github.com/snelldock/snelldock/internal/logging"
	"github.com/snelldock/snelldock/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool

// appConfig holds the effective configuration after setup.
var appConfig config.Config

// isTerminal is swappable in tests.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// tuiRun is swappable in tests.
var tuiRun = tui.Run

// setupDefaultServices loads the configuration, initializes i18n and opens
// the state store. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	if verbose {
		logging.SetDebug(true)
	}

	if err := config.Load(cfgFile); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// If no config file was found, write a default one so subsequent runs
	// have a persisted file to inspect.
	if cfgFile == "" && viper.ConfigFileUsed() == "" {
		appConfig = config.FromViper()
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	}

	appConfig = config.FromViper()
	i18n.Init(appConfig.Language)

	// Initialize the database if not already initialized by tests or earlier setup.
	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// newManager wires the deployment manager from the effective configuration.
func newManager() (*deploy.Manager, error) {
	eng := engine.NewDockerCompose(appConfig.Engine.Binary, appConfig.WorkDir)
	store, err := db.GetStore()
	if err != nil {
		return nil, err
	}
	return deploy.NewManager(deploy.Settings{
		WorkDir:      appConfig.WorkDir,
		Version:      appConfig.Snell.Version,
		DownloadBase: appConfig.Snell.DownloadBase,
	}, eng, store), nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snelldock",
		Short: "Snelldock manages a containerized Snell proxy server.",
		Long: `Snelldock deploys and operates a single Snell proxy server inside a
container. It generates random credentials, writes the proxy config and
container build files, fetches the upstream server binary and drives the
container engine for you.

Running without a subcommand will launch the interactive TUI.`,
		PersistentPreRunE: setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errors.New(i18n.T("cli.no_tty"))
			}
			mgr, err := newManager()
			if err != nil {
				return err
			}
			tuiRun(mgr)
			return nil
		},
	}

	cmd.Version = resolveBuildVersion(nil)

	// Define flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) output")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres)")
	cmd.PersistentFlags().String("database.dsn", "./snelldock.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "zh")`)
	cmd.PersistentFlags().String("workdir", "./snelldock", "Directory holding the deployment files")
	cmd.PersistentFlags().String("engine.binary", "docker", "Container engine binary")
	cmd.PersistentFlags().String("snell.version", "", "Snell server version to deploy")
	for _, name := range []string{"database.type", "database.dsn", "language", "workdir", "engine.binary", "snell.version"} {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("could not bind flag %s: %v", name, err)
		}
	}

	cmd.AddCommand(
		installCmd,
		updateCmd,
		restartCmd,
		removeCmd,
		infoCmd,
		statusCmd,
		auditCmd,
		newVersionCmd(),
	)

	return cmd
}

// resolveBuildVersion computes the best-available version for the running
// binary, preferring linker-set values and falling back to module build info.
func resolveBuildVersion(info *debug.BuildInfo) string {
	resolved := version
	if info == nil {
		info, _ = debug.ReadBuildInfo()
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		resolved = info.Main.Version
	}
	if resolved == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolved = gitCommit
	}
	return resolved
}

// newVersionCmd builds a lightweight `version` subcommand so users and CI
// can run `snelldock version`.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("version: %s\n", resolveBuildVersion(nil))
			if gitCommit != "" && gitCommit != "dev" {
				fmt.Printf("commit: %s\n", gitCommit)
			}
			if buildDate != "" {
				fmt.Printf("built: %s\n", buildDate)
			}
		},
	}
}
