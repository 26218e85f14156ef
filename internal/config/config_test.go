// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper() {
	viper.Reset()
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d["database.type"] != "sqlite" {
		t.Errorf("database.type default = %v", d["database.type"])
	}
	if d["engine.binary"] != "docker" {
		t.Errorf("engine.binary default = %v", d["engine.binary"])
	}
	if d["language"] != "en" {
		t.Errorf("language default = %v", d["language"])
	}
}

func TestGetConfigPath_User(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	path, err := GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("snelldock", "snelldock.yaml")) {
		t.Errorf("unexpected config path: %s", path)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)

	resetViper()
	defer resetViper()

	if err := Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c := FromViper()
	if c.Database.Type != "sqlite" {
		t.Errorf("database type = %q, want sqlite", c.Database.Type)
	}
	if c.Snell.Version == "" {
		t.Error("expected a default snell version")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.yaml")
	content := "database:\n  type: postgres\n  dsn: postgres://h/db\nlanguage: zh\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	resetViper()
	defer resetViper()

	if err := Load(cfgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c := FromViper()
	if c.Database.Type != "postgres" {
		t.Errorf("database type = %q, want postgres", c.Database.Type)
	}
	if c.Language != "zh" {
		t.Errorf("language = %q, want zh", c.Language)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("SNELLDOCK_ENGINE_BINARY", "podman")
	t.Chdir(tmp)

	resetViper()
	defer resetViper()

	if err := Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := FromViper().Engine.Binary; got != "podman" {
		t.Errorf("engine binary = %q, want podman", got)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	resetViper()
	defer resetViper()

	c := Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./snelldock.db"
	c.Language = "en"

	if err := WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "type: sqlite") {
		t.Errorf("unexpected config contents:\n%s", data)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)

	resetViper()
	defer resetViper()

	if err := Load(""); err != nil {
		t.Fatal(err)
	}
	viper.Set("language", "zh")
	if err := Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	resetViper()
	if err := Load(""); err != nil {
		t.Fatal(err)
	}
	if got := FromViper().Language; got != "zh" {
		t.Errorf("language after reload = %q, want zh", got)
	}
}
