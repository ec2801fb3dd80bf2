/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/

// Package integration exercises the public packages together the way the CLI
// wires them: configuration loaded from the tree root, the filtered adapter
// registry, and the engine operating on real directories.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/semcast/internal/gitctx"
	"github.com/fulmenhq/semcast/pkg/config"
	"github.com/fulmenhq/semcast/pkg/engine"
	"github.com/fulmenhq/semcast/pkg/manifest"
)

// TestEnv provides a temporary repository tree for one test.
type TestEnv struct {
	Dir string
	t   *testing.T
}

// NewTestEnv creates a test environment with a temporary directory.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	dir, err := os.MkdirTemp("", "semcast-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("Failed to clean up test dir %s: %v", dir, err)
		}
	})
	return &TestEnv{Dir: dir, t: t}
}

// WriteFile writes content to a file in the test environment, creating
// parent directories as needed.
func (env *TestEnv) WriteFile(rel, content string) {
	env.t.Helper()
	path := filepath.Join(env.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		env.t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

// ReadFile reads a file from the test environment.
func (env *TestEnv) ReadFile(rel string) string {
	env.t.Helper()
	data, err := os.ReadFile(filepath.Join(env.Dir, filepath.FromSlash(rel)))
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Symlink creates a symbolic link inside the test environment.
func (env *TestEnv) Symlink(target, linkRel string) {
	env.t.Helper()
	link := filepath.Join(env.Dir, filepath.FromSlash(linkRel))
	if err := os.Symlink(target, link); err != nil {
		env.t.Fatalf("Failed to symlink %s -> %s: %v", linkRel, target, err)
	}
}

// Engine builds an engine the way cmd does: configuration from the tree
// root, the filtered registry, and the resolved repository name.
func (env *TestEnv) Engine() *engine.Engine {
	env.t.Helper()
	cfg, err := config.Load(env.Dir)
	if err != nil {
		env.t.Fatalf("Failed to load config: %v", err)
	}
	reg := manifest.NewRegistry()
	if err := reg.Filter(cfg.Manifests.Only, cfg.Manifests.Exclude); err != nil {
		env.t.Fatalf("Failed to filter registry: %v", err)
	}
	return engine.New(env.Dir, engine.Config{
		Registry:     reg,
		ExtraIgnores: cfg.Ignore,
		TagTemplate:  cfg.TagTemplate,
		RepoName:     gitctx.RepoName(env.Dir),
	})
}

// SeedCascadeFixture builds a polyglot monorepo layout with every manifest
// declaring the given version.
func SeedCascadeFixture(t *testing.T, version string) *TestEnv {
	env := NewTestEnv(t)
	env.WriteFile("VERSION", version+"\n")
	env.WriteFile("Cargo.toml", cargoManifest(version))
	env.WriteFile("services/api/package.json", nodeManifest("api", version))
	env.WriteFile("services/worker/pyproject.toml", pythonManifest("worker", version))
	env.WriteFile("platform/jvm/pom.xml", mavenManifest(version))
	return env
}

func cargoManifest(version string) string {
	return `# Release automation owns [package].version.
[package]
name = "core"
version = "` + version + `"
edition = "2021"

[dependencies]
serde = { version = "1.0.219", features = ["derive"] }
`
}

func nodeManifest(name, version string) string {
	return `{
  "name": "` + name + `",
  "version": "` + version + `",
  "scripts": {
    "version": "echo nested version key"
  }
}
`
}

func pythonManifest(name, version string) string {
	return `[project]
name = "` + name + `"
version = "` + version + `"
requires-python = ">=3.11"
`
}

func mavenManifest(version string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>jvm-service</artifactId>
  <version>` + version + `</version>
</project>
`
}
