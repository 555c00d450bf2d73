//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "routetimer"
	binaryDir  = "bin"
	cmdDir     = "./cmd/routetimer"

	// versionVar is the linker symbol that carries the release into
	// "routetimer version".
	versionVar = "github.com/mesh-intelligence/routetimer/internal/cli.Version"
)

// releaseVersion describes HEAD as a version. ROUTETIMER_VERSION overrides
// it; outside a git checkout the version compiled into the package is kept.
func releaseVersion() string {
	if v := os.Getenv("ROUTETIMER_VERSION"); v != "" {
		return strings.TrimPrefix(v, "v")
	}
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || out == "" {
		return ""
	}
	return strings.TrimPrefix(out, "v")
}

// ldflags stamps the release version when one is known.
func ldflags() string {
	v := releaseVersion()
	if v == "" {
		return ""
	}
	return "-X " + versionVar + "=" + v
}

// goEnv builds without cgo; the SQLite driver is pure Go.
var goEnv = map[string]string{"CGO_ENABLED": "0"}

// Build compiles the routetimer binary to bin/ with the release version
// stamped in.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunWithV(goEnv, binGo, "build", "-ldflags", ldflags(),
		"-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install installs the versioned binary into GOBIN.
func Install() error {
	return sh.RunWithV(goEnv, binGo, "install", "-ldflags", ldflags(), cmdDir)
}

// Version prints the version Build would stamp.
func Version() {
	v := releaseVersion()
	if v == "" {
		v = "(package default)"
	}
	fmt.Println(v)
}
