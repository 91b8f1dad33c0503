// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "marina"
	binaryDir  = "bin"
	cmdDir     = "./cmd/marina"

	versionVar = "github.com/mesh-intelligence/berths/internal/cli.Version"
)

// ldflags stamps the binary with the nearest git tag, when there is one.
// Outside a tagged checkout the compiled-in default is kept.
func ldflags() string {
	tag, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || tag == "" {
		return ""
	}
	return "-X " + versionVar + "=" + strings.TrimPrefix(tag, "v")
}

// Build compiles the marina binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Smoke builds marina and checks that "marina version" runs.
func Smoke() error {
	mg.Deps(Build)
	out, err := sh.Output(filepath.Join(binaryDir, binaryName), "version")
	if err != nil {
		return err
	}
	if !strings.HasPrefix(out, binaryName+" v") {
		return fmt.Errorf("unexpected version output: %q", out)
	}
	return nil
}

// Init builds marina and runs "marina init" to create config.yaml and an
// empty inventory in the current directory.
func Init() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "init")
}
