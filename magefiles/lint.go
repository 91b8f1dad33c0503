// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint  = "golangci-lint"
	binGofmt = "gofmt"
)

// sourceDirs are the trees checked by Fmt.
var sourceDirs = []string{"cmd", "internal", "pkg", "magefiles"}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Vet runs go vet on every package.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Fmt fails when any Go file under cmd, internal, pkg or magefiles is not
// gofmt-clean, listing the offending files.
func Fmt() error {
	out, err := sh.Output(binGofmt, append([]string{"-l"}, sourceDirs...)...)
	if err != nil {
		return err
	}
	if out = strings.TrimSpace(out); out != "" {
		return fmt.Errorf("gofmt needed on:\n%s", out)
	}
	return nil
}

// Check runs Fmt, Vet, Lint and the package tests in order, stopping at the
// first failure.
func Check() {
	mg.SerialDeps(Fmt, Vet, Lint, Test.All)
}
