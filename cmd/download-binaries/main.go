// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/duckdb-go/duckdb-go/internal/binaries"
)

type options struct {
	ProjectRoot string `short:"r" long:"root" description:"Project root holding include/ and lib/ (default: nearest go.mod)"`
	Version     string `short:"v" long:"version" description:"Engine version to download (overrides default)"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	root := opts.ProjectRoot
	if root == "" {
		var err error
		root, err = findProjectRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding project root: %v\n", err)
			os.Exit(1)
		}
	}

	if opts.Version != "" {
		os.Setenv(binaries.VersionEnv, opts.Version)
	}

	if err := binaries.EnsureBinariesExist(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error ensuring engine library exists: %v\n", err)
		os.Exit(1)
	}
}

// findProjectRoot walks up the directory tree to find go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find go.mod in current directory or any parent directory")
}
