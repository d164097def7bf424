// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

// Package binaries fetches the prebuilt native engine library the cgo layer
// links against, placing duckdb.h under include/ and the shared library
// under lib/<goos>_<goarch>/.
package binaries

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultReleaseURLTemplate points at the upstream engine release
	// archives; the placeholders are version and platform asset name.
	DefaultReleaseURLTemplate = "https://github.com/duckdb/duckdb/releases/download/%s/%s"

	// ReleaseURLEnv overrides the full download URL.
	ReleaseURLEnv = "DUCKDB_RELEASE_URL"

	// VersionEnv overrides the engine version to download.
	VersionEnv = "DUCKDB_VERSION"

	// DefaultVersion is the engine release the bindings are built against.
	DefaultVersion = "v1.1.3"
)

// PlatformInfo holds platform-specific naming.
type PlatformInfo struct {
	OS    string
	Arch  string
	Dir   string // e.g. "linux_amd64"
	Asset string // upstream release asset name
}

// GetPlatformInfo resolves the current platform's library directory and
// upstream asset name.
func GetPlatformInfo() (PlatformInfo, error) {
	info := PlatformInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		Dir:  fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH),
	}
	switch {
	case info.OS == "linux" && info.Arch == "amd64":
		info.Asset = "libduckdb-linux-amd64.zip"
	case info.OS == "linux" && info.Arch == "arm64":
		info.Asset = "libduckdb-linux-aarch64.zip"
	case info.OS == "darwin":
		// One universal archive covers both darwin architectures.
		info.Asset = "libduckdb-osx-universal.zip"
	case info.OS == "windows" && info.Arch == "amd64":
		info.Asset = "libduckdb-windows-amd64.zip"
	default:
		return info, errors.Errorf("no prebuilt engine library for %s/%s", info.OS, info.Arch)
	}
	return info, nil
}

// EnsureBinariesExist downloads and unpacks the engine library when the
// expected files are missing.
func EnsureBinariesExist(projectRoot string) error {
	platform, err := GetPlatformInfo()
	if err != nil {
		return err
	}

	if binariesExist(projectRoot, platform) {
		return nil
	}

	fmt.Printf("downloading engine library for %s...\n", platform.Dir)
	if err := downloadAndExtract(projectRoot, platform); err != nil {
		return errors.Wrap(err, "failed to fetch engine library")
	}
	if !binariesExist(projectRoot, platform) {
		return errors.New("archive unpacked but expected files are missing")
	}
	fmt.Printf("engine library ready for %s\n", platform.Dir)
	return nil
}

func binariesExist(projectRoot string, platform PlatformInfo) bool {
	if _, err := os.Stat(filepath.Join(projectRoot, "include", "duckdb.h")); err != nil {
		return false
	}
	var lib string
	switch platform.OS {
	case "darwin":
		lib = "libduckdb.dylib"
	case "windows":
		lib = "duckdb.dll"
	default:
		lib = "libduckdb.so"
	}
	_, err := os.Stat(filepath.Join(projectRoot, "lib", platform.Dir, lib))
	return err == nil
}

func downloadAndExtract(projectRoot string, platform PlatformInfo) error {
	url := releaseURL(platform)

	// #nosec G107 - URL is built from the trusted release template
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "failed to download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	// Zip needs random access; spool to a temp file first.
	tmp, err := os.CreateTemp("", "libduckdb-*.zip")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to spool archive")
	}

	return extractZip(tmp, size, projectRoot, platform)
}

func extractZip(f *os.File, size int64, projectRoot string, platform PlatformInfo) error {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}

	includeDir := filepath.Join(projectRoot, "include")
	libDir := filepath.Join(projectRoot, "lib", platform.Dir)
	for _, dir := range []string{includeDir, libDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	const maxFileSize = 500 * 1024 * 1024

	for _, entry := range zr.File {
		name := filepath.Base(entry.Name)
		// The upstream archive is flat: headers and libraries side by side.
		if strings.Contains(entry.Name, "..") || entry.FileInfo().IsDir() {
			continue
		}

		var dest string
		switch {
		case strings.HasSuffix(name, ".h") || strings.HasSuffix(name, ".hpp"):
			dest = filepath.Join(includeDir, name)
		case strings.HasSuffix(name, ".so") || strings.HasSuffix(name, ".dylib") ||
			strings.HasSuffix(name, ".dll") || strings.HasSuffix(name, ".lib") ||
			strings.HasSuffix(name, ".a"):
			dest = filepath.Join(libDir, name)
		default:
			continue
		}

		if entry.UncompressedSize64 > maxFileSize {
			return errors.Errorf("file too large: %s (%d bytes)", entry.Name, entry.UncompressedSize64)
		}

		if err := writeEntry(entry, dest, maxFileSize); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(entry *zip.File, dest string, limit int64) error {
	in, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", entry.Name)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}
	defer out.Close()

	// #nosec G110 - the size limit above bounds decompression
	if _, err := io.Copy(out, io.LimitReader(in, limit)); err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}
	return nil
}

func releaseURL(platform PlatformInfo) string {
	if url := os.Getenv(ReleaseURLEnv); url != "" {
		return url
	}
	version := os.Getenv(VersionEnv)
	if version == "" {
		version = DefaultVersion
	}
	return fmt.Sprintf(DefaultReleaseURLTemplate, version, platform.Asset)
}
