// Package probe reads the current state of build outputs for the
// detail check: existence, content hash, embedded version, and last
// write time. Probes are synchronous and may block on I/O; callers
// bound concurrency.
package probe

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"time"

	"patchcheck/pkg/errors"
)

// Prober answers questions about one file on disk.
type Prober interface {
	// Exists reports whether path is an existing regular file.
	Exists(path string) bool
	// MD5 returns the lowercase hex content hash.
	MD5(path string) (string, error)
	// Version returns the embedded version string, or "" for files
	// without version information. "" is not an error.
	Version(path string) (string, error)
	// ModTime returns the last write time.
	ModTime(path string) (time.Time, error)
}

// FS probes the real file system.
type FS struct{}

var _ Prober = FS{}

func (FS) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (FS) MD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrProbeRead, "failed to open %s for hashing", path)
	}
	defer func() { _ = f.Close() }()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, errors.ErrProbeRead, "failed to hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (FS) Version(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrProbeRead, "failed to read %s for version info", path)
	}
	return PEVersion(data), nil
}

func (FS) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, errors.ErrProbeRead, "failed to stat %s", path)
	}
	return info.ModTime(), nil
}
