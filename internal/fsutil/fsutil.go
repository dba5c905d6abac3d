// Package fsutil provides the small filesystem primitives the mount
// constructor and cgroup installer build on: writing a buffer to a file
// with explicit open flags, creating directory trees permissively, and
// telling directories apart from everything else without choking on a
// path that doesn't exist yet.
package fsutil

import (
	"os"
)

const (
	// dirPerm applies to every directory created on behalf of the jail
	// assembly, scratch locations and mount-point ancestors alike.
	dirPerm = 0755
)

// WriteBufToFile opens path with the given flags, writes buf in full and
// closes it. It fails if any of open/write/close fails; callers decide
// whether that failure is fatal or merely logged.
func WriteBufToFile(path string, buf []byte, flags int) error {
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CreateDirRecursively creates path and all missing ancestors with
// permissive directory permissions. It succeeds if path already exists
// as a directory.
func CreateDirRecursively(path string) error {
	return os.MkdirAll(path, dirPerm)
}

// IsDirectory reports whether path is a directory. An empty path is
// treated as "no source" and is considered a directory, matching the
// convention tmpfs- and procfs-backed mount points use in place of a
// real source path.
func IsDirectory(path string) bool {
	if path == "" {
		return true
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// MkdirAndTest creates dir (mode 0755) if it doesn't exist yet, then
// confirms it's readable. It returns false if either step fails; the
// caller only needs to know whether dir is usable as a scratch location.
func MkdirAndTest(dir string) bool {
	if err := os.Mkdir(dir, dirPerm); err != nil && !os.IsExist(err) {
		return false
	}
	if err := unixAccessReadable(dir); err != nil {
		return false
	}
	return true
}
