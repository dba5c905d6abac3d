package fsutil

import "golang.org/x/sys/unix"

// unixAccessReadable checks readability with access(2) instead of
// opening the directory; a directory can be readable without being
// listable through os.Open in unusual permission setups.
func unixAccessReadable(path string) error {
	return unix.Access(path, unix.R_OK)
}
