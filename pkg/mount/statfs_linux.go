package mount

import "golang.org/x/sys/unix"

// statfsFlags pairs each ST_* bit reported by statfs(2) with the MS_*
// bit the remount pass should preserve when that bit is set.
var statfsFlags = []struct {
	st uintptr
	ms uintptr
}{
	{unix.ST_NOSUID, unix.MS_NOSUID},
	{unix.ST_NODEV, unix.MS_NODEV},
	{unix.ST_NOEXEC, unix.MS_NOEXEC},
	{unix.ST_SYNCHRONOUS, unix.MS_SYNCHRONOUS},
	{unix.ST_MANDLOCK, unix.MS_MANDLOCK},
	{unix.ST_NOATIME, unix.MS_NOATIME},
	{unix.ST_NODIRATIME, unix.MS_NODIRATIME},
	{unix.ST_RELATIME, unix.MS_RELATIME},
}

// statfsPreserveFlags translates the f_flags a statfs(2) probe reports
// into the matching MS_* bits so the read-only re-mount can fold them
// back in instead of silently dropping filesystem-intrinsic flags.
func statfsPreserveFlags(st unix.Statfs_t) uintptr {
	var out uintptr
	for _, f := range statfsFlags {
		if uintptr(st.Flags)&f.st != 0 {
			out |= f.ms
		}
	}
	return out
}
