package mount

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// flagName pairs a single mount flag bit with its diagnostic name. Order
// matters only for output stability, not semantics.
type flagName struct {
	flag uintptr
	name string
}

// knownFlags lists every mount flag bit FormatFlags knows the name of.
var knownFlags = []flagName{
	{unix.MS_RDONLY, "MS_RDONLY"},
	{unix.MS_NOSUID, "MS_NOSUID"},
	{unix.MS_NODEV, "MS_NODEV"},
	{unix.MS_NOEXEC, "MS_NOEXEC"},
	{unix.MS_SYNCHRONOUS, "MS_SYNCHRONOUS"},
	{unix.MS_REMOUNT, "MS_REMOUNT"},
	{unix.MS_MANDLOCK, "MS_MANDLOCK"},
	{unix.MS_DIRSYNC, "MS_DIRSYNC"},
	{unix.MS_NOATIME, "MS_NOATIME"},
	{unix.MS_NODIRATIME, "MS_NODIRATIME"},
	{unix.MS_BIND, "MS_BIND"},
	{unix.MS_MOVE, "MS_MOVE"},
	{unix.MS_REC, "MS_REC"},
	{unix.MS_SILENT, "MS_SILENT"},
	{unix.MS_POSIXACL, "MS_POSIXACL"},
	{unix.MS_UNBINDABLE, "MS_UNBINDABLE"},
	{unix.MS_PRIVATE, "MS_PRIVATE"},
	{unix.MS_SLAVE, "MS_SLAVE"},
	{unix.MS_SHARED, "MS_SHARED"},
	{unix.MS_RELATIME, "MS_RELATIME"},
	{unix.MS_KERNMOUNT, "MS_KERNMOUNT"},
	{unix.MS_I_VERSION, "MS_I_VERSION"},
	{unix.MS_STRICTATIME, "MS_STRICTATIME"},
	{unix.MS_LAZYTIME, "MS_LAZYTIME"},
}

// FormatFlags renders a bitmask of kernel mount flags into a
// "|"-separated diagnostic string, e.g. "MS_RDONLY|MS_BIND". Any bits not
// covered by knownFlags are appended as a single trailing hex token so no
// information is silently dropped from the diagnostic.
func FormatFlags(flags uintptr) string {
	var known uintptr
	var names []string
	for _, f := range knownFlags {
		known |= f.flag
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if residue := flags &^ known; residue != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("%#x", residue))
	}
	return strings.Join(names, "|")
}
