package mount

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/kjail/nsjail/internal/fsutil"
)

// isDirectoryFn is overridden in tests; production code always resolves
// through fsutil.IsDirectory, which stats the path on the host
// filesystem before the mount namespace exists.
var isDirectoryFn = fsutil.IsDirectory

// IsDir is the tri-state is-dir attribute a descriptor carries before
// finalization resolves it to a concrete boolean.
type IsDir int

const (
	// DirMaybe asks finalization to infer whether the destination
	// should be a directory from the rest of the descriptor.
	DirMaybe IsDir = iota
	// DirYes forces the destination to be created as a directory.
	DirYes
	// DirNo forces the destination to be created as a regular file.
	DirNo
)

// Point is one planned entry in the filesystem assembly: a mount, a
// symlink, or a synthesized-content file, realized by the constructor
// inside the jail's mount namespace.
type Point struct {
	// Source is the optional path string passed to the kernel mount
	// call, or the symlink target when IsSymlink is set. Empty means
	// "no source" (tmpfs, procfs, dev-fs typically).
	Source string
	// Destination is interpreted relative to the new root.
	Destination string
	// FsType names a kernel-supported filesystem, empty for bind mounts.
	FsType string
	// Options is passed through to the kernel mount call verbatim.
	Options string
	// Flags is the kernel mount-flag bitmask (see FormatFlags).
	Flags uintptr

	// IsMandatory aborts the whole assembly on failure when true;
	// failure of a non-mandatory descriptor is logged and skipped.
	IsMandatory bool
	// IsSymlink realizes the entry as a symlink instead of a mount;
	// when true FsType, Options, Flags and SourceContent are ignored,
	// while IsMandatory and the environment expansion still apply.
	IsSymlink bool
	// SourceContent, when non-empty, is written to a scratch file which
	// is then bind-mounted at Destination instead of Source.
	SourceContent []byte

	// SourceEnv / DestinationEnv name environment variables whose value
	// is prepended to Source/Destination during finalization. They are
	// consumed by AddHead/AddTail and are not inspected afterward.
	SourceEnv      string
	DestinationEnv string

	// isDir is the tri-state attribute as given by the caller; dir
	// holds the boolean finalization resolves it to.
	isDir IsDir
	dir   bool

	// Mounted is set true once the kernel mount call for this
	// descriptor has succeeded; the read-only re-mount pass only
	// considers descriptors with Mounted == true.
	Mounted bool
}

// Dir reports the finalized is-dir boolean. It is only meaningful after
// finalize has run; List.AddHead/AddTail call finalize before returning.
func (p *Point) Dir() bool {
	return p.dir
}

// resolveEnv prepends the value of envName to val, failing if envName is
// non-empty but unset in the environment. A descriptor whose source or
// destination depends on an unresolved environment variable cannot be
// added to the sequence at all.
func resolveEnv(lookup func(string) (string, bool), envName, val string) (string, error) {
	if envName == "" {
		return val, nil
	}
	v, ok := lookup(envName)
	if !ok {
		return "", fmt.Errorf("mount: no such envvar %q", envName)
	}
	return v + val, nil
}

// finalize resolves environment expansion and the tri-state is-dir
// attribute exactly once, at add time, so the constructor only ever
// sees the resolved boolean.
func finalize(p *Point, lookup func(string) (string, bool)) error {
	src, err := resolveEnv(lookup, p.SourceEnv, p.Source)
	if err != nil {
		return err
	}
	dst, err := resolveEnv(lookup, p.DestinationEnv, p.Destination)
	if err != nil {
		return err
	}
	p.Source, p.Destination = src, dst
	p.Mounted = false

	switch p.isDir {
	case DirYes:
		p.dir = true
	case DirNo:
		p.dir = false
	case DirMaybe:
		switch {
		case len(p.SourceContent) > 0:
			p.dir = false
		case p.Source == "":
			p.dir = true
		case p.Flags&unix.MS_BIND != 0:
			p.dir = isDirectoryFn(p.Source)
		default:
			p.dir = true
		}
	default:
		return fmt.Errorf("mount: unknown is-dir value %d", p.isDir)
	}

	if len(p.SourceContent) > 0 {
		p.Flags |= unix.MS_BIND | unix.MS_REC | unix.MS_PRIVATE
	}
	return nil
}

// Describe renders the diagnostic line for a single descriptor: src,
// dst, rendered flags, fstype, options, is-dir, plus markers for
// non-mandatory, synthesized-content, and symlink entries.
func (p *Point) Describe() string {
	s := fmt.Sprintf("src:'%s' dst:'%s' flags:'%s' type:'%s' options:'%s' is_dir:%t",
		p.Source, p.Destination, FormatFlags(p.Flags), p.FsType, p.Options, p.dir)
	if !p.IsMandatory {
		s += " mandatory:false"
	}
	if len(p.SourceContent) > 0 {
		s += fmt.Sprintf(" src_content_len:%d", len(p.SourceContent))
	}
	if p.IsSymlink {
		s += " symlink:true"
	}
	return s
}
