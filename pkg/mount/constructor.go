package mount

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sys/unix"

	mobymount "github.com/moby/sys/mount"

	"github.com/kjail/nsjail/internal/fsutil"
)

const (
	scratchSize = 16 * 1024 * 1024 // 16 MiB tmpfs for root and staging skeletons

	destPerm  = 0711
	filePerm  = 0644
	groupPerm = 0700
)

// preserveOnRemount is the subset of intrinsic filesystem flags a statfs
// probe can report that the read-only re-mount pass must not silently
// drop.
var preserveOnRemount = []uintptr{
	unix.MS_NOSUID, unix.MS_NODEV, unix.MS_NOEXEC, unix.MS_SYNCHRONOUS,
	unix.MS_MANDLOCK, unix.MS_NOATIME, unix.MS_NODIRATIME, unix.MS_RELATIME,
}

// Logger is the collaborator the constructor reports diagnostics
// through. A nil Logger silently discards everything.
type Logger interface {
	Debug(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})   {}
func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}

// Config is the subset of jail configuration the constructor needs: the
// finalized descriptor sequence, whether a new mount namespace should be
// entered at all, an already-resolved chroot path for the degenerate
// path, the scratch owner's uid, and where to chdir once root is ready.
type Config struct {
	List       *List
	NewMountNS bool
	ChrootPath string
	ScratchUID int
	Cwd        string
	Logger     Logger
}

func (c *Config) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

// InitNS assembles the jail's filesystem view. It must run after the
// caller has already entered a new mount namespace (when Config.NewMountNS
// is set) and before exec'ing the jailed process.
func InitNS(c *Config) error {
	if !c.NewMountNS {
		return initDegenerate(c)
	}
	return initFull(c)
}

// initDegenerate handles the namespace-disabled case: chroot only, the
// descriptor sequence is ignored.
func initDegenerate(c *Config) error {
	if c.ChrootPath == "" {
		return fmt.Errorf("mount: new mount namespace disabled but no chroot path set")
	}
	if err := unix.Chroot(c.ChrootPath); err != nil {
		return fmt.Errorf("mount: chroot %q: %w", c.ChrootPath, err)
	}
	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("mount: chdir / after chroot: %w", err)
	}
	return nil
}

// initFull is the full mount-namespace construction: scratch tmpfs root,
// descriptor application, pivot, then the read-only re-mount pass.
func initFull(c *Config) error {
	log := c.logger()

	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("mount: chdir /: %w", err)
	}

	destdir, err := fsutil.ScratchDir(c.ScratchUID, "root")
	if err != nil {
		return fmt.Errorf("mount: root scratch dir: %w", err)
	}

	if err := mobymount.MakeRPrivate("/"); err != nil {
		return fmt.Errorf("mount: mark / private+recursive: %w", err)
	}

	if err := unix.Mount("tmpfs", destdir, "tmpfs", 0, fmt.Sprintf("size=%d", scratchSize)); err != nil {
		return fmt.Errorf("mount: tmpfs at root scratch %q: %w", destdir, err)
	}

	stagedir, err := fsutil.ScratchDir(c.ScratchUID, "tmp")
	if err != nil {
		return fmt.Errorf("mount: staging scratch dir: %w", err)
	}
	if err := unix.Mount("tmpfs", stagedir, "tmpfs", 0, fmt.Sprintf("size=%d", scratchSize)); err != nil {
		return fmt.Errorf("mount: tmpfs at staging scratch %q: %w", stagedir, err)
	}

	var staged int64
	for _, p := range c.List.Points() {
		if err := applyPoint(p, destdir, stagedir, &staged, log); err != nil {
			if p.IsMandatory {
				return err
			}
			log.Warning("mount: non-mandatory descriptor failed, skipping: %v", err)
		}
	}

	if err := unix.Unmount(stagedir, unix.MNT_DETACH); err != nil {
		log.Warning("mount: lazy-detach staging tmpfs %q: %v", stagedir, err)
	}

	// pivot_root with new_root == put_old leaves the old root mounted
	// on top of the new one; a lazy detach of / then drops it.
	if err := unix.PivotRoot(destdir, destdir); err != nil {
		return fmt.Errorf("mount: pivot_root(%q, %q): %w", destdir, destdir, err)
	}
	if err := unix.Unmount("/", unix.MNT_DETACH); err != nil {
		return fmt.Errorf("mount: lazy-detach old root: %w", err)
	}

	if err := unix.Chdir(c.Cwd); err != nil {
		return fmt.Errorf("mount: chdir to working directory %q: %w", c.Cwd, err)
	}

	return remountReadOnly(c.List, log)
}

// applyPoint realizes a single descriptor under destdir: symlink,
// directory or file skeleton, optional content staging, then the mount
// call itself with MS_RDONLY stripped.
func applyPoint(p *Point, destdir, stagedir string, staged *int64, log Logger) error {
	dest := filepath.Join(destdir, p.Destination)
	source := p.Source
	if source == "" {
		source = "none"
	}

	if err := fsutil.CreateDirRecursively(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("mount: parent dirs of %q: %w", dest, err)
	}

	if p.IsSymlink {
		// realized without a mount call; Mounted stays false so the
		// re-mount pass never touches it.
		if err := os.Symlink(source, dest); err != nil {
			return fmt.Errorf("mount: symlink %q -> %q: %w", dest, source, err)
		}
		return nil
	}

	if p.Dir() {
		if err := os.Mkdir(dest, destPerm); err != nil && !os.IsExist(err) {
			return fmt.Errorf("mount: mkdir %q: %w", dest, err)
		}
	} else {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_RDONLY, filePerm)
		if err != nil {
			return fmt.Errorf("mount: create %q: %w", dest, err)
		}
		f.Close()
	}

	var stagedPath string
	if len(p.SourceContent) > 0 {
		n := atomic.AddInt64(staged, 1)
		stagedPath = filepath.Join(stagedir, fmt.Sprintf("content.%d", n))
		if err := fsutil.WriteBufToFile(stagedPath, p.SourceContent, os.O_CREATE|os.O_EXCL|os.O_WRONLY); err != nil {
			return fmt.Errorf("mount: stage source-content for %q: %w", dest, err)
		}
		source = stagedPath
	}

	flags := p.Flags &^ unix.MS_RDONLY
	if err := unix.Mount(source, dest, p.FsType, flags, p.Options); err != nil {
		switch {
		case err == unix.EACCES:
			log.Error("mount: permission denied mounting %q; check execute permission (chmod o+x) on ancestor directories", dest)
		case p.FsType == "proc":
			log.Error("mount: failed mounting procfs at %q; a stacked filesystem on /proc can cause this", dest)
		}
		return fmt.Errorf("mount: mount(%q, %q, %q, %s): %w", source, dest, p.FsType, FormatFlags(flags), err)
	}

	p.Mounted = true
	if stagedPath != "" {
		if err := os.Remove(stagedPath); err != nil {
			log.Warning("mount: unlink staged content %q: %v", stagedPath, err)
		}
	}
	return nil
}

// remountReadOnly runs after the pivot and makes every successfully
// mounted descriptor that requested MS_RDONLY actually read-only,
// folding back the intrinsic flags the superblock already enforces.
func remountReadOnly(list *List, log Logger) error {
	for _, p := range list.Points() {
		if !p.Mounted || p.IsSymlink {
			continue
		}
		if p.Flags&unix.MS_RDONLY == 0 {
			continue
		}

		dest := filepath.Join("/", p.Destination)
		if err := remountOne(p, dest); err != nil {
			if p.IsMandatory {
				return err
			}
			log.Warning("mount: non-mandatory remount failed, skipping: %v", err)
		}
	}
	return nil
}

func remountOne(p *Point, dest string) error {
	var st unix.Statfs_t
	if err := unix.Statfs(dest, &st); err != nil {
		return fmt.Errorf("mount: statfs %q for remount probe: %w", dest, err)
	}
	probed := statfsPreserveFlags(st)

	flags := uintptr(unix.MS_REMOUNT | unix.MS_RDONLY | unix.MS_BIND)
	for _, f := range preserveOnRemount {
		if probed&f != 0 {
			flags |= f
		}
	}

	if err := unix.Mount(dest, dest, "", flags, ""); err != nil {
		return fmt.Errorf("mount: read-only remount of %q (flags %s): %w", dest, FormatFlags(flags), err)
	}
	return nil
}
