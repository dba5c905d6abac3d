package mount

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestInitNS_DegenerateRequiresChrootPath(t *testing.T) {
	err := InitNS(&Config{NewMountNS: false, ChrootPath: ""})
	if err == nil {
		t.Fatal("expected failure when chroot path is empty")
	}
}

func TestApplyPoint_CreatesDirectoryDestination(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("applyPoint issues a real mount(2) call, requires root")
	}
	destdir := t.TempDir()
	stagedir := t.TempDir()
	var staged int64

	p := &Point{Destination: "empty", isDir: DirYes, Source: "", FsType: "tmpfs"}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if err := applyPoint(p, destdir, stagedir, &staged, nopLogger{}); err != nil {
		t.Fatalf("applyPoint: %v", err)
	}
	if !p.Mounted {
		t.Error("expected Mounted = true")
	}
	if fi, err := os.Stat(filepath.Join(destdir, "empty")); err != nil || !fi.IsDir() {
		t.Errorf("expected destination %q to be a directory, stat err = %v", filepath.Join(destdir, "empty"), err)
	}
}

func TestApplyPoint_Symlink(t *testing.T) {
	destdir := t.TempDir()
	stagedir := t.TempDir()
	var staged int64

	p := &Point{Destination: "lnk", Source: "/target", IsSymlink: true, isDir: DirNo}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if err := applyPoint(p, destdir, stagedir, &staged, nopLogger{}); err != nil {
		t.Fatalf("applyPoint: %v", err)
	}
	link := filepath.Join(destdir, "lnk")
	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "/target" {
		t.Errorf("symlink target = %q, want %q", target, "/target")
	}
	if p.Mounted {
		t.Error("symlink descriptor must not be marked Mounted")
	}
}

func TestApplyPoint_SymlinkCollisionFails(t *testing.T) {
	destdir := t.TempDir()
	stagedir := t.TempDir()
	var staged int64

	p := &Point{Destination: "lnk", Source: "/target", IsSymlink: true, isDir: DirNo, IsMandatory: false}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	// pre-create the destination so the symlink call collides and fails.
	if err := os.MkdirAll(filepath.Dir(filepath.Join(destdir, "lnk")), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destdir, "lnk"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := applyPoint(p, destdir, stagedir, &staged, nopLogger{})
	if err == nil {
		t.Fatal("expected symlink collision to fail")
	}
}

func TestStatfsPreserveFlags(t *testing.T) {
	st := unix.Statfs_t{Flags: unix.ST_NOSUID | unix.ST_NODEV}
	got := statfsPreserveFlags(st)
	want := uintptr(unix.MS_NOSUID | unix.MS_NODEV)
	if got != want {
		t.Errorf("statfsPreserveFlags = %#x, want %#x", got, want)
	}
}
