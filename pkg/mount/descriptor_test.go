package mount

import (
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func lookupNone(string) (string, bool) { return "", false }

func TestFinalize_IsDirYesNo(t *testing.T) {
	p := &Point{isDir: DirYes}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if !p.Dir() {
		t.Error("DirYes should resolve true")
	}

	p = &Point{isDir: DirNo}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if p.Dir() {
		t.Error("DirNo should resolve false")
	}
}

func TestFinalize_IsDirMaybe_SourceContent(t *testing.T) {
	p := &Point{isDir: DirMaybe, SourceContent: []byte("x")}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if p.Dir() {
		t.Error("source-content descriptor should resolve to a file")
	}
}

func TestFinalize_IsDirMaybe_EmptySource(t *testing.T) {
	p := &Point{isDir: DirMaybe}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if !p.Dir() {
		t.Error("empty-source descriptor should resolve to a directory")
	}
}

func TestFinalize_IsDirMaybe_BindProbesSource(t *testing.T) {
	orig := isDirectoryFn
	defer func() { isDirectoryFn = orig }()

	isDirectoryFn = func(string) bool { return false }
	p := &Point{isDir: DirMaybe, Source: "/some/file", Flags: unix.MS_BIND}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if p.Dir() {
		t.Error("bind descriptor over a non-directory source should resolve false")
	}

	isDirectoryFn = func(string) bool { return true }
	p = &Point{isDir: DirMaybe, Source: "/some/dir", Flags: unix.MS_BIND}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if !p.Dir() {
		t.Error("bind descriptor over a directory source should resolve true")
	}
}

func TestFinalize_IsDirMaybe_Default(t *testing.T) {
	p := &Point{isDir: DirMaybe, Source: "tmpfs"}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	if !p.Dir() {
		t.Error("non-bind non-empty source should default to a directory")
	}
}

func TestFinalize_EnvResolution(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "ROOT" {
			return "/srv", true
		}
		return "", false
	}
	p := &Point{Source: "/data", SourceEnv: "ROOT", isDir: DirYes}
	if err := finalize(p, lookup); err != nil {
		t.Fatal(err)
	}
	if p.Source != "/srv/data" {
		t.Errorf("Source = %q, want %q", p.Source, "/srv/data")
	}
}

func TestFinalize_EnvUnsetFails(t *testing.T) {
	p := &Point{Source: "/data", SourceEnv: "MISSING", isDir: DirYes}
	if err := finalize(p, lookupNone); err == nil {
		t.Fatal("expected failure for unresolved source-env")
	}
}

func TestPoint_Describe(t *testing.T) {
	p := &Point{Source: "/src", Destination: "dst", FsType: "none", Options: "", Flags: unix.MS_BIND, IsMandatory: true, isDir: DirYes}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	got := p.Describe()
	want := "src:'/src' dst:'dst' flags:'MS_BIND' type:'none' options:'' is_dir:true"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestPoint_Describe_NonMandatory(t *testing.T) {
	p := &Point{isDir: DirNo, IsMandatory: false}
	if err := finalize(p, lookupNone); err != nil {
		t.Fatal(err)
	}
	got := p.Describe()
	if !strings.Contains(got, "mandatory:false") {
		t.Errorf("Describe() = %q, missing mandatory:false", got)
	}
}
