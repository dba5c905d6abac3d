package mount

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestFormatFlags_Zero(t *testing.T) {
	if got := FormatFlags(0); got != "0x0" {
		t.Errorf("FormatFlags(0) = %q, want %q", got, "0x0")
	}
}

func TestFormatFlags_KnownOnly(t *testing.T) {
	got := FormatFlags(unix.MS_BIND | unix.MS_RDONLY)
	if got != "MS_RDONLY|MS_BIND" {
		t.Errorf("FormatFlags = %q, want %q", got, "MS_RDONLY|MS_BIND")
	}
}

func TestFormatFlags_ResidueOnly(t *testing.T) {
	const unknown uintptr = 1 << 40
	got := FormatFlags(unknown)
	if got != "0x10000000000" {
		t.Errorf("FormatFlags = %q, want %q", got, "0x10000000000")
	}
}

func TestFormatFlags_KnownAndResidue(t *testing.T) {
	const unknown uintptr = 1 << 40
	got := FormatFlags(unix.MS_BIND | unknown)
	want := "MS_BIND|0x10000000000"
	if got != want {
		t.Errorf("FormatFlags = %q, want %q", got, want)
	}
}
