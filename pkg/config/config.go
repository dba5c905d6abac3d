// Package config holds the jail configuration record and the demo YAML
// loader that populates it; reading a configuration file from disk is an
// external collaborator concern, never part of the jail's core
// operations.
package config

import (
	"github.com/kjail/nsjail/pkg/cgroup"
	"github.com/kjail/nsjail/pkg/mount"
)

// ExecMode selects how the jailed process is launched and waited on.
// Only ModeStandaloneExecve changes core mount-constructor behavior: it
// forces the sub-child orchestration pkg/jail implements.
type ExecMode int

const (
	// ModeListenTCP accepts one connection per jailed process and wires
	// it to the child's stdio.
	ModeListenTCP ExecMode = iota
	// ModeOnce runs a single process on the console, then exits.
	ModeOnce
	// ModeExecve execs the target directly in the current process
	// after namespace/mount setup, never returning to the caller.
	ModeExecve
	// ModeRerun repeats ModeOnce indefinitely, one jail per iteration.
	ModeRerun
	// ModeStandaloneExecve runs the mount construction in a sub-child
	// cloned with CLONE_FS|SIGCHLD so /proc can be mounted from a process
	// inside the target's own pid namespace.
	ModeStandaloneExecve
)

// Config is the configuration record the jail core runs from: a
// finalized mount-descriptor sequence, cgroup controller parameters,
// and the handful of scalars the mount constructor and exec mode need.
type Config struct {
	Mounts *mount.List   `yaml:"-"`
	Cgroup cgroup.Params `yaml:"cgroup"`

	ScratchUID int      `yaml:"scratch_uid"`
	ChrootPath string   `yaml:"chroot_path"`
	Cwd        string   `yaml:"cwd"`
	NewMountNS bool     `yaml:"new_mount_ns"`
	Mode       ExecMode `yaml:"-"`
}
