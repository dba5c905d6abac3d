package cgroup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"syscall"
)

// kind identifies which of the four controllers a ControllerParams
// belongs to, so the installer knows which limit files to write.
type kind int

const (
	kindMemory kind = iota
	kindPids
	kindNetCls
	kindCpu
)

var kindNames = [...]string{"memory", "pids", "net_cls", "cpu"}

func (k kind) String() string {
	return kindNames[k]
}

// InitFromParent installs every enabled controller for pid, in the fixed
// order memory, pids, net_cls, cpu. Any failure aborts the
// installer and returns an error; the caller is responsible for
// deciding whether to abort the jailed process and for calling
// FinishFromParent best-effort afterward.
func InitFromParent(p *Params, pid int) error {
	for i, c := range p.ordered() {
		k := kind(i)
		if !c.enabled() {
			continue
		}
		if err := installOne(k, c, pid); err != nil {
			return fmt.Errorf("cgroup: install %s controller: %w", k, err)
		}
	}
	return nil
}

// FinishFromParent removes the per-pid group directory for every
// enabled controller, in the same order as install. Removal failures
// are logged by the caller via the returned error slice, never fatal:
// the jailed process is already gone by the time teardown runs.
func FinishFromParent(p *Params, pid int) []error {
	var errs []error
	for i, c := range p.ordered() {
		if !c.enabled() {
			continue
		}
		if err := os.RemoveAll(c.groupPath(pid)); err != nil {
			errs = append(errs, fmt.Errorf("cgroup: teardown %s controller: %w", kind(i), err))
		}
	}
	return errs
}

func installOne(k kind, c ControllerParams, pid int) error {
	group := c.groupPath(pid)
	if err := os.Mkdir(group, dirPerm); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	switch k {
	case kindMemory:
		if err := writeFile(group, memoryLimitFile, []byte(strconv.FormatUint(c.Limit, 10))); err != nil {
			return err
		}
		if err := writeFile(group, memoryOOMFile, []byte("0")); err != nil {
			return err
		}
	case kindPids:
		if err := writeFile(group, pidsMaxFile, []byte(strconv.FormatUint(c.Limit, 10))); err != nil {
			return err
		}
	case kindNetCls:
		if err := writeFile(group, netClsClassFile, []byte(fmt.Sprintf("0x%x", c.Limit))); err != nil {
			return err
		}
	case kindCpu:
		quota := c.Limit * 1000
		if err := writeFile(group, cpuQuotaFile, []byte(strconv.FormatUint(quota, 10))); err != nil {
			return err
		}
		if err := writeFile(group, cpuPeriodFile, []byte(cpuPeriodUs)); err != nil {
			return err
		}
	}

	return writeFile(group, tasksFile, []byte(strconv.Itoa(pid)))
}

func writeFile(dir, name string, content []byte) error {
	p := dir + string(os.PathSeparator) + name
	err := os.WriteFile(p, content, fs.FileMode(filePerm))
	for err != nil && errors.Is(err, syscall.EINTR) {
		err = os.WriteFile(p, content, fs.FileMode(filePerm))
	}
	return err
}
