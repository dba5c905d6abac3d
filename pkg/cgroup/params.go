package cgroup

import "fmt"

// ControllerParams names one controller's mount point, the parent group
// it nests under, and the limit to apply. A zero Limit disables the
// controller entirely: the installer skips it at both install and
// teardown.
type ControllerParams struct {
	MountPoint  string `yaml:"mount_point"`
	ParentGroup string `yaml:"parent_group"`
	Limit       uint64 `yaml:"limit"`
}

func (p ControllerParams) enabled() bool {
	return p.Limit != 0
}

// groupPath computes mount/parent/NSJAIL.<pid>.
func (p ControllerParams) groupPath(pid int) string {
	return fmt.Sprintf("%s/%s/%s.%d", p.MountPoint, p.ParentGroup, groupPrefix, pid)
}

// Params bundles the four controllers the installer knows how to drive.
// Memory, Pids, and Cpu limits are plain magnitudes; NetCls.Limit is the
// classid value written in hex, reusing the same zero-disables contract.
type Params struct {
	Memory ControllerParams `yaml:"memory"`
	Pids   ControllerParams `yaml:"pids"`
	NetCls ControllerParams `yaml:"net_cls"`
	Cpu    ControllerParams `yaml:"cpu"`
}

// ordered returns the four controllers in the fixed install/teardown
// order: memory, pids, net_cls, cpu.
func (p *Params) ordered() []ControllerParams {
	return []ControllerParams{p.Memory, p.Pids, p.NetCls, p.Cpu}
}
