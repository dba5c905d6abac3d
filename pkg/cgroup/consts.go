package cgroup

const (
	groupPrefix = "NSJAIL"

	dirPerm  = 0700
	filePerm = 0644

	tasksFile = "tasks"

	memoryLimitFile = "memory.limit_in_bytes"
	memoryOOMFile   = "memory.oom_control"
	pidsMaxFile     = "pids.max"
	netClsClassFile = "net_cls.classid"
	cpuQuotaFile    = "cpu.cfs_quota_us"
	cpuPeriodFile   = "cpu.cfs_period_us"

	cpuPeriodUs = "1000000" // one-second scheduling period
)
