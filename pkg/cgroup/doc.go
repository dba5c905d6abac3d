// Package cgroup installs and tears down per-process cgroup v1 groups
// for the memory, pids, net_cls, and cpu controllers, nesting each
// jailed process under mount/parent/NSJAIL.<pid>.
package cgroup
