// Package jail orchestrates the standalone-exec sub-child: the one
// execution mode where the mount constructor must run inside a process
// that already sits in the target's pid namespace, so that mounting
// /proc resolves against the right namespace.
package jail

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/kjail/nsjail/internal/collab"
	"github.com/kjail/nsjail/pkg/mount"
)

const (
	exitSuccess = 0
	// exitMountFailed is the sub-child's fixed failure code. The parent
	// trusts the exit code: only exitSuccess counts as success.
	exitMountFailed = 1
)

// RunStandaloneMount re-executes the current binary with childArgs in a
// sub-child cloned with CLONE_FS, then waits for it synchronously. The
// re-exec'd child rebuilds its configuration from childArgs, runs the
// mount construction via InitNSChild, and reports only through its exit
// code. Because the child shares the caller's filesystem attributes and
// mount namespace, the root it pivots into applies to the caller too.
//
// Forking the live runtime and running the constructor in the forked
// child would be unsound in a multi-threaded Go process; re-exec'ing
// /proc/self/exe gives the sub-child a fresh runtime instead.
func RunStandaloneMount(childArgs []string, log collab.Logger) error {
	return runStandaloneMount(func() (int, error) {
		return collab.SelfExec(unix.CLONE_FS, childArgs)
	}, log)
}

func runStandaloneMount(spawn func() (int, error), log collab.Logger) error {
	pid, err := spawn()
	if err != nil {
		return fmt.Errorf("jail: clone sub-child: %w", err)
	}
	if err := waitForSubChild(pid); err != nil {
		if log != nil {
			log.Errno("jail: standalone mount sub-child", err)
		}
		return err
	}
	return nil
}

// InitNSChild is the sub-child half of RunStandaloneMount: the re-exec'd
// process calls it once its configuration is rebuilt. It performs the
// mount construction and terminates the process with the exit code the
// waiting parent expects. It never returns.
func InitNSChild(cfg *mount.Config, log collab.Logger) {
	if err := mount.InitNS(cfg); err != nil {
		if log != nil {
			log.Errno("jail: sub-child mount construction", err)
		}
		os.Exit(exitMountFailed)
	}
	os.Exit(exitSuccess)
}

// waitForSubChild loops on wait4 until it observes the sub-child's own
// pid, retrying on EINTR, and translates its exit status into
// success/failure.
func waitForSubChild(pid int) error {
	var ws unix.WaitStatus
	for {
		got, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("jail: wait4(%d): %w", pid, err)
		}
		if got != pid {
			continue
		}
		break
	}

	if !ws.Exited() || ws.ExitStatus() != exitSuccess {
		return fmt.Errorf("jail: sub-child %d failed: %s", pid, describeWaitStatus(ws))
	}
	return nil
}

func describeWaitStatus(ws unix.WaitStatus) string {
	switch {
	case ws.Exited():
		return fmt.Sprintf("exit status %d", ws.ExitStatus())
	case ws.Signaled():
		return fmt.Sprintf("killed by signal %s", syscall.Signal(ws.Signal()))
	default:
		return "unknown wait status"
	}
}
