package collab

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// exitExecFailed is the exit code the forked child reports when the
// execve itself fails; any Go-level failure code belongs to the
// re-exec'd program.
const exitExecFailed = 127

// SelfExec restarts the current executable (/proc/self/exe) in a child
// created with clone(2); flags are OR'd with SIGCHLD so the caller can
// reap it with wait4. The child inherits the parent's environment and
// runs with the supplied argv.
//
// A forked copy of a live Go runtime must not run Go code: any runtime
// lock held by another thread at clone time is copied into the child
// permanently locked, and the first allocation can deadlock. Everything
// between the clone and the execve is therefore raw syscalls only, with
// all pointers prepared up front.
func SelfExec(flags uintptr, argv []string) (int, error) {
	exe, err := syscall.BytePtrFromString("/proc/self/exe")
	if err != nil {
		return 0, err
	}
	argvp, err := syscall.SlicePtrFromStrings(argv)
	if err != nil {
		return 0, err
	}
	envp, err := syscall.SlicePtrFromStrings(os.Environ())
	if err != nil {
		return 0, err
	}

	// Hold the fork lock so no other thread opens an fd that is not
	// yet close-on-exec while the child is being created.
	syscall.ForkLock.Lock()
	pid, _, errno := syscall.RawSyscall(unix.SYS_CLONE, flags|uintptr(unix.SIGCHLD), 0, 0)
	if errno == 0 && pid == 0 {
		// child: no Go code beyond this point, raw syscalls only.
		syscall.RawSyscall(unix.SYS_EXECVE,
			uintptr(unsafe.Pointer(exe)),
			uintptr(unsafe.Pointer(&argvp[0])),
			uintptr(unsafe.Pointer(&envp[0])))
		syscall.RawSyscall(unix.SYS_EXIT_GROUP, exitExecFailed, 0, 0)
	}
	syscall.ForkLock.Unlock()

	runtime.KeepAlive(exe)
	runtime.KeepAlive(argvp)
	runtime.KeepAlive(envp)

	if errno != 0 {
		return 0, fmt.Errorf("collab: clone(%#x): %w", flags, errno)
	}
	return int(pid), nil
}
