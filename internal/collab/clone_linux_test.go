package collab

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

const selfExecHelperEnv = "COLLAB_SELFEXEC_HELPER"

func TestMain(m *testing.M) {
	// SelfExec re-runs this whole test binary; the helper marker makes
	// the re-exec'd copy exit immediately with a recognizable code
	// instead of running the test suite again.
	if os.Getenv(selfExecHelperEnv) == "1" {
		os.Exit(42)
	}
	os.Exit(m.Run())
}

func TestSelfExec(t *testing.T) {
	t.Setenv(selfExecHelperEnv, "1")

	pid, err := SelfExec(0, []string{os.Args[0]})
	if err != nil {
		t.Fatalf("SelfExec: %v", err)
	}

	var ws unix.WaitStatus
	for {
		got, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			t.Fatalf("wait4: %v", err)
		}
		if got == pid {
			break
		}
	}
	if !ws.Exited() || ws.ExitStatus() != 42 {
		t.Errorf("helper child exited with %v, want exit status 42", ws)
	}
}
