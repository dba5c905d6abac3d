package fsutil

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
)

// ScratchDir locates a writable directory for a tmpfs mount point or for
// staging synthesized mount content, trying candidates in a fixed order
// and returning the first one that can be created and read back.
//
// The first candidate carries an empty path segment between
// "/run/user/" and "nsjail.<uid>.<label>"; like every other candidate it
// carries the uid in the directory name, not between the slashes.
func ScratchDir(uid int, label string) (string, error) {
	for _, dir := range scratchCandidates(uid, label) {
		if MkdirAndTest(dir) {
			return dir, nil
		}
	}

	suffix, err := rnd64()
	if err != nil {
		return "", fmt.Errorf("fsutil: scratch dir %q: %w", label, err)
	}
	last := fmt.Sprintf("/tmp/nsjail.%d.%s.%d", uid, label, suffix)
	if MkdirAndTest(last) {
		return last, nil
	}
	return "", fmt.Errorf("fsutil: couldn't create scratch directory of type %q", label)
}

// scratchCandidates lists, in order, the fixed candidates ScratchDir
// tries before its random-suffixed last resort.
func scratchCandidates(uid int, label string) []string {
	candidates := []string{
		fmt.Sprintf("/run/user//nsjail.%d.%s", uid, label),
		fmt.Sprintf("/tmp/nsjail.%d.%s", uid, label),
	}
	if tmp, ok := os.LookupEnv("TMPDIR"); ok {
		candidates = append(candidates, fmt.Sprintf("%s/nsjail.%d.%s", tmp, uid, label))
	}
	return append(candidates, fmt.Sprintf("/dev/shm/nsjail.%d.%s", uid, label))
}

// rnd64 returns an unpredictable 64-bit value for the last-resort
// scratch path; a predictable suffix would let an attacker pre-create
// the directory.
func rnd64() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
