package collab

import "testing"

func TestOSEnvLookup(t *testing.T) {
	t.Setenv("COLLAB_TEST_VAR", "present")

	v, ok := OSEnvLookup("COLLAB_TEST_VAR")
	if !ok || v != "present" {
		t.Errorf("OSEnvLookup = (%q, %v), want (%q, true)", v, ok, "present")
	}

	if _, ok := OSEnvLookup("COLLAB_TEST_VAR_MISSING"); ok {
		t.Errorf("expected unset variable to report ok=false")
	}
}
