package collab

import "os"

// EnvLookup mirrors os.LookupEnv's signature; descriptor finalization
// depends on this seam instead of calling os.LookupEnv directly so
// tests can supply a closed, deterministic environment.
type EnvLookup func(name string) (value string, ok bool)

// OSEnvLookup is the production EnvLookup, backed by the process
// environment.
func OSEnvLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}
