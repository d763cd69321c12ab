package utils

import "os"

// IsDebugEnabled reports whether verbose diagnostic logging is on. Debug
// output is on outside of release mode, and TEXTBIN_DEBUG forces it on even
// in a release build.
func IsDebugEnabled() bool {
	if os.Getenv("TEXTBIN_DEBUG") != "" {
		return true
	}
	return os.Getenv("GIN_MODE") != "release"
}
