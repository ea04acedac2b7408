package testutil

import (
	"os"
	"testing"
)

const envUseCI = "SYSUTIL_CI"

// SkipCI skips tests whose outcome depends on the host filesystem
// (sparse support, real free-space counters) unless SYSUTIL_CI is set.
func SkipCI(t *testing.T) {
	if os.Getenv(envUseCI) == "" {
		t.Skip("Skip SYSUTIL CI")
	}
}
