package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := gitCommit
	defer func() { gitCommit = saved }()

	gitCommit = ""
	assert.Equal(t, "1.0.0", GetVersion().String())
	assert.Equal(t, "2.13.7", NewVersion(2, 13, 7).String())
	gitCommit = "1a2b3c4d5e6f"
	assert.Equal(t, "1.0.0+1a2b3c4d", GetVersion().String())
	gitCommit = "abc"
	assert.Equal(t, "1.0.0", GetVersion().String())
}
