package version

import (
	"fmt"
)

const (
	majorVersion uint32 = 1
	minorVersion uint32 = 0
	patchVersion uint32 = 0
)

var (
	// gitCommit is set with -ldflags "-X github.com/Sukhavati-Labs/go-sysutil/version.gitCommit=..."
	gitCommit string
	ver       *Version
)

type Version struct {
	majorVersion uint32
	minorVersion uint32
	patchVersion uint32
}

func NewVersion(majorVersion uint32, minorVersion uint32, patchVersion uint32) *Version {
	return &Version{
		majorVersion: majorVersion,
		minorVersion: minorVersion,
		patchVersion: patchVersion,
	}
}

// Format version to "<majorVersion>.<minorVersion>.<patchVersion>[+<gitCommit>]",
// like "1.0.0", or "1.0.0+1a2b3c4d".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.majorVersion, v.minorVersion, v.patchVersion)
	if len(gitCommit) >= 8 {
		s += "+" + gitCommit[:8]
	}
	return s
}

func GetVersion() *Version {
	return ver
}

func init() {
	ver = NewVersion(majorVersion, minorVersion, patchVersion)
}
