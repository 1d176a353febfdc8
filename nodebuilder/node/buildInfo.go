package node

import (
	"fmt"
	"runtime"
)

var (
	buildTime       string
	lastCommit      string
	semanticVersion string

	systemVersion = fmt.Sprintf("%s/%s", runtime.GOARCH, runtime.GOOS)
	golangVersion = runtime.Version()
)

// BuildInfo stores all necessary information for the current build.
type BuildInfo struct {
	BuildTime       string `json:"build_time"`
	LastCommit      string `json:"last_commit"`
	SemanticVersion string `json:"semantic_version"`
	SystemVersion   string `json:"system_version"`
	GolangVersion   string `json:"golang_version"`
}

// GetBuildInfo returns information about the current binary build. Version fields are set at
// link time.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		BuildTime:       buildTime,
		LastCommit:      lastCommit,
		SemanticVersion: semanticVersion,
		SystemVersion:   systemVersion,
		GolangVersion:   golangVersion,
	}
}
