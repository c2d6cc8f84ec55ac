package version

import (
	"runtime/debug"
)

const (
	modulePath = "github.com/curtisnewbie/rfctime"
)

var (
	Version = "v0.1.0"
)

func init() {
	ver := ReadBuildVersion()
	if ver != "" {
		Version = ver
	}
}

// Read version of rfctime from build info, either as main module or as dependency.
func ReadBuildVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if buildInfo.Main.Path == modulePath && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, dep := range buildInfo.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	return ""
}
