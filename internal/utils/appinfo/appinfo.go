// Package appinfo reports build information of the running binary
package appinfo

import (
	"os"
	"runtime/debug"
)

// Name is reported by the health endpoint and the API docs
const Name = "jobboard-api"

// GetVersion returns the application version. APP_VERSION wins over the
// module version and the VCS revision stamped into the build.
func GetVersion() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				if len(setting.Value) > 12 {
					return setting.Value[:12]
				}
				return setting.Value
			}
		}
	}

	return "0.0.0-unknown"
}
