// Package build carries version metadata stamped in via ldflags. Dev
// builds fall back to the module version from build info when available.
package build

import "runtime/debug"

var (
	Version = "DEV"
	Date    = "" // YYYY-MM-DD, empty for dev builds
)

func init() {
	if Version != "DEV" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
