// Where: deliriumctl/internal/version/version.go
// What: Version information retrieval.
// Why: Surface build-time VCS metadata without a linker-flag build step.
package version

import (
	"fmt"
	"runtime/debug"
)

// GetVersion returns the version string derived from embedded build info.
// Without VCS stamping it reports "dev". A locally modified tree is marked
// with a "(dirty)" suffix.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	revision := ""
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if dirty {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
