// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// HostEnvKey constructs a host-level environment variable name
// by combining the tool prefix with the given suffix.
// Example: HostEnvKey("HEADLESS") returns "DELIRIUM_HEADLESS".
func HostEnvKey(suffix string) string {
	return meta.EnvPrefix + "_" + suffix
}

// GetHostEnv retrieves a host-level environment variable by suffix.
func GetHostEnv(suffix string) string {
	return os.Getenv(HostEnvKey(suffix))
}

// SetHostEnv sets a host-level environment variable by suffix.
func SetHostEnv(suffix, value string) {
	_ = os.Setenv(HostEnvKey(suffix), value)
}

// BoolFromEnv interprets common truthy spellings of an environment value.
// Empty and unrecognized values report false.
func BoolFromEnv(name string) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false
	}
	if parsed, err := strconv.ParseBool(raw); err == nil {
		return parsed
	}
	return strings.EqualFold(raw, "yes") || strings.EqualFold(raw, "on")
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
