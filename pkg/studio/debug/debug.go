package debug

import (
	"os"
	"strconv"
)

// Debug gates every switch below; release builds may flip it off.
const Debug = true

const (
	ShowSetupKey   = "DEBUG_SHOW_SETUP"
	KeepPartialKey = "DEBUG_KEEP_PARTIAL"
)

func IsDebug() bool {
	return Debug
}

// IsDebugShowSetup reports whether the resolved configuration is logged on startup.
func IsDebugShowSetup() bool {
	return Debug && isSet(ShowSetupKey)
}

// IsDebugKeepPartial reports whether partially written artifacts stay on disk after a failure.
func IsDebugKeepPartial() bool {
	return Debug && isSet(KeepPartialKey)
}

func isSet(key string) bool {
	enabled, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && enabled
}
