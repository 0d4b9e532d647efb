package services

import (
	"log"
	"os"
)

// fallbackEnabled controls whether providers substitute plausible estimated
// data when an upstream is unconfigured or failing. On by default (demo
// behavior); FALLBACK_MODE=off makes failures surface to the caller so the
// policy is explicit and testable rather than an implicit catch-and-substitute.
var fallbackEnabled = true

func InitPolicy() {
	if os.Getenv("FALLBACK_MODE") == "off" {
		fallbackEnabled = false
		log.Println("⚠️  Fallback data disabled (FALLBACK_MODE=off), upstream failures will surface as errors")
	}
}

// FallbackEnabled reports whether estimated-data substitution is allowed.
func FallbackEnabled() bool {
	return fallbackEnabled
}

// SetFallbackEnabled overrides the policy; used by tests.
func SetFallbackEnabled(v bool) {
	fallbackEnabled = v
}
