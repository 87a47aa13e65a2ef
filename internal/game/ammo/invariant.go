package ammo

import (
	"fmt"
	"log/slog"
)

// violated reports a broken internal invariant. When strictInvariants is set
// (customloads_debug builds and the package tests) it panics; otherwise it logs and
// lets the caller skip the entry.
func violated(msg string, args ...any) {
	if strictInvariants {
		panic(fmt.Sprintf("invariant violation: %s %v", msg, args))
	}
	slog.Error("invariant violation: "+msg, args...)
}
