//go:build !tinygo

package cycle

import "sync"

// On a hosted OS the edge path is another goroutine, so a mutex gives the
// same exclusion that masking interrupts gives on the MCU.
var criticalMu sync.Mutex

type criticalState struct{}

func enterCritical() criticalState {
	criticalMu.Lock()
	return criticalState{}
}

func exitCritical(criticalState) {
	criticalMu.Unlock()
}
