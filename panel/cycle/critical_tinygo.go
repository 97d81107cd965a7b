//go:build tinygo

package cycle

import "runtime/interrupt"

type criticalState = interrupt.State

func enterCritical() criticalState {
	return interrupt.Disable()
}

func exitCritical(state criticalState) {
	interrupt.Restore(state)
}
