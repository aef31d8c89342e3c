package clkmgr

import "fmt"

// ClockSet is a full set of display clocks, all in kHz. Zero means the clock
// hasn't been established yet.
type ClockSet struct {
	DispClkKHz         uint32
	DPPClkKHz          uint32
	DRAMClkKHz         uint32
	DCFClkKHz          uint32
	DCFClkDeepSleepKHz uint32
	PHYClkKHz          uint32
	SOCClkKHz          uint32

	PStateChangeSupport     bool
	PrevPStateChangeSupport bool

	MaxSupportedDispClkKHz uint32
	MaxSupportedDPPClkKHz  uint32

	// Bandwidth-derived requirements, before rounding up to what the
	// dentist can deliver.
	BWDispClkKHz uint32
	BWDPPClkKHz  uint32
}

func (cs *ClockSet) String() string {
	return fmt.Sprintf("dispclk %d dppclk %d dramclk %d dcfclk %d dcfclk_ds %d phyclk %d socclk %d pstate %v (was %v)",
		cs.DispClkKHz, cs.DPPClkKHz, cs.DRAMClkKHz, cs.DCFClkKHz, cs.DCFClkDeepSleepKHz, cs.PHYClkKHz, cs.SOCClkKHz,
		cs.PStateChangeSupport, cs.PrevPStateChangeSupport)
}

// ShouldSetClock decides whether a clock moves from cur to req. Raising is
// always allowed; lowering only when nothing visible still depends on cur.
func ShouldSetClock(safeToLower bool, req, cur uint32) bool {
	return (safeToLower && req < cur) || req > cur
}

// shouldUpdatePStateSupport is ShouldSetClock for the P-state capability,
// ordering supported above unsupported.
func shouldUpdatePStateSupport(safeToLower bool, req, cur bool) bool {
	if req == cur {
		return false
	}
	return req || safeToLower
}
