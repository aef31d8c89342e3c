package clkmgr

import (
	"log"

	"github.com/Jon-Bright/clkmgr/regs"
	"github.com/Jon-Bright/clkmgr/vbios"
)

type directUpdater struct{}

func (directUpdater) updateClocks(m *Manager, ds *DisplayState, safeToLower bool) {
	m.UpdateClocksDirect(ds, safeToLower)
}

type vbiosUpdater struct{}

func (vbiosUpdater) updateClocks(m *Manager, ds *DisplayState, safeToLower bool) {
	m.UpdateClocksVBIOS(ds, safeToLower)
}

// UpdateClocksVBIOS has the VBIOS set dispclk. There's no VBIOS clock type
// for dppclk: the VBIOS programs dppclk along with dispclk, so a dppclk change
// also reissues the dispclk request.
func (m *Manager) UpdateClocksVBIOS(ds *DisplayState, safeToLower bool) {
	nc := &ds.Clocks
	updateDPPClk := false
	updateDispClk := false

	if ShouldSetClock(safeToLower, nc.DPPClkKHz, m.clks.DPPClkKHz) {
		m.clks.DPPClkKHz = nc.DPPClkKHz
		updateDPPClk = true
	}
	if ShouldSetClock(safeToLower, nc.DispClkKHz, m.clks.DispClkKHz) {
		m.clks.DispClkKHz = nc.DispClkKHz
		updateDispClk = true
	}

	if updateDPPClk || updateDispClk {
		m.bios.SetDCEClock(&vbios.DCEClockParams{
			TargetClockKHz: m.clks.DispClkKHz,
			PLLID:          vbios.CLOCK_SOURCE_ID_DFS,
			ClockType:      vbios.DCECLOCK_TYPE_DISPLAY_CLOCK,
		})
	}
}

// directFlags records what one direct update decided.
type directFlags struct {
	skipped         bool
	forceReset      bool
	enterDisplayOff bool // not acted on yet
	updateDPPClk    bool
	updateDispClk   bool
	dppClockLowered bool
	committed       bool
}

// UpdateClocksDirect programs the dentist and the per-pipe DPP DTOs itself.
func (m *Manager) UpdateClocksDirect(ds *DisplayState, safeToLower bool) {
	m.updateClocksDirect(ds, safeToLower)
}

func (m *Manager) updateClocksDirect(ds *DisplayState, safeToLower bool) directFlags {
	var fl directFlags
	nc := &ds.Clocks

	if m.debug.SkipClockUpdate {
		fl.skipped = true
		return fl
	}

	if m.clks.DispClkKHz == 0 || m.debug.ForceClockMode&FORCE_CLOCK_MODE_READ_HW != 0 {
		fl.forceReset = true
		m.readClocksFromHW()
	}

	if ds.ActiveDisplayCount() == 0 {
		fl.enterDisplayOff = true
	}

	if ShouldSetClock(safeToLower, nc.PHYClkKHz, m.clks.PHYClkKHz) {
		m.clks.PHYClkKHz = nc.PHYClkKHz
	}

	// The floor is written back into the request, as if it had asked for it.
	if floor := m.debug.ForceMinDCFClkMHz * 1000; floor > 0 && nc.DCFClkKHz < floor {
		nc.DCFClkKHz = floor
	}
	if ShouldSetClock(safeToLower, nc.DCFClkKHz, m.clks.DCFClkKHz) {
		m.clks.DCFClkKHz = nc.DCFClkKHz
	}

	if ShouldSetClock(safeToLower, nc.DCFClkDeepSleepKHz, m.clks.DCFClkDeepSleepKHz) {
		m.clks.DCFClkDeepSleepKHz = nc.DCFClkDeepSleepKHz
	}

	if ShouldSetClock(safeToLower, nc.SOCClkKHz, m.clks.SOCClkKHz) {
		m.clks.SOCClkKHz = nc.SOCClkKHz
	}

	// With no planes there's nothing a P-state switch could disturb.
	pStateSupport := nc.PStateChangeSupport || ds.ActivePlaneCount() == 0
	if shouldUpdatePStateSupport(safeToLower, pStateSupport, m.clks.PStateChangeSupport) {
		m.clks.PrevPStateChangeSupport = m.clks.PStateChangeSupport
		m.clks.PStateChangeSupport = pStateSupport
	}

	if ShouldSetClock(safeToLower, nc.DRAMClkKHz, m.clks.DRAMClkKHz) {
		m.clks.DRAMClkKHz = nc.DRAMClkKHz
	}

	if ShouldSetClock(safeToLower, nc.DPPClkKHz, m.clks.DPPClkKHz) {
		if m.clks.DPPClkKHz > nc.DPPClkKHz {
			fl.dppClockLowered = true
		}
		m.clks.DPPClkKHz = nc.DPPClkKHz
		fl.updateDPPClk = true
	}

	if ShouldSetClock(safeToLower, nc.DispClkKHz, m.clks.DispClkKHz) {
		m.clks.DispClkKHz = nc.DispClkKHz
		fl.updateDispClk = true
	}

	if m.debug.ForcedClocks && !(fl.forceReset && safeToLower) {
		return fl
	}
	fl.committed = true
	if fl.dppClockLowered {
		// Slow the pipes down before the reference drops, or they'd briefly
		// run above their new dppclk.
		m.updateDPPDTO(ds, safeToLower)
		m.updateDentist()
	} else {
		if fl.updateDPPClk || fl.updateDispClk {
			m.updateDentist()
		}
		// Compared against the last applied state rather than the committed
		// clocks: commit finalization lowers DTOs separately.
		if nc.DPPClkKHz >= m.appliedDPPClkKHz() {
			m.updateDPPDTO(ds, safeToLower)
		}
	}
	return fl
}

func (m *Manager) appliedDPPClkKHz() uint32 {
	if m.applied == nil {
		return 0
	}
	return m.applied.Clocks.DPPClkKHz
}

// updateDPPDTO points every pipe's DTO at its dppclk out of the committed
// reference. A pipe's DTO only comes down when lowering is safe.
func (m *Manager) updateDPPDTO(ds *DisplayState, safeToLower bool) {
	m.dccg.RefDPPClkKHz = m.clks.DPPClkKHz
	for i := 0; i < regs.DCN201_PIPE_COUNT; i++ {
		var p Pipe
		if i < len(ds.Pipes) {
			p = ds.Pipes[i]
		}
		inst := i
		if p.HasDPP {
			inst = p.DPPInst
		} else if p.DPPClkKHz != 0 {
			continue
		}
		prev := m.dccg.PipeDPPClkKHz(i)
		if safeToLower || prev < p.DPPClkKHz {
			m.dccg.UpdateDPPDTO(inst, p.DPPClkKHz)
		}
	}
}

type simUpdater struct{}

// updateClocks for simulation commits clocks without touching hardware.
func (simUpdater) updateClocks(m *Manager, ds *DisplayState, safeToLower bool) {
	nc := &ds.Clocks
	set := func(req uint32, cur *uint32) {
		if ShouldSetClock(safeToLower, req, *cur) {
			*cur = req
		}
	}
	set(nc.PHYClkKHz, &m.clks.PHYClkKHz)
	set(nc.DCFClkKHz, &m.clks.DCFClkKHz)
	set(nc.DCFClkDeepSleepKHz, &m.clks.DCFClkDeepSleepKHz)
	set(nc.SOCClkKHz, &m.clks.SOCClkKHz)
	set(nc.DRAMClkKHz, &m.clks.DRAMClkKHz)
	set(nc.DPPClkKHz, &m.clks.DPPClkKHz)
	set(nc.DispClkKHz, &m.clks.DispClkKHz)

	pStateSupport := nc.PStateChangeSupport || ds.ActivePlaneCount() == 0
	if shouldUpdatePStateSupport(safeToLower, pStateSupport, m.clks.PStateChangeSupport) {
		m.clks.PrevPStateChangeSupport = m.clks.PStateChangeSupport
		m.clks.PStateChangeSupport = pStateSupport
	}
	if m.dccg != nil {
		m.dccg.RefDPPClkKHz = m.clks.DPPClkKHz
	}
	log.Printf("Simulated clocks: %v", &m.clks)
}
