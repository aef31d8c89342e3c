// Package clkmgr programs the display clocks of a DCN 2.0.3 display
// controller.
//
// A Manager keeps the clocks it last committed. Each display configuration
// commit hands it the clocks the new configuration needs and whether it's
// safe to lower any of them. Raises are applied straight away, lowers only
// once the caller says nothing visible depends on the higher clock, and the
// dentist and per-pipe DTOs are reprogrammed in an order that never
// under-clocks a running pipe.
//
// A Manager is not safe for concurrent use. The caller serializes commits.
package clkmgr

import (
	"log"

	"github.com/Jon-Bright/clkmgr/dccg"
	"github.com/Jon-Bright/clkmgr/regs"
	"github.com/Jon-Bright/clkmgr/vbios"
)

const (
	DCN201_MAX_CLK_KHZ = 1200000

	// Used when running without hardware, or when the hardware reads back
	// zero.
	NOMINAL_DPREFCLK_KHZ = 600000
	NOMINAL_VCO_KHZ      = 3000000

	CURRENT_CNT_TO_KHZ = 100
	FBMULT_TO_KHZ      = 100000

	DCN_MINIMUM_DISPCLK_KHZ = 100000
	DCN_MINIMUM_DPPCLK_KHZ  = 100000

	DEFAULT_SS_DIVIDER = 1000
)

type Environment int

const (
	ENV_HARDWARE Environment = iota
	ENV_SIMULATION
)

// Platform describes what the clock manager is running on.
type Platform struct {
	Env Environment
	// FirmwareClocks hands dispclk/dppclk to the VBIOS instead of programming
	// the dentist directly.
	FirmwareClocks bool
}

type updater interface {
	updateClocks(m *Manager, ds *DisplayState, safeToLower bool)
}

type Manager struct {
	port  regs.Port
	bios  vbios.BIOS
	dccg  *dccg.DCCG
	debug Debug
	upd   updater

	clks    ClockSet
	applied *DisplayState

	DentistVCOFreqKHz uint32
	DPRefClkRawKHz    uint32

	DFSBypassEnabled    bool
	dfsBypassDispClkKHz uint32

	ssOnDPRefClk         bool
	dprefclkSSPercentage uint32
	dprefclkSSDivider    uint32
}

// New builds a Manager and detects its reference clocks. On real hardware
// port must reach the registers in regs.DCN201; in simulation it isn't used.
func New(port regs.Port, bios vbios.BIOS, gen *dccg.DCCG, p Platform, debug Debug) *Manager {
	m := &Manager{
		port:  port,
		bios:  bios,
		dccg:  gen,
		debug: debug,
	}

	m.dfsBypassDispClkKHz = 0

	m.dprefclkSSPercentage = 0
	m.dprefclkSSDivider = DEFAULT_SS_DIVIDER
	m.ssOnDPRefClk = false

	switch {
	case p.Env == ENV_SIMULATION:
		m.upd = simUpdater{}
		m.DPRefClkRawKHz = NOMINAL_DPREFCLK_KHZ
		m.DentistVCOFreqKHz = NOMINAL_VCO_KHZ
	default:
		if p.FirmwareClocks {
			m.upd = vbiosUpdater{}
		} else {
			m.upd = directUpdater{}
		}
		m.DPRefClkRawKHz = port.ReadField(regs.CLK4_CLK2_CURRENT_CNT, regs.CURRENT_CNT) * CURRENT_CNT_TO_KHZ
		if m.DPRefClkRawKHz == 0 {
			m.DPRefClkRawKHz = NOMINAL_DPREFCLK_KHZ
		}
		m.DentistVCOFreqKHz = port.ReadField(regs.CLK4_CLK_PLL_REQ, regs.FbMult_int) * FBMULT_TO_KHZ
		if m.DentistVCOFreqKHz == 0 {
			m.DentistVCOFreqKHz = NOMINAL_VCO_KHZ
		}
	}

	if !debug.DisableDFSBypass {
		if ii := bios.IntegratedInfo(); ii != nil && ii.GPUCapInfo&vbios.DFS_BYPASS_ENABLE != 0 {
			m.DFSBypassEnabled = true
		}
	}

	m.readSSInfo()
	log.Printf("Clock manager: dprefclk %d kHz, VCO %d kHz, DFS bypass %v, SS %v (%d/%d)",
		m.DPRefClkRawKHz, m.DentistVCOFreqKHz, m.DFSBypassEnabled, m.ssOnDPRefClk, m.dprefclkSSPercentage, m.dprefclkSSDivider)
	return m
}

// InitClocks resets the committed clocks. It must be called before the first
// update.
func (m *Manager) InitClocks() {
	m.clks = ClockSet{}
	m.clks.PStateChangeSupport = true
	m.clks.PrevPStateChangeSupport = true
	m.clks.MaxSupportedDPPClkKHz = DCN201_MAX_CLK_KHZ
	m.clks.MaxSupportedDispClkKHz = DCN201_MAX_CLK_KHZ
}

// Clocks returns the committed clocks.
func (m *Manager) Clocks() ClockSet {
	return m.clks
}

// SetApplied records the display state whose programming has fully finished.
// Its dppclk gates DTO reprogramming on the next direct update.
func (m *Manager) SetApplied(ds *DisplayState) {
	m.applied = ds
}

// UpdateClocks updates the clocks for ds the way this platform does it.
func (m *Manager) UpdateClocks(ds *DisplayState, safeToLower bool) {
	m.upd.updateClocks(m, ds, safeToLower)
}

// readSSInfo looks for DP reference clock spread spectrum, first in the GPU
// PLL entry and then in the DisplayPort one. The VBIOS keeps a GPU PLL entry
// even with SS off, so only a non-zero percentage counts.
func (m *Manager) readSSInfo() {
	if m.bios.SSEntryNumber(vbios.AS_SIGNAL_TYPE_GPU_PLL) == 0 {
		return
	}
	for _, sig := range []vbios.SignalType{vbios.AS_SIGNAL_TYPE_GPU_PLL, vbios.AS_SIGNAL_TYPE_DISPLAY_PORT} {
		info, err := m.bios.SpreadSpectrumInfo(sig, 0)
		if err != nil || info.SpreadSpectrumPercentage == 0 {
			continue
		}
		m.ssOnDPRefClk = true
		m.dprefclkSSDivider = info.SpreadPercentageDivider
		if !info.CenterMode {
			// Only downspread lowers the DP reference clock.
			m.dprefclkSSPercentage = info.SpreadSpectrumPercentage
		}
		return
	}
}

// DPRefClkKHz returns the DP reference clock, lowered by half the downspread
// percentage when spread spectrum is on.
func (m *Manager) DPRefClkKHz() uint32 {
	if !m.ssOnDPRefClk || m.dprefclkSSDivider == 0 {
		return m.DPRefClkRawKHz
	}
	// dpref * (1 - pct/div/200), floored
	den := uint64(m.dprefclkSSDivider) * 200
	return uint32(uint64(m.DPRefClkRawKHz) * (den - uint64(m.dprefclkSSPercentage)) / den)
}

type ClockType int

const (
	DC_CLOCK_TYPE_DISPCLK ClockType = iota
	DC_CLOCK_TYPE_DPPCLK
)

// ClockConfig describes one clock's range and where it currently sits.
type ClockConfig struct {
	MaxKHz        uint32
	MinKHz        uint32
	CurrentKHz    uint32
	BWRequiredKHz uint32
}

// Clock reports the range and committed value of dispclk or dppclk, and what
// ds needs of it for bandwidth.
func (m *Manager) Clock(ds *DisplayState, ct ClockType) ClockConfig {
	switch ct {
	case DC_CLOCK_TYPE_DISPCLK:
		return ClockConfig{
			MaxKHz:        m.clks.MaxSupportedDispClkKHz,
			MinKHz:        DCN_MINIMUM_DISPCLK_KHZ,
			CurrentKHz:    m.clks.DispClkKHz,
			BWRequiredKHz: ds.Clocks.BWDispClkKHz,
		}
	case DC_CLOCK_TYPE_DPPCLK:
		return ClockConfig{
			MaxKHz:        m.clks.MaxSupportedDPPClkKHz,
			MinKHz:        DCN_MINIMUM_DPPCLK_KHZ,
			CurrentKHz:    m.clks.DPPClkKHz,
			BWRequiredKHz: ds.Clocks.BWDPPClkKHz,
		}
	}
	return ClockConfig{}
}
