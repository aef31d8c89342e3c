package clkmgr

import (
	"log"
	"time"

	"github.com/Jon-Bright/clkmgr/regs"
)

// The dentist divides the VCO down to dispclk and dppclk. Dividers are in
// quarter steps (scale factor 4) and encoded as a divider ID (DID) in four
// ranges of increasing step size.
const (
	DENTIST_DIVIDER_RANGE_1_START = 8   // 2.00
	DENTIST_DIVIDER_RANGE_1_STEP  = 1   // 0.25
	DENTIST_DIVIDER_RANGE_2_START = 64  // 16.00
	DENTIST_DIVIDER_RANGE_2_STEP  = 2   // 0.50
	DENTIST_DIVIDER_RANGE_3_START = 128 // 32.00
	DENTIST_DIVIDER_RANGE_3_STEP  = 4   // 1.00
	DENTIST_DIVIDER_RANGE_4_START = 248 // 62.00
	DENTIST_DIVIDER_RANGE_4_STEP  = 264 // 66.00

	DENTIST_DIVIDER_RANGE_SCALE_FACTOR = 4

	DENTIST_BASE_DID_1 = 0x08
	DENTIST_BASE_DID_2 = 0x40
	DENTIST_BASE_DID_3 = 0x60
	DENTIST_BASE_DID_4 = 0x7e
	DENTIST_MAX_DID    = 0x7f
)

const (
	dispclkChgTries = 1000
	dispclkChgDelay = 50 * time.Microsecond
	dppclkChgTries  = 100
	dppclkChgDelay  = 5 * time.Microsecond
)

func dentistDIDFromDivider(divider uint32) uint32 {
	var did uint32
	switch {
	case divider <= DENTIST_DIVIDER_RANGE_1_START:
		did = DENTIST_BASE_DID_1
	case divider < DENTIST_DIVIDER_RANGE_2_START:
		did = DENTIST_BASE_DID_1 + (divider-DENTIST_DIVIDER_RANGE_1_START)/DENTIST_DIVIDER_RANGE_1_STEP
	case divider < DENTIST_DIVIDER_RANGE_3_START:
		did = DENTIST_BASE_DID_2 + (divider-DENTIST_DIVIDER_RANGE_2_START)/DENTIST_DIVIDER_RANGE_2_STEP
	case divider < DENTIST_DIVIDER_RANGE_4_START:
		did = DENTIST_BASE_DID_3 + (divider-DENTIST_DIVIDER_RANGE_3_START)/DENTIST_DIVIDER_RANGE_3_STEP
	default:
		did = DENTIST_BASE_DID_4 + (divider-DENTIST_DIVIDER_RANGE_4_START)/DENTIST_DIVIDER_RANGE_4_STEP
		if did > DENTIST_MAX_DID {
			did = DENTIST_MAX_DID
		}
	}
	return did
}

func dentistDividerFromDID(did uint32) uint32 {
	if did < DENTIST_BASE_DID_1 {
		did = DENTIST_BASE_DID_1
	}
	if did > DENTIST_MAX_DID {
		did = DENTIST_MAX_DID
	}
	switch {
	case did < DENTIST_BASE_DID_2:
		return DENTIST_DIVIDER_RANGE_1_START + DENTIST_DIVIDER_RANGE_1_STEP*(did-DENTIST_BASE_DID_1)
	case did < DENTIST_BASE_DID_3:
		return DENTIST_DIVIDER_RANGE_2_START + DENTIST_DIVIDER_RANGE_2_STEP*(did-DENTIST_BASE_DID_2)
	case did < DENTIST_BASE_DID_4:
		return DENTIST_DIVIDER_RANGE_3_START + DENTIST_DIVIDER_RANGE_3_STEP*(did-DENTIST_BASE_DID_3)
	}
	return DENTIST_DIVIDER_RANGE_4_START + DENTIST_DIVIDER_RANGE_4_STEP*(did-DENTIST_BASE_DID_4)
}

// didForClock returns the DID that gets closest to khz from vcoKHz without
// exceeding it. A zero clock gets the largest divider there is.
func didForClock(vcoKHz, khz uint32) uint32 {
	if khz == 0 {
		return DENTIST_MAX_DID
	}
	return dentistDIDFromDivider(uint32(uint64(DENTIST_DIVIDER_RANGE_SCALE_FACTOR) * uint64(vcoKHz) / uint64(khz)))
}

// updateDentist programs the committed dispclk and dppclk into the dentist,
// dispclk first, waiting for each change to land.
func (m *Manager) updateDentist() {
	dispDID := didForClock(m.DentistVCOFreqKHz, m.clks.DispClkKHz)
	dppDID := didForClock(m.DentistVCOFreqKHz, m.clks.DPPClkKHz)

	m.port.WriteField(regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DISPCLK_WDIVIDER, dispDID)
	m.waitChgDone(regs.DENTIST_DISPCLK_CHG_DONE, dispclkChgTries, dispclkChgDelay)
	m.port.WriteField(regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DPPCLK_WDIVIDER, dppDID)
	m.waitChgDone(regs.DENTIST_DPPCLK_CHG_DONE, dppclkChgTries, dppclkChgDelay)
}

func (m *Manager) waitChgDone(f regs.Field, tries int, delay time.Duration) {
	for i := 0; i < tries; i++ {
		if m.port.ReadField(regs.DENTIST_DISPCLK_CNTL, f) == 1 {
			return
		}
		time.Sleep(delay)
	}
	log.Printf("Dentist field %d didn't report done after %v", f, time.Duration(tries)*delay)
}

// readClocksFromHW replaces the committed dispclk and dppclk with what the
// dentist is actually producing. Firmware or a previous driver may have set
// it up behind our back.
func (m *Manager) readClocksFromHW() {
	dispDiv := dentistDividerFromDID(m.port.ReadField(regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DISPCLK_WDIVIDER))
	dppDiv := dentistDividerFromDID(m.port.ReadField(regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DPPCLK_WDIVIDER))
	vco := uint64(DENTIST_DIVIDER_RANGE_SCALE_FACTOR) * uint64(m.DentistVCOFreqKHz)
	m.clks.DispClkKHz = uint32(vco / uint64(dispDiv))
	m.clks.DPPClkKHz = uint32(vco / uint64(dppDiv))
	log.Printf("Read clocks from dentist: dispclk %d kHz, dppclk %d kHz", m.clks.DispClkKHz, m.clks.DPPClkKHz)
}
