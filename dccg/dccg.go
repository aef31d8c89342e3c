package dccg

import (
	"log"

	"github.com/Jon-Bright/clkmgr/regs"
)

const (
	DTO_MODULO    = 0xff
	DTO_PHASE_MAX = 0xff
)

// DCCG is the display clock generator. It derives each pipe's dppclk from the
// shared reference dppclk through a per-pipe DTO (phase/modulo divider).
type DCCG struct {
	port regs.Port

	// RefDPPClkKHz is the dppclk the dentist currently delivers.
	RefDPPClkKHz uint32
	pipeDPPClk   [regs.DCN201_PIPE_COUNT]uint32
}

func New(port regs.Port) *DCCG {
	return &DCCG{port: port}
}

// PipeDPPClkKHz returns the dppclk last programmed for pipe inst.
func (d *DCCG) PipeDPPClkKHz(inst int) uint32 {
	return d.pipeDPPClk[inst]
}

// UpdateDPPDTO programs pipe inst to run at reqKHz out of RefDPPClkKHz. A zero
// reference or request turns the DTO off, so the pipe runs at the reference.
func (d *DCCG) UpdateDPPDTO(inst int, reqKHz uint32) {
	if d.RefDPPClkKHz != 0 && reqKHz != 0 {
		ref := uint64(d.RefDPPClkKHz)
		phase := (DTO_MODULO*uint64(reqKHz) + ref - 1) / ref
		if phase > DTO_PHASE_MAX {
			log.Printf("DPP%d DTO phase %d for %d kHz out of %d kHz, clamping", inst, phase, reqKHz, ref)
			phase = DTO_PHASE_MAX
		}
		p := regs.DPPCLK_DTO_PARAM(inst)
		d.port.WriteField(p, regs.DPPCLK0_DTO_PHASE, uint32(phase))
		d.port.WriteField(p, regs.DPPCLK0_DTO_MODULO, DTO_MODULO)
		d.port.WriteField(regs.DPPCLK_DTO_CTRL, regs.DPPCLK_DTO_ENABLE(inst), 1)
	} else {
		d.port.WriteField(regs.DPPCLK_DTO_CTRL, regs.DPPCLK_DTO_ENABLE(inst), 0)
	}
	d.pipeDPPClk[inst] = reqKHz
}
