package regs

import "fmt"

const (
	DENTIST_DISPCLK_CNTL Reg = iota
	CLK4_CLK2_CURRENT_CNT
	CLK4_CLK_PLL_REQ
	DPPCLK_DTO_CTRL
	DPPCLK0_DTO_PARAM
	DPPCLK1_DTO_PARAM
	DPPCLK2_DTO_PARAM
	DPPCLK3_DTO_PARAM
)

const (
	DENTIST_DISPCLK_WDIVIDER Field = iota
	DENTIST_DISPCLK_CHG_DONE
	DENTIST_DPPCLK_CHG_DONE
	DENTIST_DPPCLK_WDIVIDER
	CURRENT_CNT
	FbMult_int
	FbMult_frac
	DPPCLK0_DTO_ENABLE
	DPPCLK1_DTO_ENABLE
	DPPCLK2_DTO_ENABLE
	DPPCLK3_DTO_ENABLE
	DPPCLK0_DTO_PHASE
	DPPCLK0_DTO_MODULO
)

// DCN201_PIPE_COUNT is the number of DPP pipes with their own DTO.
const DCN201_PIPE_COUNT = 4

// DPPCLK_DTO_PARAM returns the DTO parameter register of pipe inst.
func DPPCLK_DTO_PARAM(inst int) Reg {
	if inst < 0 || inst >= DCN201_PIPE_COUNT {
		panic(fmt.Sprintf("no DPP DTO for pipe %d", inst))
	}
	return DPPCLK0_DTO_PARAM + Reg(inst)
}

// DPPCLK_DTO_ENABLE returns the DTO enable bit of pipe inst in DPPCLK_DTO_CTRL.
func DPPCLK_DTO_ENABLE(inst int) Field {
	if inst < 0 || inst >= DCN201_PIPE_COUNT {
		panic(fmt.Sprintf("no DPP DTO for pipe %d", inst))
	}
	return DPPCLK0_DTO_ENABLE + Field(inst)
}

// DCN201 is the register layout of the DCN 2.0.3 display block together with
// the CLK 11.0.1 clock block it reads its reference from. Offsets are bytes
// into the MMIO aperture (dword index * 4).
var DCN201 = Table{
	Name: "DCN 2.0.3",
	Offsets: map[Reg]uintptr{
		DENTIST_DISPCLK_CNTL:  0x0064 * 4,
		DPPCLK_DTO_CTRL:       0x00e2 * 4,
		DPPCLK0_DTO_PARAM:     0x00e3 * 4,
		DPPCLK1_DTO_PARAM:     0x00e4 * 4,
		DPPCLK2_DTO_PARAM:     0x00e5 * 4,
		DPPCLK3_DTO_PARAM:     0x00e6 * 4,
		CLK4_CLK_PLL_REQ:      0x16e37 * 4,
		CLK4_CLK2_CURRENT_CNT: 0x16e50 * 4,
	},
	Fields: map[Field]ShiftMask{
		DENTIST_DISPCLK_WDIVIDER: {0, 0x0000007f},
		DENTIST_DISPCLK_CHG_DONE: {19, 0x00080000},
		DENTIST_DPPCLK_CHG_DONE:  {20, 0x00100000},
		DENTIST_DPPCLK_WDIVIDER:  {24, 0x7f000000},
		CURRENT_CNT:              {0, 0xffffffff},
		FbMult_int:               {0, 0x000001ff},
		FbMult_frac:              {16, 0xffff0000},
		DPPCLK0_DTO_ENABLE:       {0, 0x00000001},
		DPPCLK1_DTO_ENABLE:       {4, 0x00000010},
		DPPCLK2_DTO_ENABLE:       {8, 0x00000100},
		DPPCLK3_DTO_ENABLE:       {12, 0x00001000},
		DPPCLK0_DTO_PHASE:        {0, 0x000000ff},
		DPPCLK0_DTO_MODULO:       {16, 0x00ff0000},
	},
}
