package clkmgr

import (
	"github.com/Jon-Bright/clkmgr/dccg"
	"github.com/Jon-Bright/clkmgr/regs"
	"github.com/Jon-Bright/clkmgr/vbios"
)

type regKey struct {
	r regs.Reg
	f regs.Field
}

type regOp struct {
	r regs.Reg
	f regs.Field
	v uint32
}

// fakePort is a register file that remembers every write. The dentist's
// change-done bits always read as done.
type fakePort struct {
	vals map[regKey]uint32
	ops  []regOp
}

func newFakePort() *fakePort {
	p := &fakePort{vals: map[regKey]uint32{}}
	p.vals[regKey{regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DISPCLK_CHG_DONE}] = 1
	p.vals[regKey{regs.DENTIST_DISPCLK_CNTL, regs.DENTIST_DPPCLK_CHG_DONE}] = 1
	return p
}

func (p *fakePort) ReadField(r regs.Reg, f regs.Field) uint32 {
	return p.vals[regKey{r, f}]
}

func (p *fakePort) WriteField(r regs.Reg, f regs.Field, v uint32) {
	p.vals[regKey{r, f}] = v
	p.ops = append(p.ops, regOp{r, f, v})
}

func (p *fakePort) reset() {
	p.ops = nil
}

// firstWrite returns the index of the first write to one of rs, or -1.
func (p *fakePort) firstWrite(rs ...regs.Reg) int {
	for i, op := range p.ops {
		for _, r := range rs {
			if op.r == r {
				return i
			}
		}
	}
	return -1
}

var dtoRegs = []regs.Reg{
	regs.DPPCLK_DTO_CTRL,
	regs.DPPCLK0_DTO_PARAM,
	regs.DPPCLK1_DTO_PARAM,
	regs.DPPCLK2_DTO_PARAM,
	regs.DPPCLK3_DTO_PARAM,
}

type fakeBIOS struct {
	calls      []vbios.DCEClockParams
	ss         map[vbios.SignalType]vbios.SSInfo
	integrated *vbios.IntegratedInfo
}

func (b *fakeBIOS) SetDCEClock(p *vbios.DCEClockParams) {
	b.calls = append(b.calls, *p)
}

func (b *fakeBIOS) SSEntryNumber(sig vbios.SignalType) int {
	return len(b.ss)
}

func (b *fakeBIOS) SpreadSpectrumInfo(sig vbios.SignalType, index int) (vbios.SSInfo, error) {
	info, ok := b.ss[sig]
	if !ok {
		return vbios.SSInfo{}, vbios.ErrNoEntry
	}
	return info, nil
}

func (b *fakeBIOS) IntegratedInfo() *vbios.IntegratedInfo {
	return b.integrated
}

// newTestManager returns an initialized hardware Manager on fakes, with the
// given dispclk/dppclk already committed.
func newTestManager(debug Debug, dispclk, dppclk uint32) (*Manager, *fakePort, *fakeBIOS) {
	p := newFakePort()
	b := &fakeBIOS{}
	m := New(p, b, dccg.New(p), Platform{Env: ENV_HARDWARE}, debug)
	m.InitClocks()
	m.clks.DispClkKHz = dispclk
	m.clks.DPPClkKHz = dppclk
	return m, p, b
}

func onePipe(dispclk, dppclk uint32, planes int) *DisplayState {
	return &DisplayState{
		Clocks:  ClockSet{DispClkKHz: dispclk, DPPClkKHz: dppclk},
		Streams: []Stream{{PlaneCount: planes}},
		Pipes:   []Pipe{{HasDPP: true, DPPInst: 0, DPPClkKHz: dppclk}},
	}
}
