package regs

// Reg identifies one of the clock manager's hardware registers.
type Reg int

// Field identifies a bit field within a Reg.
type Field int

// Port gives read-modify-write access to register fields. Values are raw and
// hardware-scaled; callers convert them to kHz.
type Port interface {
	ReadField(r Reg, f Field) uint32
	WriteField(r Reg, f Field, v uint32)
}

// ShiftMask places a Field within its register.
type ShiftMask struct {
	Shift uint
	Mask  uint32
}

// Table maps register and field identifiers to a generation's addresses. It
// is pure data: the policy code never looks inside it.
type Table struct {
	Name    string
	Offsets map[Reg]uintptr // byte offset from the start of the MMIO aperture
	Fields  map[Field]ShiftMask
}

func (sm ShiftMask) get(v uint32) uint32 {
	return (v & sm.Mask) >> sm.Shift
}

func (sm ShiftMask) set(v uint32, fv uint32) uint32 {
	return (v &^ sm.Mask) | ((fv << sm.Shift) & sm.Mask)
}
