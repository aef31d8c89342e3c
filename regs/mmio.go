package regs

import (
	"fmt"
	"log"
	"os"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

const (
	MEM_FILE = "/dev/mem"
)

// MMIO is a Port backed by a memory mapping of the controller's register
// aperture. That's either /dev/mem at the aperture's physical address or a PCI
// resource file (/sys/bus/pci/devices/*/resourceN) at offset 0.
type MMIO struct {
	t    Table
	buf  mmap.MMap
	offs uintptr
}

// OpenMMIO maps size bytes of path starting at physAddr and checks that every
// register in t lies inside the mapping.
func OpenMMIO(path string, physAddr uintptr, size int, t Table) (*MMIO, error) {
	for r, o := range t.Offsets {
		if o+4 > uintptr(size) {
			return nil, fmt.Errorf("register %d at %08X is outside the %d byte aperture", r, o, size)
		}
	}
	buf, offs, err := mapMem(path, physAddr, size)
	if err != nil {
		return nil, err
	}
	log.Printf("Mapped %s registers from %s, %d bytes at %08X, offset %d\n", t.Name, path, size, physAddr, offs)
	return &MMIO{t: t, buf: buf, offs: offs}, nil
}

// mapMem maps a region of path into our address space. Since the mapping has
// to start at a page boundary, physAddr is rounded down to the nearest page.
// mapMem returns the mapped memory and the offset at which physAddr itself
// can be found (=physAddr%pageSize).
func mapMem(path string, physAddr uintptr, size int) (mmap.MMap, uintptr, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, os.ModePerm)
	if err != nil {
		return nil, 0, fmt.Errorf("couldn't open %s: %v", path, err)
	}
	defer f.Close() // Ignore error, the mapping outlives the descriptor

	pageSize := uintptr(unix.Getpagesize())
	pagemask := ^(pageSize - 1)
	mapAddr := physAddr & pagemask
	size += int(physAddr - mapAddr)
	mm, err := mmap.MapRegion(f, size, mmap.RDWR, 0, int64(mapAddr))
	if err != nil {
		return nil, 0, fmt.Errorf("couldn't map region (%v, %v): %v", physAddr, size, err)
	}
	return mm, physAddr & (pageSize - 1), nil
}

func (m *MMIO) reg(r Reg) *uint32 {
	o, ok := m.t.Offsets[r]
	if !ok {
		panic(fmt.Sprintf("%s has no register %d", m.t.Name, r))
	}
	return (*uint32)(unsafe.Pointer(&m.buf[m.offs+o]))
}

func (m *MMIO) field(f Field) ShiftMask {
	sm, ok := m.t.Fields[f]
	if !ok {
		panic(fmt.Sprintf("%s has no field %d", m.t.Name, f))
	}
	return sm
}

func (m *MMIO) ReadField(r Reg, f Field) uint32 {
	return m.field(f).get(*m.reg(r))
}

func (m *MMIO) WriteField(r Reg, f Field, v uint32) {
	p := m.reg(r)
	*p = m.field(f).set(*p, v)
}

// Close unmaps the aperture. The MMIO must not be used afterwards.
func (m *MMIO) Close() error {
	if m.buf == nil {
		return nil
	}
	err := m.buf.Unmap()
	m.buf = nil
	return err
}
