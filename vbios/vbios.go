// Package vbios describes the calls the clock manager makes into the video
// BIOS: setting a DCE clock, and reading the spread-spectrum and integrated
// system tables.
package vbios

import (
	"errors"
	"log"
)

type ClockSourceID int

const (
	CLOCK_SOURCE_ID_UNDEFINED ClockSourceID = iota
	CLOCK_SOURCE_ID_PLL0
	CLOCK_SOURCE_ID_PLL1
	CLOCK_SOURCE_ID_PLL2
	CLOCK_SOURCE_ID_EXTERNAL
	CLOCK_SOURCE_ID_DCPLL
	CLOCK_SOURCE_ID_DFS // DENTIST, fed from the PLL reference
)

type DCEClockType int

const (
	DCECLOCK_TYPE_DISPLAY_CLOCK DCEClockType = iota
	DCECLOCK_TYPE_DPREFCLK
)

// DCEClockParams is the argument block of the SetDCEClock table.
type DCEClockParams struct {
	TargetClockKHz uint32
	PLLID          ClockSourceID
	ClockType      DCEClockType
}

type SignalType int

const (
	AS_SIGNAL_TYPE_GPU_PLL SignalType = iota
	AS_SIGNAL_TYPE_DISPLAY_PORT
)

// SSInfo is one spread-spectrum table entry.
type SSInfo struct {
	SpreadSpectrumPercentage uint32
	SpreadPercentageDivider  uint32
	CenterMode               bool // false means downspread
}

const (
	DFS_BYPASS_ENABLE = 0x10
)

// IntegratedInfo holds the integrated system info table, present on APUs.
type IntegratedInfo struct {
	GPUCapInfo uint32
}

var ErrNoEntry = errors.New("no such table entry")

// BIOS is the firmware side of the clock manager. SetDCEClock is fire and
// forget: a failing firmware call is the platform's problem, not ours.
type BIOS interface {
	SetDCEClock(p *DCEClockParams)
	SSEntryNumber(sig SignalType) int
	SpreadSpectrumInfo(sig SignalType, index int) (SSInfo, error)
	IntegratedInfo() *IntegratedInfo
}

// Null is a BIOS without firmware behind it. It logs clock requests and has
// empty tables.
type Null struct{}

func (Null) SetDCEClock(p *DCEClockParams) {
	log.Printf("VBIOS SetDCEClock type %d source %d -> %d kHz (no firmware)", p.ClockType, p.PLLID, p.TargetClockKHz)
}

func (Null) SSEntryNumber(sig SignalType) int {
	return 0
}

func (Null) SpreadSpectrumInfo(sig SignalType, index int) (SSInfo, error) {
	return SSInfo{}, ErrNoEntry
}

func (Null) IntegratedInfo() *IntegratedInfo {
	return nil
}
