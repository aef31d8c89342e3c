package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Jon-Bright/clkmgr/clkmgr"
	"github.com/Jon-Bright/clkmgr/dccg"
	"github.com/Jon-Bright/clkmgr/regs"
	"github.com/Jon-Bright/clkmgr/vbios"
)

var aperture = flag.String("aperture", "", "The register aperture to map: a PCI resource file, or /dev/mem together with -base")
var apertureBase = flag.Uint64("base", 0, "Physical address of the register aperture within -aperture")
var apertureSize = flag.Int("size", 512*1024, "Size of the register aperture, in bytes")
var sim = flag.Bool("sim", false, "Run without hardware: no registers are mapped and nothing is programmed")
var firmware = flag.Bool("firmware", false, "Have the VBIOS set dispclk/dppclk instead of programming the dentist")
var safeToLower = flag.Bool("safe", false, "Allow clocks to be lowered. Only set this when nothing on screen needs the current clocks")
var applied = flag.Uint("applied_dppclk", 0, "dppclk of the configuration already fully applied, in kHz")

var dispclk = flag.Uint("dispclk", 0, "Requested dispclk, in kHz")
var dppclk = flag.Uint("dppclk", 0, "Requested dppclk, in kHz")
var dcfclk = flag.Uint("dcfclk", 0, "Requested dcfclk, in kHz")
var dcfclkDeepSleep = flag.Uint("dcfclk_ds", 0, "Requested dcfclk deep sleep, in kHz")
var dramclk = flag.Uint("dramclk", 0, "Requested dramclk, in kHz")
var socclk = flag.Uint("socclk", 0, "Requested socclk, in kHz")
var phyclk = flag.Uint("phyclk", 0, "Requested phyclk, in kHz")
var pstate = flag.Bool("pstate", true, "Whether the requested configuration supports P-state changes")
var displays = flag.Int("displays", 1, "The number of lit displays")
var planes = flag.Int("planes", 1, "The number of planes per display")

func displayState() *clkmgr.DisplayState {
	ds := clkmgr.DisplayState{
		Clocks: clkmgr.ClockSet{
			DispClkKHz:          uint32(*dispclk),
			DPPClkKHz:           uint32(*dppclk),
			DCFClkKHz:           uint32(*dcfclk),
			DCFClkDeepSleepKHz:  uint32(*dcfclkDeepSleep),
			DRAMClkKHz:          uint32(*dramclk),
			SOCClkKHz:           uint32(*socclk),
			PHYClkKHz:           uint32(*phyclk),
			PStateChangeSupport: *pstate,
		},
	}
	for i := 0; i < *displays; i++ {
		ds.Streams = append(ds.Streams, clkmgr.Stream{PlaneCount: *planes})
		if i < regs.DCN201_PIPE_COUNT {
			ds.Pipes = append(ds.Pipes, clkmgr.Pipe{HasDPP: true, DPPInst: i, DPPClkKHz: uint32(*dppclk)})
		}
	}
	return &ds
}

func newManager(debug clkmgr.Debug) (*clkmgr.Manager, func() error, error) {
	if *sim {
		return clkmgr.New(nil, vbios.Null{}, nil, clkmgr.Platform{Env: clkmgr.ENV_SIMULATION}, debug), func() error { return nil }, nil
	}
	if *aperture == "" {
		return nil, nil, fmt.Errorf("no -aperture given and not running with -sim")
	}
	m, err := regs.OpenMMIO(*aperture, uintptr(*apertureBase), *apertureSize, regs.DCN201)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't map registers: %v", err)
	}
	p := clkmgr.Platform{Env: clkmgr.ENV_HARDWARE, FirmwareClocks: *firmware}
	return clkmgr.New(m, vbios.Null{}, dccg.New(m), p, debug), m.Close, nil
}

func main() {
	flag.Parse()
	debug, err := clkmgr.LoadDebugFromEnv()
	if err != nil {
		log.Fatalf("Failed loading debug options: %v", err)
	}
	cm, closer, err := newManager(debug)
	if err != nil {
		log.Fatalf("Failed creating clock manager: %v", err)
	}
	defer closer() // Ignore error

	cm.InitClocks()
	if *applied != 0 {
		cm.SetApplied(&clkmgr.DisplayState{Clocks: clkmgr.ClockSet{DPPClkKHz: uint32(*applied)}})
	}
	ds := displayState()
	cm.UpdateClocks(ds, *safeToLower)
	c := cm.Clocks()
	log.Printf("Committed: %v", &c)
	log.Printf("DP reference clock %d kHz", cm.DPRefClkKHz())
}
