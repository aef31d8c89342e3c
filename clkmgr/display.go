package clkmgr

// Stream is one display output in a DisplayState.
type Stream struct {
	DPMSOff    bool
	Virtual    bool // virtual signal, kept counted for headless setups
	Phantom    bool // sub-viewport phantom, never a real display
	PlaneCount int
}

// Pipe is one DPP pipe in a DisplayState. DPPInst is only meaningful when
// HasDPP is set.
type Pipe struct {
	HasDPP    bool
	DPPInst   int
	DPPClkKHz uint32
}

// DisplayState is a display configuration as handed to the clock manager:
// the clocks it needs plus enough of its topology to count displays and
// planes and to program per-pipe DTOs.
type DisplayState struct {
	Clocks  ClockSet
	Streams []Stream
	Pipes   []Pipe
}

// ActiveDisplayCount counts streams that are lit, or virtual.
func (ds *DisplayState) ActiveDisplayCount() int {
	n := 0
	for _, s := range ds.Streams {
		if s.Phantom {
			continue
		}
		if !s.DPMSOff || s.Virtual {
			n++
		}
	}
	return n
}

func (ds *DisplayState) ActivePlaneCount() int {
	n := 0
	for _, s := range ds.Streams {
		n += s.PlaneCount
	}
	return n
}
