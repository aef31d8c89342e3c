package clkmgr

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	FORCE_CLOCK_MODE_READ_HW = 0x1
)

// Debug holds workaround and debug switches. None of them are needed on
// healthy hardware.
type Debug struct {
	// SkipClockUpdate leaves the clocks entirely alone, for boards known to
	// hang on reprogramming.
	SkipClockUpdate bool `env:"CLKMGR_SKIP_CLOCK_UPDATE"`
	// ForceClockMode bit 0 re-reads the clocks from hardware on every update.
	ForceClockMode uint32 `env:"CLKMGR_FORCE_CLOCK_MODE"`
	// ForcedClocks stops the dentist and DTOs from being programmed, except
	// for a forced resync that's safe to lower.
	ForcedClocks      bool   `env:"CLKMGR_FORCED_CLOCKS"`
	ForceMinDCFClkMHz uint32 `env:"CLKMGR_FORCE_MIN_DCFCLK_MHZ"`
	DisableDFSBypass  bool   `env:"CLKMGR_DISABLE_DFS_BYPASS"`
}

// LoadDebugFromEnv reads Debug from CLKMGR_* environment variables. Unset
// variables leave the switch off.
func LoadDebugFromEnv() (Debug, error) {
	var d Debug
	if err := env.Parse(&d); err != nil {
		return Debug{}, fmt.Errorf("couldn't parse debug options: %v", err)
	}
	return d, nil
}
