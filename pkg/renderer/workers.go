package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
)

// DefaultWorkers returns the pixel budget used when none is configured: twice
// the number of logical cores
func DefaultWorkers() int {
	return 2 * logicalCores()
}

func logicalCores() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
