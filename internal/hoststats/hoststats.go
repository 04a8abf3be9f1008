// Package hoststats samples host resource usage for inclusion in a scan
// report, built on github.com/shirou/gopsutil/v3. This is purely
// observational: it never influences scheduling or detection.
package hoststats

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hemlocksec/pii-radar/internal/model"
)

// Sample takes one point-in-time reading of CPU and memory usage. Errors
// from the underlying gopsutil calls are swallowed into zero values: a
// host-stats sampling failure must never abort or poison a scan.
func Sample() model.HostSample {
	s := model.HostSample{Timestamp: time.Now()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemPercent = vm.UsedPercent
		s.MemUsedMiB = vm.Used / (1024 * 1024)
		s.MemTotalMiB = vm.Total / (1024 * 1024)
	}

	return s
}
