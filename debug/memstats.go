package debug

// Memory/RSS periodic logger enabled when config.Debug is true.
// Logs resident set size along with Go heap stats to correlate native vs heap growth.

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// MemSample is one reading of process and heap memory.
type MemSample struct {
	Goroutines int
	HeapAlloc  uint64
	HeapInuse  uint64
	HeapSys    uint64
	NextGC     uint64
	NumGC      uint32
	RSS        uint64
	CPUPercent float64
}

// ReadMemSample reads heap stats and, when proc is non-nil, the process RSS
// and CPU share. The returned error only concerns the process query.
func ReadMemSample(proc *process.Process) (MemSample, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := MemSample{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
		NextGC:     ms.NextGC,
		NumGC:      ms.NumGC,
	}
	if proc == nil {
		return s, nil
	}
	mi, err := proc.MemoryInfo()
	if err != nil {
		return s, err
	}
	s.RSS = mi.RSS
	if cpu, err := proc.Percent(0); err == nil {
		s.CPUPercent = cpu
	}
	return s, nil
}

// StartMemLogger launches a goroutine that logs memory stats every interval
// until ctx is done. Failures to query the process are logged once.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn("memlog: process handle unavailable", slog.String("err", err.Error()))
		proc = nil
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			s, err := ReadMemSample(proc)
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: process memory query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("memstats",
				slog.Int("goroutines", s.Goroutines),
				slog.Uint64("heap_alloc", s.HeapAlloc),
				slog.Uint64("heap_inuse", s.HeapInuse),
				slog.Uint64("heap_sys", s.HeapSys),
				slog.Uint64("next_gc", s.NextGC),
				slog.Uint64("rss", s.RSS),
				slog.Float64("cpu_percent", s.CPUPercent),
				slog.Uint64("num_gc", uint64(s.NumGC)),
			)
		}
	}()
}
