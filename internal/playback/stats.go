package playback

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a resource snapshot of the playback process.
type Stats struct {
	PID        int
	CPUPercent float64
	RSS        uint64 // bytes
}

// Stats samples CPU and memory usage of the running playback process.
func (l *Launcher) Stats() (Stats, error) {
	pid := l.PID()
	if pid == 0 {
		return Stats{}, ErrNotRunning
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return Stats{}, fmt.Errorf("inspecting playback pid %d: %w", pid, err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return Stats{}, fmt.Errorf("reading cpu for pid %d: %w", pid, err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return Stats{}, fmt.Errorf("reading memory for pid %d: %w", pid, err)
	}

	return Stats{PID: pid, CPUPercent: cpu, RSS: mem.RSS}, nil
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
