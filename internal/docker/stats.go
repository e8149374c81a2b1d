package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
)

// ContainerStats holds resource usage statistics for a container.
type ContainerStats struct {
	CPUPercent    float64
	MemoryUsage   uint64
	MemoryLimit   uint64
	MemoryPercent float64
	PIDs          uint64
	NetRx         uint64
	NetTx         uint64
}

// Stats retrieves a one-shot resource usage snapshot for a container.
func (c *Client) Stats(ctx context.Context, containerID string) (*ContainerStats, error) {
	resp, err := c.cli.ContainerStatsOneShot(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get container stats: %w", err)
	}
	defer resp.Body.Close()
	return decodeStats(resp.Body)
}

// decodeStats reads a stats response body.
func decodeStats(r io.Reader) (*ContainerStats, error) {
	var stats container.StatsResponse
	if err := json.NewDecoder(r).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	s := &ContainerStats{
		CPUPercent:  calculateCPUPercent(&stats),
		MemoryUsage: stats.MemoryStats.Usage,
		MemoryLimit: stats.MemoryStats.Limit,
		PIDs:        stats.PidsStats.Current,
	}
	if stats.MemoryStats.Limit > 0 {
		s.MemoryPercent = float64(stats.MemoryStats.Usage) / float64(stats.MemoryStats.Limit) * 100.0
	}
	for _, n := range stats.Networks {
		s.NetRx += n.RxBytes
		s.NetTx += n.TxBytes
	}
	return s, nil
}

// calculateCPUPercent calculates CPU usage percentage from Docker stats.
// The calculation uses the difference between the container's CPU usage and
// the system's CPU usage to determine the percentage.
func calculateCPUPercent(stats *container.StatsResponse) float64 {
	// Unsigned deltas would wrap when a counter goes backwards
	if stats.CPUStats.CPUUsage.TotalUsage < stats.PreCPUStats.CPUUsage.TotalUsage ||
		stats.CPUStats.SystemUsage <= stats.PreCPUStats.SystemUsage {
		return 0.0
	}
	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage - stats.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(stats.CPUStats.SystemUsage - stats.PreCPUStats.SystemUsage)

	// Get number of CPUs
	cpuCount := float64(stats.CPUStats.OnlineCPUs)
	if cpuCount == 0.0 {
		// Fallback to PercpuUsage length if OnlineCPUs is not set
		cpuCount = float64(len(stats.CPUStats.CPUUsage.PercpuUsage))
		if cpuCount == 0.0 {
			cpuCount = 1.0
		}
	}

	return (cpuDelta / systemDelta) * cpuCount * 100.0
}

// FormatBytes converts bytes to a human-readable string (KB, MB, GB).
func FormatBytes(bytes uint64) string {
	const (
		KB = 1024.0
		MB = KB * 1024
		GB = MB * 1024
	)

	b := float64(bytes)
	switch {
	case b >= GB:
		return fmt.Sprintf("%.1f GB", b/GB)
	case b >= MB:
		return fmt.Sprintf("%.1f MB", b/MB)
	case b >= KB:
		return fmt.Sprintf("%.1f KB", b/KB)
	default:
		return fmt.Sprintf("%.0f B", b)
	}
}
