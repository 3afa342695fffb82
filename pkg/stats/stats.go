package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// EnableMemoryStatistics enables go routine that periodically prints memory
// usage of the go process. When ctx is done the metrics of gatherer are
// dumped to dumpPath, if not empty, and the returned channel is closed.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration,
	gatherer prometheus.Gatherer, dumpPath string,
) <-chan struct{} {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if dumpPath == "" {
					return
				}
				if err := DumpMetrics(gatherer, dumpPath); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()

	return done
}

// toMegabytes returns given memory in bytes to megabytes.
func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / MEGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fMB, Heap allocated: %.3fMB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toMegabytes(memStats.TotalAlloc),
		toMegabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// DumpMetrics appends the metrics of gatherer to the file at path.
func DumpMetrics(gatherer prometheus.Gatherer, path string) error {
	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	metricFamily, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
