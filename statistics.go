package main

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

type stat struct {
	Requests     int
	Errors       int
	TotalBytes   int64
	AvgLatencyMs float64
	StdLatencyMs float64
	P95LatencyMs float64
}

// accessStats accumulates what the server has answered since it started.
type accessStats struct {
	mu        sync.Mutex
	requests  int
	errors    int
	bytes     int64
	latencies []float64
}

func newAccessStats() *accessStats {
	return &accessStats{latencies: make([]float64, 0, 64)}
}

func (a *accessStats) record(status int, n int64, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++
	if status >= 400 {
		a.errors++
	}
	a.bytes += n
	a.latencies = append(a.latencies, float64(d)/float64(time.Millisecond))
}

func (a *accessStats) summary() (*stat, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &stat{
		Requests:   a.requests,
		Errors:     a.errors,
		TotalBytes: a.bytes,
	}
	if len(a.latencies) == 0 {
		return s, nil
	}

	var err error
	if s.AvgLatencyMs, err = stats.Mean(a.latencies); err != nil {
		return nil, err
	}
	if s.StdLatencyMs, err = stats.StandardDeviation(a.latencies); err != nil {
		return nil, err
	}
	if s.P95LatencyMs, err = stats.Percentile(a.latencies, 95); err != nil {
		return nil, err
	}
	return s, nil
}
