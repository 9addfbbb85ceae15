package curation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds: 1ms to 10m, three significant figures.
const (
	statsMinMillis = 1
	statsMaxMillis = int64(10 * time.Minute / time.Millisecond)
)

// StageStats records per-stage request latencies across a run.
type StageStats struct {
	mu    sync.Mutex
	hists map[Stage]*hdrhistogram.Histogram
}

// NewStageStats creates an empty stats recorder.
func NewStageStats() *StageStats {
	return &StageStats{
		hists: make(map[Stage]*hdrhistogram.Histogram),
	}
}

// Record adds one observation for the given stage.
func (s *StageStats) Record(stage Stage, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hists[stage]
	if !ok {
		h = hdrhistogram.New(statsMinMillis, statsMaxMillis, 3)
		s.hists[stage] = h
	}

	ms := d.Milliseconds()
	if ms < statsMinMillis {
		ms = statsMinMillis
	}
	if ms > statsMaxMillis {
		ms = statsMaxMillis
	}
	_ = h.RecordValue(ms)
}

// Count returns the number of observations recorded for the stage.
func (s *StageStats) Count(stage Stage) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hists[stage]
	if !ok {
		return 0
	}
	return h.TotalCount()
}

// LogSummary emits one log record per stage with count and latency quantiles.
func (s *StageStats) LogSummary(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stage := range []Stage{StageAuth, StagePresign, StageUpload, StageStatus, StageFetch} {
		h, ok := s.hists[stage]
		if !ok {
			continue
		}
		logger.Info("Stage timing.",
			"stage", stage.String(),
			"count", h.TotalCount(),
			"p50_ms", h.ValueAtQuantile(50),
			"p99_ms", h.ValueAtQuantile(99),
			"max_ms", h.Max(),
		)
	}
}
