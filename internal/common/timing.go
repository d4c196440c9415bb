// Package common provides small shared utilities for the scan
// pipeline.
package common

import (
	"fmt"
	"strings"
	"time"
)

// StageTimer records how long the named stages of a pipeline run take.
// It is not safe for concurrent use; each run gets its own timer.
type StageTimer struct {
	stages []stageRecord
	last   time.Time
}

type stageRecord struct {
	name     string
	duration time.Duration
}

// NewStageTimer starts a timer for a single pipeline run.
func NewStageTimer() *StageTimer {
	return &StageTimer{last: time.Now()}
}

// Mark records the time elapsed since the previous mark (or since the
// timer started) under the given stage name.
func (t *StageTimer) Mark(name string) time.Duration {
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	t.stages = append(t.stages, stageRecord{name: name, duration: d})
	return d
}

// Total returns the sum of all recorded stage durations.
func (t *StageTimer) Total() time.Duration {
	var total time.Duration
	for _, s := range t.stages {
		total += s.duration
	}
	return total
}

// Attrs returns the recorded stages as alternating key/value pairs for
// structured logging, stage names keyed by "<name>_ms".
func (t *StageTimer) Attrs() []any {
	attrs := make([]any, 0, 2*len(t.stages))
	for _, s := range t.stages {
		attrs = append(attrs, s.name+"_ms", s.duration.Milliseconds())
	}
	return attrs
}

// String returns the stages in run order, like "detect: 12ms, warp: 80ms".
func (t *StageTimer) String() string {
	parts := make([]string, 0, len(t.stages))
	for _, s := range t.stages {
		parts = append(parts, fmt.Sprintf("%s: %v", s.name, s.duration))
	}
	return strings.Join(parts, ", ")
}
