package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTimerMark(t *testing.T) {
	timer := NewStageTimer()
	time.Sleep(5 * time.Millisecond)
	d := timer.Mark("detect")
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)

	time.Sleep(2 * time.Millisecond)
	timer.Mark("warp")

	assert.GreaterOrEqual(t, timer.Total(), 7*time.Millisecond)
}

func TestStageTimerAttrs(t *testing.T) {
	timer := NewStageTimer()
	timer.Mark("detect")
	timer.Mark("warp")

	attrs := timer.Attrs()
	require.Len(t, attrs, 4)
	assert.Equal(t, "detect_ms", attrs[0])
	assert.Equal(t, "warp_ms", attrs[2])
}

func TestStageTimerString(t *testing.T) {
	timer := NewStageTimer()
	timer.Mark("detect")
	timer.Mark("enhance")

	s := timer.String()
	assert.Contains(t, s, "detect: ")
	assert.Contains(t, s, "enhance: ")
}

func TestStageTimerEmpty(t *testing.T) {
	timer := NewStageTimer()
	assert.Zero(t, timer.Total())
	assert.Empty(t, timer.Attrs())
	assert.Empty(t, timer.String())
}
