package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordWaitsForInterval(t *testing.T) {
	p := NewProfiler(time.Hour)
	assert.False(t, p.Record(FrameStats{Batches: 1}))
	assert.Empty(t, p.Summary())
}

func TestRecordReportsAverages(t *testing.T) {
	p := NewProfiler(time.Hour)
	assert.False(t, p.Record(FrameStats{Instances: 4, Batches: 2, Vertices: 12, Draws: 2}))
	p.lastTime = time.Now().Add(-2 * time.Hour)

	assert.True(t, p.Record(FrameStats{Instances: 4, Batches: 4, Vertices: 24, Draws: 4}))
	assert.Contains(t, p.Summary(), "Batches: 3.0 (peak 4)")
	assert.Contains(t, p.Summary(), "Vertices: 18 (peak 24)")
	assert.Zero(t, p.frameCount)
}

func TestFrameStatsAdd(t *testing.T) {
	s := FrameStats{Batches: 1, Vertices: 3}.Add(FrameStats{Batches: 2, Draws: 1})
	assert.Equal(t, FrameStats{Batches: 3, Vertices: 3, Draws: 1}, s)
}
