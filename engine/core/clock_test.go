package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &Clock{now: func() time.Time { return now }}

	c.Update()
	assert.Zero(t, c.Elapsed(), "stopped clock does not advance")

	c.Start()
	assert.True(t, c.IsRunning())
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestMetrics(t *testing.T) {
	m := &MetricsState{}
	for i := 0; i < int(AVG_COUNT); i++ {
		m.update(0.016)
	}
	assert.InDelta(t, 16.0, m.msAVG, 1e-6)

	for i := 0; i < 70; i++ {
		m.update(0.016)
	}
	assert.Greater(t, m.fps, 55.0)
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("debug"))
	assert.NoError(t, SetLogLevel(" WARN "))
	assert.Error(t, SetLogLevel("loud"))
	assert.NoError(t, SetLogLevel("info"))
}
