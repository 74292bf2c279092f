package engine

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestSchedulerRunsDueInDeadlineOrder verifies only due callbacks run, earliest first
func TestSchedulerRunsDueInDeadlineOrder(t *testing.T) {
	clk := clock.NewMock()
	s := NewScheduler(clk, nil)

	var order []string
	s.After(2*time.Second, func() { order = append(order, "late") })
	s.After(time.Second, func() { order = append(order, "early") })
	s.After(time.Second, func() { order = append(order, "early-second") })
	s.After(time.Minute, func() { order = append(order, "never") })

	assert.Equal(t, 0, s.RunDue())
	clk.Add(2 * time.Second)
	assert.Equal(t, 3, s.RunDue())
	assert.Equal(t, []string{"early", "early-second", "late"}, order)
	assert.Equal(t, 1, s.Pending())
}

// TestSchedulerCancel verifies a cancelled callback never runs and a second cancel reports false
func TestSchedulerCancel(t *testing.T) {
	clk := clock.NewMock()
	s := NewScheduler(clk, nil)

	ran := false
	id := s.After(time.Second, func() { ran = true })
	assert.NotZero(t, id)
	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id))

	clk.Add(time.Hour)
	s.RunDue()
	assert.False(t, ran)
	assert.False(t, s.Cancel(999))
}

// TestSchedulerPanicIsolated verifies a panicking callback is logged and the rest still run
func TestSchedulerPanicIsolated(t *testing.T) {
	clk := clock.NewMock()
	core, logs := observer.New(zap.DebugLevel)
	s := NewScheduler(clk, zap.New(core).Sugar())

	ran := false
	s.After(time.Millisecond, func() { panic("boom") })
	s.After(2*time.Millisecond, func() { ran = true })

	clk.Add(time.Second)
	assert.Equal(t, 2, s.RunDue())
	assert.True(t, ran)
	assert.Equal(t, 1, logs.FilterMessageSnippet("panic").Len())
}

// TestSchedulerClear verifies Clear drops everything pending
func TestSchedulerClear(t *testing.T) {
	clk := clock.NewMock()
	s := NewScheduler(clk, nil)
	s.After(time.Second, func() { t.Fatal("cleared callback ran") })
	s.Clear()
	clk.Add(time.Minute)
	assert.Equal(t, 0, s.RunDue())
}
