package core

import (
	"bytes"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func stubCrash(t *testing.T) (*bytes.Buffer, chan int) {
	t.Helper()
	var out bytes.Buffer
	codes := make(chan int, 1)
	prevOut, prevExit := crashOut, crashExit
	crashOut = &out
	crashExit = func(code int) { codes <- code }
	t.Cleanup(func() {
		crashOut, crashExit = prevOut, prevExit
		SetCrashScreen(nil)
		SetCrashLogger(nil)
	})
	return &out, codes
}

// TestHandleCrashNil verifies a nil recovery value is ignored
func TestHandleCrashNil(t *testing.T) {
	out, codes := stubCrash(t)
	HandleCrash(nil)
	assert.Empty(t, out.String())
	assert.Empty(t, codes)
}

// TestHandleCrashRestoresScreen verifies the screen is released and the crash is logged before exit
func TestHandleCrashRestoresScreen(t *testing.T) {
	out, codes := stubCrash(t)

	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	SetCrashScreen(s)

	core, logs := observer.New(zap.ErrorLevel)
	SetCrashLogger(zap.New(core).Sugar())

	HandleCrash("boom")

	assert.Equal(t, 1, <-codes)
	assert.Contains(t, out.String(), "CRASH DETECTED: boom")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["panic"])
}

// TestGoRecovers verifies panics in goroutines reach the crash handler
func TestGoRecovers(t *testing.T) {
	out, codes := stubCrash(t)
	Go(func() { panic("worker") })
	assert.Equal(t, 1, <-codes)
	assert.Contains(t, out.String(), "worker")
}
