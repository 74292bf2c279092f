// Package core holds process-wide crash handling shared by the frame loop and
// every background goroutine.
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

var (
	crashMu     sync.Mutex
	crashScreen tcell.Screen
	crashLog    *zap.SugaredLogger

	// Overridable in tests
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// SetCrashScreen registers the screen to restore before printing a crash; nil clears it
func SetCrashScreen(s tcell.Screen) {
	crashMu.Lock()
	crashScreen = s
	crashMu.Unlock()
}

// SetCrashLogger registers a logger that records the crash before exit
func SetCrashLogger(l *zap.SugaredLogger) {
	crashMu.Lock()
	crashLog = l
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}
	stack := debug.Stack()

	crashMu.Lock()
	s, log := crashScreen, crashLog
	crashScreen = nil
	crashMu.Unlock()

	// Terminal first, or the trace lands inside the alternate screen
	if s != nil {
		s.Fini()
	}
	if log != nil {
		log.Errorw("crash", "panic", fmt.Sprint(r), "stack", string(stack))
		_ = log.Sync()
	}

	fmt.Fprintf(crashOut, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\n%s\n", stack)

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
