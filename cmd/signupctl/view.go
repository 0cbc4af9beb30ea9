package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/haguru/signup/internal/form"
)

// terminalView renders the status element and submit button as lines of text.
type terminalView struct {
	mu            sync.Mutex
	out           io.Writer
	submitEnabled bool
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out}
}

func (v *terminalView) SetStatus(message string, color form.Color) {
	marker := "✗"
	if color == form.ColorAvailable {
		marker = "✓"
	}
	v.Printf("%s %s\n", marker, message)
}

func (v *terminalView) ClearStatus() {}

func (v *terminalView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
}

// SubmitEnabled is the last state the controller pushed.
func (v *terminalView) SubmitEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitEnabled
}

func (v *terminalView) Printf(format string, args ...interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, _ = fmt.Fprintf(v.out, format, args...)
}
