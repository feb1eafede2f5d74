package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bleread/internal/reader"
)

// syncBuffer guards a bytes.Buffer shared with the printer goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressPrinterPhases(t *testing.T) {
	out := &syncBuffer{}
	p := NewProgressPrinter(out, "Reading", reader.PhaseStarting, reader.PhaseDone, reader.PhaseFailed)
	p.Start()

	cb := p.Callback()
	cb(reader.PhaseConnecting)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), reader.PhaseConnecting)
	}, 2*time.Second, 10*time.Millisecond, "connecting phase MUST be rendered")

	cb(reader.PhaseDone)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "\rReading ("+reader.PhaseStarting+"...)"), "initial phase MUST be printed on Start")
	assert.True(t, strings.HasSuffix(got, clearLineSequence), "stop phase MUST clear the line")

	// Stop after a stop phase is a no-op
	p.Stop()
	assert.Equal(t, got, out.String())
}

func TestProgressPrinterStartTwicePanics(t *testing.T) {
	p := NewProgressPrinter(&syncBuffer{}, "Reading", reader.PhaseStarting)
	p.Start()
	defer p.Stop()

	assert.Panics(t, p.Start)
}

func TestProgressPrinterStopWithoutStart(t *testing.T) {
	out := &syncBuffer{}
	p := NewProgressPrinter(out, "Reading", reader.PhaseStarting)

	assert.NotPanics(t, p.Stop)
	assert.Empty(t, out.String())
}
