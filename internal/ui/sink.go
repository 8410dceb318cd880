package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbright/divamm/internal/dispatch"
)

// ProgramSink forwards deliveries into a running Bubble Tea program.
type ProgramSink struct {
	program *tea.Program
}

// NewProgramSink wraps program as a dispatch.Sink.
func NewProgramSink(program *tea.Program) *ProgramSink {
	return &ProgramSink{program: program}
}

// Deliver implements dispatch.Sink. Send blocks until the program starts.
func (s *ProgramSink) Deliver(_ context.Context, d dispatch.Delivery) {
	s.program.Send(DeliveryMsg{Delivery: d})
}

// LineSink writes one text line per delivery for headless runs.
type LineSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineSink creates a headless sink writing to out.
func NewLineSink(out io.Writer) *LineSink {
	return &LineSink{out: out}
}

// Deliver implements dispatch.Sink.
func (s *LineSink) Deliver(_ context.Context, d dispatch.Delivery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, RowFromDelivery(d).Line())
}

var (
	_ dispatch.Sink = (*ProgramSink)(nil)
	_ dispatch.Sink = (*LineSink)(nil)
)
