package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Spinner renders progress events with a terminal spinner. When not interactive it
// prints one line per message instead.
type Spinner struct {
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
}

// NewSpinner creates a spinner writing to out
func NewSpinner(out io.Writer, interactive bool) *Spinner {
	return &Spinner{out: out, interactive: interactive}
}

// Start shows the spinner with message
func (s *Spinner) Start(message string) {
	if !s.interactive {
		if message != "" {
			fmt.Fprintln(s.out, message)
		}
		return
	}
	if s.spinner == nil {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Writer = s.out
		s.spinner.HideCursor = false
		_ = s.spinner.Color("cyan", "bold")
	}
	s.spinner.Suffix = " " + message
	if !s.spinner.Active() {
		s.spinner.Start()
	}
}

// Stop hides the spinner if it is running
func (s *Spinner) Stop() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

// OnProgress handles progress events
func (s *Spinner) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if !event.Spinner {
		s.Stop()
		return
	}

	message := event.Message
	if event.Total > 0 {
		message = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	s.Start(message)
}

// Info prints an info message
func (s *Spinner) Info(message string) {
	s.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (s *Spinner) Error(message string) {
	s.println(color.New(color.FgRed), message)
}

// println writes a line without tearing an active spinner
func (s *Spinner) println(c *color.Color, message string) {
	wasActive := s.spinner != nil && s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	c.Fprintln(s.out, message)

	if wasActive {
		s.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*Spinner)(nil)
