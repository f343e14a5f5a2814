package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/doeshing/margit/internal/ports"
)

// Spinner displays an animated spinner during long operations
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
	}
}

// NewProgress returns a Spinner when w is a terminal and a silent indicator
// otherwise, so piped output carries no control sequences.
func NewProgress(w io.Writer) ports.ProgressIndicator {
	if w == nil {
		w = os.Stderr
	}
	if isTerminal(w) {
		return NewSpinner(w)
	}
	return noProgress{}
}

// Start begins the spinner animation next to label
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stopChan = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		idx := 0
		for {
			fmt.Fprintf(s.writer, "\r%s %s", s.frames[idx%len(s.frames)], label)
			idx++
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner animation and waits for the line to be cleared
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stopChan
	s.mu.Unlock()

	close(stop)
	s.wg.Wait()
}

type noProgress struct{}

func (noProgress) Start(string) {}
func (noProgress) Stop()        {}

var (
	_ ports.ProgressIndicator = (*Spinner)(nil)
	_ ports.ProgressIndicator = noProgress{}
)
