// Package progress renders console progress feedback, adapted from the
// teacher's internal/utils/loader.go (Loader spinner + ProgressBar) for
// the pipeline's site-processing loop.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar renders a filled/empty progress bar for a bounded amount of work.
type Bar struct {
	mu      sync.Mutex
	total   int
	current int
	message string
}

// NewBar creates a progress bar over total items.
func NewBar(total int, message string) *Bar {
	return &Bar{total: total, message: message}
}

// Add advances the bar by delta and redraws it.
func (b *Bar) Add(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current += delta
	b.render()
}

func (b *Bar) render() {
	if b.total <= 0 {
		return
	}
	percentage := float64(b.current) / float64(b.total) * 100
	const barLength = 30
	filled := int(float64(barLength) * percentage / 100)
	if filled > barLength {
		filled = barLength
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barLength-filled)
	fmt.Fprintf(os.Stdout, "\r%s [%s] %.1f%% (%d/%d)", b.message, bar, percentage, b.current, b.total)
}

// Done finalizes the bar at 100% and moves to the next line.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.total
	b.render()
	fmt.Fprintln(os.Stdout)
}

// Spinner renders an animated braille spinner until Stop is called,
// matching the teacher's Loader.
type Spinner struct {
	message string
	done    chan struct{}
}

// NewSpinner creates a spinner with the given status message.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message, done: make(chan struct{})}
}

// Start begins the spinner animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stdout, "\r%s %s", frames[i], s.message)
				i = (i + 1) % len(frames)
			}
		}
	}()
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	close(s.done)
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}
