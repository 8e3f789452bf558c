package output

import (
	"fmt"
	"sync"
	"time"
)

// Progress is an active wait indicator
type Progress struct {
	printer   *Printer
	message   string
	startTime time.Time
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	stopOnce  sync.Once
}

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// StartProgress starts a spinner on stderr. Without color support the
// message is printed once and nothing animates.
func (p *Printer) StartProgress(message string) *Progress {
	progress := &Progress{
		printer:   p,
		message:   message,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}

	if !p.useColor {
		p.Info("%s", message)
		return progress
	}

	progress.render(0)
	progress.wg.Add(1)
	go progress.animate()
	return progress
}

// UpdateMessage replaces the progress message
func (p *Progress) UpdateMessage(message string) {
	p.mu.Lock()
	p.message = message
	p.mu.Unlock()
}

// Stop stops the indicator and clears its line. It is safe to call more than once.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()

		if p.printer.useColor {
			p.printer.mu.Lock()
			_, _ = fmt.Fprint(p.printer.err, "\r\033[K")
			p.printer.mu.Unlock()
		}
	})
}

// Elapsed reports how long the indicator has been running
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

func (p *Progress) animate() {
	defer p.wg.Done()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.render(i)
		}
	}
}

func (p *Progress) render(frame int) {
	p.mu.Lock()
	message := p.message
	p.mu.Unlock()

	spinner := spinnerChars[frame%len(spinnerChars)]
	line := fmt.Sprintf("\r%s%s%s %s %s[%s]%s\033[K",
		colorBold, colorCyan, spinner, message,
		colorGray, formatDuration(p.Elapsed()), colorReset)

	p.printer.mu.Lock()
	_, _ = fmt.Fprint(p.printer.err, line)
	p.printer.mu.Unlock()
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
