package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Animates(t *testing.T) {
	var out, errOut bytes.Buffer
	printer := NewPrinterWithWriters(&out, &errOut, true)

	progress := printer.StartProgress("Asking the assistant")
	time.Sleep(3 * spinnerInterval)
	progress.UpdateMessage("Still waiting")
	time.Sleep(2 * spinnerInterval)
	progress.Stop()
	progress.Stop()

	printer.mu.Lock()
	got := errOut.String()
	printer.mu.Unlock()

	assert.Contains(t, got, "Asking the assistant")
	assert.Contains(t, got, "Still waiting")
	assert.Contains(t, got, spinnerChars[0])
	assert.True(t, strings.HasSuffix(got, "\r\033[K"), "line is cleared on stop")
	assert.Empty(t, out.String(), "spinner never touches stdout")
}

func TestProgress_PlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	printer := NewPrinterWithWriters(&out, &errOut, false)

	progress := printer.StartProgress("Asking the assistant")
	time.Sleep(2 * spinnerInterval)
	progress.Stop()

	assert.Equal(t, "→ Asking the assistant\n", errOut.String())
	assert.GreaterOrEqual(t, progress.Elapsed(), 2*spinnerInterval)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 300 * time.Millisecond, want: "0.3s"},
		{d: 1500 * time.Millisecond, want: "2s"},
		{d: 42 * time.Second, want: "42s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
