package presentation

import (
	"fmt"
	"io"
	"sync"
)

// TerminalOverlay draws the overlay on a terminal: results to out, status and toasts to status
type TerminalOverlay struct {
	mu     sync.Mutex
	out    io.Writer
	status io.Writer
	// HTML, when set, also receives each result as an HTML document
	HTML io.Writer
	// Err holds the last rendering error
	Err error
}

// NewTerminalOverlay creates an overlay over the given writers
func NewTerminalOverlay(out, status io.Writer) *TerminalOverlay {
	return &TerminalOverlay{out: out, status: status}
}

func (t *TerminalOverlay) ShowLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.status, "⚡ Analyzing with Grok AI...")
}

func (t *TerminalOverlay) HideLoading() {}

func (t *TerminalOverlay) ShowResult(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := RenderText(t.out, v); err != nil {
		t.Err = err
		return
	}
	if t.HTML != nil {
		if err := RenderHTML(t.HTML, v); err != nil {
			t.Err = err
		}
	}
}

func (t *TerminalOverlay) Close() {}

func (t *TerminalOverlay) Notify(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if toast.Message == "" {
		return
	}
	_, _ = fmt.Fprintln(t.status, toast.Message)
}

var _ Overlay = (*TerminalOverlay)(nil)
