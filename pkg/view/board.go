package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Board is an in-memory Surface. Indicators keep insertion order and never
// hold duplicates. It is safe for concurrent use.
type Board struct {
	mu         sync.RWMutex
	text       string
	indicators []string
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

func (b *Board) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *Board) ClearIndicators() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indicators = b.indicators[:0]
}

func (b *Board) AddIndicator(class string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.indicators {
		if c == class {
			return
		}
	}
	b.indicators = append(b.indicators, class)
}

// Snapshot returns a copy of both regions.
func (b *Board) Snapshot() Display {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Display{
		Text:       b.text,
		Indicators: append([]string(nil), b.indicators...),
	}
}

// LineSurface prints one line per committed change, for non-interactive
// output. Commits that leave the display unchanged print nothing.
type LineSurface struct {
	*Board
	out  io.Writer
	mu   sync.Mutex
	last *Display
}

// NewLineSurface writes to out.
func NewLineSurface(out io.Writer) *LineSurface {
	return &LineSurface{Board: NewBoard(), out: out}
}

// Commit prints the current snapshot if it differs from the last one.
func (l *LineSurface) Commit() {
	d := l.Snapshot()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last != nil && l.last.Equal(d) {
		return
	}
	l.last = &d
	if len(d.Indicators) == 0 {
		fmt.Fprintln(l.out, d.Text)
		return
	}
	fmt.Fprintf(l.out, "[%s] %s\n", strings.Join(d.Indicators, " "), d.Text)
}
