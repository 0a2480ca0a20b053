package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bft-labs/coopwatch/pkg/status"
)

// recordingSurface is a classList-style surface that counts commits and
// would accumulate classes if the renderer forgot to clear.
type recordingSurface struct {
	text    string
	classes []string
	commits int
}

func (s *recordingSurface) SetText(text string)       { s.text = text }
func (s *recordingSurface) ClearIndicators()          { s.classes = nil }
func (s *recordingSurface) AddIndicator(class string) { s.classes = append(s.classes, class) }
func (s *recordingSurface) Commit()                   { s.commits++ }

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		rec  status.Record
		want []string
	}{
		{"open with upper", status.Record{State: status.StateOpen, UpperLimit: true}, []string{"open", "upper"}},
		{"closed with lower", status.Record{State: status.StateClosed, LowerLimit: true}, []string{"closed", "lower"}},
		{"both limits", status.Record{State: status.StateOpening, UpperLimit: true, LowerLimit: true}, []string{"opening", "upper", "lower"}},
		{"no limits", status.Record{State: status.StateClosing}, []string{"closing"}},
		{"empty state", status.Record{}, []string{"unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(tt.rec)
			assert.Equal(t, tt.want, d.Indicators)
			assert.Equal(t, tt.rec.String(), d.Text)
		})
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s)
	rec := status.Record{State: status.StateOpen, UpperLimit: true, LowerLimit: true}

	r.Render(rec)
	first := append([]string(nil), s.classes...)
	firstText := s.text

	r.Render(rec)
	assert.Equal(t, first, s.classes)
	assert.Equal(t, firstText, s.text)
	assert.Equal(t, 2, s.commits)
}

func TestRenderer_ClearsPreviousClasses(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s)

	r.Render(status.Record{State: status.StateOpen, UpperLimit: true})
	r.Render(status.Record{State: status.StateClosing})

	assert.Equal(t, []string{"closing"}, s.classes)
}

func TestRenderer_Placeholders(t *testing.T) {
	s := &recordingSurface{}
	r := NewRenderer(s)

	r.Render(status.Record{State: status.StateClosed, LowerLimit: true})
	r.NoData()
	assert.Equal(t, NoDataText, s.text)
	assert.Empty(t, s.classes)

	r.Awaiting()
	assert.Equal(t, AwaitingText, s.text)
	assert.Empty(t, s.classes)
}

func TestRenderer_NilSurface(t *testing.T) {
	r := NewRenderer(nil)
	assert.NotPanics(t, func() {
		r.Render(status.Initial())
		r.NoData()
	})
}

func TestBoard_NoDuplicates(t *testing.T) {
	b := NewBoard()
	r := NewRenderer(b)
	rec := status.Record{State: status.StateOpen, UpperLimit: true}

	r.Render(rec)
	r.Render(rec)
	b.AddIndicator("open")

	snap := b.Snapshot()
	assert.Equal(t, []string{"open", "upper"}, snap.Indicators)
	assert.True(t, snap.Has("upper"))
	assert.False(t, snap.Has("lower"))
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	b := NewBoard()
	b.AddIndicator("open")
	snap := b.Snapshot()
	b.ClearIndicators()
	b.AddIndicator("closed")
	assert.Equal(t, []string{"open"}, snap.Indicators)
}

func TestLineSurface(t *testing.T) {
	var buf bytes.Buffer
	s := NewLineSurface(&buf)
	r := NewRenderer(s)

	r.Awaiting()
	r.Render(status.Record{State: status.StateOpen, UpperLimit: true})
	r.Render(status.Record{State: status.StateOpen, UpperLimit: true})
	r.NoData()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		AwaitingText,
		`[open upper] {"state":"open","upper":true,"lower":false}`,
		NoDataText,
	}, lines)
}

func TestDisplay_Equal(t *testing.T) {
	a := Display{Text: "x", Indicators: []string{"open"}}
	assert.True(t, a.Equal(Display{Text: "x", Indicators: []string{"open"}}))
	assert.False(t, a.Equal(Display{Text: "x", Indicators: []string{"open", "upper"}}))
	assert.False(t, a.Equal(Display{Text: "y", Indicators: []string{"open"}}))
	assert.True(t, Display{}.Equal(Display{Indicators: []string{}}))
}
