package view

import "github.com/bft-labs/coopwatch/pkg/status"

// Placeholder messages shown while no status is available.
const (
	AwaitingText = "Connected! Awaiting status..."
	NoDataText   = "no data"
)

// Indicator classes contributed by the limit switches.
const (
	ClassUpper = "upper"
	ClassLower = "lower"
)

// Compute returns the display for rec. The state class always comes first,
// followed by "upper" and "lower" when active.
func Compute(rec status.Record) Display {
	rec = rec.Normalize()
	classes := make([]string, 0, 3)
	classes = append(classes, rec.State.String())
	if rec.UpperLimit {
		classes = append(classes, ClassUpper)
	}
	if rec.LowerLimit {
		classes = append(classes, ClassLower)
	}
	return Display{Text: rec.String(), Indicators: classes}
}

// Renderer applies displays to a Surface.
type Renderer struct {
	surface Surface
}

// NewRenderer creates a renderer for surface.
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Render shows rec on the surface.
func (r *Renderer) Render(rec status.Record) {
	r.apply(Compute(rec))
}

// Awaiting shows the "awaiting status" placeholder.
func (r *Renderer) Awaiting() {
	r.apply(Display{Text: AwaitingText})
}

// NoData shows the "no data" placeholder.
func (r *Renderer) NoData() {
	r.apply(Display{Text: NoDataText})
}

func (r *Renderer) apply(d Display) {
	if r.surface == nil {
		return
	}
	r.surface.ClearIndicators()
	for _, c := range d.Indicators {
		r.surface.AddIndicator(c)
	}
	r.surface.SetText(d.Text)
	if c, ok := r.surface.(Committer); ok {
		c.Commit()
	}
}
