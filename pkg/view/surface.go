package view

// Surface is a display with a status text region and an indicator region.
type Surface interface {
	// SetText replaces the status text region.
	SetText(text string)

	// ClearIndicators removes every class from the indicator region.
	ClearIndicators()

	// AddIndicator adds a class to the indicator region. Adding a class
	// that is already present is a no-op.
	AddIndicator(class string)
}

// Committer is implemented by surfaces that buffer updates. Commit is called
// once after each complete render so the surface can publish one consistent
// snapshot.
type Committer interface {
	Commit()
}

// Display is a snapshot of both regions.
type Display struct {
	Text       string
	Indicators []string
}

// Has reports whether class is present in the indicator region.
func (d Display) Has(class string) bool {
	for _, c := range d.Indicators {
		if c == class {
			return true
		}
	}
	return false
}

// Equal reports whether two snapshots show the same thing.
func (d Display) Equal(o Display) bool {
	if d.Text != o.Text || len(d.Indicators) != len(o.Indicators) {
		return false
	}
	for i := range d.Indicators {
		if d.Indicators[i] != o.Indicators[i] {
			return false
		}
	}
	return true
}
