package models

// PhaseOverview is the per-phase progress shown next to each phase card.
type PhaseOverview struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle"`
	Color     Color   `json:"color"`
	Completed []int   `json:"completed"`
	Done      int     `json:"done"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

type Overview struct {
	Phases  []PhaseOverview `json:"phases"`
	Done    int             `json:"done"`
	Total   int             `json:"total"`
	Percent int             `json:"percent"`
}

// BuildOverview derives every percentage the presentation layer displays from a state and
// the catalog it is rendered against.
func BuildOverview(s ProgressState, c *Catalog) Overview {
	phases := make([]PhaseOverview, 0, len(c.Phases))
	for _, p := range c.Phases {
		completed := s.CompletedSteps(p.Number)
		phases = append(phases, PhaseOverview{
			Number:    p.Number,
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Color:     p.Color,
			Completed: completed,
			Done:      len(completed),
			Total:     len(p.Steps),
			Percent:   PhaseProgress(len(completed), len(p.Steps)),
		})
	}

	return Overview{
		Phases:  phases,
		Done:    s.TotalCompleted(),
		Total:   c.TotalSteps(),
		Percent: OverallProgress(s, c),
	}
}

// Phase returns the overview entry of one phase.
func (o Overview) Phase(number int) (PhaseOverview, bool) {
	for _, p := range o.Phases {
		if p.Number == number {
			return p, true
		}
	}
	return PhaseOverview{}, false
}
