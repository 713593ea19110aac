package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownColor = errors.New("unknown phase color")

// Color is the display tag of a phase. Only the values declared below are valid.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// Colors lists every valid tag in declaration order.
var Colors = []Color{ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed}

// ParseColor maps a tag to its Color, rejecting anything outside the closed set.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed:
		return true
	}
	return false
}

func (c Color) String() string { return string(c) }

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Step struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Phase struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Color    Color  `json:"color"`
	Steps    []Step `json:"steps"` // display order
}

// HasStep reports whether the phase declares the given step number.
func (p Phase) HasStep(number int) bool {
	for _, s := range p.Steps {
		if s.Number == number {
			return true
		}
	}
	return false
}

// Catalog is the ordered, read-only list of phases shown to the user.
type Catalog struct {
	Title   string  `json:"title"`
	Tagline string  `json:"tagline"`
	Closing Note    `json:"closing"`
	Phases  []Phase `json:"phases"`
}

type Note struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Phase looks up a phase by number.
func (c *Catalog) Phase(number int) (Phase, bool) {
	for _, p := range c.Phases {
		if p.Number == number {
			return p, true
		}
	}
	return Phase{}, false
}

// PhaseStepCount returns the number of steps declared by a phase, or 0 if the phase is unknown.
func (c *Catalog) PhaseStepCount(number int) int {
	p, ok := c.Phase(number)
	if !ok {
		return 0
	}
	return len(p.Steps)
}

// TotalSteps sums the step counts of every phase.
func (c *Catalog) TotalSteps() int {
	total := 0
	for _, p := range c.Phases {
		total += len(p.Steps)
	}
	return total
}

func (c *Catalog) HasStep(phase, step int) bool {
	p, ok := c.Phase(phase)
	return ok && p.HasStep(step)
}

// Validate checks the uniqueness rules of the catalog: phase numbers are unique across the
// catalog, step numbers unique within their phase, colors from the closed set.
func (c *Catalog) Validate() error {
	phases := make(map[int]bool, len(c.Phases))
	for _, p := range c.Phases {
		if phases[p.Number] {
			return fmt.Errorf("duplicate phase number %d", p.Number)
		}
		phases[p.Number] = true

		if !p.Color.Valid() {
			return fmt.Errorf("phase %d: %w: %q", p.Number, ErrUnknownColor, p.Color)
		}

		steps := make(map[int]bool, len(p.Steps))
		for _, s := range p.Steps {
			if steps[s.Number] {
				return fmt.Errorf("phase %d: duplicate step number %d", p.Number, s.Number)
			}
			steps[s.Number] = true
		}
	}
	return nil
}
