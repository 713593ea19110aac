// Package views draws the roadmap and its progress in the terminal.
package views

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"roadmap/backend/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	white = lipgloss.Color("255")
	dim   = lipgloss.Color("243")
	faint = lipgloss.Color("238")
	green = lipgloss.Color("76")

	// fallback for tags outside the closed set, e.g. from a hand-edited catalog
	neutral = lipgloss.Color("245")
)

var phaseColors = map[models.Color]lipgloss.Color{
	models.ColorBlue:   lipgloss.Color("33"),
	models.ColorGreen:  lipgloss.Color("34"),
	models.ColorPurple: lipgloss.Color("99"),
	models.ColorOrange: lipgloss.Color("208"),
	models.ColorRed:    lipgloss.Color("196"),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	doneStyle    = lipgloss.NewStyle().Foreground(dim).Strikethrough(true)
	checkStyle   = lipgloss.NewStyle().Foreground(green)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	headerBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(phaseColors[models.ColorPurple]).
			Padding(0, 1)
	closingBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(green).
			PaddingLeft(1)
)

// ColorOf maps a phase tag to its terminal color. Unknown tags get a neutral grey instead of
// an empty style.
func ColorOf(c models.Color) lipgloss.Color {
	if col, ok := phaseColors[c]; ok {
		return col
	}
	return neutral
}

const barWidth = 30

// Bar draws a horizontal progress bar of width cells filled to percent.
func Bar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(float64(width) * math.Min(math.Max(percent, 0), 100) / 100))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", width-filled))
}

// Options control which parts of the roadmap are drawn.
type Options struct {
	// Expanded lists the phases whose steps are shown.
	Expanded map[int]bool
	// ExpandAll shows every phase's steps.
	ExpandAll bool
}

func (o Options) expanded(phase int) bool {
	return o.ExpandAll || o.Expanded[phase]
}

// Render draws the whole roadmap: header with overall progress, one card per phase and the
// closing note.
func Render(catalog *models.Catalog, overview models.Overview, opts Options) string {
	var sb strings.Builder

	sb.WriteString(Header(catalog, overview))
	sb.WriteString("\n\n")

	for _, phase := range catalog.Phases {
		po, _ := overview.Phase(phase.Number)
		expanded := opts.expanded(phase.Number)
		sb.WriteString(PhaseLine(phase, po, expanded, false))
		sb.WriteString("\n")
		if expanded {
			for _, step := range phase.Steps {
				sb.WriteString(StepLine(step, slices.Contains(po.Completed, step.Number), false))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	if catalog.Closing.Heading != "" {
		sb.WriteString(closingBorder.Render(
			titleStyle.Render(catalog.Closing.Heading) + "\n" + mutedStyle.Width(76).Render(catalog.Closing.Body)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func Header(catalog *models.Catalog, overview models.Overview) string {
	body := titleStyle.Render("Your Progress") +
		"  " + mutedStyle.Render(fmt.Sprintf("%d / %d steps", overview.Done, overview.Total)) + "\n" +
		Bar(float64(overview.Percent), barWidth*2, white) + "\n" +
		fmt.Sprintf("%d%% Complete", overview.Percent)

	return titleStyle.Render(catalog.Title) + "\n" +
		mutedStyle.Render(catalog.Tagline) + "\n" +
		headerBorder.Render(body)
}

// PhaseLine draws the collapsed card of a phase: badge, title, bar and step count.
func PhaseLine(phase models.Phase, po models.PhaseOverview, expanded, selected bool) string {
	color := ColorOf(phase.Color)
	badge := lipgloss.NewStyle().
		Background(color).
		Foreground(white).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("Phase %d", phase.Number))

	chevron := "▸"
	if expanded {
		chevron = "▾"
	}

	title := titleStyle.Render(phase.Title)
	if selected {
		title = cursorStyle.Render(phase.Title)
	}

	return fmt.Sprintf("%s %s %s %s\n    %s %s",
		mutedStyle.Render(chevron), badge, title, mutedStyle.Render(phase.Subtitle),
		Bar(po.Percent, barWidth, color),
		mutedStyle.Render(fmt.Sprintf("%d/%d steps", po.Done, po.Total)))
}

// StepLine draws one step with its completion mark.
func StepLine(step models.Step, done, selected bool) string {
	mark := faintStyle.Render("○")
	label := fmt.Sprintf("Step %d: %s", step.Number, step.Title)
	desc := mutedStyle.Render(step.Description)
	if done {
		mark = checkStyle.Render("✓")
		label = doneStyle.Render(label)
		desc = faintStyle.Render(step.Description)
	}
	if selected {
		label = cursorStyle.Render(fmt.Sprintf("Step %d: %s", step.Number, step.Title))
	}

	return fmt.Sprintf("      %s %s\n        %s", mark, label, desc)
}
