package views

import (
	"context"
	"slices"
	"strings"

	"roadmap/backend/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Tracker is the slice of the progress store the checklist needs.
type Tracker interface {
	Catalog() *models.Catalog
	Overview() models.Overview
	Toggle(ctx context.Context, phase, step int) models.ProgressState
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Expand    key.Binding
	Toggle    key.Binding
	ExpandAll key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Toggle, k.ExpandAll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Expand:    key.NewBinding(key.WithKeys("enter", "right", "left", "l", "h"), key.WithHelp("enter", "expand")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle step")),
	ExpandAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "expand all")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// row is one selectable line: a phase card, or one of its steps when step is set.
type row struct {
	phase models.Phase
	step  *models.Step
}

// Model is the interactive checklist. Expansion state lives here; completion state lives in
// the tracker.
type Model struct {
	ctx      context.Context
	tracker  Tracker
	expanded map[int]bool
	cursor   int
	help     help.Model
}

func NewModel(ctx context.Context, tracker Tracker) Model {
	return Model{
		ctx:      ctx,
		tracker:  tracker,
		expanded: make(map[int]bool),
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) rows() []row {
	var rows []row
	for _, phase := range m.tracker.Catalog().Phases {
		rows = append(rows, row{phase: phase})
		if m.expanded[phase.Number] {
			for i := range phase.Steps {
				rows = append(rows, row{phase: phase, step: &phase.Steps[i]})
			}
		}
	}
	return rows
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

		rows := m.rows()
		if len(rows) == 0 {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.ExpandAll):
			all := true
			for _, p := range m.tracker.Catalog().Phases {
				all = all && m.expanded[p.Number]
			}
			for _, p := range m.tracker.Catalog().Phases {
				m.expanded[p.Number] = !all
			}
			m.cursor = m.phaseRow(rows[m.cursor].phase.Number)

		case key.Matches(msg, keys.Expand):
			m.toggleExpanded(rows[m.cursor].phase.Number)

		case key.Matches(msg, keys.Toggle):
			r := rows[m.cursor]
			if r.step == nil {
				m.toggleExpanded(r.phase.Number)
				break
			}
			m.tracker.Toggle(m.ctx, r.phase.Number, r.step.Number)
		}
	}
	return m, nil
}

// toggleExpanded opens or closes a phase and keeps the cursor on its card.
func (m *Model) toggleExpanded(phase int) {
	m.expanded[phase] = !m.expanded[phase]
	m.cursor = m.phaseRow(phase)
}

func (m Model) phaseRow(phase int) int {
	for i, r := range m.rows() {
		if r.step == nil && r.phase.Number == phase {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	catalog := m.tracker.Catalog()
	overview := m.tracker.Overview()

	var sb strings.Builder
	sb.WriteString(Header(catalog, overview))
	sb.WriteString("\n\n")

	for i, r := range m.rows() {
		po, _ := overview.Phase(r.phase.Number)
		selected := i == m.cursor
		if r.step == nil {
			sb.WriteString(PhaseLine(r.phase, po, m.expanded[r.phase.Number], selected))
		} else {
			sb.WriteString(StepLine(*r.step, slices.Contains(po.Completed, r.step.Number), selected))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(keys))
	sb.WriteString("\n")
	return sb.String()
}
