// internal/tui/model.go
// Package tui renders the prediction dashboard in the terminal with Bubble Tea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/metrics"
	"github.com/mwiater/predictdash/internal/util"
)

// Actions are the controller operations the view can trigger. Each one is
// expected to hand the work to the controller loop and return immediately.
type Actions struct {
	Submit func()
	Reload func()
	Clear  func()
}

// repaintMsg tells the model the surface changed.
type repaintMsg struct{}

var featureLabels = [4]string{"Sepal length", "Sepal width", "Petal length", "Petal width"}

var (
	titleStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	cardLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cardValue   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	resultStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("40")).Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// model is the Bubble Tea model of the dashboard.
type model struct {
	cfg      *appconfig.Config
	surface  *Surface
	actions  Actions
	inputs   [4]textinput.Model
	models   []string
	modelIdx int
	focus    int
	table    table.Model
	spinner  spinner.Model
	width    int
	height   int
	metrics  *metrics.Aggregator
}

// modelFocus is the focus index of the model selector, after the four feature inputs.
const modelFocus = len(featureLabels)

// initialModel creates the dashboard model with an empty form.
func initialModel(cfg *appconfig.Config, surface *Surface, actions Actions) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	var inputs [4]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0.0"
		ti.CharLimit = 12
		ti.Width = 10
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[0].Focus()

	t := table.New(
		table.WithColumns(recentTableColumns(nil, 80)),
		table.WithHeight(8),
	)

	m := &model{
		cfg:     cfg,
		surface: surface,
		actions: actions,
		inputs:  inputs,
		models:  cfg.ModelChoices(),
		table:   t,
		spinner: s,
	}
	m.syncForm()
	return m
}

func recentTableColumns(titles []string, width int) []table.Column {
	if len(titles) == 0 {
		titles = []string{"Time", "Model", "Prediction", "Confidence"}
	}
	colWidth := util.Max((width-len(titles)*2)/len(titles), 10)
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		cols[i] = table.Column{Title: title, Width: colWidth}
	}
	return cols
}

// syncForm copies the form state into the surface so the controller can read it.
func (m *model) syncForm() {
	for i, id := range dashboard.FeatureFields {
		m.surface.SetField(id, m.inputs[i].Value())
	}
	if len(m.models) > 0 {
		m.surface.SetField(dashboard.ModelField, m.models[m.modelIdx])
	}
}

func (m *model) setFocus(next int) {
	total := len(m.inputs) + 1
	m.focus = ((next % total) + total) % total
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *model) cycleModel(delta int) {
	if len(m.models) == 0 {
		return
	}
	m.modelIdx = ((m.modelIdx+delta)%len(m.models) + len(m.models)) % len(m.models)
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, resizes and surface repaints.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.syncTable()
		return m, nil

	case repaintMsg:
		m.syncTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.surface.snapshot().alert != "" {
			switch msg.String() {
			case "esc", "enter", " ":
				m.surface.DismissAlert()
			}
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			m.syncForm()
			run(m.actions.Submit)
			return m, nil
		case "ctrl+r":
			run(m.actions.Reload)
			return m, nil
		case "ctrl+x":
			run(m.actions.Clear)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		if m.focus == modelFocus {
			switch msg.String() {
			case "left", "h":
				m.cycleModel(-1)
			case "right", "l", " ":
				m.cycleModel(1)
			}
			m.syncForm()
			return m, nil
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
		m.syncForm()
	}
	return m, tea.Batch(cmds...)
}

// syncTable copies the recent predictions into the table when the surface changed.
func (m *model) syncTable() {
	snap := m.surface.snapshot()
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.table.SetColumns(recentTableColumns(snap.columns, width-4))
	rows := make([]table.Row, len(snap.rows))
	for i, r := range snap.rows {
		rows[i] = table.Row(r)
	}
	m.table.SetRows(rows)
}

// View renders the dashboard.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	snap := m.surface.snapshot()

	if snap.alert != "" {
		box := alertStyle.Render(snap.alert + "\n\n" + helpStyle.Render("(enter or esc to dismiss)"))
		return lipgloss.Place(m.width, util.Max(m.height, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
	}

	var b strings.Builder
	header := titleStyle.Render("Prediction Dashboard") + " " + helpStyle.Render(m.cfg.Backend())
	if latency := m.latencyLine(); latency != "" {
		header += " " + helpStyle.Render(latency)
	}
	if snap.pending > 0 {
		header += " " + m.spinner.View() + helpStyle.Render(" working...")
	}
	b.WriteString(header + "\n")

	b.WriteString(m.statCards(snap) + "\n")
	b.WriteString(m.chartRow(snap) + "\n")

	form := m.formView()
	if snap.visible[dashboard.PredictionResult] {
		form = lipgloss.JoinHorizontal(lipgloss.Top, form, " ", resultStyle.Render(snap.text[dashboard.PredictionResult]))
	}
	b.WriteString(form + "\n")

	b.WriteString(panelStyle.Render("Recent Predictions\n"+m.table.View()) + "\n")
	b.WriteString(helpStyle.Render(" tab/shift+tab move • ←/→ change model • enter predict • ctrl+r reload • ctrl+x clear history • ctrl+c quit"))
	return b.String()
}

// latencyLine summarizes the statistics endpoint's request metrics.
func (m *model) latencyLine() string {
	if m.metrics == nil {
		return ""
	}
	e, ok := m.metrics.Endpoint("GET /api/stats")
	if !ok {
		return ""
	}
	return fmt.Sprintf("• stats %.0fms avg, %d/%d failed", e.LatencyMillis.Mean, e.Failures, e.Requests)
}

func (m *model) statCards(snap snapshot) string {
	cards := []struct{ label, id string }{
		{"Total Predictions", dashboard.TotalPredictions},
		{"Avg Confidence", dashboard.AvgConfidence},
		{"Models Used", dashboard.ModelsUsed},
		{"Top Prediction", dashboard.TopPrediction},
	}
	width := util.Max(m.width/len(cards)-4, 12)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		value := snap.text[c.id]
		if value == "" {
			value = "-"
		}
		rendered[i] = cardStyle.Width(width).Render(cardLabel.Render(c.label) + "\n" + cardValue.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *model) chartRow(snap snapshot) string {
	canvases := []string{
		dashboard.PredictionsByClassCanvas,
		dashboard.PredictionsByModelCanvas,
		dashboard.ConfidenceDistributionCanvas,
	}
	width := util.Max(m.width/len(canvases)-4, 20)
	rendered := make([]string, 0, len(canvases))
	for _, id := range canvases {
		cfg, ok := snap.charts[id]
		body := helpStyle.Render("waiting for data")
		title := id
		if ok {
			title = cfg.Title
			body = renderChart(cfg, width-2)
		}
		rendered = append(rendered, panelStyle.Width(width).Render(cardLabel.Render(title)+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *model) formView() string {
	var lines []string
	lines = append(lines, cardLabel.Render("Make a Prediction"))
	for i, label := range featureLabels {
		marker := "  "
		if m.focus == i {
			marker = focusStyle.Render("> ")
		}
		lines = append(lines, fmt.Sprintf("%s%-13s %s", marker, label, m.inputs[i].View()))
	}
	marker := "  "
	if m.focus == modelFocus {
		marker = focusStyle.Render("> ")
	}
	current := ""
	if len(m.models) > 0 {
		current = util.Humanize(m.models[m.modelIdx])
	}
	lines = append(lines, fmt.Sprintf("%s%-13s ‹ %s ›", marker, "Model", current))
	return panelStyle.Render(strings.Join(lines, "\n"))
}
