// Package tui provides a Bubble Tea terminal user interface for panorama-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"panorama-downloader/internal/config"
	"panorama-downloader/internal/model"
	"panorama-downloader/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateIdentifier
	StateRunning
	StateComplete
	StateError
)

// modes in the order the m key cycles through them.
var modes = []pipeline.Mode{
	pipeline.ModeFull,
	pipeline.ModeDownload,
	pipeline.ModeNormalize,
	pipeline.ModeStitch,
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	idInput   textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []pipeline.LogLine
	err       error

	// Job context
	ctx    context.Context
	cancel context.CancelFunc

	// Active run
	events <-chan pipeline.Event
	url    string
	ident  string

	// Current progress
	label   string
	percent float64

	// Options
	modeIdx int

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/tiles/[%X]_[%Y].jpg?id=abc or a Street View URL"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	id := textinput.New()
	id.Placeholder = "panorama identifier"
	id.CharLimit = 100
	id.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		idInput:   id,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]pipeline.LogLine, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// EventMsg wraps one pipeline event.
	EventMsg struct {
		Event pipeline.Event
	}

	// StreamClosedMsg is sent when the event channel closes.
	StreamClosedMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateIdentifier {
				m.state = StateInput
				m.textInput.Focus()
				return m, nil
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.url = strings.TrimSpace(m.textInput.Value())
				m.ident = ""
				return m.startRun()
			}
			if m.state == StateIdentifier && m.idInput.Value() != "" {
				m.ident = strings.TrimSpace(m.idInput.Value())
				return m.startRun()
			}

		case "m":
			if m.state == StateInput {
				m.modeIdx = (m.modeIdx + 1) % len(modes)
			}

		case "d":
			if m.state == StateInput {
				m.settings.DeleteTilesAfterStitch = !m.settings.DeleteTilesAfterStitch
			}

		case "p":
			if m.state == StateInput {
				m.settings.GeneratePreview = !m.settings.GeneratePreview
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.label = ""
				m.percent = 0
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				m.idInput.SetValue("")
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		switch ev := msg.Event.(type) {
		case pipeline.Progress:
			m.label = ev.Label
			m.percent = ev.Percent / 100
			cmds = append(cmds, m.progress.SetPercent(m.percent))

		case pipeline.LogLine:
			m.logs = append(m.logs, ev)
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}

		case pipeline.Finished:
			switch {
			case errors.Is(ev.Err, model.ErrIdentifierMissing):
				m.state = StateIdentifier
				m.idInput.SetValue("")
				m.idInput.Focus()
				return m, textinput.Blink
			case ev.Err != nil:
				m.state = StateError
				m.err = ev.Err
			default:
				m.state = StateComplete
			}
			return m, nil
		}
		cmds = append(cmds, waitForEvent(m.events))

	case StreamClosedMsg:
		// Finished already decided the terminal state; nothing to do.

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.state == StateIdentifier {
		var cmd tea.Cmd
		m.idInput, cmd = m.idInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startRun launches the pipeline for the current URL and begins consuming
// its event stream.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	runner := pipeline.New(m.settings)
	m.events = runner.Events()
	m.state = StateRunning
	m.logs = nil
	m.label = ""
	m.percent = 0

	req := pipeline.Request{
		RawURL:     m.url,
		Identifier: m.ident,
		Mode:       modes[m.modeIdx],
	}
	go runner.Run(m.ctx, req)

	return m, tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

// waitForEvent blocks on the next pipeline event.
func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return StreamClosedMsg{}
		}
		return EventMsg{Event: ev}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Panorama Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download and stitch panorama tiles"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateIdentifier:
		b.WriteString(m.viewIdentifier())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter panorama URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	deleteCheck := "[ ]"
	if m.settings.DeleteTilesAfterStitch {
		deleteCheck = "[x]"
	}
	previewCheck := "[ ]"
	if m.settings.GeneratePreview {
		previewCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Mode: %s (m)\n", modes[m.modeIdx]))
	b.WriteString(fmt.Sprintf("  %s Delete tiles after stitch (d)\n", deleteCheck))
	b.WriteString(fmt.Sprintf("  %s Generate preview image (p)\n", previewCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewIdentifier() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("No panorama identifier found in the URL."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Enter one to continue (it names the tile folder and output file):"))
	b.WriteString("\n\n")
	b.WriteString(m.idInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	label := m.label
	if label == "" {
		label = "Working..."
	}
	b.WriteString(subtitleStyle.Render(label))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(successStyle.Render("Panorama complete!") +
		"\n\nOutput: " + m.settings.OutputDir)
	return box + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		style := dimStyle
		prefix := "-"
		if log.IsError {
			style = errorStyle
			prefix = "x"
		}
		b.WriteString(style.Render(prefix + " " + log.Text))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | m: mode | d: delete tiles | p: preview | esc: quit"
	case StateIdentifier:
		return "enter: continue | esc: back"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new panorama | q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
