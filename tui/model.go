// Package tui is an interactive terminal session for asking questions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Answerer is the TUI-facing subset of the engine.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

// exchange is one question and, once it arrives, its answer.
type exchange struct {
	question string
	answer   string
	pending  bool
}

// answerMsg delivers an answer for the exchange at index.
type answerMsg struct {
	index  int
	answer string
}

// Model is the Bubble Tea model for the question session.
type Model struct {
	ctx        context.Context
	engine     Answerer
	input      textinput.Model
	viewport   viewport.Model
	transcript []exchange
	summary    string
	status     string
	ready      bool
}

// New creates a TUI model. summary is shown under the title, e.g. the corpus size.
func New(ctx context.Context, engine Answerer, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about member messages and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		engine:   engine,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Ready. Ctrl+C to quit.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, resize and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, summary, status, input line
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case answerMsg:
		if msg.index < len(m.transcript) {
			m.transcript[msg.index].answer = msg.answer
			m.transcript[msg.index].pending = false
		}
		m.status = "Ready. Ctrl+C to quit."
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, exchange{question: q, pending: true})
			m.status = "Thinking..."
			m.refresh()
			return m, m.ask(len(m.transcript)-1, q)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask answers q off the UI goroutine.
func (m Model) ask(index int, q string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return answerMsg{index: index, answer: engine.Answer(ctx, q)}
	}
}

// refresh re-renders the transcript and scrolls to the latest exchange.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the session.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("memberqa")
	summary := summaryStyle.Render(m.summary)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return summaryStyle.Render("No questions yet.")
	}

	width := max(10, m.viewport.Width-4)
	var b strings.Builder
	for i, ex := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render(fmt.Sprintf("Q%d: %s", i+1, ex.question)))
		b.WriteString("\n")
		if ex.pending {
			b.WriteString(summaryStyle.Render("..."))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(ex.answer))
	}
	return b.String()
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	summaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, engine Answerer, summary string) error {
	_, err := tea.NewProgram(New(ctx, engine, summary), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
