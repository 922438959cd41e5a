package panel

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randalmurphal/promptpad/dispatch"
	"github.com/randalmurphal/promptpad/message"
)

// Sender delivers a prompt while reporting progress. *dispatch.Pipeline
// implements it.
type Sender interface {
	SendWithReporter(ctx context.Context, text string, r dispatch.Reporter) error
}

// Title is the heading drawn above the input box.
const Title = "Claude Code Input"

// maxAssistantLines bounds the history shown under the input box.
const maxAssistantLines = 20

type returnFocusMsg struct{}

type sendDoneMsg struct{}

// reportMsg carries one reporter call out of a running send, plus the
// channel the next one will arrive on.
type reportMsg struct {
	msg  tea.Msg
	next <-chan tea.Msg
}

// Model is the bubbletea model for the input panel.
type Model struct {
	ctx       context.Context
	sender    Sender
	input     textarea.Model
	spin      spinner.Model
	loading   bool
	status    string
	err       string
	assistant []string
	width     int
}

// New creates a panel that submits through sender. inputRows is the height of
// the prompt box; values below 2 use 2.
func New(ctx context.Context, sender Sender, inputRows int) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your prompt. Ctrl+S sends it to Claude."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(max(inputRows, 2))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{ctx: ctx, sender: sender, input: ta, spin: sp, width: 80}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Loading reports whether a send is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the error line currently shown.
func (m Model) Err() string {
	return m.err
}

// Value returns the text in the input box.
func (m Model) Value() string {
	return m.input.Value()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-4, 10))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m.submit()
		}
		if m.loading {
			return m, nil
		}

	case reportMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, waitForReport(msg.next))

	case sendDoneMsg:
		return m, nil

	case message.LoadingState:
		m.loading = msg.Loading
		m.status = msg.Message
		if m.loading {
			m.input.Blur()
			return m, m.spin.Tick
		}
		return m, m.input.Focus()

	case message.Error:
		m.err = msg.Message
		return m, nil

	case message.AssistantMessage:
		m.assistant = append(m.assistant, msg.Text)
		if len(m.assistant) > maxAssistantLines {
			m.assistant = m.assistant[len(m.assistant)-maxAssistantLines:]
		}
		return m, nil

	case returnFocusMsg:
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.err = ""
	m.input.Reset()

	events := make(chan tea.Msg, 4)
	go func() {
		defer close(events)
		_ = m.sender.SendWithReporter(m.ctx, text, reporter(events))
	}()
	return m, waitForReport(events)
}

func waitForReport(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return sendDoneMsg{}
		}
		return reportMsg{msg: msg, next: ch}
	}
}

// reporter turns dispatch progress into panel messages. A send makes at most
// three calls, which the buffered channel absorbs without blocking.
type reporter chan<- tea.Msg

func (r reporter) Loading(loading bool) { r <- message.LoadingState{Loading: loading} }
func (r reporter) Error(msg string)     { r <- message.Error{Message: msg} }
func (r reporter) ReturnFocus()         { r <- returnFocusMsg{} }

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	box := inputStyle
	if m.loading {
		box = busyInputStyle
	}
	b.WriteString(box.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")

	if m.loading {
		status := m.status
		if status == "" {
			status = "Sending to Claude..."
		}
		b.WriteString(statusStyle.Render(m.spin.View() + " " + status))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	for _, line := range m.assistant {
		b.WriteString(assistantStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("ctrl+s send • esc quit"))
	return b.String()
}
