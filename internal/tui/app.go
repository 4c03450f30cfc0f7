// Package tui is the full-screen terminal chat client.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"friday-chat/internal/chat"
	"friday-chat/internal/models"
	"friday-chat/internal/render"
)

// Options configures the chat view.
type Options struct {
	AssistantName string
	AccentColor   string
	Style         string // glamour style name
	MaxHistory    int    // prior turns sent with each message; 0 sends none
}

// replyMsg is sent when the outbound call returns a reply.
type replyMsg struct {
	text string
}

// failedMsg is sent when the outbound call fails. The error is kept for
// tests and never shown.
type failedMsg struct {
	err error
}

// Model is the bubbletea model. All conversation changes go through the
// transitions in package chat.
type Model struct {
	sender chat.Sender
	opts   Options

	state    chat.State
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *render.Renderer

	titleStyle     lipgloss.Style
	assistantStyle lipgloss.Style

	width  int
	height int
}

func NewModel(sender chat.Sender, opts Options) Model {
	if opts.AssistantName == "" {
		opts.AssistantName = "FRIDAY"
	}

	ti := textinput.New()
	ti.Placeholder = "Message " + opts.AssistantName + "..."
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.Focus()

	title, assistant, spin := accentStyles(opts.AccentColor)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spin

	m := Model{
		sender:         sender,
		opts:           opts,
		input:          ti,
		spinner:        sp,
		titleStyle:     title,
		assistantStyle: assistant,
	}
	m = m.resize(80, 24)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current conversation.
func (m Model) State() chat.State {
	return m.state
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case replyMsg:
		m.state = chat.Receive(m.state, msg.text)
		m.refresh()
		return m, nil

	case failedMsg:
		m.state = chat.Fail(m.state)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+l":
		m.state = chat.Clear(m.state)
		m.refresh()
		return m, nil

	case "enter":
		history := chat.History(m.state.Messages, m.opts.MaxHistory)
		next, text, ok := chat.Submit(m.state, m.input.Value())
		if !ok {
			return m, nil
		}
		m.state = next
		m.input.Reset()
		m.refresh()
		return m, tea.Batch(m.send(text, history), m.spinner.Tick)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send performs the outbound call off the update loop.
func (m Model) send(text string, history []models.Message) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		reply, err := sender.Send(context.Background(), text, history)
		if err != nil {
			return failedMsg{err: err}
		}
		return replyMsg{text: reply}
	}
}

func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height

	// title + status + input lines
	vpHeight := height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport = viewport.New(width, vpHeight)
	m.input.Width = width - 4

	r, err := render.New(m.opts.Style, width-2)
	if err == nil {
		m.renderer = r
	}
	m.refresh()
	return m
}

// refresh re-renders the history into the viewport and scrolls to the newest
// message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	if len(m.state.Messages) == 0 {
		return dimStyle.Render("  Start a conversation with " + m.opts.AssistantName + ".")
	}

	var b strings.Builder
	for i, msg := range m.state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch {
		case msg.Role == models.RoleUser:
			b.WriteString(userRoleStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(m.renderer.Render(msg.Content))
		case chat.IsFallback(msg):
			b.WriteString(m.assistantStyle.Render(m.opts.AssistantName))
			b.WriteString("\n")
			b.WriteString(fallbackStyle.Render(msg.Content))
		default:
			b.WriteString(m.assistantStyle.Render(m.opts.AssistantName))
			b.WriteString("\n")
			b.WriteString(m.renderer.Render(msg.Content))
		}
	}
	return b.String()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(m.opts.AssistantName))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())

	return b.String()
}

func (m Model) statusLine() string {
	if m.state.Loading {
		return m.spinner.View() + " " + dimStyle.Render(m.opts.AssistantName+" is thinking...")
	}
	return statusBarStyle.Render(m.opts.AssistantName) + " " + helpStyle.Render("enter send • ctrl+l clear • pgup/pgdown scroll • esc quit")
}
