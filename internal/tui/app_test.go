package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friday-chat/internal/chat"
	"friday-chat/internal/models"
)

type stubSender struct {
	reply   string
	err     error
	calls   int
	history []models.Message
}

func (s *stubSender) Send(ctx context.Context, message string, history []models.Message) (string, error) {
	s.calls++
	s.history = history
	return s.reply, s.err
}

func newTestModel(sender chat.Sender) Model {
	return NewModel(sender, Options{AssistantName: "FRIDAY", Style: "notty", MaxHistory: 20})
}

func typeAndSubmit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

// runUntilResult executes cmd, expanding batches, and returns the first
// reply or failure message it produces.
func runUntilResult(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if r := runUntilResult(t, c); r != nil {
				return r
			}
		}
		return nil
	case replyMsg, failedMsg:
		return msg
	default:
		return nil
	}
}

func TestSubmit_AppendsAndReplies(t *testing.T) {
	sender := &stubSender{reply: "Hi **there**!"}
	m := newTestModel(sender)

	m, cmd := typeAndSubmit(t, m, "  hello  ")
	assert.True(t, m.State().Loading)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, []models.Message{{Role: models.RoleUser, Content: "hello"}}, m.State().Messages)
	assert.Contains(t, m.View(), "FRIDAY is thinking...")

	result := runUntilResult(t, cmd)
	require.IsType(t, replyMsg{}, result)

	next, _ := m.Update(result)
	m = next.(Model)
	assert.False(t, m.State().Loading)
	require.Len(t, m.State().Messages, 2)
	assert.Equal(t, "Hi **there**!", m.State().Messages[1].Content)
	assert.Contains(t, m.View(), "there")
	assert.Equal(t, 1, sender.calls)
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m := newTestModel(&stubSender{})
	m, cmd := typeAndSubmit(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Empty(t, m.State().Messages)
	assert.False(t, m.State().Loading)
}

func TestSubmit_IgnoredWhileLoading(t *testing.T) {
	sender := &stubSender{reply: "ok"}
	m := newTestModel(sender)

	m, _ = typeAndSubmit(t, m, "first")
	m, cmd := typeAndSubmit(t, m, "second")

	assert.Nil(t, cmd)
	assert.Len(t, m.State().Messages, 1)
	assert.Zero(t, sender.calls)
}

func TestFailure_ShowsFallback(t *testing.T) {
	m := newTestModel(&stubSender{err: errors.New("connection refused")})

	m, cmd := typeAndSubmit(t, m, "hello")
	next, _ := m.Update(runUntilResult(t, cmd))
	m = next.(Model)

	assert.False(t, m.State().Loading)
	require.Len(t, m.State().Messages, 2)
	assert.Equal(t, chat.FallbackText, m.State().Messages[1].Content)
	assert.NotContains(t, m.View(), "connection refused")
}

func TestClear(t *testing.T) {
	m := newTestModel(&stubSender{reply: "ok"})
	m, cmd := typeAndSubmit(t, m, "hello")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	assert.Empty(t, m.State().Messages)
	assert.True(t, m.State().Loading)

	next, _ = m.Update(runUntilResult(t, cmd))
	m = next.(Model)
	assert.Len(t, m.State().Messages, 1)
	assert.False(t, m.State().Loading)
}

func TestAutoScrollsToNewest(t *testing.T) {
	m := newTestModel(&stubSender{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	m = next.(Model)

	for i := 0; i < 10; i++ {
		m, _ = typeAndSubmit(t, m, "message")
		next, _ = m.Update(replyMsg{text: "reply"})
		m = next.(Model)
	}
	assert.True(t, m.viewport.AtBottom())
}

func TestSendsHistory(t *testing.T) {
	sender := &stubSender{reply: "first reply"}
	m := newTestModel(sender)

	m, cmd := typeAndSubmit(t, m, "one")
	next, _ := m.Update(runUntilResult(t, cmd))
	m = next.(Model)

	_, cmd = typeAndSubmit(t, m, "two")
	runUntilResult(t, cmd)

	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Content: "one"},
		{Role: models.RoleAssistant, Content: "first reply"},
	}, sender.history)
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&stubSender{})
	for _, key := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
