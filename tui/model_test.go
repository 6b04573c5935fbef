package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	questions []string
}

func (f *fakeAnswerer) Answer(_ context.Context, question string) string {
	f.questions = append(f.questions, question)
	return "answer to " + question
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func TestNew(t *testing.T) {
	m := New(context.Background(), &fakeAnswerer{}, "4 messages")
	assert.True(t, m.input.Focused())
	assert.Equal(t, "Loading...", m.View())
	assert.NotNil(t, m.Init())
}

func TestModel_AskAndAnswer(t *testing.T) {
	engine := &fakeAnswerer{}
	m := sized(t, New(context.Background(), engine, "4 messages"))
	m = typeText(m, "how many cars does Vikram have")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())
	require.Len(t, m.transcript, 1)
	assert.True(t, m.transcript[0].pending)
	assert.Equal(t, "Thinking...", m.status)

	msg := cmd()
	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.transcript[0].pending)
	assert.Equal(t, "answer to how many cars does Vikram have", m.transcript[0].answer)
	assert.Equal(t, []string{"how many cars does Vikram have"}, engine.questions)

	view := m.View()
	assert.Contains(t, view, "memberqa")
	assert.Contains(t, view, "4 messages")
	assert.Contains(t, view, "Q1: how many cars does Vikram have")
}

func TestModel_EmptyQuestionIgnored(t *testing.T) {
	engine := &fakeAnswerer{}
	m := sized(t, New(context.Background(), engine, ""))
	m = typeText(m, "   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, m.transcript)
	assert.Empty(t, engine.questions)
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeAnswerer{}, ""))
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_StaleAnswerIgnored(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeAnswerer{}, ""))
	updated, _ := m.Update(answerMsg{index: 3, answer: "late"})
	assert.Empty(t, updated.(Model).transcript)
}
