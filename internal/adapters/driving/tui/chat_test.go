package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

type mockAssistantService struct {
	answer    domain.GroundedResponse
	answerErr error
	lastQuery string
	lastTopK  int
}

func (m *mockAssistantService) Index(_ context.Context, _ []domain.Document) error {
	return nil
}

func (m *mockAssistantService) Answer(_ context.Context, query string, topK int) (domain.GroundedResponse, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.answer, m.answerErr
}

func (m *mockAssistantService) Retrieve(_ context.Context, _ string, _ int) ([]domain.ScoredCandidate, error) {
	return nil, nil
}

func (m *mockAssistantService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return domain.CorpusStats{}, nil
}

func newTestModel(assistant *mockAssistantService) *Model {
	m := NewModel(&Ports{Assistant: assistant}, "Core DNA")
	m.setDimensions(80, 24)
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(&Ports{Assistant: &mockAssistantService{}}, "Core DNA")

	assert.NotEmpty(t, m.ConversationID())
	assert.Empty(t, m.Messages())
	assert.False(t, m.Waiting())
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := NewModel(&Ports{Assistant: &mockAssistantService{}}, "Core DNA")
	assert.Contains(t, m.View(), "Initialising")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(*Model)

	assert.Contains(t, m.View(), "Sibyl")
}

func TestModel_Update_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(&mockAssistantService{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.Messages())
	assert.False(t, m.Waiting())
}

func TestModel_Update_SubmitQuery(t *testing.T) {
	assistant := &mockAssistantService{
		answer: domain.GroundedResponse{
			Text:       "Core DNA provides content management.",
			Confidence: 0.85,
			Citations:  []domain.Citation{{URL: "https://example.com/cms", Title: "CMS"}},
			Actions:    []domain.Action{{Type: domain.ActionNone}},
		},
	}
	m := newTestModel(assistant)
	m.input.SetValue("what is the cms")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	require.NotNil(t, cmd)
	assert.True(t, m.Waiting())
	require.Len(t, m.Messages(), 1)
	assert.True(t, m.Messages()[0].fromUser)
	assert.Equal(t, "what is the cms", m.Messages()[0].text)
	assert.Empty(t, m.input.Value())

	msg := cmd()
	answer, ok := msg.(answerReceived)
	require.True(t, ok)
	assert.Equal(t, "what is the cms", assistant.lastQuery)
	assert.NoError(t, answer.Err)

	updated, _ = m.Update(answer)
	m = updated.(*Model)

	assert.False(t, m.Waiting())
	require.Len(t, m.Messages(), 2)
	assert.Equal(t, "Core DNA provides content management.", m.Messages()[1].text)

	view := m.View()
	assert.Contains(t, view, "Core DNA provides content management.")
	assert.Contains(t, view, "https://example.com/cms")
	assert.Contains(t, view, "confidence 0.85")
}

func TestModel_Update_AnswerError(t *testing.T) {
	assistant := &mockAssistantService{answerErr: errors.New("corpus unavailable")}
	m := newTestModel(assistant)
	m.input.SetValue("anything")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(*Model)

	assert.False(t, m.Waiting())
	require.Len(t, m.Messages(), 2)
	require.Error(t, m.Messages()[1].err)
	assert.Contains(t, m.View(), "corpus unavailable")
}

func TestModel_Update_IgnoresSubmitWhileWaiting(t *testing.T) {
	m := newTestModel(&mockAssistantService{})
	m.waiting = true
	m.input.SetValue("second question")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.Messages())
}

func TestModel_Update_QuitKeys(t *testing.T) {
	for _, keyType := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestModel(&mockAssistantService{})

		_, cmd := m.Update(tea.KeyMsg{Type: keyType})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_Ask_NoAssistant(t *testing.T) {
	m := NewModel(&Ports{}, "Core DNA")

	msg := m.ask("question")()

	answer, ok := msg.(answerReceived)
	require.True(t, ok)
	assert.ErrorIs(t, answer.Err, ErrMissingAssistantService)
}

func TestActionBadge(t *testing.T) {
	tests := []struct {
		name   string
		action domain.Action
		want   string
	}{
		{"none is blank", domain.Action{Type: domain.ActionNone}, ""},
		{"clarify", domain.Action{Type: domain.ActionClarify}, "needs clarification"},
		{"handoff", domain.Action{Type: domain.ActionHandoff}, "handed off to a human"},
		{
			"collect lead with fields",
			domain.Action{Type: domain.ActionCollectLead, Fields: []string{"name", "email"}},
			"collecting contact details: name, email",
		},
		{
			"use tool",
			domain.Action{Type: domain.ActionUseTool, ToolName: "pricing_calculator"},
			"tool suggested: pricing_calculator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, actionBadge(tt.action))
		})
	}
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingAssistantService)
	assert.NoError(t, (&Ports{Assistant: &mockAssistantService{}}).Validate())
}

func TestModel_RenderMessage_LeadBadge(t *testing.T) {
	m := newTestModel(&mockAssistantService{})

	resp := domain.GroundedResponse{
		Text:       "Based on our documentation: pricing is tiered.",
		Confidence: 0.8,
		Actions: []domain.Action{{
			Type:   domain.ActionCollectLead,
			Fields: []string{"name", "email", "company", "use_case"},
		}},
	}
	rendered := m.renderMessage(message{text: resp.Text, response: &resp})

	assert.True(t, strings.Contains(rendered, "collecting contact details"))
	assert.True(t, strings.Contains(rendered, "use_case"))
}
