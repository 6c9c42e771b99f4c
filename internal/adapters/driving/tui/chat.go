// Package tui provides an interactive chat terminal interface for Sibyl.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// answerReceived carries a completed answer back into the update loop.
type answerReceived struct {
	Query    string
	Response domain.GroundedResponse
	Err      error
}

// message is a single entry in the conversation transcript.
type message struct {
	fromUser bool
	text     string
	response *domain.GroundedResponse
	err      error
}

// Model is the bubbletea model for the chat view.
type Model struct {
	styles *Styles
	ports  *Ports
	ctx    context.Context

	input    textinput.Model
	viewport viewport.Model

	conversationID string
	messages       []message
	waiting        bool
	ready          bool
	width          int
	height         int
	product        string
}

// NewModel creates a chat model bound to the given ports.
func NewModel(ports *Ports, product string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 500

	return &Model{
		styles:         DefaultStyles(),
		ports:          ports,
		ctx:            context.Background(),
		input:          ti,
		viewport:       viewport.New(80, 20),
		conversationID: uuid.NewString(),
		width:          80,
		height:         24,
		product:        product,
	}
}

// WithContext sets the context used for answer requests.
func (m *Model) WithContext(ctx context.Context) *Model {
	m.ctx = ctx
	return m
}

// ConversationID returns the identifier for this chat session.
func (m *Model) ConversationID() string {
	return m.conversationID
}

// Messages returns the conversation transcript.
func (m *Model) Messages() []message {
	return m.messages
}

// Waiting reports whether an answer request is in flight.
func (m *Model) Waiting() bool {
	return m.waiting
}

// Init initialises the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case answerReceived:
		m.handleAnswer(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyMsg processes keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.waiting {
			return m, nil
		}
		m.messages = append(m.messages, message{fromUser: true, text: query})
		m.input.SetValue("")
		m.waiting = true
		m.refreshViewport()
		return m, m.ask(query)

	case tea.KeyPgUp:
		m.viewport.ScrollUp(m.viewport.Height / 2)
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ScrollDown(m.viewport.Height / 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs an answer request asynchronously.
func (m *Model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		if m.ports == nil || m.ports.Assistant == nil {
			return answerReceived{Query: query, Err: ErrMissingAssistantService}
		}

		resp, err := m.ports.Assistant.Answer(m.ctx, query, 0)
		return answerReceived{Query: query, Response: resp, Err: err}
	}
}

// handleAnswer records a completed answer in the transcript.
func (m *Model) handleAnswer(msg answerReceived) {
	m.waiting = false

	if msg.Err != nil {
		m.messages = append(m.messages, message{err: msg.Err})
	} else {
		resp := msg.Response
		m.messages = append(m.messages, message{text: resp.Text, response: &resp})
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
}

// View renders the chat view.
func (m *Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)

	header := m.styles.Title.Render("Sibyl") +
		m.styles.Muted.Render("  "+m.product+" assistant  ·  "+m.conversationID)
	sections = append(sections, header, "")

	sections = append(sections, m.viewport.View(), "")

	if m.waiting {
		sections = append(sections, m.styles.Muted.Render("Thinking..."), "")
	}

	sections = append(sections, m.styles.InputField.Render(m.input.View()))
	sections = append(sections, m.styles.Muted.Render("enter send • pgup/pgdn scroll • esc quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	lines := make([]string, 0, len(m.messages)*3)
	for _, msg := range m.messages {
		lines = append(lines, m.renderMessage(msg), "")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// renderMessage renders a single transcript entry.
func (m *Model) renderMessage(msg message) string {
	if msg.fromUser {
		return m.styles.User.Render("You: ") + msg.text
	}
	if msg.err != nil {
		return m.styles.Error.Render("Error: " + msg.err.Error())
	}

	parts := make([]string, 0, 4)
	parts = append(parts, m.styles.Assistant.Render(msg.text))

	if resp := msg.response; resp != nil {
		for _, c := range resp.Citations {
			parts = append(parts, m.styles.Citation.Render(fmt.Sprintf("  [%s] %s", c.Title, c.URL)))
		}
		if badge := actionBadge(resp.PrimaryAction()); badge != "" {
			parts = append(parts, m.styles.Action.Render("  "+badge))
		}
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("  confidence %.2f", resp.Confidence)))
	}

	return strings.Join(parts, "\n")
}

// actionBadge describes a non-default action for display.
func actionBadge(action domain.Action) string {
	switch action.Type {
	case domain.ActionClarify:
		return "needs clarification"
	case domain.ActionHandoff:
		return "handed off to a human"
	case domain.ActionCollectLead:
		if len(action.Fields) > 0 {
			return "collecting contact details: " + strings.Join(action.Fields, ", ")
		}
		return "collecting contact details"
	case domain.ActionUseTool:
		return "tool suggested: " + action.ToolName
	case domain.ActionNone:
		return ""
	}
	return ""
}

// setDimensions sizes the components to the terminal.
func (m *Model) setDimensions(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.input.Width = width - 6
	m.viewport.Width = width
	m.viewport.Height = height - 8 // Reserve space for header, input, help
	m.refreshViewport()
}

// Run starts the chat program and blocks until it exits.
func Run(ctx context.Context, ports *Ports, product string) error {
	if err := ports.Validate(); err != nil {
		return err
	}

	model := NewModel(ports, product).WithContext(ctx)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := program.Run()
	return err
}
