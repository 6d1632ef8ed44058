package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kantong/internal/advisor"
	"kantong/internal/chat"
)

const adviseTimeout = 2 * time.Minute

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
)

type ChatModel struct {
	CommonModel
	advisorService *advisor.Service

	viewport viewport.Model
	input    textarea.Model

	history   []*chat.Message
	streaming bool
	partial   string
	deltas    chan string
	done      chan adviseDoneMsg

	err error
}

func NewChatModel(advisorSvc *advisor.Service) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about your finances..."
	ta.Focus()
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.ShowLineNumbers = false

	vp := viewport.New(80, 16)

	return ChatModel{
		advisorService: advisorSvc,
		viewport:       vp,
		input:          ta,
	}
}

func (m ChatModel) Title() string { return "Financial Advisor" }

func (m ChatModel) ShortHelp() string {
	if m.streaming {
		return "Waiting for reply..."
	}

	return "Enter: send | ctrl+r: reset conversation | Esc: back"
}

func (m ChatModel) Init() tea.Cmd {
	if m.advisorService == nil {
		return nil
	}

	return m.loadHistoryCmd()
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.advisorService == nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case chatHistoryMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.history = msg.history
		m.refreshViewport()
		return m, nil

	case adviseDeltaMsg:
		m.partial += msg.delta
		m.refreshViewport()
		return m, m.waitForStreamCmd()

	case adviseDoneMsg:
		m.streaming = false
		m.partial = ""
		m.deltas = nil
		m.done = nil
		if msg.err != nil {
			m.err = msg.err
		}
		return m, m.loadHistoryCmd()

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 9
		m.input.SetWidth(msg.Width - 4)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if !m.streaming {
				return m, Back
			}
			return m, nil
		case tea.KeyCtrlR:
			if !m.streaming {
				return m, m.resetCmd()
			}
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if m.streaming || text == "" {
				return m, nil
			}

			m.input.Reset()
			m.err = nil
			m.streaming = true
			m.partial = ""
			m.history = append(m.history, &chat.Message{Role: chat.RoleUser, Content: text})
			m.refreshViewport()

			return m, m.startAdviseCmd(text)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) View() string {
	if m.advisorService == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"Advisor is not configured.\n\nSet AI_API_KEY to enable the advisory chat.\n\n(Esc to go back)",
		)
	}

	errLine := ""
	if m.err != nil {
		errLine = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			"",
			errLine+m.input.View(),
		),
	)
}

func (m *ChatModel) refreshViewport() {
	var b strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(userStyle.Render("You: ") + msg.Content + "\n\n")
		case chat.RoleAssistant:
			b.WriteString(assistantStyle.Render("Advisor: ") + msg.Content + "\n\n")
		}
	}

	if m.streaming {
		b.WriteString(assistantStyle.Render("Advisor: ") + m.partial)
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String()))
	m.viewport.GotoBottom()
}

// Messages

type chatHistoryMsg struct {
	history []*chat.Message
	err     error
}

func (m ChatModel) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		history, err := m.advisorService.History(ctx)
		return chatHistoryMsg{history: history, err: err}
	}
}

type adviseDeltaMsg struct {
	delta string
}

type adviseDoneMsg struct {
	err error
}

// startAdviseCmd runs the advisory turn in a goroutine and wires its streamed
// deltas into the update loop through channels.
func (m *ChatModel) startAdviseCmd(text string) tea.Cmd {
	deltas := make(chan string, 32)
	done := make(chan adviseDoneMsg, 1)
	m.deltas = deltas
	m.done = done

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), adviseTimeout)
		defer cancel()

		_, err := m.advisorService.Advise(ctx, text, func(delta string) {
			deltas <- delta
		})
		close(deltas)
		done <- adviseDoneMsg{err: err}
	}()

	return m.waitForStreamCmd()
}

func (m ChatModel) waitForStreamCmd() tea.Cmd {
	deltas := m.deltas
	done := m.done

	return func() tea.Msg {
		if delta, ok := <-deltas; ok {
			return adviseDeltaMsg{delta: delta}
		}

		return <-done
	}
}

func (m ChatModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.advisorService.Reset(ctx)
		return chatHistoryMsg{history: nil, err: err}
	}
}
