// Package tui implements the interactive terminal chat client.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmchrislee/ai-agent/internal/agent"
	"github.com/pmchrislee/ai-agent/internal/validate"
)

// cliUser identifies turns made from the terminal client.
const cliUser = "cli_user"

type transcriptLine struct {
	role    string
	content string
}

// replyMsg carries the agent's answer back into the update loop.
type replyMsg struct {
	content string
	isError bool
}

type App struct {
	agent            *agent.Agent
	maxMessageLength int

	width, height int
	viewport      viewport.Model
	input         textinput.Model
	lines         []transcriptLine
	keys          KeyMap
	waiting       bool
}

func NewApp(a *agent.Agent, maxMessageLength int) *App {
	vp := viewport.New(0, 0)
	ti := textinput.New()
	ti.Placeholder = "Type a message (help, status, history, clear, quit)..."
	ti.Focus()

	app := &App{
		agent:            a,
		maxMessageLength: maxMessageLength,
		viewport:         vp,
		input:            ti,
		keys:             DefaultKeyMap,
	}
	app.addLine("agent", fmt.Sprintf("Hello! I'm %s. Type 'help' to see what I can do.", a.Name()))
	return app
}

// Run starts the terminal client and blocks until it exits.
func Run(a *agent.Agent, maxMessageLength int) error {
	p := tea.NewProgram(NewApp(a, maxMessageLength), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case msg.String() == "enter":
			if cmd := a.submit(); cmd != nil {
				return a, cmd
			}
			return a, nil
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
	case replyMsg:
		a.waiting = false
		role := "agent"
		if msg.isError {
			role = "error"
		}
		a.addLine(role, msg.content)
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// submit handles the enter key; local commands short-circuit, anything
// else goes to the agent.
func (a *App) submit() tea.Cmd {
	if a.waiting {
		return nil
	}
	raw := strings.TrimSpace(a.input.Value())
	if raw == "" {
		return nil
	}
	a.input.Reset()
	a.addLine("user", raw)

	switch strings.ToLower(raw) {
	case "quit", "exit":
		return tea.Quit
	case "help":
		a.addLine("agent", a.agent.HelpText())
		return nil
	case "status":
		a.addLine("agent", a.formatStatus())
		return nil
	case "history":
		a.addLine("agent", a.formatHistory())
		return nil
	case "clear":
		a.agent.ClearHistory(cliUser)
		a.addLine("agent", "Conversation history cleared.")
		return nil
	}

	message, err := validate.Message(raw, a.maxMessageLength)
	if err != nil {
		a.addLine("error", err.Error())
		return nil
	}

	a.waiting = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp := a.agent.Process(ctx, agent.Request{Message: message, UserID: cliUser})
		return replyMsg{content: resp.Content, isError: resp.Type == "error"}
	}
}

func (a *App) formatStatus() string {
	info := a.agent.StatusInfo()
	return fmt.Sprintf("%s v%s\nStatus: %s\nConversations: %d/%d\nUptime: %s",
		info.Name, info.Version, info.Status,
		info.ConversationCount, info.MaxHistory, info.Uptime)
}

func (a *App) formatHistory() string {
	turns := a.agent.History(cliUser, 10)
	if len(turns) == 0 {
		return "No conversation history yet."
	}
	var sb strings.Builder
	sb.WriteString("Recent conversation:\n")
	for _, t := range turns {
		fmt.Fprintf(&sb, "[%s] you: %s\n", t.Timestamp.Format("15:04:05"), t.Message)
		fmt.Fprintf(&sb, "[%s] agent: %s\n", t.Timestamp.Format("15:04:05"), firstLine(t.Response))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (a *App) addLine(role, content string) {
	a.lines = append(a.lines, transcriptLine{role: role, content: content})
	a.refreshTranscript()
	a.viewport.GotoBottom()
}

func (a *App) refreshTranscript() {
	var sb strings.Builder
	for _, line := range a.lines {
		var style lipgloss.Style
		prefix := ""
		switch line.role {
		case "user":
			style = UserMessageStyle
			prefix = "you: "
		case "error":
			style = ErrorMessageStyle
		default:
			style = AgentMessageStyle
		}
		sb.WriteString(style.Render(prefix + line.content))
		sb.WriteString("\n")
	}
	a.viewport.SetContent(sb.String())
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	titleBar := TitleBarStyle.Width(a.width).Render(
		fmt.Sprintf("%s v%s", a.agent.Name(), a.agent.Version()))
	inputBar := InputBarStyle.Width(a.width - 2).Render(a.input.View())

	contentHeight := a.height - lipgloss.Height(titleBar) - lipgloss.Height(inputBar)
	transcript := TranscriptStyle.Width(a.width - 2).Height(contentHeight - 2).Render(a.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, transcript, inputBar)
}

func (a *App) resize() {
	a.viewport.Width = a.width - 4
	a.viewport.Height = a.height - 8
	a.input.Width = a.width - 6
	a.refreshTranscript()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
