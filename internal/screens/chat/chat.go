// Package chat is the free-form conversation screen backed by the
// assistant.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/llm"
	"github.com/abhisek/learnassist/internal/screen"
	"github.com/abhisek/learnassist/internal/ui/components"
	"github.com/abhisek/learnassist/internal/ui/layout"
	"github.com/abhisek/learnassist/internal/ui/theme"
)

// replyMsg carries the outcome of one chat turn and the history after it.
type replyMsg struct {
	History []assistant.Message
	Err     error
}

// ChatScreen sends each submitted line to the assistant.
type ChatScreen struct {
	assistant *assistant.Assistant
	input     components.TextInput
	history   []assistant.Message
	pending   string
	errMsg    string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

func New(a *assistant.Assistant) *ChatScreen {
	return &ChatScreen{
		assistant: a,
		input:     components.NewTextInput("Ask anything...", 4000, 70),
		history:   a.History(),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+R", Description: "New conversation"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.pending = ""
		s.history = msg.History
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		if s.pending != "" {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			return s, s.send()
		case "ctrl+r":
			s.assistant.Reset()
			s.history = s.assistant.History()
			s.errMsg = ""
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return nil
	}
	s.pending = text
	s.errMsg = ""
	s.input.Reset()

	a := s.assistant
	return func() tea.Msg {
		_, err := a.Chat(context.Background(), text)
		return replyMsg{History: a.History(), Err: err}
	}
}

func (s *ChatScreen) View(width, height int) string {
	inner := max(width-4, 20)

	var lines []string
	for _, m := range s.history {
		if m.Role == llm.RoleSystem {
			continue
		}
		lines = append(lines, renderMessage(m.Role, m.Content, m.Timestamp, inner))
	}
	if s.pending != "" {
		lines = append(lines, renderMessage(llm.RoleUser, s.pending, "", inner))
		lines = append(lines, "  "+theme.Hint.Render("Thinking..."))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Subtitle.Width(width).Render("Start the conversation below."))
	}

	footer := "\n  > " + s.input.View()
	if s.errMsg != "" {
		footer += "\n  " + theme.ErrorText.Render(s.errMsg)
	}

	// Keep the newest messages that fit above the input.
	budget := height - lipgloss.Height(footer) - 1
	body := strings.Join(lines, "\n")
	if h := lipgloss.Height(body); budget > 0 && h > budget {
		all := strings.Split(body, "\n")
		body = strings.Join(all[len(all)-budget:], "\n")
	}
	return body + "\n" + footer
}

func renderMessage(role llm.Role, content, ts string, width int) string {
	who := theme.Label.Render("You")
	if role == llm.RoleAssistant {
		who = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Assistant")
	}
	if ts != "" {
		who += " " + theme.Hint.Render(ts)
	}
	text := lipgloss.NewStyle().Width(width - 4).Foreground(theme.Text).Render(content)
	return fmt.Sprintf("  %s\n%s\n", who, indent(text, "    "))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
