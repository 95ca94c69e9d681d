package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnassist/internal/router"
	"github.com/abhisek/learnassist/internal/screen"
	"github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/ui/layout"
	"github.com/abhisek/learnassist/internal/ui/theme"
)

// maxListed caps the records listed on screen.
const maxListed = 10

// SummaryScreen displays the end-of-session summary.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text) + "\n"
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	if sum.Document != nil {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			"Document: "+sum.Document.Name))
	}
	b.WriteString("\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Incorrect: %d        Accuracy: %.0f%%",
		sum.Totals.Total, sum.Totals.Correct, sum.Totals.Incorrect, sum.Accuracy*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n")

	if len(sum.Records) == 0 {
		b.WriteString(center(theme.Hint, "No questions were answered."))
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	lineWidth := max(min(width-8, 70), 20)
	for i, ir := range sum.Records {
		if i == maxListed {
			b.WriteString(center(theme.Hint, fmt.Sprintf("... and %d more", len(sum.Records)-maxListed)))
			break
		}
		mark := theme.Incorrect.Render("✗")
		if ir.Record.Correct() {
			mark = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%s %d. %s", mark, ir.Index+1, truncate(ir.Record.Question, lineWidth-6))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(lineWidth).Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
