package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/study"
	"github.com/abhisek/learnassist/internal/ui/components"
	"github.com/abhisek/learnassist/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.phase == phaseDocument {
		return s.renderDocumentPrompt(width)
	}
	return s.renderStudy(width)
}

// renderDocumentPrompt renders the document path prompt.
func (s *SessionScreen) renderDocumentPrompt(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("Which document do you want to study?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Subtitle.Width(width).Render("Reading and summarising..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(s.errMsg))
	case s.notice != "":
		b.WriteString(theme.Notice.Width(width).Align(lipgloss.Center).Render(s.notice))
	default:
		b.WriteString(theme.Subtitle.Width(width).Render("Text files are summarised; other formats get a generic overview."))
	}
	return b.String()
}

// renderStudy renders document info, summary, the current question with
// its answer and feedback, and the progress panel.
func (s *SessionScreen) renderStudy(width int) string {
	inner := max(width-4, 20)
	state := s.state
	r := sess.Current(state)

	var b strings.Builder

	// Info line.
	infoLeft := theme.Label.Render("  " + documentLabel(state.Document))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d", state.CurrentIndex+1))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	if s.summary != "" {
		b.WriteString(theme.Panel.Width(inner).Render(
			theme.Hint.Render("Summary") + "\n" + theme.Body.Render(s.summary)))
		b.WriteString("\n\n")
	}

	// Question.
	if r.Question == "" {
		msg := "Press Enter to fetch a question."
		if s.busy {
			msg = "Generating question..."
		}
		b.WriteString(theme.Subtitle.Width(width).Render(msg))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(inner).
			Foreground(theme.Text).
			Bold(true).
			Render("  " + r.Question))
	}
	b.WriteString("\n\n")

	// Answer.
	b.WriteString("  Answer: " + s.input.View())
	b.WriteString("\n\n")

	// Feedback.
	switch {
	case r.Feedback != "":
		style := theme.Incorrect
		if r.Correct() {
			style = theme.Correct
		}
		b.WriteString("  " + style.Render(r.Feedback))
	case s.busy && r.Question != "":
		b.WriteString("  " + theme.Hint.Render("Grading..."))
	}
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("  " + theme.ErrorText.Render(s.errMsg) + "\n")
	}
	if s.notice != "" {
		b.WriteString("  " + theme.Notice.Render(s.notice) + "\n")
	}

	if study.ShowProgress(state) {
		b.WriteString("\n")
		b.WriteString(renderProgress(state.Totals, inner))
	}
	return b.String()
}

// renderProgress renders the totals panel.
func renderProgress(t sess.Totals, width int) string {
	bar := components.RatioBar("Correct", t.Correct, t.Total, width-4)
	counts := fmt.Sprintf("Total %d   %s   %s",
		t.Total,
		theme.Correct.Render(fmt.Sprintf("Correct %d", t.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("Incorrect %d", t.Incorrect)),
	)
	return theme.Panel.Width(width).Render(
		theme.Hint.Render("Progress") + "\n" + counts + "\n" + bar.View())
}

func documentLabel(d *sess.DocumentInfo) string {
	if d == nil {
		return "No document"
	}
	return fmt.Sprintf("%s (%s)", d.Name, humanSize(d.Size))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
