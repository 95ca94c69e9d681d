package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestRatioBar(t *testing.T) {
	bar := RatioBar("Correct", 3, 4, 40)
	if bar.Percent != 0.75 {
		t.Errorf("Percent = %v, want 0.75", bar.Percent)
	}
	view := bar.View()
	if !strings.Contains(view, "Correct 3/4") || !strings.Contains(view, "75%") {
		t.Errorf("view missing label or percent: %q", view)
	}
	if w := lipgloss.Width(view); w > 40 {
		t.Errorf("width = %d, want at most 40", w)
	}

	empty := RatioBar("Correct", 0, 0, 40)
	if empty.Percent != 0 {
		t.Errorf("Percent of empty ratio = %v, want 0", empty.Percent)
	}
}

func TestTextInput_SubmitLocksUntilReset(t *testing.T) {
	in := NewTextInput("answer", 0, 30)
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if in.Value() != "a" {
		t.Fatalf("Value = %q, want a", in.Value())
	}

	in.Submit(true)
	in, _ = in.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if in.Value() != "a" {
		t.Errorf("submitted input accepted a key: %q", in.Value())
	}
	if !strings.Contains(in.View(), "✓") {
		t.Error("submitted view missing verdict mark")
	}

	in.Reset()
	if in.Submitted() || in.Value() != "" {
		t.Errorf("Reset left state: submitted=%v value=%q", in.Submitted(), in.Value())
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { picked = s; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "Study", Action: pick("study")},
		{Label: "Chat", Action: pick("chat"), Disabled: true},
		{Label: "Quit", Action: pick("quit")},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2 (disabled item skipped)", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "quit" {
		t.Errorf("picked = %q, want quit", picked)
	}
}
