package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/router"
	"github.com/abhisek/learnassist/internal/screen"
	"github.com/abhisek/learnassist/internal/screens/home"
	sessionscreen "github.com/abhisek/learnassist/internal/screens/session"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
	"github.com/abhisek/learnassist/internal/ui/layout"
)

// Options configure the terminal UI.
type Options struct {
	Factory   *study.Factory
	Events    store.EventRepo // may be nil
	Assistant *assistant.Assistant

	// DocumentPath, when set, opens a study session on that document
	// right away.
	DocumentPath string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(home.Deps{
		Factory:   opts.Factory,
		Events:    opts.Events,
		Assistant: opts.Assistant,
	})
	return AppModel{
		router: router.New(homeScreen),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.DocumentPath == "" {
		return nil
	}
	s := sessionscreen.New(sessionscreen.Deps{
		Kit:          m.opts.Factory.NewKit(),
		Recorder:     study.NewRecorder(m.opts.Events),
		Summarizer:   m.opts.Factory.Summarizer(),
		DocumentPath: m.opts.DocumentPath,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				pop := func() tea.Msg { return router.PopScreenMsg{} }
				if c, ok := m.router.Active().(screen.Closer); ok {
					return m, tea.Sequence(c.Close(), pop)
				}
				return m, pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var correct, total int
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.ScoreProvider); ok {
			correct, total = sp.Score()
		}
	}

	header := layout.RenderHeader(title, correct, total, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
