package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/router"
	"github.com/abhisek/learnassist/internal/screen"
	"github.com/abhisek/learnassist/internal/screens/chat"
	sessionscreen "github.com/abhisek/learnassist/internal/screens/session"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
	"github.com/abhisek/learnassist/internal/ui/components"
	"github.com/abhisek/learnassist/internal/ui/theme"
)

// Deps are the collaborators the home menu opens screens with. Events
// and Assistant may be nil.
type Deps struct {
	Factory   *study.Factory
	Events    store.EventRepo
	Assistant *assistant.Assistant
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu  components.Menu
	stats *store.RecordStats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen and loads lifetime stats when a store is
// available.
func New(deps Deps) *HomeScreen {
	var stats *store.RecordStats
	if deps.Events != nil {
		if st, err := deps.Events.RecordStats(context.Background()); err == nil {
			stats = &st
		}
	}

	recorder := study.NewRecorder(deps.Events)
	chatItem := components.MenuItem{
		Label: "Chat with the assistant",
		Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: chat.New(deps.Assistant)}
			}
		},
	}
	if deps.Assistant == nil {
		chatItem.Disabled = true
		chatItem.Hint = "needs an LLM provider"
	}

	items := []components.MenuItem{
		{
			Label: "Study a document",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: sessionscreen.New(sessionscreen.Deps{
						Kit:        deps.Factory.NewKit(),
						Recorder:   recorder,
						Summarizer: deps.Factory.Summarizer(),
					})}
				}
			},
		},
		chatItem,
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		menu:  components.NewMenu(items),
		stats: stats,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Width(width).Render("LearnAssist"),
		theme.Subtitle.Width(width).Render("Study your own documents, one question at a time."),
	)

	if line := h.statsLine(); line != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Panel.Render(line)))
	}

	menu := h.menu.View()
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(lipgloss.Width(menu)).Render(menu)))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) statsLine() string {
	if h.stats == nil || h.stats.Total == 0 {
		return ""
	}
	acc := float64(h.stats.Correct) / float64(h.stats.Total) * 100
	return fmt.Sprintf("%d sessions   %d answered   %s   %.0f%% correct",
		h.stats.Sessions,
		h.stats.Total,
		theme.Correct.Render(fmt.Sprintf("✓ %d", h.stats.Correct)),
		acc,
	)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
