package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnassist/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ScoreProvider is implemented by screens whose score is shown in the
// header.
type ScoreProvider interface {
	Score() (correct, total int)
}

// Closer is implemented by screens that must record or release something
// when they are left with Esc.
type Closer interface {
	Close() tea.Cmd
}
