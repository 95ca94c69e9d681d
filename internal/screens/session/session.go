package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnassist/internal/questions"
	"github.com/abhisek/learnassist/internal/router"
	"github.com/abhisek/learnassist/internal/screen"
	"github.com/abhisek/learnassist/internal/screens/summary"
	sess "github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/study"
	"github.com/abhisek/learnassist/internal/ui/components"
	"github.com/abhisek/learnassist/internal/ui/layout"
)

// Deps are the collaborators of a study session screen.
type Deps struct {
	Kit        *study.Kit
	Recorder   *study.Recorder
	Summarizer questions.Summarizer

	// DocumentPath, when set, is loaded right away instead of asking for
	// a path.
	DocumentPath string
}

type phase int

const (
	phaseDocument phase = iota // waiting for a document path
	phaseStudy                 // question / answer / feedback loop
)

// SessionScreen implements screen.Screen for one study session.
type SessionScreen struct {
	deps    Deps
	state   *sess.SessionState
	phase   phase
	input   components.TextInput
	summary string
	busy    bool
	notice  string
	errMsg  string
	now     func() time.Time
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.ScoreProvider   = (*SessionScreen)(nil)
	_ screen.Closer          = (*SessionScreen)(nil)
)

// New creates a SessionScreen with a fresh session.
func New(deps Deps) *SessionScreen {
	if deps.Recorder == nil {
		deps.Recorder = study.NewRecorder(nil)
	}
	return &SessionScreen{
		deps:  deps,
		state: sess.NewSessionState(),
		input: newPathInput(),
		now:   time.Now,
	}
}

func newPathInput() components.TextInput {
	return components.NewTextInput("Path to a study document (.txt, .md, .pdf, ...)", 0, 60)
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("Type your answer...", 2000, 70)
}

func (s *SessionScreen) Init() tea.Cmd {
	state, rec := s.state, s.deps.Recorder
	cmds := []tea.Cmd{
		s.input.Init(),
		func() tea.Msg {
			rec.Started(context.Background(), state)
			return nil
		},
	}
	if s.deps.DocumentPath != "" {
		s.busy = true
		cmds = append(cmds, s.loadDocument(s.deps.DocumentPath))
	}
	return tea.Batch(cmds...)
}

func (s *SessionScreen) Title() string {
	return "Study Session"
}

func (s *SessionScreen) Score() (int, int) {
	return s.state.Totals.Correct, s.state.Totals.Total
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseDocument {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Load document"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+N", Description: "Next"},
		{Key: "Ctrl+P", Description: "Previous"},
		{Key: "Ctrl+E", Description: "End session"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close records the end of the session when the screen is left with Esc.
func (s *SessionScreen) Close() tea.Cmd {
	state, rec := s.state, s.deps.Recorder
	return func() tea.Msg {
		rec.Ended(context.Background(), state)
		return nil
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case documentLoadedMsg:
		return s.handleDocumentLoaded(msg)

	case passDoneMsg:
		return s.handlePassDone(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "enter":
		if s.phase == phaseDocument {
			return s.submitPath()
		}
		return s.submitAnswer()
	case "ctrl+n":
		if s.phase == phaseStudy {
			return s.navigate(sess.Forward)
		}
	case "ctrl+p":
		if s.phase == phaseStudy {
			return s.navigate(sess.Backward)
		}
	case "ctrl+e":
		if s.phase == phaseStudy {
			return s, s.end()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) submitPath() (screen.Screen, tea.Cmd) {
	path := strings.TrimSpace(s.input.Value())
	if path == "" {
		s.notice = "Enter the path of the document you want to study."
		return s, nil
	}
	s.notice, s.errMsg = "", ""
	s.busy = true
	return s, s.loadDocument(path)
}

func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	r := sess.Current(s.state)
	switch {
	case r.Stage() == sess.StageGraded:
		s.notice = "This question is graded. Press Ctrl+N for the next one."
		return s, nil
	case r.Question == "":
		// An earlier fetch failed; try again.
		return s, s.pass("")
	}

	answer := strings.TrimSpace(s.input.Value())
	if answer == "" {
		s.notice = "Type an answer first."
		return s, nil
	}
	return s, s.pass(answer)
}

func (s *SessionScreen) navigate(dir sess.Direction) (screen.Screen, tea.Cmd) {
	if !study.Navigate(s.state, dir) {
		if dir == sess.Backward && s.state.CurrentIndex == 0 {
			s.notice = "This is the first question."
		} else {
			s.notice = "Answer the current question before moving on."
		}
		return s, nil
	}
	s.notice, s.errMsg = "", ""
	s.syncInput()
	if sess.Current(s.state).Question == "" {
		return s, s.pass("")
	}
	return s, nil
}

// end records the session end and replaces this screen with the summary.
func (s *SessionScreen) end() tea.Cmd {
	state, rec := s.state, s.deps.Recorder
	sum := sess.BuildSummary(state, s.now())
	return func() tea.Msg {
		rec.Ended(context.Background(), state)
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// pass runs one session pass on a copy of the state. The copy is swapped
// in by handlePassDone.
func (s *SessionScreen) pass(answer string) tea.Cmd {
	s.busy = true
	s.notice, s.errMsg = "", ""
	next := s.state.Clone()
	kit, rec := s.deps.Kit, s.deps.Recorder
	return func() tea.Msg {
		_, err := study.Pass(context.Background(), next, kit, rec, answer)
		return passDoneMsg{State: next, Err: err}
	}
}

func (s *SessionScreen) loadDocument(path string) tea.Cmd {
	next := s.state.Clone()
	deps := s.deps
	return func() tea.Msg {
		info, doc, err := readDocumentFile(path)
		if err != nil {
			return documentLoadedMsg{Err: err}
		}
		text, err := study.Attach(context.Background(), next, deps.Kit, deps.Recorder, deps.Summarizer, info, doc)
		if err != nil {
			return documentLoadedMsg{Err: err}
		}
		return documentLoadedMsg{State: next, Summary: text}
	}
}

func readDocumentFile(path string) (sess.DocumentInfo, questions.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return sess.DocumentInfo{}, questions.Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return sess.DocumentInfo{}, questions.Document{}, fmt.Errorf("stat document: %w", err)
	}
	if fi.IsDir() {
		return sess.DocumentInfo{}, questions.Document{}, errors.New("document path is a directory")
	}

	name := filepath.Base(path)
	doc, err := study.ReadDocument(f, name, "")
	if err != nil {
		return sess.DocumentInfo{}, questions.Document{}, err
	}
	return sess.DocumentInfo{Name: name, Type: doc.Type, Size: fi.Size()}, doc, nil
}

func (s *SessionScreen) handleDocumentLoaded(msg documentLoadedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.state = msg.State
	s.summary = msg.Summary
	if s.phase == phaseDocument {
		s.phase = phaseStudy
		s.input = newAnswerInput()
		return s, s.pass("")
	}
	return s, nil
}

func (s *SessionScreen) handlePassDone(msg passDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.State != nil {
		s.state = msg.State
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.syncInput()
	return s, nil
}

// syncInput makes the input reflect the current record: a graded record
// shows its stored answer with the verdict mark, anything else an empty
// editable input.
func (s *SessionScreen) syncInput() {
	r := sess.Current(s.state)
	s.input.Reset()
	if r.Stage() == sess.StageGraded {
		s.input.SetValue(r.Answer)
		s.input.Submit(r.Correct())
	}
}
