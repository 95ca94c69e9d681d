package session

import (
	sess "github.com/abhisek/learnassist/internal/session"
)

// documentLoadedMsg is sent when a document has been read, registered and
// summarised. State is the session copy the document was attached to.
type documentLoadedMsg struct {
	State   *sess.SessionState
	Summary string
	Err     error
}

// passDoneMsg is sent when one pass over the current question finished.
// State is the session copy the pass ran on; it replaces the screen's
// state even on error so partial progress is kept.
type passDoneMsg struct {
	State *sess.SessionState
	Err   error
}
