package server

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/study"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PassRequest struct {
	Answer string `json:"answer"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply   string              `json:"reply"`
	History []assistant.Message `json:"history"`
}

type RecordView struct {
	Index     int    `json:"index"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Feedback  string `json:"feedback"`
	IsCorrect *bool  `json:"is_correct"`
	Stage     string `json:"stage"`
	Complete  bool   `json:"complete"`
}

type DocumentView struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type ProgressView struct {
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
}

type SessionView struct {
	ID           string        `json:"id"`
	CurrentIndex int           `json:"current_index"`
	Current      RecordView    `json:"current"`
	Progress     ProgressView  `json:"progress"`
	ShowProgress bool          `json:"show_progress"`
	Document     *DocumentView `json:"document,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	CanAdvance   bool          `json:"can_advance"`
	CanGoBack    bool          `json:"can_go_back"`
	CreatedAt    time.Time     `json:"created_at"`
}

type DocumentResponse struct {
	Document DocumentView `json:"document"`
	Summary  string       `json:"summary"`
	Session  SessionView  `json:"session"`
}

func toRecordView(index int, r *session.QuestionRecord) RecordView {
	var v RecordView
	_ = copier.Copy(&v, r)
	v.Index = index
	v.Stage = r.Stage().String()
	v.Complete = session.IsComplete(r)
	return v
}

func toProgressView(t session.Totals) ProgressView {
	var v ProgressView
	_ = copier.Copy(&v, &t)
	v.Accuracy = t.Accuracy()
	return v
}

func toDocumentView(d session.DocumentInfo) DocumentView {
	var v DocumentView
	_ = copier.Copy(&v, &d)
	return v
}

// toSessionView renders e. The caller holds e.mu.
func toSessionView(e *entry) SessionView {
	st := e.state
	v := SessionView{
		ID:           st.ID,
		CurrentIndex: st.CurrentIndex,
		Current:      toRecordView(st.CurrentIndex, session.Current(st)),
		Progress:     toProgressView(st.Totals),
		ShowProgress: study.ShowProgress(st),
		Summary:      e.summary,
		CanAdvance:   session.CanAdvance(st),
		CanGoBack:    session.CanGoBack(st),
		CreatedAt:    st.CreatedAt,
	}
	if st.Document != nil {
		d := toDocumentView(*st.Document)
		v.Document = &d
	}
	return v
}
