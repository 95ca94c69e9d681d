package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/study"
)

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.count()})
}

// FixedQuestion returns one of the fixed study questions as a JSON string.
// The document query parameter is accepted and ignored.
func (s *Server) FixedQuestion(c *gin.Context) {
	c.JSON(http.StatusOK, s.fixed.Pick())
}

func (s *Server) CreateSession(c *gin.Context) {
	e := s.sessions.create()
	s.recorder.Started(c.Request.Context(), e.state)
	log.Info().Str("session_id", e.state.ID).Msg("session created")

	e.mu.Lock()
	defer e.mu.Unlock()
	c.JSON(http.StatusCreated, toSessionView(e))
}

func (s *Server) GetSession(c *gin.Context) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c.JSON(http.StatusOK, toSessionView(e))
}

func (s *Server) DeleteSession(c *gin.Context) {
	e, err := s.sessions.remove(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.recorder.Ended(c.Request.Context(), e.state)
	log.Info().Str("session_id", e.state.ID).Int("records", len(e.state.Records)).Msg("session deleted")
	c.Status(http.StatusNoContent)
}

// UploadDocument attaches the multipart "document" file to the session and
// returns its summary.
func (s *Server) UploadDocument(c *gin.Context) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	fh, err := c.FormFile("document")
	if err != nil {
		respondWithError(c, fmt.Errorf("%w: %v", errMissingDocument, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondWithError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	doc, err := study.ReadDocument(f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	info := session.DocumentInfo{Name: fh.Filename, Type: doc.Type, Size: fh.Size}

	e.mu.Lock()
	defer e.mu.Unlock()
	summary, err := study.Attach(c.Request.Context(), e.state, e.kit, s.recorder, s.summarizer, info, doc)
	if err != nil {
		respondWithError(c, upstream(err))
		return
	}
	e.summary = summary

	c.JSON(http.StatusOK, DocumentResponse{
		Document: toDocumentView(info),
		Summary:  summary,
		Session:  toSessionView(e),
	})
}

// Pass runs one synchronous pass over the current question with the
// submitted answer. An empty body only fetches the question.
func (s *Server) Pass(c *gin.Context) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PassRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Document == nil {
		respondWithError(c, errNoDocument)
		return
	}
	if _, err := study.Pass(c.Request.Context(), e.state, e.kit, s.recorder, req.Answer); err != nil {
		if !errors.Is(err, session.ErrInvalidState) {
			err = upstream(err)
		}
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(e))
}

func (s *Server) Next(c *gin.Context) {
	s.navigate(c, session.Forward)
}

func (s *Server) Previous(c *gin.Context) {
	s.navigate(c, session.Backward)
}

func (s *Server) navigate(c *gin.Context, dir session.Direction) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !study.Navigate(e.state, dir) {
		respondWithError(c, errNavigation)
		return
	}
	c.JSON(http.StatusOK, toSessionView(e))
}

func (s *Server) Progress(c *gin.Context) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c.JSON(http.StatusOK, toProgressView(session.RecomputeTotals(e.state)))
}

// Chat sends one message to the session's assistant, creating it on first
// use.
func (s *Server) Chat(c *gin.Context) {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.assistant == nil {
		if s.newAssistant == nil {
			respondWithError(c, &assistant.ConfigurationError{Err: errors.New("no LLM provider configured")})
			return
		}
		a, err := s.newAssistant()
		if err != nil {
			respondWithError(c, err)
			return
		}
		e.assistant = a
	}

	reply, err := e.assistant.Chat(c.Request.Context(), req.Message)
	if err != nil {
		if !errors.Is(err, assistant.ErrEmptyMessage) {
			err = upstream(err)
		}
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply, History: e.assistant.History()})
}
