package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/session"
)

var (
	errNoDocument      = errors.New("no document uploaded for this session")
	errNavigation      = errors.New("the current question has not been answered yet")
	errUpstream        = errors.New("upstream source failed")
	errMissingDocument = errors.New(`multipart field "document" is required`)
)

// upstream marks err as a failure of a question, feedback, summary or chat
// source.
func upstream(err error) error {
	return fmt.Errorf("%w: %w", errUpstream, err)
}

// respondWithError maps err to a status code and writes {"error": ...}.
func respondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidState),
		errors.Is(err, errNoDocument),
		errors.Is(err, errNavigation):
		status = http.StatusConflict
	case errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, errMissingDocument):
		status = http.StatusBadRequest
	case errors.Is(err, assistant.ErrConfiguration):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errUpstream):
		status = http.StatusBadGateway
	}

	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("path", c.Request.URL.Path).Int("status_code", status).Msg("request failed")

	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
