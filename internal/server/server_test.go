package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/config"
	"github.com/abhisek/learnassist/internal/llm"
	"github.com/abhisek/learnassist/internal/questions"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	srv    *Server
	engine *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T, newAssistant AssistantFactory) *testServer {
	t.Helper()
	cfg := config.Config{QuestionSource: "random", Grader: "coinflip", AllowedOrigins: []string{"*"}}
	factory, err := study.NewFactory(cfg, nil)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := New(Deps{Factory: factory, Events: st.EventRepo(), NewAssistant: newAssistant})
	engine := NewEngine(cfg)
	srv.Register(engine)
	return &testServer{t: t, srv: srv, engine: engine, store: st}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) upload(id, name, content string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", name)
	require.NoError(ts.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(ts.t, err)
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) create() SessionView {
	ts.t.Helper()
	w := ts.do(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(ts.t, http.StatusCreated, w.Code)
	return decode[SessionView](ts.t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[ErrorResponse](t, w).Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFixedQuestion(t *testing.T) {
	ts := newTestServer(t, nil)
	for range 10 {
		w := ts.do(http.MethodGet, "/Q_and_A/question?document=anything", nil)
		require.Equal(t, http.StatusOK, w.Code)
		q := decode[string](t, w)
		assert.Contains(t, questions.FixedQuestions, q)
	}
}

func TestCreateAndGetSession(t *testing.T) {
	ts := newTestServer(t, nil)
	created := ts.create()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.CurrentIndex)
	assert.Equal(t, "empty", created.Current.Stage)
	assert.False(t, created.CanAdvance)
	assert.False(t, created.ShowProgress)

	w := ts.do(http.MethodGet, "/api/v1/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[SessionView](t, w).ID)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/nope"},
		{http.MethodDelete, "/api/v1/sessions/nope"},
		{http.MethodPost, "/api/v1/sessions/nope/pass"},
		{http.MethodPost, "/api/v1/sessions/nope/next"},
		{http.MethodGet, "/api/v1/sessions/nope/progress"},
		{http.MethodPost, "/api/v1/sessions/nope/chat"},
	} {
		w := ts.do(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Equal(t, ErrSessionNotFound.Error(), errorOf(t, w))
	}
}

func TestPass_RequiresDocument(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	w := ts.do(http.MethodPost, "/api/v1/sessions/"+s.ID+"/pass", PassRequest{Answer: "A"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errNoDocument.Error(), errorOf(t, w))
}

func TestUploadDocument(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()

	w := ts.upload(s.ID, "energy.txt", "Solar and wind power.")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[DocumentResponse](t, w)
	assert.Equal(t, "energy.txt", resp.Document.Name)
	assert.EqualValues(t, len("Solar and wind power."), resp.Document.Size)
	assert.Equal(t, questions.CannedSummaryText, resp.Summary)
	require.NotNil(t, resp.Session.Document)
	assert.Equal(t, resp.Summary, resp.Session.Summary)

	// Uploading the same file again is not ingested twice.
	w = ts.upload(s.ID, "energy.txt", "Solar and wind power.")
	require.Equal(t, http.StatusOK, w.Code)
	var count int
	require.NoError(t, ts.store.DB().QueryRow(`SELECT COUNT(*) FROM document_events`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUploadDocument_MissingFile(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	w := ts.do(http.MethodPut, "/api/v1/sessions/"+s.ID+"/document", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	base := "/api/v1/sessions/" + s.ID
	require.Equal(t, http.StatusOK, ts.upload(s.ID, "notes.md", "# Notes").Code)

	// First pass without an answer only fetches the question.
	w := ts.do(http.MethodPost, base+"/pass", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v := decode[SessionView](t, w)
	assert.Contains(t, questions.FixedQuestions, v.Current.Question)
	assert.Equal(t, "has_question", v.Current.Stage)
	question := v.Current.Question

	// Navigation is refused until the question is graded.
	w = ts.do(http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, base+"/pass", PassRequest{Answer: "Solar panels"})
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[SessionView](t, w)
	assert.Equal(t, question, v.Current.Question)
	assert.Equal(t, "Solar panels", v.Current.Answer)
	assert.True(t, v.Current.Complete)
	require.NotNil(t, v.Current.IsCorrect)
	assert.Equal(t, 1, v.Progress.Total)
	assert.Equal(t, v.Progress.Total, v.Progress.Correct+v.Progress.Incorrect)
	assert.True(t, v.CanAdvance)
	assert.False(t, v.ShowProgress)

	w = ts.do(http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[SessionView](t, w)
	assert.Equal(t, 1, v.CurrentIndex)
	assert.Equal(t, "empty", v.Current.Stage)

	// Second question answered in one pass.
	w = ts.do(http.MethodPost, base+"/pass", PassRequest{Answer: "Wind"})
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[SessionView](t, w)
	assert.True(t, v.ShowProgress)
	assert.True(t, v.CanGoBack)

	w = ts.do(http.MethodPost, base+"/previous", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[SessionView](t, w)
	assert.Equal(t, 0, v.CurrentIndex)
	assert.Equal(t, question, v.Current.Question)
	assert.Equal(t, "Solar panels", v.Current.Answer)

	w = ts.do(http.MethodGet, base+"/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[ProgressView](t, w)
	assert.Equal(t, 2, p.Total)

	records, err := ts.store.EventRepo().QueryRecords(context.Background(), store.QueryOpts{SessionID: s.ID})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPreviousAtStartIsRefused(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	w := ts.do(http.MethodPost, "/api/v1/sessions/"+s.ID+"/previous", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errNavigation.Error(), errorOf(t, w))
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()

	w := ts.do(http.MethodDelete, "/api/v1/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	events, err := ts.store.EventRepo().QuerySessionEvents(context.Background(), store.QueryOpts{SessionID: s.ID})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, store.SessionEnded, events[0].Action)
}

func TestChat_NotConfigured(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	w := ts.do(http.MethodPost, "/api/v1/sessions/"+s.ID+"/chat", ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChat(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Hello, learner."))
	ts := newTestServer(t, func() (*assistant.Assistant, error) {
		return assistant.New(mock, assistant.Options{SystemMessage: "You are a tutor."})
	})
	s := ts.create()
	path := "/api/v1/sessions/" + s.ID + "/chat"

	w := ts.do(http.MethodPost, path, ChatRequest{Message: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, path, ChatRequest{Message: "Hi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ChatResponse](t, w)
	assert.Equal(t, "Hello, learner.", resp.Reply)
	require.Len(t, resp.History, 3)
	assert.Equal(t, llm.RoleSystem, resp.History[0].Role)
	assert.Equal(t, "Hi", resp.History[1].Content)

	// The mock queue is empty now; provider failures surface as 502.
	w = ts.do(http.MethodPost, path, ChatRequest{Message: "Again"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChat_FactoryConfigurationError(t *testing.T) {
	ts := newTestServer(t, func() (*assistant.Assistant, error) {
		return assistant.NewFromConfig(context.Background(), llm.Config{Provider: "openai"}, nil, assistant.Options{})
	})
	s := ts.create()
	w := ts.do(http.MethodPost, "/api/v1/sessions/"+s.ID+"/chat", ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t, nil)
	s := ts.create()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+s.ID+"/pass", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShutdownEndsSessions(t *testing.T) {
	ts := newTestServer(t, nil)
	a, b := ts.create(), ts.create()

	ts.srv.Shutdown(context.Background())
	assert.Equal(t, 0, ts.srv.sessions.count())

	for _, id := range []string{a.ID, b.ID} {
		events, err := ts.store.EventRepo().QuerySessionEvents(context.Background(), store.QueryOpts{SessionID: id})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, store.SessionEnded, events[0].Action)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
