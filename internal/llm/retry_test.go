package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	questionJSON = `{"question":"What do solar panels convert sunlight into?","topic":"energy"}`
	verdictJSON  = `{"correct":true,"feedback":"Yes, electricity."}`
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialWait:     1 * time.Millisecond,
		MaxWait:         10 * time.Millisecond,
		Multiplier:      2.0,
		PurposeAttempts: map[string]int{PurposeChat: 2},
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503 from upstream")}}
}

// captureLog redirects the global logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRetry_QuestionOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(TextResponse(questionJSON))
	p := WithRetry(mock, retryConfig())

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	resp, err := p.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != questionJSON {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_GradingTransientThenSuccess(t *testing.T) {
	buf := captureLog(t)
	mock := NewMockProvider(down(), TextResponse(verdictJSON))
	p := WithRetry(mock, retryConfig())

	ctx := WithPurpose(context.Background(), PurposeGrading)
	resp, err := p.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != verdictJSON {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if entry["message"] != "retrying LLM request" || entry["purpose"] != "grading" {
		t.Errorf("log entry = %v", entry)
	}
	if entry["attempt"] != float64(1) || entry["max_attempts"] != float64(3) {
		t.Errorf("attempt fields = %v/%v", entry["attempt"], entry["max_attempts"])
	}
}

func TestRetry_SummaryUsesDefaultBudget(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), TextResponse(`{"summary":"x"}`))
	p := WithRetry(mock, retryConfig())

	ctx := WithPurpose(context.Background(), PurposeSummary)
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ChatGivesUpSooner(t *testing.T) {
	mock := NewMockProvider(down(), down(), TextResponse("Solar panels make electricity."))
	p := WithRetry(mock, retryConfig())

	ctx := WithPurpose(context.Background(), PurposeChat)
	_, err := p.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("chat should stop after 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_UntaggedCallUsesMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(TextResponse(verdictJSON))
	p := WithRetry(mock, RetryConfig{})

	resp, err := p.Generate(WithPurpose(context.Background(), PurposeGrading), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || mock.CallCount() != 1 {
		t.Fatalf("expected a response from 1 call, got %v after %d", resp, mock.CallCount())
	}
}

func TestRetryConfig_AttemptsFor(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 4, PurposeAttempts: map[string]int{PurposeChat: 2, PurposeSummary: 0}}
	tests := []struct {
		purpose string
		want    int
	}{
		{PurposeGrading, 4},
		{PurposeChat, 2},
		{PurposeSummary, 1},
		{PurposeUnknown, 4},
	}
	for _, tt := range tests {
		if got := cfg.AttemptsFor(tt.purpose); got != tt.want {
			t.Errorf("AttemptsFor(%q) = %d, want %d", tt.purpose, got, tt.want)
		}
	}
}

func TestRetry_GradingMaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"correct":tr`)}},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(WithPurpose(context.Background(), PurposeGrading), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.CallCount())
	}
}

func TestRetry_MalformedVerdictRetriedOnce(t *testing.T) {
	buf := captureLog(t)
	bad := func() MockResponse {
		return MockResponse{Err: &ErrInvalidResponse{
			Schema:  "answer-verdict",
			Content: json.RawMessage(`{"correct":"maybe"}`),
			Err:     errors.New("schema validation failed"),
		}}
	}
	mock := NewMockProvider(bad(), bad(), TextResponse(verdictJSON))
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(WithPurpose(context.Background(), PurposeGrading), Request{})
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) || invErr.Schema != "answer-verdict" {
		t.Fatalf("expected invalid answer-verdict error, got: %v", err)
	}
	// One retry, then the second bad verdict is returned.
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"schema":"answer-verdict"`)) {
		t.Errorf("retry log should name the schema, got %q", buf.String())
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(down(), down(), TextResponse(questionJSON))
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(WithPurpose(context.Background(), PurposeQuestion))
	cancel()

	if _, err := p.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 1 * time.Millisecond, Err: errors.New("429")}},
		TextResponse(questionJSON),
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(WithPurpose(context.Background(), PurposeQuestion), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != questionJSON {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
