package grading

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/abhisek/learnassist/internal/llm"
	"github.com/abhisek/learnassist/internal/session"
)

var (
	_ session.FeedbackSource = (*CoinFlip)(nil)
	_ session.FeedbackSource = (*LLMGrader)(nil)
)

func TestCoinFlip_TextsMatchVerdict(t *testing.T) {
	c := NewCoinFlipWithRand(rand.New(rand.NewPCG(7, 7)))
	var correct, incorrect int
	for range 200 {
		v, err := c.Feedback(context.Background(), "Q", "A")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		switch {
		case v.Correct && v.Text == CorrectText:
			correct++
		case !v.Correct && v.Text == IncorrectText:
			incorrect++
		default:
			t.Fatalf("verdict text does not match correctness: %+v", v)
		}
	}
	if correct == 0 || incorrect == 0 {
		t.Errorf("200 flips gave %d correct, %d incorrect", correct, incorrect)
	}
}

func TestCoinFlip_DrivesSession(t *testing.T) {
	ctx := context.Background()
	state := session.NewSessionState()
	src := session.Sources{
		Questions: session.QuestionFunc(func(context.Context) (string, error) { return "Q1", nil }),
		Answers:   session.StaticAnswer("A1"),
		Feedback:  NewCoinFlip(),
	}

	r, err := session.Run(ctx, state, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.IsComplete(r) || r.IsCorrect == nil {
		t.Fatalf("record not graded: %+v", r)
	}
	if state.Totals.Total != 1 {
		t.Errorf("totals = %+v", state.Totals)
	}
}

func TestLLMGrader(t *testing.T) {
	mock := llm.NewMockProvider(llm.JSONResponse(map[string]any{
		"correct":  false,
		"feedback": " Not quite. Paris is the capital of France. ",
	}))
	g := NewLLMGrader(mock, DefaultGraderConfig())
	g.Context = "A document about European geography."

	v, err := g.Feedback(context.Background(), "What is the capital of France?", "Lyon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Correct || v.Text != "Not quite. Paris is the capital of France." {
		t.Errorf("verdict = %+v", v)
	}

	req, _ := mock.LastCall()
	if req.Schema != VerdictSchema {
		t.Error("request did not use VerdictSchema")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Question: What is the capital of France?", "Learner's answer: Lyon", "European geography"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestLLMGrader_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	g := NewLLMGrader(mock, DefaultGraderConfig())

	r := &session.QuestionRecord{Question: "Q1", Answer: "A1"}
	_, err := session.RecordFeedback(context.Background(), r, g)
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}
	if r.Feedback != "" || r.IsCorrect != nil {
		t.Errorf("record graded despite error: %+v", r)
	}
}
