package session

import "context"

// QuestionSource supplies the question for a fresh record. An empty string
// means no question is available yet; the next pass asks again.
type QuestionSource interface {
	Question(ctx context.Context) (string, error)
}

// AnswerSource supplies the learner's current answer text, or "" when
// nothing has been submitted.
type AnswerSource interface {
	Answer(ctx context.Context) (string, error)
}

// Verdict is the result of grading one answer.
type Verdict struct {
	Text    string
	Correct bool
}

// FeedbackSource grades an answer to a question.
type FeedbackSource interface {
	Feedback(ctx context.Context, question, answer string) (Verdict, error)
}

// QuestionFunc adapts a function to QuestionSource.
type QuestionFunc func(ctx context.Context) (string, error)

func (f QuestionFunc) Question(ctx context.Context) (string, error) { return f(ctx) }

// AnswerFunc adapts a function to AnswerSource.
type AnswerFunc func(ctx context.Context) (string, error)

func (f AnswerFunc) Answer(ctx context.Context) (string, error) { return f(ctx) }

// FeedbackFunc adapts a function to FeedbackSource.
type FeedbackFunc func(ctx context.Context, question, answer string) (Verdict, error)

func (f FeedbackFunc) Feedback(ctx context.Context, question, answer string) (Verdict, error) {
	return f(ctx, question, answer)
}

// StaticAnswer is an AnswerSource returning fixed text, typically the body
// of the request that triggered the pass.
type StaticAnswer string

func (a StaticAnswer) Answer(context.Context) (string, error) { return string(a), nil }

// Sources bundles the collaborators used by one pass. Any of them may be
// nil, see Run.
type Sources struct {
	Questions QuestionSource
	Answers   AnswerSource
	Feedback  FeedbackSource
}
