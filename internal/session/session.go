package session

import (
	"context"
	"fmt"
)

// AdvanceQuestion fills record.Question from src when it is unset. An empty
// result leaves the field unset so the next pass retries. Once a question is
// set, further calls do not consult src.
func AdvanceQuestion(ctx context.Context, record *QuestionRecord, src QuestionSource) (*QuestionRecord, error) {
	if record.Question != "" {
		return record, nil
	}
	q, err := src.Question(ctx)
	if err != nil {
		return record, fmt.Errorf("question source: %w", err)
	}
	record.Question = q
	return record, nil
}

// RecordAnswer fills record.Answer from src. The question must already be
// set. Empty answers are ignored; once an answer is set it is kept.
func RecordAnswer(ctx context.Context, record *QuestionRecord, src AnswerSource) (*QuestionRecord, error) {
	if record.Question == "" {
		return record, invalidState("record answer", "question")
	}
	if record.Answer != "" {
		return record, nil
	}
	a, err := src.Answer(ctx)
	if err != nil {
		return record, fmt.Errorf("answer source: %w", err)
	}
	if a != "" {
		record.Answer = a
	}
	return record, nil
}

// RecordFeedback grades the record through src and sets Feedback and
// IsCorrect together. Question and answer must be set. A record that already
// has feedback is returned unchanged.
func RecordFeedback(ctx context.Context, record *QuestionRecord, src FeedbackSource) (*QuestionRecord, error) {
	if record.Question == "" {
		return record, invalidState("record feedback", "question")
	}
	if record.Answer == "" {
		return record, invalidState("record feedback", "answer")
	}
	if record.Feedback != "" {
		return record, nil
	}
	v, err := src.Feedback(ctx, record.Question, record.Answer)
	if err != nil {
		return record, fmt.Errorf("feedback source: %w", err)
	}
	if v.Text == "" {
		return record, nil
	}
	correct := v.Correct
	record.Feedback = v.Text
	record.IsCorrect = &correct
	return record, nil
}

// Run performs one synchronous pass over the record at the current index:
// question, then answer, then feedback, then commit. Transitions whose
// inputs are not ready yet are skipped rather than failed. A nil source in
// src counts as not ready: the pass stops at that step without error.
func Run(ctx context.Context, state *SessionState, src Sources) (*QuestionRecord, error) {
	if state.pending == nil {
		state.pending = make(map[int]*QuestionRecord)
	}
	index := state.CurrentIndex
	record, committed := state.Records[index]
	if !committed {
		if p, ok := state.pending[index]; ok {
			record = p
		} else {
			record = GetRecord(state, index)
			state.pending[index] = record
		}
	}

	if src.Questions != nil {
		if _, err := AdvanceQuestion(ctx, record, src.Questions); err != nil {
			return record, err
		}
	}
	if record.Question == "" {
		return record, nil
	}

	if src.Answers != nil {
		if _, err := RecordAnswer(ctx, record, src.Answers); err != nil {
			return record, err
		}
	}
	if record.Answer == "" {
		return record, nil
	}

	if src.Feedback == nil {
		return record, nil
	}
	if _, err := RecordFeedback(ctx, record, src.Feedback); err != nil {
		return record, err
	}

	if !committed {
		Commit(state, index, record)
	}
	return record, nil
}
