package session

// Stage is the position of a QuestionRecord in its question cycle.
type Stage int

const (
	StageEmpty       Stage = iota // Nothing set yet
	StageHasQuestion              // Question generated
	StageHasAnswer                // Learner answered
	StageGraded                   // Feedback recorded (terminal)
)

func (s Stage) String() string {
	switch s {
	case StageHasQuestion:
		return "has_question"
	case StageHasAnswer:
		return "has_answer"
	case StageGraded:
		return "graded"
	default:
		return "empty"
	}
}

// QuestionRecord holds one question/answer/feedback cycle.
//
// Fields fill strictly in order Question, Answer, then Feedback together
// with IsCorrect. An empty string means "not set yet"; the transition
// functions never clear or overwrite a field once it is set.
type QuestionRecord struct {
	Question string

	Answer string

	Feedback string

	// IsCorrect is nil until feedback has been recorded.
	IsCorrect *bool
}

// Stage reports how far the record has progressed.
func (r *QuestionRecord) Stage() Stage {
	switch {
	case r.Feedback != "":
		return StageGraded
	case r.Answer != "":
		return StageHasAnswer
	case r.Question != "":
		return StageHasQuestion
	default:
		return StageEmpty
	}
}

// Correct reports whether the record was graded correct. Ungraded records
// report false.
func (r *QuestionRecord) Correct() bool {
	return r.IsCorrect != nil && *r.IsCorrect
}

// IsComplete reports whether question, answer and feedback are all set.
// IsCorrect is deliberately not part of the predicate.
func IsComplete(r *QuestionRecord) bool {
	if r == nil {
		return false
	}
	return r.Question != "" && r.Answer != "" && r.Feedback != ""
}
