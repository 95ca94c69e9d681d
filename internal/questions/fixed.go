package questions

import (
	"context"
	"math/rand/v2"
	"sync"
)

// FixedQuestions is the canned question list served when no generator is
// configured.
var FixedQuestions = []string{
	"What is the capital of France?",
	"Who wrote 'To Kill a Mockingbird'?",
	"What is the chemical symbol for water?",
	"What year was the Declaration of Independence signed?",
	"Who painted the Mona Lisa?",
}

// Random picks uniformly from a fixed list. It implements
// session.QuestionSource and is safe for concurrent use.
type Random struct {
	mu        sync.Mutex
	questions []string
	rng       *rand.Rand
}

// NewRandom returns a Random over questions, or over FixedQuestions when
// questions is empty.
func NewRandom(questions []string) *Random {
	return NewRandomWithRand(questions, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewRandomWithRand is NewRandom with a caller-supplied generator, for
// reproducible picks.
func NewRandomWithRand(questions []string, rng *rand.Rand) *Random {
	if len(questions) == 0 {
		questions = FixedQuestions
	}
	qs := make([]string, len(questions))
	copy(qs, questions)
	return &Random{questions: qs, rng: rng}
}

// Pick returns one question.
func (r *Random) Pick() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions[r.rng.IntN(len(r.questions))]
}

// Question implements session.QuestionSource. It never fails.
func (r *Random) Question(context.Context) (string, error) {
	return r.Pick(), nil
}

// Questions returns a copy of the list Random draws from.
func (r *Random) Questions() []string {
	out := make([]string, len(r.questions))
	copy(out, r.questions)
	return out
}
