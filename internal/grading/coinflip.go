// Package grading provides feedback sources that judge a learner's answer.
package grading

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/learnassist/internal/session"
)

// Feedback texts used by CoinFlip.
const (
	CorrectText   = "Your answer is correct!"
	IncorrectText = "Your answer is incorrect. Here is an explanation"
)

// CoinFlip marks answers correct or incorrect at random. It implements
// session.FeedbackSource and ignores the question and answer.
type CoinFlip struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCoinFlip returns a CoinFlip seeded from the runtime source.
func NewCoinFlip() *CoinFlip {
	return NewCoinFlipWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewCoinFlipWithRand returns a CoinFlip drawing from rng.
func NewCoinFlipWithRand(rng *rand.Rand) *CoinFlip {
	return &CoinFlip{rng: rng}
}

func (c *CoinFlip) Feedback(context.Context, string, string) (session.Verdict, error) {
	c.mu.Lock()
	correct := c.rng.IntN(2) == 1
	c.mu.Unlock()

	if correct {
		return session.Verdict{Text: CorrectText, Correct: true}, nil
	}
	return session.Verdict{Text: IncorrectText, Correct: false}, nil
}
