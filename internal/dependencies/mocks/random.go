package mocks

import (
	"errors"

	"github.com/mcoot/taflgame/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// TokenResults is a queue of results to return from Token
	TokenResults []string
	tokenIndex   int

	// Err, when set, is returned by every Token call
	Err error
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued result, or an error once the queue is exhausted
func (r *MockRandom) Token(n int) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	if r.tokenIndex >= len(r.TokenResults) {
		return "", errors.New("mock random: no queued tokens")
	}
	result := r.TokenResults[r.tokenIndex]
	r.tokenIndex++
	return result, nil
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.TokenResults = append(r.TokenResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.TokenResults = nil
	r.tokenIndex = 0
	r.Err = nil
}
