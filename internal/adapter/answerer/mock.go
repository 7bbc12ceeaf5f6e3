package answerer

import "context"

// Mock is a test double for Generator. Set StreamFn for the behavior a
// test needs; Stream panics when it is nil to catch missing setup.
type Mock struct {
	StreamFn func(ctx context.Context, question string, priorQuestions []string, onChunk func(text string) error) error
}

var _ Generator = (*Mock)(nil)

// Stream delegates to StreamFn.
func (m *Mock) Stream(ctx context.Context, question string, priorQuestions []string, onChunk func(text string) error) error {
	return m.StreamFn(ctx, question, priorQuestions, onChunk)
}
