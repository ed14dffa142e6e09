package testutil

import "sync"

// defaultToken is returned by a FixedTokens built without any tokens.
const defaultToken = "test-call-default"

// FixedTokens hands out call IDs from a fixed list.
//
// Tokens are returned in order; once the list is exhausted the last token
// repeats. A scenario that sets a single call_token therefore stamps every
// call with it, which keeps golden traces byte-identical across runs.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewFixedTokens creates a generator over tokens. Empty strings are skipped.
// With no usable tokens Generate returns "test-call-default".
func NewFixedTokens(tokens ...string) *FixedTokens {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, defaultToken)
	}
	return &FixedTokens{tokens: kept}
}

// Generate returns the next token.
//
// Implements msgstore.TokenGenerator.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	tok := g.tokens[g.next]
	if g.next < len(g.tokens)-1 {
		g.next++
	}
	return tok
}

// Reset rewinds to the first token.
func (g *FixedTokens) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = 0
}
