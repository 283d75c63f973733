/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import "unicode"

// EstimateTokens returns a rough token count for text.
//
// Whitespace separates tokens. Each maximal run of letters, digits, and
// other non-punctuation runes counts as one token, and every punctuation
// or symbol rune (quotes, brackets, commas, colons) counts as one more.
// This is a self-contained approximation, not any particular tokenizer.
func EstimateTokens(text string) int {
	var c tokenCounter
	for _, r := range text {
		c.rune(r)
	}
	return c.tokens
}

// tokenCounter is the EstimateTokens state machine, fed one rune at a time.
type tokenCounter struct {
	tokens int
	inWord bool
}

func (c *tokenCounter) rune(r rune) {
	switch {
	case unicode.IsSpace(r):
		c.inWord = false
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		c.tokens++
		c.inWord = false
	case !c.inWord:
		c.tokens++
		c.inWord = true
	}
}
