// Package tokenizer provides text tokenisation for the article index. It
// lower-cases input and splits on runs of whitespace; there is no stemming
// and no stop-word removal.
package tokenizer

import (
	"strings"
)

// Token is a single normalised term and its position in the original text.
type Token struct {
	Term     string
	Position int
}

// Tokenize lower-cases text and splits it on whitespace runs. Empty tokens
// never appear in the result.
func Tokenize(text string) []Token {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
	}
	return tokens
}

// Terms is Tokenize without positions.
func Terms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Normalize lower-cases a single key such as a tag. Interior whitespace is
// kept so multi-word tags stay one key.
func Normalize(term string) string {
	return strings.ToLower(term)
}
