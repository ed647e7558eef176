package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Scanner splits nscript source into whitespace-delimited tokens.
type Scanner struct {
	source string
	cursor int
	line   int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.cursor = 0
	s.line = 1
}

// Next returns the next token from the source.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Line: uint32(s.line)}
	}

	start := s.cursor
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if unicode.IsSpace(r) {
			break
		}
		s.cursor += size
	}

	text := s.source[start:s.cursor]
	return Token{Kind: Lookup(text), Text: text, Line: uint32(s.line)}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if !unicode.IsSpace(r) {
			return
		}
		if r == '\n' {
			s.line++
		}
		s.cursor += size
	}
}

// Tokenize scans the whole source. The result never includes the EOF token.
func Tokenize(source string) []Token {
	var tokens []Token
	s := NewScanner(source)
	for {
		tok := s.Next()
		if tok.Kind == KindEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
