package lexer

import "sort"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF  Kind = iota
	KindWord      // names, literals, comparison operators
	KindVar
	KindFloat
	KindString
	KindEndString
	KindArray
	KindStruct
	KindEndStruct
	KindPrint
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindAddF
	KindSubF
	KindMulF
	KindDivF
	KindSqrt
	KindAbs
	KindPow
	KindFunction
	KindWith
	KindCall
	KindIf
	KindElse
	KindLoop
	KindEnd
)

var keywords = map[string]Kind{
	"var":       KindVar,
	"float":     KindFloat,
	"string":    KindString,
	"endstring": KindEndString,
	"array":     KindArray,
	"struct":    KindStruct,
	"endstruct": KindEndStruct,
	"print":     KindPrint,
	"add":       KindAdd,
	"sub":       KindSub,
	"mul":       KindMul,
	"div":       KindDiv,
	"add_f":     KindAddF,
	"sub_f":     KindSubF,
	"mul_f":     KindMulF,
	"div_f":     KindDivF,
	"sqrt":      KindSqrt,
	"abs":       KindAbs,
	"pow":       KindPow,
	"function":  KindFunction,
	"with":      KindWith,
	"call":      KindCall,
	"if":        KindIf,
	"else":      KindElse,
	"loop":      KindLoop,
	"end":       KindEnd,
}

// Lookup returns the keyword kind for text, or KindWord.
func Lookup(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return KindWord
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k != KindEOF && k != KindWord
}

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindWord:
		return "word"
	}
	for text, kind := range keywords {
		if kind == k {
			return text
		}
	}
	return "unknown"
}

// Token is one whitespace-delimited unit of source text.
type Token struct {
	Kind Kind
	Text string
	Line uint32
}
