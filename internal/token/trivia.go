package token

import "strata/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocBlock // /** ... */ — carries annotations for the next declaration
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
