package token

import "strata/internal/source"

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, Regex, TemplateString, KwNull, KwUndefined, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// DocComment returns the text of the last leading doc comment attached to the
// token, or "" when there is none.
func (t Token) DocComment() string {
	for i := len(t.Leading) - 1; i >= 0; i-- {
		if t.Leading[i].Kind == TriviaDocBlock {
			return t.Leading[i].Text
		}
	}
	return ""
}
