package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	// Literals.
	Number
	String
	Regex
	TemplateString // whole `...` template, including substitutions

	// Keywords.
	KwVar
	KwLet
	KwConst
	KwFunction
	KwClass
	KwExtends
	KwNew
	KwThis
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwIn
	KwOf
	KwBreak
	KwContinue
	KwTry
	KwCatch
	KwFinally
	KwThrow
	KwTypeof
	KwInstanceof
	KwDelete
	KwVoid
	KwNull
	KwUndefined
	KwTrue
	KwFalse

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Colon
	Question

	// Operators.
	Assign       // =
	PlusAssign   // +=
	MinusAssign  // -=
	StarAssign   // *=
	SlashAssign  // /=
	PercentAssign // %=
	Plus
	Minus
	Star
	Slash
	Percent
	PlusPlus
	MinusMinus
	Eq       // ==
	NotEq    // !=
	StrictEq // ===
	StrictNotEq // !==
	Lt
	Gt
	LtEq
	GtEq
	AndAnd
	OrOr
	Not
	BitAnd
	BitOr
	BitXor
	Ellipsis // ...
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var kindNames = [...]string{
	Invalid: "invalid",
	EOF:     "eof",
	Ident:   "identifier",

	Number:         "number",
	String:         "string",
	Regex:          "regex",
	TemplateString: "template",

	KwVar:        "var",
	KwLet:        "let",
	KwConst:      "const",
	KwFunction:   "function",
	KwClass:      "class",
	KwExtends:    "extends",
	KwNew:        "new",
	KwThis:       "this",
	KwReturn:     "return",
	KwIf:         "if",
	KwElse:       "else",
	KwWhile:      "while",
	KwDo:         "do",
	KwFor:        "for",
	KwIn:         "in",
	KwOf:         "of",
	KwBreak:      "break",
	KwContinue:   "continue",
	KwTry:        "try",
	KwCatch:      "catch",
	KwFinally:    "finally",
	KwThrow:      "throw",
	KwTypeof:     "typeof",
	KwInstanceof: "instanceof",
	KwDelete:     "delete",
	KwVoid:       "void",
	KwNull:       "null",
	KwUndefined:  "undefined",
	KwTrue:       "true",
	KwFalse:      "false",

	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	LBracket: "[",
	RBracket: "]",
	Semicolon: ";",
	Comma:    ",",
	Dot:      ".",
	Colon:    ":",
	Question: "?",

	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	PlusPlus:      "++",
	MinusMinus:    "--",
	Eq:            "==",
	NotEq:         "!=",
	StrictEq:      "===",
	StrictNotEq:   "!==",
	Lt:            "<",
	Gt:            ">",
	LtEq:          "<=",
	GtEq:          ">=",
	AndAnd:        "&&",
	OrOr:          "||",
	Not:           "!",
	BitAnd:        "&",
	BitOr:         "|",
	BitXor:        "^",
	Ellipsis:      "...",
}

// IsAssignOp reports whether the kind is an assignment operator, compound
// assignments included.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		return true
	}
	return false
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwVar && k <= KwFalse
}
