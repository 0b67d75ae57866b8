package ast

// Kind discriminates Node shapes. One uniform node type with a kind tag keeps
// the scope/reference walkers generic over every syntactic form.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScript

	// Statements.
	KindVar   // declaration list; children are KindName, each optionally carrying an init child
	KindLet
	KindConst
	KindFunction // children: [name?] param-list block
	KindParamList
	KindClass      // children: name, extends-expr (may be nil-kind), member list
	KindClassBody
	KindMethod // children: name, function
	KindExprStmt
	KindBlock
	KindIf // children: cond, then, [else]
	KindWhile
	KindDoWhile
	KindFor   // children: init, cond, update, body (absent slots are KindEmpty)
	KindForIn // children: target, object, body
	KindReturn
	KindThrow
	KindTry   // children: block, [catch], [finally-block]
	KindCatch // children: param-name, block
	KindBreak
	KindContinue
	KindEmpty

	// Expressions.
	KindName // identifier; a declaration's name may carry its initializer as first child
	KindThis
	KindNumber
	KindString
	KindRegex
	KindBool
	KindNull
	KindUndefined
	KindArrayLit
	KindObjectLit
	KindProp // object literal entry; Name holds the key, child the value
	KindTemplate
	KindTaggedTemplate // children: tag-expr, template
	KindAssign         // children: target, value; Op holds the operator
	KindBinary
	KindUnary
	KindUpdate // ++/--; Op holds the operator, Prefix in Flags
	KindConditional
	KindCall // children: callee, args...
	KindNew
	KindMember // children: object; Name holds the property
	KindIndex  // children: object, index-expr
	KindComma
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindScript:  "script",

	KindVar:       "var",
	KindLet:       "let",
	KindConst:     "const",
	KindFunction:  "function",
	KindParamList: "params",
	KindClass:     "class",
	KindClassBody: "class-body",
	KindMethod:    "method",
	KindExprStmt:  "expr-stmt",
	KindBlock:     "block",
	KindIf:        "if",
	KindWhile:     "while",
	KindDoWhile:   "do-while",
	KindFor:       "for",
	KindForIn:     "for-in",
	KindReturn:    "return",
	KindThrow:     "throw",
	KindTry:       "try",
	KindCatch:     "catch",
	KindBreak:     "break",
	KindContinue:  "continue",
	KindEmpty:     "empty",

	KindName:           "name",
	KindThis:           "this",
	KindNumber:         "number",
	KindString:         "string",
	KindRegex:          "regex",
	KindBool:           "bool",
	KindNull:           "null",
	KindUndefined:      "undefined",
	KindArrayLit:       "array",
	KindObjectLit:      "object",
	KindProp:           "prop",
	KindTemplate:       "template",
	KindTaggedTemplate: "tagged-template",
	KindAssign:         "assign",
	KindBinary:         "binary",
	KindUnary:          "unary",
	KindUpdate:         "update",
	KindConditional:    "conditional",
	KindCall:           "call",
	KindNew:            "new",
	KindMember:         "member",
	KindIndex:          "index",
	KindComma:          "comma",
}

// IsDeclKeyword reports whether the kind is one of the three declaration
// statement forms.
func (k Kind) IsDeclKeyword() bool {
	return k == KindVar || k == KindLet || k == KindConst
}

// IsLoop reports whether the kind re-executes its body.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhile, KindDoWhile, KindFor, KindForIn:
		return true
	}
	return false
}
