package token

var keywords = map[string]Kind{
	"var":        KwVar,
	"let":        KwLet,
	"const":      KwConst,
	"function":   KwFunction,
	"class":      KwClass,
	"extends":    KwExtends,
	"new":        KwNew,
	"this":       KwThis,
	"return":     KwReturn,
	"if":         KwIf,
	"else":       KwElse,
	"while":      KwWhile,
	"do":         KwDo,
	"for":        KwFor,
	"in":         KwIn,
	"of":         KwOf,
	"break":      KwBreak,
	"continue":   KwContinue,
	"try":        KwTry,
	"catch":      KwCatch,
	"finally":    KwFinally,
	"throw":      KwThrow,
	"typeof":     KwTypeof,
	"instanceof": KwInstanceof,
	"delete":     KwDelete,
	"void":       KwVoid,
	"null":       KwNull,
	"undefined":  KwUndefined,
	"true":       KwTrue,
	"false":      KwFalse,
}

// LookupKeyword reports whether ident is a reserved word. Matching is
// case-sensitive; only lowercase spellings are keywords.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
