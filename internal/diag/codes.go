package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedRegex        Code = 1005
	LexUnterminatedTemplate     Code = 1006

	// Syntactic.
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectSemicolon   Code = 2003
	SynUnclosedDelimiter Code = 2004
	SynBadAssignTarget   Code = 2005

	// Scope building.
	ScopeRedeclaration Code = 3001

	// Registry.
	RegMalformedAnnotation  Code = 3101
	RegInvalidPropOverride  Code = 3102

	// Type inference.
	InfMistypedAssign   Code = 3201
	InfNullableDeref    Code = 3202
	InfWrongArgCount    Code = 3203
	InfInvalidArgType   Code = 3204
	InfGlobalThis       Code = 3205

	// I/O and driver.
	IOLoadFileError Code = 4001
)

var codeNames = map[Code]string{
	UnknownCode: "UNKNOWN",

	LexUnknownChar:              "LEX_UNKNOWN_CHAR",
	LexUnterminatedString:       "LEX_UNTERMINATED_STRING",
	LexUnterminatedBlockComment: "LEX_UNTERMINATED_BLOCK_COMMENT",
	LexBadNumber:                "LEX_BAD_NUMBER",
	LexUnterminatedRegex:        "LEX_UNTERMINATED_REGEX",
	LexUnterminatedTemplate:     "LEX_UNTERMINATED_TEMPLATE",

	SynUnexpectedToken:   "SYN_UNEXPECTED_TOKEN",
	SynExpectIdentifier:  "SYN_EXPECT_IDENTIFIER",
	SynExpectSemicolon:   "SYN_EXPECT_SEMICOLON",
	SynUnclosedDelimiter: "SYN_UNCLOSED_DELIMITER",
	SynBadAssignTarget:   "SYN_BAD_ASSIGN_TARGET",

	ScopeRedeclaration: "REDECLARED_VARIABLE",

	RegMalformedAnnotation: "MALFORMED_ANNOTATION",
	RegInvalidPropOverride: "INVALID_PROP_OVERRIDE",

	InfMistypedAssign: "MISTYPED_ASSIGN",
	InfNullableDeref:  "NULLABLE_DEREFERENCE",
	InfWrongArgCount:  "WRONG_ARGUMENT_COUNT",
	InfInvalidArgType: "INVALID_ARGUMENT_TYPE",
	InfGlobalThis:     "GLOBAL_THIS",

	IOLoadFileError: "IO_LOAD_FILE",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", uint16(c))
}

// DefaultSeverity returns the severity the analysis taxonomy assigns to the
// code: type-safety violations are errors, style/shape issues are warnings.
func (c Code) DefaultSeverity() Severity {
	switch c {
	case ScopeRedeclaration, RegMalformedAnnotation, RegInvalidPropOverride:
		return SevWarning
	case UnknownCode:
		return SevInfo
	}
	return SevError
}
