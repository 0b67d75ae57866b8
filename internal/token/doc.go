// Package token defines lexical token kinds for the JavaScript subset the
// analysis core is specified over.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Doc comments (/** ... */) are captured as leading trivia and never
//     appear in the main token stream.
//   - Regex vs. division disambiguation is the lexer's job; the token stream
//     never contains an ambiguous '/'.
package token
