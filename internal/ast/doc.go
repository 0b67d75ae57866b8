// Package ast defines the syntax tree the analysis passes consume.
//
// A single Node struct with a Kind tag models every syntactic form, so scope
// building and reference collection can walk arbitrary shapes without a
// visitor per node type. The tree may have been rewritten in place by an
// earlier desugaring stage; the analyses make no assumption beyond the child
// layouts documented per Kind.
package ast
