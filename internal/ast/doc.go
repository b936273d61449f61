// Package ast defines the Abstract Syntax Tree node types for the source
// language: type annotations (Named/Pointer/Vector), expressions (literals,
// variables, unary/binary operators including the dotted elementwise
// family, calls, indexing, field access, struct/vector/array literals),
// statements (let/assign/return/if/while/foreach/unroll), and top-level
// declarations (function, struct, const, static_assert, kernel).
//
// Every node carries a lexer.Token for its leading position and, where the
// node naturally spans more than one token, an explicit End position so
// that Span() covers the whole construct.
package ast
