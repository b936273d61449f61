// Package parser builds an AST from a token stream using a Pratt parser
// (top-down operator precedence) for expressions and recursive descent for
// statements and top-level declarations.
//
// There is no backtracking and no panic-mode error recovery: a syntax error
// aborts the parse and is reported once (§7, parse errors are not
// accumulated past the first one per input).
//
// Example usage:
//
//	toks, lexErrs := lexer.Tokenize(src)
//	program, err := parser.ParseProgram(toks)
package parser
