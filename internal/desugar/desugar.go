// Package desugar lowers kernel declarations into plain functions, so
// every later phase — type checking, codegen, metadata, linking — only
// ever sees func/struct/const/static_assert declarations.
package desugar

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/lexer"
)

// Program lowers every KernelDecl in prog into a FunctionDecl, leaving
// every other declaration untouched. It returns on the first error.
func Program(prog *ast.Program) (*ast.Program, *errors.CompileError) {
	out := &ast.Program{Declarations: make([]ast.Declaration, 0, len(prog.Declarations))}
	for _, decl := range prog.Declarations {
		kd, ok := decl.(*ast.KernelDecl)
		if !ok {
			out.Declarations = append(out.Declarations, decl)
			continue
		}
		fn, err := kernel(kd)
		if err != nil {
			return nil, err
		}
		out.Declarations = append(out.Declarations, fn)
	}
	return out, nil
}

func kernel(kd *ast.KernelDecl) (*ast.FunctionDecl, *errors.CompileError) {
	for _, p := range kd.Params {
		if p.Name == kd.RangeBound {
			return nil, errors.ParseError(
				fmt.Sprintf("range bound %q collides with parameter name", kd.RangeBound), kd.Pos())
		}
	}

	if err := checkNoAssignToVar(kd.Body.Statements, kd.LoopVar); err != nil {
		return nil, err
	}
	if kd.TailBody != nil {
		if err := checkNoAssignToVar(kd.TailBody.Statements, kd.LoopVar); err != nil {
			return nil, err
		}
	}

	pos := kd.Pos()
	params := append(append([]ast.Param{}, kd.Params...), ast.Param{
		Name: kd.RangeBound,
		Anno: ast.NewNamedType(lexer.Token{Type: lexer.I32, Literal: "i32", Pos: pos}, "i32"),
	})

	letVar := ast.NewLetStatement(
		lexer.Token{Type: lexer.LET, Literal: "let", Pos: pos},
		kd.LoopVar, true,
		ast.NewNamedType(lexer.Token{Type: lexer.I32, Literal: "i32", Pos: pos}, "i32"),
		ast.NewIntegerLiteral(lexer.Token{Type: lexer.INT, Literal: "0", Pos: pos}, 0, false),
	)

	mainLoop := buildMainLoop(kd.LoopVar, kd.RangeBound, kd.Step, kd.Body, pos)
	body := &ast.Block{Statements: []ast.Statement{letVar, mainLoop}}

	appendTail(body, kd.Tail, kd.TailBody, kd.LoopVar, kd.RangeBound, pos)
	body.RBrace = kd.Body.RBrace

	funcTok := lexer.Token{Type: lexer.FUNC, Literal: "func", Pos: pos}
	fn := ast.NewFunctionDecl(funcTok, kd.Name, kd.Export, params, nil, body)
	fn.FromKernel = kd
	return fn, nil
}

// buildMainLoop constructs `while VAR + STEP <= BOUND { BODY; VAR = VAR + STEP }`.
func buildMainLoop(rangeVar, rangeBound string, step int, body *ast.Block, pos lexer.Position) *ast.WhileStatement {
	tok := lexer.Token{Type: lexer.WHILE, Literal: "while", Pos: pos}
	cond := ast.NewBinaryExpression(
		ast.NewBinaryExpression(
			ast.NewIdentifier(identTok(rangeVar, pos), rangeVar),
			"+",
			intLit(step, pos),
		),
		"<=",
		ast.NewIdentifier(identTok(rangeBound, pos), rangeBound),
	)

	newBody := &ast.Block{Statements: append(append([]ast.Statement{}, body.Statements...), makeIncrement(rangeVar, step, pos))}
	newBody.RBrace = body.RBrace
	return ast.NewWhileStatement(tok, cond, newBody)
}

// appendTail appends the scalar/mask remainder handling for the kernel's
// tail strategy. Pad needs no extra statements: the caller guarantees the
// buffer is padded to a step multiple.
func appendTail(funcBody *ast.Block, tail ast.TailStrategy, tailBody *ast.Block, rangeVar, rangeBound string, pos lexer.Position) {
	switch tail {
	case ast.TailScalar:
		if tailBody == nil {
			return
		}
		cond := ast.NewBinaryExpression(
			ast.NewIdentifier(identTok(rangeVar, pos), rangeVar), "<",
			ast.NewIdentifier(identTok(rangeBound, pos), rangeBound))
		body := &ast.Block{Statements: append(append([]ast.Statement{}, tailBody.Statements...), makeIncrement(rangeVar, 1, pos))}
		body.RBrace = tailBody.RBrace
		funcBody.Statements = append(funcBody.Statements,
			ast.NewWhileStatement(lexer.Token{Type: lexer.WHILE, Literal: "while", Pos: pos}, cond, body))

	case ast.TailMask:
		if tailBody == nil {
			return
		}
		cond := ast.NewBinaryExpression(
			ast.NewIdentifier(identTok(rangeVar, pos), rangeVar), "<",
			ast.NewIdentifier(identTok(rangeBound, pos), rangeBound))
		funcBody.Statements = append(funcBody.Statements,
			ast.NewIfStatement(lexer.Token{Type: lexer.IF, Literal: "if", Pos: pos}, cond, tailBody, nil))

	case ast.TailPad, ast.TailNone:
		// nothing to append
	}
}

// makeIncrement builds `VAR = VAR + amount`.
func makeIncrement(v string, amount int, pos lexer.Position) *ast.AssignStatement {
	value := ast.NewBinaryExpression(ast.NewIdentifier(identTok(v, pos), v), "+", intLit(amount, pos))
	return ast.NewAssignStatement(lexer.Token{Type: lexer.IDENT, Literal: v, Pos: pos}, v, value)
}

func identTok(name string, pos lexer.Position) lexer.Token {
	return lexer.Token{Type: lexer.IDENT, Literal: name, Pos: pos}
}

func intLit(v int, pos lexer.Position) *ast.IntegerLiteral {
	return ast.NewIntegerLiteral(lexer.Token{Type: lexer.INT, Literal: fmt.Sprint(v), Pos: pos}, uint64(v), false)
}

// checkNoAssignToVar enforces that a kernel's user-written body never
// assigns to the loop variable, since it is implicitly advanced by step
// each iteration; it recurses into every nested block-bearing statement.
func checkNoAssignToVar(stmts []ast.Statement, v string) *errors.CompileError {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.AssignStatement:
			if s.Name == v {
				return errors.TypeError(
					fmt.Sprintf("cannot assign to loop variable %q — it is advanced by the kernel's step", v),
					ast.Span(s))
			}
		case *ast.IfStatement:
			if err := checkNoAssignToVar(s.Then.Statements, v); err != nil {
				return err
			}
			if s.Else != nil {
				if err := checkNoAssignToVar(s.Else.Statements, v); err != nil {
					return err
				}
			}
		case *ast.WhileStatement:
			if err := checkNoAssignToVar(s.Body.Statements, v); err != nil {
				return err
			}
		case *ast.ForeachStatement:
			if err := checkNoAssignToVar(s.Body.Statements, v); err != nil {
				return err
			}
		case *ast.UnrollStatement:
			if err := checkNoAssignToVar([]ast.Statement{s.Loop}, v); err != nil {
				return err
			}
		}
	}
	return nil
}
