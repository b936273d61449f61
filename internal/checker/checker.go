// Package checker implements the two-pass type checker of §4.4: a first
// pass that populates declaration tables (function signatures, struct
// schemas, constants) and evaluates const initializers and static
// asserts, then a second pass that checks every function body against a
// local name scope.
package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/target"
	"github.com/ea-lang/ea/internal/types"
)

// FuncSig is a checked function signature.
type FuncSig struct {
	Name   string
	Params []ParamSig
	Return types.Type // types.Void{} for a void-returning function
	Export bool
	Decl   *ast.FunctionDecl
}

type ParamSig struct {
	Name string
	Type types.Type
	Out  bool
}

// ConstValue is a fully folded const initializer.
type ConstValue struct {
	Type    types.Type
	Int     int64
	Float   float64
	Bool    bool
	IsFloat bool
	IsBool  bool
}

// Checker holds the declaration tables shared by both passes.
type Checker struct {
	Target  target.Description
	Funcs   map[string]*FuncSig
	Structs map[string]*types.Struct
	Consts  map[string]ConstValue
}

// New creates a Checker for the given target description.
func New(t target.Description) *Checker {
	return &Checker{
		Target:  t,
		Funcs:   make(map[string]*FuncSig),
		Structs: make(map[string]*types.Struct),
		Consts:  make(map[string]ConstValue),
	}
}

// CheckProgram runs both passes over a desugared program (no KernelDecls —
// see internal/desugar) and returns on the first error.
func CheckProgram(prog *ast.Program, t target.Description) (*Checker, *errors.CompileError) {
	c := New(t)
	if err := c.pass1(prog); err != nil {
		return nil, err
	}
	if err := c.pass2(prog); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Checker) pass1(prog *ast.Program) *errors.CompileError {
	// Structs first, so function/const annotations can reference them.
	for _, decl := range prog.Declarations {
		if sd, ok := decl.(*ast.StructDecl); ok {
			if _, dup := c.Structs[sd.Name]; dup {
				return errors.TypeError(fmt.Sprintf("struct %q declared more than once", sd.Name), ast.Span(sd))
			}
			st := &types.Struct{Name: sd.Name}
			for _, f := range sd.Fields {
				ft, err := c.resolveType(f.Anno)
				if err != nil {
					return err
				}
				st.Fields = append(st.Fields, types.StructField{Name: f.Name, Type: ft})
			}
			c.Structs[sd.Name] = st
		}
	}

	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			if _, dup := c.Funcs[d.Name]; dup {
				return errors.TypeError(fmt.Sprintf("function %q declared more than once", d.Name), ast.Span(d))
			}
			sig := &FuncSig{Name: d.Name, Export: d.Export, Decl: d}
			for _, p := range d.Params {
				pt, err := c.resolveType(p.Anno)
				if err != nil {
					return err
				}
				sig.Params = append(sig.Params, ParamSig{Name: p.Name, Type: pt, Out: p.Out})
			}
			if d.RetAnno != nil {
				rt, err := c.resolveType(d.RetAnno)
				if err != nil {
					return err
				}
				sig.Return = rt
			} else {
				sig.Return = types.Void{}
			}
			c.Funcs[d.Name] = sig

		case *ast.ConstDecl:
			if _, dup := c.Consts[d.Name]; dup {
				return errors.TypeError(fmt.Sprintf("constant %q declared more than once", d.Name), ast.Span(d))
			}
			annoType, err := c.resolveType(d.Anno)
			if err != nil {
				return err
			}
			val, cerr := c.evalConst(d.Value)
			if cerr != nil {
				return cerr
			}
			if err := c.checkConstCompatible(val, annoType, d); err != nil {
				return err
			}
			val.Type = annoType
			c.Consts[d.Name] = val

		case *ast.StaticAssertDecl:
			val, cerr := c.evalConst(d.Condition)
			if cerr != nil {
				return cerr
			}
			if !val.IsBool {
				return errors.TypeError("static_assert condition must be a boolean constant expression", ast.Span(d))
			}
			if !val.Bool {
				msg := "static_assert failed"
				if d.Message != "" {
					msg = fmt.Sprintf("static_assert failed: %s", d.Message)
				}
				return errors.TypeError(msg, ast.Span(d))
			}

		case *ast.StructDecl:
			// handled above

		default:
			return errors.TypeError(fmt.Sprintf("unexpected top-level declaration %T", d), ast.Span(decl))
		}
	}
	return nil
}

func (c *Checker) checkConstCompatible(val ConstValue, want types.Type, decl *ast.ConstDecl) *errors.CompileError {
	switch wt := want.(type) {
	case types.Int:
		if val.IsFloat || val.IsBool {
			return errors.TypeError(fmt.Sprintf("constant %q initializer is not an integer", decl.Name), ast.Span(decl))
		}
		return nil
	case types.Float:
		if val.IsBool {
			return errors.TypeError(fmt.Sprintf("constant %q initializer is not a number", decl.Name), ast.Span(decl))
		}
		return nil
	case types.Bool:
		if !val.IsBool {
			return errors.TypeError(fmt.Sprintf("constant %q initializer is not a boolean", decl.Name), ast.Span(decl))
		}
		return nil
	default:
		_ = wt
		return errors.TypeError(fmt.Sprintf("constant %q must have a scalar numeric or boolean type", decl.Name), ast.Span(decl))
	}
}
