package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

func (c *Checker) pass2(prog *ast.Program) *errors.CompileError {
	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FunctionDecl); ok {
			if err := c.checkFunction(fd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Checker) checkFunction(fd *ast.FunctionDecl) *errors.CompileError {
	sig := c.Funcs[fd.Name]
	s := newScope(nil)
	for _, p := range sig.Params {
		s.define(p.Name, p.Type, false)
	}
	return c.checkBlock(fd.Body, s, sig.Return)
}

func (c *Checker) checkBlock(b *ast.Block, parent *scope, retType types.Type) *errors.CompileError {
	s := newScope(parent)
	for _, stmt := range b.Statements {
		if err := c.checkStatement(stmt, s, retType); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement, s *scope, retType types.Type) *errors.CompileError {
	switch st := stmt.(type) {
	case *ast.LetStatement:
		annoType, err := c.resolveType(st.Anno)
		if err != nil {
			return err
		}
		valType, err := c.inferExpr(st.Value, s, annoType)
		if err != nil {
			return err
		}
		if !compatible(valType, annoType) {
			return errors.TypeError(fmt.Sprintf("cannot initialize %q of type %s with value of type %s", st.Name, annoType, valType), ast.Span(st))
		}
		st.Type = annoType
		s.define(st.Name, annoType, st.Mutable)
		return nil

	case *ast.AssignStatement:
		e, ok := s.lookup(st.Name)
		if !ok {
			return errors.TypeError(fmt.Sprintf("undefined name %q", st.Name), ast.Span(st))
		}
		if !e.Mutable {
			return errors.TypeError(fmt.Sprintf("cannot assign to immutable binding %q"+errors.Hint("immutable-write"), st.Name), ast.Span(st))
		}
		vt, err := c.inferExpr(st.Value, s, e.Type)
		if err != nil {
			return err
		}
		if !compatible(vt, e.Type) {
			return errors.TypeError(fmt.Sprintf("cannot assign value of type %s to %q of type %s", vt, st.Name, e.Type), ast.Span(st))
		}
		return nil

	case *ast.IndexAssignStatement:
		tt, err := c.inferExpr(st.Target, s, nil)
		if err != nil {
			return err
		}
		ptr, ok := tt.(types.Pointer)
		if !ok || !ptr.Mutable {
			return errors.TypeError("indexed assignment target must be a mutable pointer"+errors.Hint("immutable-write"), ast.Span(st))
		}
		if _, err := c.inferExpr(st.Index, s, types.DefaultInt); err != nil {
			return err
		}
		vt, err := c.inferExpr(st.Value, s, ptr.Elem)
		if err != nil {
			return err
		}
		if !compatible(vt, ptr.Elem) {
			return errors.TypeError(fmt.Sprintf("cannot store value of type %s through pointer to %s", vt, ptr.Elem), ast.Span(st))
		}
		return nil

	case *ast.FieldAssignStatement:
		tt, err := c.inferExpr(st.Target, s, nil)
		if err != nil {
			return err
		}
		st2, fieldType, err := c.resolveStructField(tt, st.Field, st)
		if err != nil {
			return err
		}
		vt, err := c.inferExpr(st.Value, s, fieldType)
		if err != nil {
			return err
		}
		if !compatible(vt, fieldType) {
			return errors.TypeError(fmt.Sprintf("cannot assign value of type %s to field %q.%s of type %s", vt, st2.Name, st.Field, fieldType), ast.Span(st))
		}
		return nil

	case *ast.ReturnStatement:
		if st.Value == nil {
			if _, ok := retType.(types.Void); !ok {
				return errors.TypeError(fmt.Sprintf("missing return value; function returns %s", retType), ast.Span(st))
			}
			return nil
		}
		if _, ok := retType.(types.Void); ok {
			return errors.TypeError("function returning void must not return a value", ast.Span(st))
		}
		vt, err := c.inferExpr(st.Value, s, retType)
		if err != nil {
			return err
		}
		if !compatible(vt, retType) {
			return errors.TypeError(fmt.Sprintf("return value of type %s does not match declared return type %s", vt, retType), ast.Span(st))
		}
		return nil

	case *ast.IfStatement:
		ct, err := c.inferExpr(st.Condition, s, types.Bool{})
		if err != nil {
			return err
		}
		if _, ok := ct.(types.Bool); !ok {
			return errors.TypeError(fmt.Sprintf("if condition must be bool, got %s", ct), ast.Span(st))
		}
		if err := c.checkBlock(st.Then, s, retType); err != nil {
			return err
		}
		if st.Else != nil {
			if err := c.checkBlock(st.Else, s, retType); err != nil {
				return err
			}
		}
		return nil

	case *ast.WhileStatement:
		ct, err := c.inferExpr(st.Condition, s, types.Bool{})
		if err != nil {
			return err
		}
		if _, ok := ct.(types.Bool); !ok {
			return errors.TypeError(fmt.Sprintf("while condition must be bool, got %s", ct), ast.Span(st))
		}
		return c.checkBlock(st.Body, s, retType)

	case *ast.ForeachStatement:
		startT, err := c.inferExpr(st.Start, s, types.DefaultInt)
		if err != nil {
			return err
		}
		if !types.IsInteger(startT) {
			return errors.TypeError(fmt.Sprintf("foreach range start must be an integer, got %s", startT), ast.Span(st))
		}
		endT, err := c.inferExpr(st.End, s, types.DefaultInt)
		if err != nil {
			return err
		}
		if !types.IsInteger(endT) {
			return errors.TypeError(fmt.Sprintf("foreach range end must be an integer, got %s", endT), ast.Span(st))
		}
		inner := newScope(s)
		inner.define(st.Var, types.I32, false)
		return c.checkBlock(st.Body, inner, retType)

	case *ast.UnrollStatement:
		if st.Factor <= 0 {
			return errors.TypeError("unroll factor must be a positive integer", ast.Span(st))
		}
		return c.checkStatement(st.Loop, s, retType)

	case *ast.ExpressionStatement:
		_, err := c.inferExpr(st.Expr, s, nil)
		return err

	default:
		return errors.TypeError(fmt.Sprintf("unsupported statement %T", stmt), ast.Span(stmt))
	}
}

// resolveStructField resolves e.f's field type, accepting a struct value
// or a (mutable or not) pointer-to-struct.
func (c *Checker) resolveStructField(t types.Type, field string, at ast.Node) (*types.Struct, types.Type, *errors.CompileError) {
	st, ok := t.(*types.Struct)
	if !ok {
		if ptr, ok2 := t.(types.Pointer); ok2 {
			st, ok = ptr.Elem.(*types.Struct)
		}
	}
	if !ok || st == nil {
		return nil, nil, errors.TypeError(fmt.Sprintf("type %s has no fields", t), ast.Span(at))
	}
	ft := st.FieldType(field)
	if ft == nil {
		return nil, nil, errors.TypeError(fmt.Sprintf("struct %q has no field %q", st.Name, field), ast.Span(at))
	}
	return st, ft, nil
}
