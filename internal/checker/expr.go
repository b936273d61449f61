package checker

import (
	"fmt"
	"strings"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// inferExpr infers and annotates the type of e, consulting hint where a
// literal needs a concrete type to resolve against (§9 Open Question 1:
// "hint, else default" width inference) and nil where no hint is
// available (e.g. a bare expression statement).
func (c *Checker) inferExpr(e ast.Expression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	t, err := c.inferExprRaw(e, s, hint)
	if err != nil {
		return nil, err
	}
	e.SetType(t)
	return t, nil
}

func (c *Checker) inferExprRaw(e ast.Expression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		if hint != nil && types.IsInteger(hint) {
			if _, ok := hint.(types.Int); ok {
				return hint, nil
			}
		}
		return types.IntLiteral{}, nil

	case *ast.FloatLiteral:
		if hint != nil && types.IsFloat(hint) {
			if _, ok := hint.(types.Float); ok {
				return hint, nil
			}
		}
		return types.FloatLiteral{}, nil

	case *ast.BoolLiteral:
		return types.Bool{}, nil

	case *ast.StringLiteral:
		return types.String{}, nil

	case *ast.Identifier:
		if e2, ok := s.lookup(ex.Value); ok {
			return e2.Type, nil
		}
		if cv, ok := c.Consts[ex.Value]; ok {
			return cv.Type, nil
		}
		return nil, errors.TypeError(fmt.Sprintf("undefined name %q", ex.Value), ast.Span(ex))

	case *ast.UnaryExpression:
		return c.inferUnary(ex, s, hint)

	case *ast.BinaryExpression:
		return c.inferBinary(ex, s, hint)

	case *ast.CallExpression:
		return c.inferCall(ex, s, hint)

	case *ast.IndexExpression:
		return c.inferIndex(ex, s)

	case *ast.FieldAccessExpression:
		tt, err := c.inferExpr(ex.Target, s, nil)
		if err != nil {
			return nil, err
		}
		_, ft, err := c.resolveStructField(tt, ex.Field, ex)
		if err != nil {
			return nil, err
		}
		return ft, nil

	case *ast.StructLiteral:
		return c.inferStructLiteral(ex, s)

	case *ast.VectorLiteral:
		return c.inferVectorLiteral(ex, s)

	case *ast.ArrayLiteral:
		return nil, errors.TypeError("a bracketed literal without a vector-type suffix is only valid as a shuffle mask argument", ast.Span(ex))

	default:
		return nil, errors.TypeError(fmt.Sprintf("unsupported expression %T", e), ast.Span(e))
	}
}

func (c *Checker) inferUnary(ex *ast.UnaryExpression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	switch ex.Operator {
	case "!":
		rt, err := c.inferExpr(ex.Right, s, types.Bool{})
		if err != nil {
			return nil, err
		}
		if _, ok := rt.(types.Bool); !ok {
			return nil, errors.TypeError(fmt.Sprintf("'!' requires a bool operand, got %s", rt), ast.Span(ex))
		}
		return types.Bool{}, nil
	case "-":
		rt, err := c.inferExpr(ex.Right, s, hint)
		if err != nil {
			return nil, err
		}
		if !types.IsNumeric(rt) {
			if v, ok := rt.(types.Vector); ok && types.IsNumeric(v.Elem) {
				return rt, nil
			}
			return nil, errors.TypeError(fmt.Sprintf("unary '-' requires a numeric or vector operand, got %s", rt), ast.Span(ex))
		}
		return rt, nil
	default:
		return nil, errors.TypeError(fmt.Sprintf("unsupported unary operator %q", ex.Operator), ast.Span(ex))
	}
}

func (c *Checker) inferBinary(ex *ast.BinaryExpression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	if strings.HasPrefix(ex.Operator, ".") {
		return c.inferDottedBinary(ex, s, hint)
	}

	switch ex.Operator {
	case "&&", "||":
		lt, err := c.inferExpr(ex.Left, s, types.Bool{})
		if err != nil {
			return nil, err
		}
		if _, ok := lt.(types.Bool); !ok {
			return nil, errors.TypeError(fmt.Sprintf("%q requires bool operands, got %s", ex.Operator, lt), ast.Span(ex.Left))
		}
		rt, err := c.inferExpr(ex.Right, s, types.Bool{})
		if err != nil {
			return nil, err
		}
		if _, ok := rt.(types.Bool); !ok {
			return nil, errors.TypeError(fmt.Sprintf("%q requires bool operands, got %s", ex.Operator, rt), ast.Span(ex.Right))
		}
		return types.Bool{}, nil

	case "==", "!=", "<", "<=", ">", ">=":
		lt, err := c.inferExpr(ex.Left, s, nil)
		if err != nil {
			return nil, err
		}
		rt, err := c.inferExpr(ex.Right, s, lt)
		if err != nil {
			return nil, err
		}
		if _, ok := lt.(types.Bool); ok {
			if _, ok2 := rt.(types.Bool); !ok2 {
				return nil, errors.TypeError(fmt.Sprintf("cannot compare %s and %s", lt, rt), ast.Span(ex))
			}
			if ex.Operator != "==" && ex.Operator != "!=" {
				return nil, errors.TypeError("bool operands only support '==' and '!='", ast.Span(ex))
			}
			return types.Bool{}, nil
		}
		if _, err := unifyNumeric(lt, rt, ast.Span(ex)); err != nil {
			return nil, err
		}
		return types.Bool{}, nil

	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		lt, err := c.inferExpr(ex.Left, s, hint)
		if err != nil {
			return nil, err
		}
		rt, err := c.inferExpr(ex.Right, s, hint)
		if err != nil {
			return nil, err
		}
		return unifyNumeric(lt, rt, ast.Span(ex))

	default:
		return nil, errors.TypeError(fmt.Sprintf("unsupported binary operator %q", ex.Operator), ast.Span(ex))
	}
}

// inferDottedBinary checks the 13 dotted elementwise vector operators
// (§3, §4.4 "Vector unification").
func (c *Checker) inferDottedBinary(ex *ast.BinaryExpression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	lt, err := c.inferExpr(ex.Left, s, hint)
	if err != nil {
		return nil, err
	}
	rt, err := c.inferExpr(ex.Right, s, lt)
	if err != nil {
		return nil, err
	}
	v, err := unifyVector(lt, rt, ast.Span(ex))
	if err != nil {
		return nil, err
	}
	switch ex.Operator {
	case ".==", ".!=", ".<", ".<=", ".>", ".>=":
		return types.Vector{Elem: types.Bool{}, Width: v.Width}, nil
	default:
		return v, nil
	}
}

func (c *Checker) inferIndex(ex *ast.IndexExpression, s *scope) (types.Type, *errors.CompileError) {
	tt, err := c.inferExpr(ex.Target, s, nil)
	if err != nil {
		return nil, err
	}
	if _, err := c.inferExpr(ex.Index, s, types.DefaultInt); err != nil {
		return nil, err
	}
	switch t := tt.(type) {
	case types.Vector:
		return t.Elem, nil
	case types.Pointer:
		return t.Elem, nil
	default:
		return nil, errors.TypeError(fmt.Sprintf("type %s is not indexable"+errors.Hint("non-indexable"), tt), ast.Span(ex))
	}
}

func (c *Checker) inferStructLiteral(ex *ast.StructLiteral, s *scope) (types.Type, *errors.CompileError) {
	st, ok := c.Structs[ex.Name]
	if !ok {
		return nil, errors.TypeError(fmt.Sprintf("undefined struct %q", ex.Name), ast.Span(ex))
	}
	if len(ex.Fields) != len(st.Fields) {
		return nil, errors.TypeError(fmt.Sprintf("struct %q literal has %d fields, expected %d", ex.Name, len(ex.Fields), len(st.Fields)), ast.Span(ex))
	}
	for _, f := range ex.Fields {
		ft := st.FieldType(f.Name)
		if ft == nil {
			return nil, errors.TypeError(fmt.Sprintf("struct %q has no field %q", ex.Name, f.Name), ast.Span(ex))
		}
		vt, err := c.inferExpr(f.Value, s, ft)
		if err != nil {
			return nil, err
		}
		if !compatible(vt, ft) {
			return nil, errors.TypeError(fmt.Sprintf("field %q: cannot assign value of type %s to type %s", f.Name, vt, ft), ast.Span(f.Value))
		}
	}
	return st, nil
}

func (c *Checker) inferVectorLiteral(ex *ast.VectorLiteral, s *scope) (types.Type, *errors.CompileError) {
	elem, err := c.resolveType(ex.Elem)
	if err != nil {
		return nil, err
	}
	if ex.Width != 4 && ex.Width != 8 && ex.Width != 16 && ex.Width != 32 {
		return nil, errors.TypeError(fmt.Sprintf("invalid vector width %d", ex.Width), ast.Span(ex))
	}
	if len(ex.Elements) != 0 && len(ex.Elements) != ex.Width {
		return nil, errors.TypeError(fmt.Sprintf("vector literal has %d elements, expected %d or 0 for a broadcast", len(ex.Elements), ex.Width), ast.Span(ex))
	}
	for _, el := range ex.Elements {
		vt, err := c.inferExpr(el, s, elem)
		if err != nil {
			return nil, err
		}
		if !compatible(vt, elem) {
			return nil, errors.TypeError(fmt.Sprintf("vector literal element has type %s, expected %s", vt, elem), ast.Span(el))
		}
	}
	if gateErr := c.Target.CheckVectorWidth(types.ElementBits(elem), ex.Width); gateErr != nil {
		return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
	}
	return types.Vector{Elem: elem, Width: ex.Width}, nil
}
