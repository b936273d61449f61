package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
)

// evalConst implements the constant evaluator of §4.4: integer/float/bool
// literals, referenced const names, unary !/-, and binary
// arithmetic/comparison/logical operators, purely on AST nodes. It is used
// for const-initializer evaluation, static_assert, and nowhere else —
// never for runtime code paths.
func (c *Checker) evalConst(e ast.Expression) (ConstValue, *errors.CompileError) {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		v := int64(ex.Value)
		if ex.Negative {
			v = -v
		}
		return ConstValue{Int: v}, nil

	case *ast.FloatLiteral:
		v := ex.Value
		if ex.Negative {
			v = -v
		}
		return ConstValue{Float: v, IsFloat: true}, nil

	case *ast.BoolLiteral:
		return ConstValue{Bool: ex.Value, IsBool: true}, nil

	case *ast.Identifier:
		if v, ok := c.Consts[ex.Value]; ok {
			return v, nil
		}
		return ConstValue{}, errors.TypeError(fmt.Sprintf("%q is not a compile-time constant", ex.Value), ast.Span(ex))

	case *ast.UnaryExpression:
		v, err := c.evalConst(ex.Right)
		if err != nil {
			return ConstValue{}, err
		}
		switch ex.Operator {
		case "-":
			if v.IsBool {
				return ConstValue{}, errors.TypeError("cannot negate a boolean constant", ast.Span(ex))
			}
			if v.IsFloat {
				return ConstValue{Float: -v.Float, IsFloat: true}, nil
			}
			return ConstValue{Int: -v.Int}, nil
		case "!":
			if !v.IsBool {
				return ConstValue{}, errors.TypeError("'!' requires a boolean constant", ast.Span(ex))
			}
			return ConstValue{Bool: !v.Bool, IsBool: true}, nil
		}
		return ConstValue{}, errors.TypeError(fmt.Sprintf("unsupported constant unary operator %q", ex.Operator), ast.Span(ex))

	case *ast.BinaryExpression:
		return c.evalConstBinary(ex)

	default:
		return ConstValue{}, errors.TypeError("expression is not a compile-time constant", ast.Span(e))
	}
}

func (c *Checker) evalConstBinary(ex *ast.BinaryExpression) (ConstValue, *errors.CompileError) {
	l, err := c.evalConst(ex.Left)
	if err != nil {
		return ConstValue{}, err
	}
	r, err := c.evalConst(ex.Right)
	if err != nil {
		return ConstValue{}, err
	}

	if l.IsBool || r.IsBool {
		if !l.IsBool || !r.IsBool {
			return ConstValue{}, errors.TypeError("cannot mix boolean and numeric constants", ast.Span(ex))
		}
		switch ex.Operator {
		case "&&":
			return ConstValue{Bool: l.Bool && r.Bool, IsBool: true}, nil
		case "||":
			return ConstValue{Bool: l.Bool || r.Bool, IsBool: true}, nil
		case "==":
			return ConstValue{Bool: l.Bool == r.Bool, IsBool: true}, nil
		case "!=":
			return ConstValue{Bool: l.Bool != r.Bool, IsBool: true}, nil
		default:
			return ConstValue{}, errors.TypeError(fmt.Sprintf("operator %q is not valid between boolean constants", ex.Operator), ast.Span(ex))
		}
	}

	// Mixed int/float folds to float (§4.4).
	useFloat := l.IsFloat || r.IsFloat
	var lf, rf float64
	var li, ri int64
	if useFloat {
		lf, rf = asFloat(l), asFloat(r)
	} else {
		li, ri = l.Int, r.Int
	}

	switch ex.Operator {
	case "+":
		if useFloat {
			return ConstValue{Float: lf + rf, IsFloat: true}, nil
		}
		return ConstValue{Int: li + ri}, nil
	case "-":
		if useFloat {
			return ConstValue{Float: lf - rf, IsFloat: true}, nil
		}
		return ConstValue{Int: li - ri}, nil
	case "*":
		if useFloat {
			return ConstValue{Float: lf * rf, IsFloat: true}, nil
		}
		return ConstValue{Int: li * ri}, nil
	case "/":
		if useFloat {
			return ConstValue{Float: lf / rf, IsFloat: true}, nil
		}
		if ri == 0 {
			return ConstValue{}, errors.TypeError("division by zero in constant expression", ast.Span(ex))
		}
		return ConstValue{Int: li / ri}, nil
	case "%":
		if useFloat {
			return ConstValue{}, errors.TypeError("'%' requires integer constants", ast.Span(ex))
		}
		if ri == 0 {
			return ConstValue{}, errors.TypeError("modulo by zero in constant expression", ast.Span(ex))
		}
		return ConstValue{Int: li % ri}, nil
	case "<", "<=", ">", ">=", "==", "!=":
		var b bool
		if useFloat {
			b = compareFloat(lf, rf, ex.Operator)
		} else {
			b = compareInt(li, ri, ex.Operator)
		}
		return ConstValue{Bool: b, IsBool: true}, nil
	default:
		return ConstValue{}, errors.TypeError(fmt.Sprintf("operator %q is not valid in a constant expression", ex.Operator), ast.Span(ex))
	}
}

func asFloat(v ConstValue) float64 {
	if v.IsFloat {
		return v.Float
	}
	return float64(v.Int)
}

func compareFloat(l, r float64, op string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "==":
		return l == r
	case "!=":
		return l != r
	}
	return false
}

func compareInt(l, r int64, op string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "==":
		return l == r
	case "!=":
		return l != r
	}
	return false
}
