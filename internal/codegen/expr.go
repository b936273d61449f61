package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/checker"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// expr lowers e to an SSA value. hint is the concrete type the checker
// already resolved literals against (the checker's SetType already ran,
// so e.GetType() is normally authoritative; hint lets callers force a
// concrete literal materialization type in the rare case the checker
// left e untyped, e.g. a bare expression statement).
func (fb *funcBuilder) expr(e ast.Expression, hint types.Type) (value.Value, *errors.CompileError) {
	t := e.GetType()
	if t == nil {
		t = hint
	}

	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		return fb.intLiteral(ex, t), nil

	case *ast.FloatLiteral:
		return fb.floatLiteral(ex, t), nil

	case *ast.BoolLiteral:
		if ex.Value {
			return constant.True, nil
		}
		return constant.False, nil

	case *ast.StringLiteral:
		return fb.stringLiteral(ex.Value), nil

	case *ast.Identifier:
		return fb.identifier(ex)

	case *ast.UnaryExpression:
		return fb.unary(ex, t)

	case *ast.BinaryExpression:
		return fb.binary(ex, t)

	case *ast.CallExpression:
		return fb.call(ex, t)

	case *ast.IndexExpression:
		return fb.index(ex)

	case *ast.FieldAccessExpression:
		return fb.fieldAccess(ex)

	case *ast.StructLiteral:
		return fb.structLiteral(ex)

	case *ast.VectorLiteral:
		return fb.vectorLiteral(ex)

	case *ast.ArrayLiteral:
		return nil, fb.g.errf("array literal outside of shuffle() is not lowerable")

	default:
		return nil, fb.g.errf("unsupported expression %T", e)
	}
}

func (fb *funcBuilder) intLiteral(ex *ast.IntegerLiteral, t types.Type) value.Value {
	bits := 32
	if it, ok := t.(types.Int); ok {
		bits = it.Bits
	}
	v := int64(ex.Value)
	if ex.Negative {
		v = -v
	}
	return constant.NewInt(lltypes.NewInt(uint64(bits)), v)
}

func (fb *funcBuilder) floatLiteral(ex *ast.FloatLiteral, t types.Type) value.Value {
	v := ex.Value
	if ex.Negative {
		v = -v
	}
	if ft, ok := t.(types.Float); ok && ft.Bits == 32 {
		return constant.NewFloat(lltypes.Float, v)
	}
	return constant.NewFloat(lltypes.Double, v)
}

// stringLiteral emits a private, null-terminated global byte array and
// returns a pointer to its first element (§4.5 "strings are emitted as
// read-only null-terminated byte arrays and referenced by pointer").
func (fb *funcBuilder) stringLiteral(s string) value.Value {
	g := fb.g
	name := ".str"
	g.globalCount++
	data := constant.NewCharArrayFromString(s + "\x00")
	gv := g.module.NewGlobalDef(fname(name, g.globalCount), data)
	gv.Immutable = true
	zero := constant.NewInt(lltypes.I32, 0)
	return fb.cur.NewGetElementPtr(data.Type(), gv, zero, zero)
}

func fname(prefix string, n int) string {
	return prefix + "." + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (fb *funcBuilder) identifier(ex *ast.Identifier) (value.Value, *errors.CompileError) {
	if sl, ok := fb.slots[ex.Value]; ok {
		return fb.cur.NewLoad(fb.g.llType(sl.typ), sl.ptr), nil
	}
	if cv, ok := fb.g.checker.Consts[ex.Value]; ok {
		return constValue(cv, fb.g.llType(cv.Type)), nil
	}
	return nil, fb.g.errf("undefined name %q in codegen", ex.Value)
}

// constValue materializes a checker.ConstValue as a direct immediate
// (§8 testable property 7: "const inlining" — a const used as a value
// compiles to an immediate, never a load from a global).
func constValue(cv checker.ConstValue, llt lltypes.Type) value.Value {
	if cv.IsBool {
		if cv.Bool {
			return constant.True
		}
		return constant.False
	}
	if cv.IsFloat {
		if ft, ok := llt.(*lltypes.FloatType); ok {
			return constant.NewFloat(ft, cv.Float)
		}
		return constant.NewFloat(lltypes.Double, cv.Float)
	}
	if it, ok := llt.(*lltypes.IntType); ok {
		return constant.NewInt(it, cv.Int)
	}
	return constant.NewInt(lltypes.I32, cv.Int)
}

func (fb *funcBuilder) unary(ex *ast.UnaryExpression, t types.Type) (value.Value, *errors.CompileError) {
	rv, err := fb.expr(ex.Right, t)
	if err != nil {
		return nil, err
	}
	switch ex.Operator {
	case "!":
		return fb.cur.NewXor(rv, constant.True), nil
	case "-":
		rt := ex.Right.GetType()
		elem := rt
		if v, ok := rt.(types.Vector); ok {
			elem = v.Elem
		}
		if types.IsFloat(elem) {
			return fb.cur.NewFNeg(rv), nil
		}
		zero := zeroValue(fb.g.llType(rt))
		return fb.cur.NewSub(zero, rv), nil
	}
	return nil, fb.g.errf("unsupported unary operator %q", ex.Operator)
}

// icmpPred maps a comparison operator + signedness to the LLVM integer
// predicate.
func icmpPred(op string, signed bool) enum.IPred {
	switch op {
	case "==":
		return enum.IPredEQ
	case "!=":
		return enum.IPredNE
	case "<":
		if signed {
			return enum.IPredSLT
		}
		return enum.IPredULT
	case "<=":
		if signed {
			return enum.IPredSLE
		}
		return enum.IPredULE
	case ">":
		if signed {
			return enum.IPredSGT
		}
		return enum.IPredUGT
	case ">=":
		if signed {
			return enum.IPredSGE
		}
		return enum.IPredUGE
	default:
		return enum.IPredEQ
	}
}

func fcmpPred(op string) enum.FPred {
	switch op {
	case "==":
		return enum.FPredOEQ
	case "!=":
		return enum.FPredONE
	case "<":
		return enum.FPredOLT
	case "<=":
		return enum.FPredOLE
	case ">":
		return enum.FPredOGT
	case ">=":
		return enum.FPredOGE
	default:
		return enum.FPredOEQ
	}
}

func isSignedOperand(t types.Type) bool {
	switch tt := t.(type) {
	case types.Int:
		return tt.Signed
	case types.IntLiteral:
		return true
	case types.Vector:
		return isSignedOperand(tt.Elem)
	default:
		return true
	}
}
