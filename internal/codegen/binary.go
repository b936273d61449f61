package codegen

import (
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

func (fb *funcBuilder) binary(ex *ast.BinaryExpression, t types.Type) (value.Value, *errors.CompileError) {
	switch ex.Operator {
	case "&&", "||":
		return fb.shortCircuit(ex)
	}

	if strings.HasPrefix(ex.Operator, ".") {
		return fb.dottedBinary(ex)
	}

	lt := ex.Left.GetType()
	lv, err := fb.expr(ex.Left, lt)
	if err != nil {
		return nil, err
	}
	rv, err := fb.expr(ex.Right, lt)
	if err != nil {
		return nil, err
	}
	return fb.arith(ex.Operator, lv, rv, lt)
}

// arith emits the scalar instruction for a non-dotted binary operator,
// dispatching on integer vs. float and (for div/mod/shift) signed vs.
// unsigned, per §4.5 "Scalars".
func (fb *funcBuilder) arith(op string, l, r value.Value, operandType types.Type) (value.Value, *errors.CompileError) {
	isFloat := types.IsFloat(operandType)
	signed := isSignedOperand(operandType)
	b := fb.cur

	switch op {
	case "+":
		if isFloat {
			return b.NewFAdd(l, r), nil
		}
		return b.NewAdd(l, r), nil
	case "-":
		if isFloat {
			return b.NewFSub(l, r), nil
		}
		return b.NewSub(l, r), nil
	case "*":
		if isFloat {
			return b.NewFMul(l, r), nil
		}
		return b.NewMul(l, r), nil
	case "/":
		if isFloat {
			return b.NewFDiv(l, r), nil
		}
		if signed {
			return b.NewSDiv(l, r), nil
		}
		return b.NewUDiv(l, r), nil
	case "%":
		if isFloat {
			return b.NewFRem(l, r), nil
		}
		if signed {
			return b.NewSRem(l, r), nil
		}
		return b.NewURem(l, r), nil
	case "&":
		return b.NewAnd(l, r), nil
	case "|":
		return b.NewOr(l, r), nil
	case "^":
		return b.NewXor(l, r), nil
	case "<<":
		return b.NewShl(l, r), nil
	case ">>":
		if signed {
			return b.NewAShr(l, r), nil
		}
		return b.NewLShr(l, r), nil
	case "==", "!=", "<", "<=", ">", ">=":
		if isFloat {
			return b.NewFCmp(fcmpPred(op), l, r), nil
		}
		return b.NewICmp(icmpPred(op, signed), l, r), nil
	default:
		return nil, fb.g.errf("unsupported binary operator %q", op)
	}
}

// dottedBinary lowers the 13 elementwise vector operators (§4.5
// "Vectors" and §3's "dotted operator" family): the instruction is the
// vector form of the corresponding scalar op, and dotted comparisons
// produce boolxW instead of a scalar i1.
func (fb *funcBuilder) dottedBinary(ex *ast.BinaryExpression) (value.Value, *errors.CompileError) {
	vt, ok := ex.Left.GetType().(types.Vector)
	if !ok {
		return nil, fb.g.errf("dotted operator on non-vector left operand")
	}
	lv, err := fb.expr(ex.Left, vt)
	if err != nil {
		return nil, err
	}
	rv, err := fb.expr(ex.Right, vt)
	if err != nil {
		return nil, err
	}
	scalarOp := strings.TrimPrefix(ex.Operator, ".")
	return fb.arith(scalarOp, lv, rv, vt.Elem)
}

// shortCircuit lowers &&/|| via an explicit extra basic block and a
// phi-merge, per §4.5: "the only place the codegen introduces an
// explicit SSA merge; all other control flow uses stack slots + reloads."
func (fb *funcBuilder) shortCircuit(ex *ast.BinaryExpression) (value.Value, *errors.CompileError) {
	lv, err := fb.expr(ex.Left, types.Bool{})
	if err != nil {
		return nil, err
	}
	entryBlk := fb.cur

	rhsBlk := fb.f.NewBlock("")
	mergeBlk := fb.f.NewBlock("")

	if ex.Operator == "&&" {
		fb.terminate(func(b *ir.Block) { b.NewCondBr(lv, rhsBlk, mergeBlk) })
	} else {
		fb.terminate(func(b *ir.Block) { b.NewCondBr(lv, mergeBlk, rhsBlk) })
	}

	fb.pushBlock(rhsBlk)
	rv, err := fb.expr(ex.Right, types.Bool{})
	if err != nil {
		return nil, err
	}
	rhsEndBlk := fb.cur
	fb.terminate(func(b *ir.Block) { b.NewBr(mergeBlk) })

	fb.pushBlock(mergeBlk)
	shortValue := constant.False
	if ex.Operator == "||" {
		shortValue = constant.True
	}
	phi := fb.cur.NewPhi(
		ir.NewIncoming(shortValue, entryBlk),
		ir.NewIncoming(rv, rhsEndBlk),
	)
	return phi, nil
}
