package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// intrinsicNames is the closed dispatch table of §4.4: any call whose
// callee is not one of these is resolved against user-defined functions.
var intrinsicNames = map[string]bool{
	"println": true, "splat": true, "load": true, "store": true,
	"load_masked": true, "store_masked": true, "fma": true,
	"sqrt": true, "rsqrt": true,
	"reduce_add": true, "reduce_max": true, "reduce_min": true,
	"shuffle": true, "select": true,
	"widen_i8_f32x4": true, "widen_u8_f32x4": true, "narrow_f32x4_i8": true,
	"maddubs_i16": true, "maddubs_i32": true,
	"gather": true, "scatter": true, "prefetch": true,
	"to_f32": true, "to_f64": true, "to_i32": true, "to_i64": true,
}

func (c *Checker) inferCall(ex *ast.CallExpression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	if intrinsicNames[ex.Callee] {
		return c.inferIntrinsic(ex, s, hint)
	}
	sig, ok := c.Funcs[ex.Callee]
	if !ok {
		return nil, errors.TypeError(fmt.Sprintf("undefined function %q", ex.Callee), ast.Span(ex))
	}
	if len(ex.Args) != len(sig.Params) {
		return nil, errors.TypeError(fmt.Sprintf("%q expects %d argument(s), got %d", ex.Callee, len(sig.Params), len(ex.Args)), ast.Span(ex))
	}
	for i, arg := range ex.Args {
		want := sig.Params[i].Type
		at, err := c.inferExpr(arg, s, want)
		if err != nil {
			return nil, err
		}
		if !compatible(at, want) {
			return nil, errors.TypeError(fmt.Sprintf("%q argument %d: cannot use %s as %s", ex.Callee, i+1, at, want), ast.Span(arg))
		}
	}
	return sig.Return, nil
}

func (c *Checker) argc(ex *ast.CallExpression, n int) *errors.CompileError {
	if len(ex.Args) != n {
		return errors.TypeError(fmt.Sprintf("%q expects %d argument(s), got %d", ex.Callee, n, len(ex.Args)), ast.Span(ex))
	}
	return nil
}

func (c *Checker) inferIntrinsic(ex *ast.CallExpression, s *scope, hint types.Type) (types.Type, *errors.CompileError) {
	switch ex.Callee {
	case "println":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		if _, err := c.inferExpr(ex.Args[0], s, nil); err != nil {
			return nil, err
		}
		return types.Void{}, nil

	case "splat":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		elem := hintElem(hint)
		at, err := c.inferExpr(ex.Args[0], s, elem)
		if err != nil {
			return nil, err
		}
		if !types.IsNumeric(at) {
			return nil, errors.TypeError(fmt.Sprintf("splat requires a numeric scalar argument, got %s", at), ast.Span(ex.Args[0]))
		}
		if elem == nil {
			elem = defaultFor(at)
		}
		width := 4
		if v, ok := hint.(types.Vector); ok {
			width = v.Width
		}
		if gateErr := c.Target.CheckVectorWidth(types.ElementBits(elem), width); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Vector{Elem: elem, Width: width}, nil

	case "load":
		if err := c.argc(ex, 2); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !types.IsNumeric(ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("load requires a pointer to a numeric type, got %s", pt), ast.Span(ex.Args[0]))
		}
		if _, err := c.inferExpr(ex.Args[1], s, types.DefaultInt); err != nil {
			return nil, err
		}
		width := 4
		if v, ok := hint.(types.Vector); ok {
			width = v.Width
		}
		if gateErr := c.Target.CheckVectorWidth(types.ElementBits(ptr.Elem), width); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Vector{Elem: ptr.Elem, Width: width}, nil

	case "store":
		if err := c.argc(ex, 3); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !ptr.Mutable {
			return nil, errors.TypeError("store requires a mutable pointer"+errors.Hint("immutable-write"), ast.Span(ex.Args[0]))
		}
		if _, err := c.inferExpr(ex.Args[1], s, types.DefaultInt); err != nil {
			return nil, err
		}
		vt, err := c.inferExpr(ex.Args[2], s, types.Vector{Elem: ptr.Elem, Width: 4})
		if err != nil {
			return nil, err
		}
		vv, ok := vt.(types.Vector)
		if !ok || !compatible(vv.Elem, ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("store value elements must be compatible with pointee type %s, got %s", ptr.Elem, vt), ast.Span(ex.Args[2]))
		}
		return types.Void{}, nil

	case "load_masked":
		if err := c.argc(ex, 3); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !types.IsNumeric(ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("load_masked requires a pointer to a numeric type, got %s", pt), ast.Span(ex.Args[0]))
		}
		if _, err := c.inferExpr(ex.Args[1], s, types.DefaultInt); err != nil {
			return nil, err
		}
		if _, err := c.inferExpr(ex.Args[2], s, types.DefaultInt); err != nil {
			return nil, err
		}
		width := 4
		if v, ok := hint.(types.Vector); ok {
			width = v.Width
		}
		if gateErr := c.Target.CheckVectorWidth(types.ElementBits(ptr.Elem), width); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Vector{Elem: ptr.Elem, Width: width}, nil

	case "store_masked":
		if err := c.argc(ex, 4); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !ptr.Mutable {
			return nil, errors.TypeError("store_masked requires a mutable pointer"+errors.Hint("immutable-write"), ast.Span(ex.Args[0]))
		}
		if _, err := c.inferExpr(ex.Args[1], s, types.DefaultInt); err != nil {
			return nil, err
		}
		vt, err := c.inferExpr(ex.Args[2], s, types.Vector{Elem: ptr.Elem, Width: 4})
		if err != nil {
			return nil, err
		}
		vv, ok := vt.(types.Vector)
		if !ok || !compatible(vv.Elem, ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("store_masked value elements must be compatible with pointee type %s, got %s", ptr.Elem, vt), ast.Span(ex.Args[2]))
		}
		if _, err := c.inferExpr(ex.Args[3], s, types.DefaultInt); err != nil {
			return nil, err
		}
		return types.Void{}, nil

	case "fma":
		if err := c.argc(ex, 3); err != nil {
			return nil, err
		}
		var shape types.Vector
		for i, arg := range ex.Args {
			at, err := c.inferExpr(arg, s, hint)
			if err != nil {
				return nil, err
			}
			v, ok := at.(types.Vector)
			if !ok || !types.IsFloat(v.Elem) {
				return nil, errors.TypeError("fma requires three float vectors of the same shape"+errors.Hint("fma-integer"), ast.Span(arg))
			}
			if i == 0 {
				shape = v
			} else if v.Width != shape.Width || !v.Elem.Equal(shape.Elem) {
				return nil, errors.TypeError(fmt.Sprintf("fma operand %d has shape %s, expected %s", i+1, v, shape), ast.Span(arg))
			}
		}
		return shape, nil

	case "sqrt", "rsqrt":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		at, err := c.inferExpr(ex.Args[0], s, hint)
		if err != nil {
			return nil, err
		}
		if v, ok := at.(types.Vector); ok {
			if !types.IsFloat(v.Elem) {
				return nil, errors.TypeError(fmt.Sprintf("%s requires a float scalar or float vector, got %s", ex.Callee, at), ast.Span(ex.Args[0]))
			}
			return v, nil
		}
		if !types.IsFloat(at) {
			return nil, errors.TypeError(fmt.Sprintf("%s requires a float scalar or float vector, got %s", ex.Callee, at), ast.Span(ex.Args[0]))
		}
		return at, nil

	case "reduce_add", "reduce_max", "reduce_min":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		at, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		v, ok := at.(types.Vector)
		if !ok {
			return nil, errors.TypeError(fmt.Sprintf("%s requires a vector argument, got %s", ex.Callee, at), ast.Span(ex.Args[0]))
		}
		return v.Elem, nil

	case "shuffle":
		if err := c.argc(ex, 2); err != nil {
			return nil, err
		}
		vt, err := c.inferExpr(ex.Args[0], s, hint)
		if err != nil {
			return nil, err
		}
		v, ok := vt.(types.Vector)
		if !ok {
			return nil, errors.TypeError(fmt.Sprintf("shuffle requires a vector first argument, got %s", vt), ast.Span(ex.Args[0]))
		}
		al, ok := ex.Args[1].(*ast.ArrayLiteral)
		if !ok {
			return nil, errors.TypeError("shuffle's second argument must be an array literal of integer literal indices", ast.Span(ex.Args[1]))
		}
		for _, el := range al.Elements {
			lit, ok := el.(*ast.IntegerLiteral)
			if !ok || lit.Negative {
				return nil, errors.TypeError("shuffle indices must be non-negative integer literals", ast.Span(el))
			}
			if int(lit.Value) >= v.Width {
				return nil, errors.TypeError(fmt.Sprintf("shuffle index %d out of range for %s", lit.Value, v), ast.Span(el))
			}
			lit.SetType(types.DefaultInt)
		}
		al.SetType(v)
		return v, nil

	case "select":
		if err := c.argc(ex, 3); err != nil {
			return nil, err
		}
		mt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		mv, ok := mt.(types.Vector)
		if !ok || !mv.Elem.Equal(types.Bool{}) {
			return nil, errors.TypeError(fmt.Sprintf("select's first argument must be a boolxW mask, got %s"+errors.Hint("select-mask"), mt), ast.Span(ex.Args[0]))
		}
		at, err := c.inferExpr(ex.Args[1], s, hint)
		if err != nil {
			return nil, err
		}
		av, ok := at.(types.Vector)
		if !ok || av.Width != mv.Width {
			return nil, errors.TypeError(fmt.Sprintf("select mask width %d must equal operand width, got %s"+errors.Hint("select-mask"), mv.Width, at), ast.Span(ex.Args[1]))
		}
		bt, err := c.inferExpr(ex.Args[2], s, av)
		if err != nil {
			return nil, err
		}
		if !compatible(bt, av) {
			return nil, errors.TypeError(fmt.Sprintf("select operands must match, got %s and %s", av, bt), ast.Span(ex.Args[2]))
		}
		return av, nil

	case "widen_i8_f32x4", "widen_u8_f32x4":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		wantSigned := ex.Callee == "widen_i8_f32x4"
		want := types.Vector{Elem: types.Int{Bits: 8, Signed: wantSigned}, Width: 16}
		at, err := c.inferExpr(ex.Args[0], s, want)
		if err != nil {
			return nil, err
		}
		if !at.Equal(want) {
			return nil, errors.TypeError(fmt.Sprintf("%s requires %s, got %s", ex.Callee, want, at), ast.Span(ex.Args[0]))
		}
		return types.Vector{Elem: types.F32, Width: 4}, nil

	case "narrow_f32x4_i8":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		want := types.Vector{Elem: types.F32, Width: 4}
		at, err := c.inferExpr(ex.Args[0], s, want)
		if err != nil {
			return nil, err
		}
		if !at.Equal(want) {
			return nil, errors.TypeError(fmt.Sprintf("narrow_f32x4_i8 requires %s, got %s", want, at), ast.Span(ex.Args[0]))
		}
		return types.Vector{Elem: types.I8, Width: 16}, nil

	case "maddubs_i16", "maddubs_i32":
		if err := c.argc(ex, 2); err != nil {
			return nil, err
		}
		wantA := types.Vector{Elem: types.U8, Width: 16}
		wantB := types.Vector{Elem: types.I8, Width: 16}
		at, err := c.inferExpr(ex.Args[0], s, wantA)
		if err != nil {
			return nil, err
		}
		if !at.Equal(wantA) {
			return nil, errors.TypeError(fmt.Sprintf("%s requires first argument %s, got %s", ex.Callee, wantA, at), ast.Span(ex.Args[0]))
		}
		bt, err := c.inferExpr(ex.Args[1], s, wantB)
		if err != nil {
			return nil, err
		}
		if !bt.Equal(wantB) {
			return nil, errors.TypeError(fmt.Sprintf("%s requires second argument %s, got %s", ex.Callee, wantB, bt), ast.Span(ex.Args[1]))
		}
		if ex.Callee == "maddubs_i32" {
			if gateErr := c.Target.CheckIntrinsic(ex.Callee); gateErr != nil {
				return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
			}
			return types.Vector{Elem: types.I32, Width: 4}, nil
		}
		if gateErr := c.Target.CheckIntrinsic(ex.Callee); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Vector{Elem: types.I16, Width: 8}, nil

	case "gather":
		if err := c.argc(ex, 2); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !types.IsNumeric(ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("gather requires a pointer to a numeric type, got %s", pt), ast.Span(ex.Args[0]))
		}
		it, err := c.inferExpr(ex.Args[1], s, nil)
		if err != nil {
			return nil, err
		}
		iv, ok := it.(types.Vector)
		if !ok || !types.IsInteger(iv.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("gather requires an integer index vector, got %s", it), ast.Span(ex.Args[1]))
		}
		if gateErr := c.Target.CheckIntrinsic("gather"); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Vector{Elem: ptr.Elem, Width: iv.Width}, nil

	case "scatter":
		if err := c.argc(ex, 3); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		ptr, ok := pt.(types.Pointer)
		if !ok || !ptr.Mutable {
			return nil, errors.TypeError("scatter requires a mutable pointer"+errors.Hint("immutable-write"), ast.Span(ex.Args[0]))
		}
		it, err := c.inferExpr(ex.Args[1], s, nil)
		if err != nil {
			return nil, err
		}
		iv, ok := it.(types.Vector)
		if !ok || !types.IsInteger(iv.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("scatter requires an integer index vector, got %s", it), ast.Span(ex.Args[1]))
		}
		vt, err := c.inferExpr(ex.Args[2], s, types.Vector{Elem: ptr.Elem, Width: iv.Width})
		if err != nil {
			return nil, err
		}
		vv, ok := vt.(types.Vector)
		if !ok || vv.Width != iv.Width || !compatible(vv.Elem, ptr.Elem) {
			return nil, errors.TypeError(fmt.Sprintf("scatter value vector must be %s of width %d, got %s", ptr.Elem, iv.Width, vt), ast.Span(ex.Args[2]))
		}
		if gateErr := c.Target.CheckIntrinsic("scatter"); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(ex))
		}
		return types.Void{}, nil

	case "prefetch":
		if err := c.argc(ex, 2); err != nil {
			return nil, err
		}
		pt, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		if _, ok := pt.(types.Pointer); !ok {
			return nil, errors.TypeError(fmt.Sprintf("prefetch requires a pointer, got %s", pt), ast.Span(ex.Args[0]))
		}
		if _, err := c.inferExpr(ex.Args[1], s, types.DefaultInt); err != nil {
			return nil, err
		}
		return types.Void{}, nil

	case "to_f32", "to_f64", "to_i32", "to_i64":
		if err := c.argc(ex, 1); err != nil {
			return nil, err
		}
		at, err := c.inferExpr(ex.Args[0], s, nil)
		if err != nil {
			return nil, err
		}
		if !types.IsNumeric(at) {
			return nil, errors.TypeError(fmt.Sprintf("%s requires a numeric argument, got %s", ex.Callee, at), ast.Span(ex.Args[0]))
		}
		switch ex.Callee {
		case "to_f32":
			return types.F32, nil
		case "to_f64":
			return types.F64, nil
		case "to_i32":
			return types.I32, nil
		default:
			return types.I64, nil
		}

	default:
		return nil, errors.TypeError(fmt.Sprintf("unrecognized intrinsic %q", ex.Callee), ast.Span(ex))
	}
}

// hintElem extracts the element type from a vector type hint, or nil.
func hintElem(hint types.Type) types.Type {
	if v, ok := hint.(types.Vector); ok {
		return v.Elem
	}
	return nil
}

func defaultFor(t types.Type) types.Type {
	if types.IsInteger(t) {
		return types.DefaultInt
	}
	return types.DefaultFloat
}
