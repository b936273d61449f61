package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// call lowers a call expression: the closed intrinsic family of §4.4 is
// dispatched here by name; everything else is a user-defined function
// call.
func (fb *funcBuilder) call(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	switch ex.Callee {
	case "println":
		return fb.callPrintln(ex)
	case "splat":
		return fb.callSplat(ex, t)
	case "load":
		return fb.callLoad(ex, t)
	case "store":
		return fb.callStore(ex)
	case "load_masked":
		return fb.callLoadMasked(ex, t)
	case "store_masked":
		return fb.callStoreMasked(ex)
	case "fma":
		return fb.callFma(ex, t)
	case "sqrt":
		return fb.callSqrt(ex, t, false)
	case "rsqrt":
		return fb.callSqrt(ex, t, true)
	case "reduce_add", "reduce_max", "reduce_min":
		return fb.callReduce(ex)
	case "shuffle":
		return fb.callShuffle(ex)
	case "select":
		return fb.callSelect(ex)
	case "widen_i8_f32x4", "widen_u8_f32x4":
		return fb.callWiden(ex)
	case "narrow_f32x4_i8":
		return fb.callNarrow(ex)
	case "maddubs_i16", "maddubs_i32":
		return fb.callMaddubs(ex)
	case "gather":
		return fb.callGather(ex, t)
	case "scatter":
		return fb.callScatter(ex)
	case "prefetch":
		return fb.callPrefetch(ex)
	case "to_f32":
		return fb.callConvert(ex, types.F32)
	case "to_f64":
		return fb.callConvert(ex, types.F64)
	case "to_i32":
		return fb.callConvert(ex, types.I32)
	case "to_i64":
		return fb.callConvert(ex, types.I64)
	default:
		return fb.callUser(ex)
	}
}

func (fb *funcBuilder) callUser(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	sig := fb.g.checker.Funcs[ex.Callee]
	f := fb.g.funcs[ex.Callee]
	args := make([]value.Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := fb.expr(a, sig.Params[i].Type)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	call := fb.cur.NewCall(f, args...)
	if _, ok := sig.Return.(types.Void); ok {
		return constant.NewInt(lltypes.I1, 0), nil
	}
	return call, nil
}

func typeMangle(t types.Type) string {
	switch tt := t.(type) {
	case types.Int:
		return fmt.Sprintf("i%d", tt.Bits)
	case types.Float:
		if tt.Bits == 32 {
			return "f32"
		}
		return "f64"
	case types.Bool:
		return "i1"
	default:
		return "i32"
	}
}

func vecMangle(vt types.Vector) string {
	return fmt.Sprintf("v%d%s", vt.Width, typeMangle(vt.Elem))
}

// splatVector broadcasts a scalar to every lane via insert-then-shuffle,
// the standard LLVM idiom for a splat (§4.5 "splat").
func (fb *funcBuilder) splatVector(scalar value.Value, vt types.Vector) value.Value {
	llvt := fb.g.llType(vt).(*lltypes.VectorType)
	undef := constant.NewUndef(llvt)
	one := fb.cur.NewInsertElement(undef, scalar, constant.NewInt(lltypes.I32, 0))
	maskElems := make([]constant.Constant, vt.Width)
	for i := range maskElems {
		maskElems[i] = constant.NewInt(lltypes.I32, 0)
	}
	mask := constant.NewVector(maskElems...)
	return fb.cur.NewShuffleVector(one, undef, mask)
}

func (fb *funcBuilder) callPrintln(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	at := ex.Args[0].GetType()
	v, err := fb.expr(ex.Args[0], at)
	if err != nil {
		return nil, err
	}

	switch tt := at.(type) {
	case types.String:
		fn := fb.g.extern("ea_println_str", lltypes.Void, lltypes.NewPointer(lltypes.I8))
		fb.cur.NewCall(fn, v)
	case types.Bool:
		fn := fb.g.extern("ea_println_bool", lltypes.Void, lltypes.I1)
		fb.cur.NewCall(fn, v)
	case types.Int:
		ext := v
		if tt.Bits < 64 {
			if tt.Signed {
				ext = fb.cur.NewSExt(v, lltypes.I64)
			} else {
				ext = fb.cur.NewZExt(v, lltypes.I64)
			}
		}
		fn := fb.g.extern("ea_println_i64", lltypes.Void, lltypes.I64)
		fb.cur.NewCall(fn, ext)
	case types.Float:
		ext := v
		if tt.Bits == 32 {
			ext = fb.cur.NewFPExt(v, lltypes.Double)
		}
		fn := fb.g.extern("ea_println_f64", lltypes.Void, lltypes.Double)
		fb.cur.NewCall(fn, ext)
	case types.Vector:
		sl := fb.alloca(tt, "")
		fb.cur.NewStore(v, sl.ptr)
		bytePtr := fb.cur.NewBitCast(sl.ptr, lltypes.NewPointer(lltypes.I8))
		fn := fb.g.extern("ea_println_vec", lltypes.Void, lltypes.NewPointer(lltypes.I8), lltypes.I32, lltypes.I32, lltypes.I1)
		isFloat := constant.False
		if types.IsFloat(tt.Elem) {
			isFloat = constant.True
		}
		fb.cur.NewCall(fn, bytePtr,
			constant.NewInt(lltypes.I32, int64(types.ElementBits(tt.Elem))),
			constant.NewInt(lltypes.I32, int64(tt.Width)),
			isFloat)
	default:
		return nil, fb.g.errf("println: unsupported argument type %s", at)
	}
	return constant.NewInt(lltypes.I1, 0), nil
}

func (fb *funcBuilder) callSplat(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	vt := t.(types.Vector)
	v, err := fb.expr(ex.Args[0], vt.Elem)
	if err != nil {
		return nil, err
	}
	return fb.splatVector(v, vt), nil
}

// vectorPointer bitcasts a pointer-to-element address to a pointer to the
// corresponding vector type.
func (fb *funcBuilder) vectorPointer(elemPtr value.Value, vt types.Vector) value.Value {
	llvt := fb.g.llType(vt)
	return fb.cur.NewBitCast(elemPtr, lltypes.NewPointer(llvt))
}

func (fb *funcBuilder) callLoad(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	vt := t.(types.Vector)
	ptr, err := fb.expr(ex.Args[0], nil)
	if err != nil {
		return nil, err
	}
	idx, err := fb.expr(ex.Args[1], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(vt.Elem), ptr, idx)
	vp := fb.vectorPointer(addr, vt)
	return fb.cur.NewLoad(fb.g.llType(vt), vp), nil
}

func (fb *funcBuilder) callStore(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	pt := ex.Args[0].GetType().(types.Pointer)
	ptr, err := fb.expr(ex.Args[0], pt)
	if err != nil {
		return nil, err
	}
	idx, err := fb.expr(ex.Args[1], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	vt := ex.Args[2].GetType().(types.Vector)
	vv, err := fb.expr(ex.Args[2], vt)
	if err != nil {
		return nil, err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(pt.Elem), ptr, idx)
	vp := fb.vectorPointer(addr, vt)
	fb.cur.NewStore(vv, vp)
	return constant.NewInt(lltypes.I1, 0), nil
}

// laneMask builds the i1xW mask used by load_masked/store_masked: lane i
// is active when i < count.
func (fb *funcBuilder) laneMask(width int, count value.Value) value.Value {
	laneElems := make([]constant.Constant, width)
	for i := range laneElems {
		laneElems[i] = constant.NewInt(lltypes.I32, int64(i))
	}
	lanes := constant.NewVector(laneElems...)
	countVec := fb.splatVector(count, types.Vector{Elem: types.I32, Width: width})
	return fb.cur.NewICmp(icmpPred("<", true), lanes, countVec)
}

func (fb *funcBuilder) callLoadMasked(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	vt := t.(types.Vector)
	ptr, err := fb.expr(ex.Args[0], nil)
	if err != nil {
		return nil, err
	}
	idx, err := fb.expr(ex.Args[1], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	count, err := fb.expr(ex.Args[2], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(vt.Elem), ptr, idx)
	vp := fb.vectorPointer(addr, vt)
	mask := fb.laneMask(vt.Width, count)
	llvt := fb.g.llType(vt)
	align := types.ElementBits(vt.Elem) / 8
	name := fmt.Sprintf("llvm.masked.load.%s.p0", vecMangle(vt))
	fn := fb.g.extern(name, llvt, lltypes.NewPointer(llvt), lltypes.I32, mask.Type(), llvt)
	passthru := constant.NewZeroInitializer(llvt.(*lltypes.VectorType))
	return fb.cur.NewCall(fn, vp, constant.NewInt(lltypes.I32, int64(align)), mask, passthru), nil
}

func (fb *funcBuilder) callStoreMasked(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	pt := ex.Args[0].GetType().(types.Pointer)
	ptr, err := fb.expr(ex.Args[0], pt)
	if err != nil {
		return nil, err
	}
	idx, err := fb.expr(ex.Args[1], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	vt := ex.Args[2].GetType().(types.Vector)
	vv, err := fb.expr(ex.Args[2], vt)
	if err != nil {
		return nil, err
	}
	count, err := fb.expr(ex.Args[3], types.DefaultInt)
	if err != nil {
		return nil, err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(pt.Elem), ptr, idx)
	vp := fb.vectorPointer(addr, vt)
	mask := fb.laneMask(vt.Width, count)
	llvt := fb.g.llType(vt)
	align := types.ElementBits(vt.Elem) / 8
	name := fmt.Sprintf("llvm.masked.store.%s.p0", vecMangle(vt))
	fn := fb.g.extern(name, lltypes.Void, llvt, lltypes.NewPointer(llvt), lltypes.I32, mask.Type())
	fb.cur.NewCall(fn, vv, vp, constant.NewInt(lltypes.I32, int64(align)), mask)
	return constant.NewInt(lltypes.I1, 0), nil
}

func (fb *funcBuilder) callFma(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	vt := t.(types.Vector)
	args := make([]value.Value, 3)
	for i := 0; i < 3; i++ {
		v, err := fb.expr(ex.Args[i], vt)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	llvt := fb.g.llType(vt)
	name := fmt.Sprintf("llvm.fma.%s", vecMangle(vt))
	fn := fb.g.extern(name, llvt, llvt, llvt, llvt)
	return fb.cur.NewCall(fn, args[0], args[1], args[2]), nil
}

func (fb *funcBuilder) callSqrt(ex *ast.CallExpression, t types.Type, reciprocal bool) (value.Value, *errors.CompileError) {
	v, err := fb.expr(ex.Args[0], t)
	if err != nil {
		return nil, err
	}
	llt := fb.g.llType(t)
	var name string
	if vt, ok := t.(types.Vector); ok {
		name = fmt.Sprintf("llvm.sqrt.%s", vecMangle(vt))
	} else {
		name = fmt.Sprintf("llvm.sqrt.%s", typeMangle(t))
	}
	fn := fb.g.extern(name, llt, llt)
	s := fb.cur.NewCall(fn, v)
	if !reciprocal {
		return s, nil
	}
	one := fb.oneValue(t)
	return fb.cur.NewFDiv(one, s), nil
}

// oneValue materializes the scalar or splatted-vector constant 1.0 at
// type t, used by rsqrt's 1/sqrt(x) lowering.
func (fb *funcBuilder) oneValue(t types.Type) value.Value {
	if vt, ok := t.(types.Vector); ok {
		return fb.splatVector(fb.oneValue(vt.Elem), vt)
	}
	if ft, ok := fb.g.llType(t).(*lltypes.FloatType); ok {
		return constant.NewFloat(ft, 1)
	}
	return constant.NewFloat(lltypes.Double, 1)
}

func (fb *funcBuilder) callReduce(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	vt := ex.Args[0].GetType().(types.Vector)
	v, err := fb.expr(ex.Args[0], vt)
	if err != nil {
		return nil, err
	}
	elemLL := fb.g.llType(vt.Elem)
	isFloat := types.IsFloat(vt.Elem)
	signed := isSignedOperand(vt.Elem)

	var opName string
	switch ex.Callee {
	case "reduce_add":
		if isFloat {
			opName = "fadd"
		} else {
			opName = "add"
		}
	case "reduce_max":
		if isFloat {
			opName = "fmax"
		} else if signed {
			opName = "smax"
		} else {
			opName = "umax"
		}
	case "reduce_min":
		if isFloat {
			opName = "fmin"
		} else if signed {
			opName = "smin"
		} else {
			opName = "umin"
		}
	}

	name := fmt.Sprintf("llvm.vector.reduce.%s.%s", opName, vecMangle(vt))
	if opName == "fadd" {
		// llvm.vector.reduce.fadd takes a start accumulator operand to
		// keep the reduction a strict, in-order sum (no reassociation
		// without fast-math flags, matching §9's "reduce_add is exact
		// left-to-right").
		fn := fb.g.extern(name, elemLL, elemLL, fb.g.llType(vt))
		return fb.cur.NewCall(fn, constant.NewFloat(elemLL.(*lltypes.FloatType), 0), v), nil
	}
	fn := fb.g.extern(name, elemLL, fb.g.llType(vt))
	return fb.cur.NewCall(fn, v), nil
}

func (fb *funcBuilder) callShuffle(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	vt := ex.Args[0].GetType().(types.Vector)
	v, err := fb.expr(ex.Args[0], vt)
	if err != nil {
		return nil, err
	}
	al := ex.Args[1].(*ast.ArrayLiteral)
	maskElems := make([]constant.Constant, len(al.Elements))
	for i, el := range al.Elements {
		lit := el.(*ast.IntegerLiteral)
		maskElems[i] = constant.NewInt(lltypes.I32, int64(lit.Value))
	}
	mask := constant.NewVector(maskElems...)
	undef := constant.NewUndef(fb.g.llType(vt))
	return fb.cur.NewShuffleVector(v, undef, mask), nil
}

func (fb *funcBuilder) callSelect(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	mt := ex.Args[0].GetType().(types.Vector)
	mask, err := fb.expr(ex.Args[0], mt)
	if err != nil {
		return nil, err
	}
	at := ex.Args[1].GetType().(types.Vector)
	a, err := fb.expr(ex.Args[1], at)
	if err != nil {
		return nil, err
	}
	b, err := fb.expr(ex.Args[2], at)
	if err != nil {
		return nil, err
	}
	return fb.cur.NewSelect(mask, a, b), nil
}

// callWiden lowers widen_i8_f32x4/widen_u8_f32x4: take the low 4 lanes of
// a 16-wide byte vector and convert them to f32x4 (§4.5 "Widen / narrow").
func (fb *funcBuilder) callWiden(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	signed := ex.Callee == "widen_i8_f32x4"
	srcElem := types.Int{Bits: 8, Signed: signed}
	src := types.Vector{Elem: srcElem, Width: 16}
	v, err := fb.expr(ex.Args[0], src)
	if err != nil {
		return nil, err
	}
	mask := constant.NewVector(
		constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, 1),
		constant.NewInt(lltypes.I32, 2), constant.NewInt(lltypes.I32, 3),
	)
	undef := constant.NewUndef(fb.g.llType(src))
	sub := fb.cur.NewShuffleVector(v, undef, mask)
	f32x4 := fb.g.llType(types.Vector{Elem: types.F32, Width: 4})
	if signed {
		return fb.cur.NewSIToFP(sub, f32x4), nil
	}
	return fb.cur.NewUIToFP(sub, f32x4), nil
}

// callNarrow lowers narrow_f32x4_i8: a saturating float-to-i8 conversion
// (§8 testable property 10: "narrow_f32x4_i8 = sat_i8(...)") via LLVM's
// saturating conversion intrinsic, then widened into an i8x16 whose
// upper 12 lanes are poison (the caller only reads the low 4 lanes back).
func (fb *funcBuilder) callNarrow(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	src := types.Vector{Elem: types.F32, Width: 4}
	v, err := fb.expr(ex.Args[0], src)
	if err != nil {
		return nil, err
	}
	i8x4 := fb.g.llType(types.Vector{Elem: types.I8, Width: 4})
	satFn := fb.g.extern("llvm.fptosi.sat.v4i8.v4f32", i8x4, fb.g.llType(src))
	truncated := fb.cur.NewCall(satFn, v)

	maskElems := []constant.Constant{
		constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, 1),
		constant.NewInt(lltypes.I32, 2), constant.NewInt(lltypes.I32, 3),
	}
	for i := 4; i < 16; i++ {
		maskElems = append(maskElems, constant.NewUndef(lltypes.I32))
	}
	mask := constant.NewVector(maskElems...)
	undef := constant.NewUndef(i8x4)
	return fb.cur.NewShuffleVector(truncated, undef, mask), nil
}

// callMaddubs lowers maddubs_i16/maddubs_i32 via the x86 SSSE3/SSE2
// multiply-add pair (§4.5 "two-step lowering"): pmaddubsw first produces
// the i16x8 result directly used by maddubs_i16; maddubs_i32 feeds that
// through pmaddwd against an all-ones i16x8 to widen to i32x4.
func (fb *funcBuilder) callMaddubs(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	wantA := types.Vector{Elem: types.U8, Width: 16}
	wantB := types.Vector{Elem: types.I8, Width: 16}
	a, err := fb.expr(ex.Args[0], wantA)
	if err != nil {
		return nil, err
	}
	b, err := fb.expr(ex.Args[1], wantB)
	if err != nil {
		return nil, err
	}
	v16i8 := fb.g.llType(wantA)
	v8i16 := fb.g.llType(types.Vector{Elem: types.I16, Width: 8})
	pmaddubsw := fb.g.extern("llvm.x86.ssse3.pmadd.ub.sw.128", v8i16, v16i8, v16i8)
	i16 := fb.cur.NewCall(pmaddubsw, a, b)
	if ex.Callee == "maddubs_i16" {
		return i16, nil
	}

	ones := fb.splatVector(constant.NewInt(lltypes.NewInt(16), 1), types.Vector{Elem: types.I16, Width: 8})
	v4i32 := fb.g.llType(types.Vector{Elem: types.I32, Width: 4})
	pmaddwd := fb.g.extern("llvm.x86.sse2.pmadd.wd", v4i32, v8i16, v8i16)
	return fb.cur.NewCall(pmaddwd, i16, ones), nil
}

func (fb *funcBuilder) callGather(ex *ast.CallExpression, t types.Type) (value.Value, *errors.CompileError) {
	vt := t.(types.Vector)
	ptr, err := fb.expr(ex.Args[0], nil)
	if err != nil {
		return nil, err
	}
	iv := ex.Args[1].GetType().(types.Vector)
	idx, err := fb.expr(ex.Args[1], iv)
	if err != nil {
		return nil, err
	}
	ptrsVec := fb.cur.NewGetElementPtr(fb.g.llType(vt.Elem), ptr, idx)
	llvt := fb.g.llType(vt)
	align := types.ElementBits(vt.Elem) / 8
	maskElems := make([]constant.Constant, vt.Width)
	for i := range maskElems {
		maskElems[i] = constant.True
	}
	mask := constant.NewVector(maskElems...)
	passthru := constant.NewZeroInitializer(llvt.(*lltypes.VectorType))
	name := fmt.Sprintf("llvm.masked.gather.%s.%s", vecMangle(vt), vecMangle(iv))
	fn := fb.g.extern(name, llvt, ptrsVec.Type(), lltypes.I32, mask.Type(), llvt)
	return fb.cur.NewCall(fn, ptrsVec, constant.NewInt(lltypes.I32, int64(align)), mask, passthru), nil
}

func (fb *funcBuilder) callScatter(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	pt := ex.Args[0].GetType().(types.Pointer)
	ptr, err := fb.expr(ex.Args[0], pt)
	if err != nil {
		return nil, err
	}
	iv := ex.Args[1].GetType().(types.Vector)
	idx, err := fb.expr(ex.Args[1], iv)
	if err != nil {
		return nil, err
	}
	vt := types.Vector{Elem: pt.Elem, Width: iv.Width}
	vv, err := fb.expr(ex.Args[2], vt)
	if err != nil {
		return nil, err
	}
	ptrsVec := fb.cur.NewGetElementPtr(fb.g.llType(pt.Elem), ptr, idx)
	llvt := fb.g.llType(vt)
	align := types.ElementBits(vt.Elem) / 8
	maskElems := make([]constant.Constant, vt.Width)
	for i := range maskElems {
		maskElems[i] = constant.True
	}
	mask := constant.NewVector(maskElems...)
	name := fmt.Sprintf("llvm.masked.scatter.%s.%s", vecMangle(vt), vecMangle(iv))
	fn := fb.g.extern(name, lltypes.Void, llvt, ptrsVec.Type(), lltypes.I32, mask.Type())
	fb.cur.NewCall(fn, vv, ptrsVec, constant.NewInt(lltypes.I32, int64(align)), mask)
	return constant.NewInt(lltypes.I1, 0), nil
}

// callPrefetch lowers prefetch(ptr, locality) to llvm.prefetch with
// rw=read, cache=data (§4.5 "prefetch is read/data only").
func (fb *funcBuilder) callPrefetch(ex *ast.CallExpression) (value.Value, *errors.CompileError) {
	ptr, err := fb.expr(ex.Args[0], nil)
	if err != nil {
		return nil, err
	}
	locality, err := fb.expr(ex.Args[1], types.I32)
	if err != nil {
		return nil, err
	}
	bytePtr := fb.cur.NewBitCast(ptr, lltypes.NewPointer(lltypes.I8))
	fn := fb.g.extern("llvm.prefetch.p0", lltypes.Void, lltypes.NewPointer(lltypes.I8), lltypes.I32, lltypes.I32, lltypes.I32)
	fb.cur.NewCall(fn, bytePtr, constant.NewInt(lltypes.I32, 0), locality, constant.NewInt(lltypes.I32, 1))
	return constant.NewInt(lltypes.I1, 0), nil
}

func (fb *funcBuilder) callConvert(ex *ast.CallExpression, to types.Type) (value.Value, *errors.CompileError) {
	at := ex.Args[0].GetType()
	v, err := fb.expr(ex.Args[0], at)
	if err != nil {
		return nil, err
	}
	toLL := fb.g.llType(to)
	fromFloat := types.IsFloat(at)
	toFloat := types.IsFloat(to)

	switch {
	case fromFloat && toFloat:
		if ft, ok := to.(types.Float); ok && ft.Bits == 32 {
			return fb.cur.NewFPTrunc(v, toLL), nil
		}
		return fb.cur.NewFPExt(v, toLL), nil
	case fromFloat && !toFloat:
		return fb.cur.NewFPToSI(v, toLL), nil
	case !fromFloat && toFloat:
		if isSignedOperand(at) {
			return fb.cur.NewSIToFP(v, toLL), nil
		}
		return fb.cur.NewUIToFP(v, toLL), nil
	default:
		fromBits := types.ElementBits(at)
		toBits := types.ElementBits(to)
		if toBits == fromBits {
			return v, nil
		}
		if toBits < fromBits {
			return fb.cur.NewTrunc(v, toLL), nil
		}
		if isSignedOperand(at) {
			return fb.cur.NewSExt(v, toLL), nil
		}
		return fb.cur.NewZExt(v, toLL), nil
	}
}
