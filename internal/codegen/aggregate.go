package codegen

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// index lowers `e[i]`: a vector lane extract or a pointer-offset load
// (§4.5 load(ptr,i) GEP/load pattern reused here for plain indexing).
func (fb *funcBuilder) index(ex *ast.IndexExpression) (value.Value, *errors.CompileError) {
	tt := ex.Target.GetType()
	switch t := tt.(type) {
	case types.Vector:
		tv, err := fb.expr(ex.Target, tt)
		if err != nil {
			return nil, err
		}
		iv, err := fb.expr(ex.Index, types.DefaultInt)
		if err != nil {
			return nil, err
		}
		return fb.cur.NewExtractElement(tv, iv), nil

	case types.Pointer:
		pv, err := fb.expr(ex.Target, tt)
		if err != nil {
			return nil, err
		}
		iv, err := fb.expr(ex.Index, types.DefaultInt)
		if err != nil {
			return nil, err
		}
		addr := fb.cur.NewGetElementPtr(fb.g.llType(t.Elem), pv, iv)
		return fb.cur.NewLoad(fb.g.llType(t.Elem), addr), nil

	default:
		return nil, fb.g.errf("index target is not a vector or pointer")
	}
}

// fieldAccess lowers `e.f` by GEP-ing to the field slot and loading.
func (fb *funcBuilder) fieldAccess(ex *ast.FieldAccessExpression) (value.Value, *errors.CompileError) {
	tt := ex.Target.GetType()
	st, ok := tt.(*types.Struct)
	isPtr := false
	if !ok {
		if ptr, ok2 := tt.(types.Pointer); ok2 {
			st, ok = ptr.Elem.(*types.Struct)
			isPtr = true
		}
	}
	if !ok || st == nil {
		return nil, fb.g.errf("field access target is not a struct")
	}
	idx := st.FieldIndex(ex.Field)
	fieldType := st.FieldType(ex.Field)

	var base value.Value
	if isPtr {
		v, err := fb.expr(ex.Target, tt)
		if err != nil {
			return nil, err
		}
		base = v
	} else {
		ident, ok := ex.Target.(*ast.Identifier)
		if !ok {
			return nil, fb.g.errf("field access target must be an identifier or pointer")
		}
		base = fb.slots[ident.Value].ptr
	}

	addr := fb.cur.NewGetElementPtr(fb.g.llType(st), base,
		constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx)))
	return fb.cur.NewLoad(fb.g.llType(fieldType), addr), nil
}

// structLiteral lowers `Name{field: expr, ...}` by allocating a temporary
// stack slot, storing each field, then loading the whole aggregate — the
// same "slot, store, reload" discipline §4.5 uses for locals.
func (fb *funcBuilder) structLiteral(ex *ast.StructLiteral) (value.Value, *errors.CompileError) {
	st := fb.g.checker.Structs[ex.Name]
	sl := fb.alloca(st, "")
	for _, f := range ex.Fields {
		idx := st.FieldIndex(f.Name)
		fieldType := st.FieldType(f.Name)
		v, err := fb.expr(f.Value, fieldType)
		if err != nil {
			return nil, err
		}
		addr := fb.cur.NewGetElementPtr(fb.g.llType(st), sl.ptr,
			constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx)))
		fb.cur.NewStore(v, addr)
	}
	return fb.cur.NewLoad(fb.g.llType(st), sl.ptr), nil
}

// vectorLiteral lowers `[e, e, ...]TxW` to a chain of insertelements
// starting from an undef vector (§4.5 "Vectors"). An empty element list
// (`[]TxW`, which the parser and checker accept) compiles to a
// zero-initialized vector.
func (fb *funcBuilder) vectorLiteral(ex *ast.VectorLiteral) (value.Value, *errors.CompileError) {
	vt := ex.GetType().(types.Vector)
	llvt := fb.g.llType(vt)
	if len(ex.Elements) == 0 {
		return zeroValue(llvt), nil
	}
	var acc value.Value = constant.NewUndef(llvt)
	for i, el := range ex.Elements {
		v, err := fb.expr(el, vt.Elem)
		if err != nil {
			return nil, err
		}
		acc = fb.cur.NewInsertElement(acc, v, constant.NewInt(lltypes.I32, int64(i)))
	}
	return acc, nil
}
