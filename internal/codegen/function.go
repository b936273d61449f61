package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// slot is one stack-allocated local: a parameter or a let-binding.
type slot struct {
	ptr *ir.InstAlloca
	typ types.Type
}

// funcBuilder is the per-function lowering state: the current basic
// block, the name→slot map, and whether the current block already ends
// in a terminator (so the generator never emits a dead instruction after
// a return, per §4.5 "Control flow lowering").
type funcBuilder struct {
	g          *Generator
	f          *ir.Func
	cur        *ir.Block
	slots      map[string]*slot
	retType    types.Type
	terminated bool
}

func (fb *funcBuilder) pushBlock(b *ir.Block) {
	fb.cur = b
	fb.terminated = false
}

func (fb *funcBuilder) terminate(term func(*ir.Block)) {
	if fb.terminated {
		return
	}
	term(fb.cur)
	fb.terminated = true
}

func (g *Generator) defineFunc(fd *ast.FunctionDecl) *errors.CompileError {
	sig := g.checker.Funcs[fd.Name]
	f := g.funcs[fd.Name]

	entry := f.NewBlock("entry")
	fb := &funcBuilder{g: g, f: f, slots: make(map[string]*slot), retType: sig.Return}
	fb.pushBlock(entry)

	for i, p := range sig.Params {
		sl := fb.alloca(p.Type, p.Name)
		fb.cur.NewStore(f.Params[i], sl.ptr)
		fb.slots[p.Name] = sl
	}

	if err := fb.block(fd.Body); err != nil {
		return err
	}

	fb.terminate(func(b *ir.Block) {
		if fd.Name == "main" {
			b.NewRet(constant.NewInt(lltypes.I32, 0))
			return
		}
		if _, ok := sig.Return.(types.Void); ok {
			b.NewRet(nil)
			return
		}
		b.NewRet(zeroValue(g.llType(sig.Return)))
	})

	return nil
}

// alloca allocates a stack slot of type t named hint in the function's
// entry block, matching §4.5 "allocate a stack slot per parameter and
// per let-binding".
func (fb *funcBuilder) alloca(t types.Type, hint string) *slot {
	llt := fb.g.llType(t)
	a := fb.f.Blocks[0].NewAlloca(llt)
	a.LocalIdent = ir.LocalIdent{LocalName: hint}
	return &slot{ptr: a, typ: t}
}

func zeroValue(t lltypes.Type) value.Value {
	switch tt := t.(type) {
	case *lltypes.IntType:
		return constant.NewInt(tt, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(tt, 0)
	case *lltypes.VectorType:
		return constant.NewZeroInitializer(tt)
	case *lltypes.PointerType:
		return constant.NewNull(tt)
	default:
		return constant.NewZeroInitializer(t)
	}
}

func (fb *funcBuilder) block(b *ast.Block) *errors.CompileError {
	for _, stmt := range b.Statements {
		if fb.terminated {
			return nil
		}
		if err := fb.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fb *funcBuilder) statement(stmt ast.Statement) *errors.CompileError {
	switch st := stmt.(type) {
	case *ast.LetStatement:
		v, err := fb.expr(st.Value, st.Type)
		if err != nil {
			return err
		}
		sl := fb.alloca(st.Type, st.Name)
		fb.cur.NewStore(v, sl.ptr)
		fb.slots[st.Name] = sl
		return nil

	case *ast.AssignStatement:
		sl := fb.slots[st.Name]
		v, err := fb.expr(st.Value, sl.typ)
		if err != nil {
			return err
		}
		fb.cur.NewStore(v, sl.ptr)
		return nil

	case *ast.IndexAssignStatement:
		return fb.indexAssign(st)

	case *ast.FieldAssignStatement:
		return fb.fieldAssign(st)

	case *ast.ReturnStatement:
		if st.Value == nil {
			fb.terminate(func(b *ir.Block) { b.NewRet(nil) })
			return nil
		}
		v, err := fb.expr(st.Value, fb.retType)
		if err != nil {
			return err
		}
		fb.terminate(func(b *ir.Block) { b.NewRet(v) })
		return nil

	case *ast.IfStatement:
		return fb.ifStatement(st)

	case *ast.WhileStatement:
		return fb.whileStatement(st)

	case *ast.ForeachStatement:
		return fb.foreachStatement(st)

	case *ast.UnrollStatement:
		return fb.unrollStatement(st)

	case *ast.ExpressionStatement:
		_, err := fb.expr(st.Expr, nil)
		return err

	default:
		return fb.g.errf("unsupported statement %T", stmt)
	}
}

// ifStatement lowers `if cond { then } [else { else }]` into
// then/else/merge blocks per §4.5 "Control flow lowering".
func (fb *funcBuilder) ifStatement(st *ast.IfStatement) *errors.CompileError {
	cond, err := fb.expr(st.Condition, types.Bool{})
	if err != nil {
		return err
	}

	thenBlk := fb.f.NewBlock("")
	mergeBlk := fb.f.NewBlock("")
	var elseBlk *ir.Block = mergeBlk
	if st.Else != nil {
		elseBlk = fb.f.NewBlock("")
	}
	fb.terminate(func(b *ir.Block) { b.NewCondBr(cond, thenBlk, elseBlk) })

	fb.pushBlock(thenBlk)
	if err := fb.block(st.Then); err != nil {
		return err
	}
	fb.terminate(func(b *ir.Block) { b.NewBr(mergeBlk) })

	if st.Else != nil {
		fb.pushBlock(elseBlk)
		if err := fb.block(st.Else); err != nil {
			return err
		}
		fb.terminate(func(b *ir.Block) { b.NewBr(mergeBlk) })
	}

	fb.pushBlock(mergeBlk)
	return nil
}

// whileStatement lowers `while cond { body }` into cond/body/exit blocks.
func (fb *funcBuilder) whileStatement(st *ast.WhileStatement) *errors.CompileError {
	condBlk := fb.f.NewBlock("")
	bodyBlk := fb.f.NewBlock("")
	exitBlk := fb.f.NewBlock("")

	fb.terminate(func(b *ir.Block) { b.NewBr(condBlk) })

	fb.pushBlock(condBlk)
	cond, err := fb.expr(st.Condition, types.Bool{})
	if err != nil {
		return err
	}
	fb.terminate(func(b *ir.Block) { b.NewCondBr(cond, bodyBlk, exitBlk) })

	fb.pushBlock(bodyBlk)
	if err := fb.block(st.Body); err != nil {
		return err
	}
	fb.terminate(func(b *ir.Block) { b.NewBr(condBlk) })

	fb.pushBlock(exitBlk)
	return nil
}

// foreachStatement lowers `foreach(v in a..b) { body }` to an equivalent
// while loop with an explicit increment (§9 Open Question 4: v is an
// immutable i32 local for the duration of the body).
func (fb *funcBuilder) foreachStatement(st *ast.ForeachStatement) *errors.CompileError {
	startV, err := fb.expr(st.Start, types.I32)
	if err != nil {
		return err
	}
	sl := fb.alloca(types.I32, st.Var)
	fb.cur.NewStore(startV, sl.ptr)
	fb.slots[st.Var] = sl

	condBlk := fb.f.NewBlock("")
	bodyBlk := fb.f.NewBlock("")
	exitBlk := fb.f.NewBlock("")

	fb.terminate(func(b *ir.Block) { b.NewBr(condBlk) })

	fb.pushBlock(condBlk)
	cur := fb.cur.NewLoad(fb.g.llType(types.I32), sl.ptr)
	endV, err := fb.expr(st.End, types.I32)
	if err != nil {
		return err
	}
	cond := fb.cur.NewICmp(icmpPred("<", true), cur, endV)
	fb.terminate(func(b *ir.Block) { b.NewCondBr(cond, bodyBlk, exitBlk) })

	fb.pushBlock(bodyBlk)
	if err := fb.block(st.Body); err != nil {
		return err
	}
	cur2 := fb.cur.NewLoad(fb.g.llType(types.I32), sl.ptr)
	next := fb.cur.NewAdd(cur2, constant.NewInt(lltypes.I32, 1))
	fb.cur.NewStore(next, sl.ptr)
	fb.terminate(func(b *ir.Block) { b.NewBr(condBlk) })

	fb.pushBlock(exitBlk)
	return nil
}

// unrollStatement lowers `unroll(N) <loop>`. The factor N is not emitted
// into the IR: the wrapped loop executes exactly as its own condition
// dictates, and any unrolling is done by the curated optimization
// pipeline's loop-unroll pass (run when opt_level > 0), which picks its
// own unroll count. Re-emitting the whole loop statement N times
// here would change behavior (the condition is re-evaluated from
// whatever state the first pass left it in, so later copies mostly
// become no-ops) rather than just change performance, so the loop is
// lowered the same way it would be without the unroll wrapper.
func (fb *funcBuilder) unrollStatement(st *ast.UnrollStatement) *errors.CompileError {
	return fb.statement(st.Loop)
}

func (fb *funcBuilder) indexAssign(st *ast.IndexAssignStatement) *errors.CompileError {
	ptrV, elemType, err := fb.lvaluePointer(st.Target)
	if err != nil {
		return err
	}
	idx, err := fb.expr(st.Index, types.DefaultInt)
	if err != nil {
		return err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(elemType), ptrV, idx)
	v, err := fb.expr(st.Value, elemType)
	if err != nil {
		return err
	}
	fb.cur.NewStore(v, addr)
	return nil
}

func (fb *funcBuilder) fieldAssign(st *ast.FieldAssignStatement) *errors.CompileError {
	structPtr, st2, idx, fieldType, err := fb.fieldLValue(st.Target, st.Field)
	if err != nil {
		return err
	}
	addr := fb.cur.NewGetElementPtr(fb.g.llType(st2), structPtr,
		constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx)))
	v, err := fb.expr(st.Value, fieldType)
	if err != nil {
		return err
	}
	fb.cur.NewStore(v, addr)
	return nil
}

// lvaluePointer evaluates e to the pointer value used as an index-assign
// target: e must be an identifier bound to a pointer-typed local.
func (fb *funcBuilder) lvaluePointer(e ast.Expression) (value.Value, types.Type, *errors.CompileError) {
	t := e.GetType()
	v, err := fb.expr(e, t)
	if err != nil {
		return nil, nil, err
	}
	ptr, ok := t.(types.Pointer)
	if !ok {
		return nil, nil, fb.g.errf("index-assign target is not a pointer")
	}
	return v, ptr.Elem, nil
}

func (fb *funcBuilder) fieldLValue(target ast.Expression, field string) (value.Value, types.Type, int, types.Type, *errors.CompileError) {
	t := target.GetType()
	st, ok := t.(*types.Struct)
	isPtr := false
	if !ok {
		if ptr, ok2 := t.(types.Pointer); ok2 {
			st, ok = ptr.Elem.(*types.Struct)
			isPtr = true
		}
	}
	if !ok || st == nil {
		return nil, nil, 0, nil, fb.g.errf("field assignment target is not a struct")
	}
	idx := st.FieldIndex(field)
	fieldType := st.FieldType(field)

	if isPtr {
		v, err := fb.expr(target, t)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		return v, st, idx, fieldType, nil
	}

	// A plain struct lvalue must be an identifier bound to a local slot;
	// GEP through its address rather than loading the whole aggregate.
	ident, ok := target.(*ast.Identifier)
	if !ok {
		return nil, nil, 0, nil, fb.g.errf("field assignment target must be an identifier or pointer")
	}
	sl := fb.slots[ident.Value]
	return sl.ptr, st, idx, fieldType, nil
}

