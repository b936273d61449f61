// Package codegen lowers a checked, desugared AST (internal/ast +
// internal/checker) into an LLVM-compatible SSA module using
// github.com/llir/llvm, per spec §4.5. Each function body allocates a
// stack slot per parameter and per let-binding, stores once, and loads
// through the slot on every reference — the back-end's mem2reg pass
// promotes these to registers, so the generator itself stays simple and
// obviously correct (the teacher's own bytecode compiler takes the same
// "simple lowering, let a later pass clean up" stance).
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/checker"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// Generator holds the state threaded through one module's worth of
// lowering: the declaration tables built by the checker, the llir module
// under construction, and the struct-type, function and extern caches.
// Per-function state (local slots, current block) lives in funcBuilder.
type Generator struct {
	checker *checker.Checker
	module  *ir.Module

	structTypes map[string]*lltypes.StructType
	funcs       map[string]*ir.Func
	externs     map[string]*ir.Func
	globalCount int
}

// Module lowers a fully checked program (post-desugar, post-typecheck)
// into an ir.Module. c must be the *checker.Checker returned by
// checker.CheckProgram for the same prog.
func Module(prog *ast.Program, c *checker.Checker) (*ir.Module, *errors.CompileError) {
	g := &Generator{
		checker:     c,
		module:      ir.NewModule(),
		structTypes: make(map[string]*lltypes.StructType),
		funcs:       make(map[string]*ir.Func),
		externs:     make(map[string]*ir.Func),
	}

	// Struct types first: function signatures may reference them.
	for _, decl := range prog.Declarations {
		if sd, ok := decl.(*ast.StructDecl); ok {
			g.declareStruct(sd)
		}
	}

	// Declare every function signature up front so forward/mutually
	// recursive calls resolve regardless of declaration order.
	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FunctionDecl); ok {
			if err := g.declareFunc(fd); err != nil {
				return nil, err
			}
		}
	}

	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FunctionDecl); ok {
			if err := g.defineFunc(fd); err != nil {
				return nil, err
			}
		}
	}

	return g.module, nil
}

func (g *Generator) declareStruct(sd *ast.StructDecl) {
	st := g.checker.Structs[sd.Name]
	fieldTypes := make([]lltypes.Type, len(st.Fields))
	for i, f := range st.Fields {
		fieldTypes[i] = g.llType(f.Type)
	}
	lst := lltypes.NewStruct(fieldTypes...)
	g.structTypes[sd.Name] = lst
	g.module.NewTypeDef(sd.Name, lst)
}

// declareFunc creates the ir.Func with its parameters, return type, and
// linkage/attributes, but no basic blocks yet (a pure declaration is a
// func with no blocks; defineFunc below adds the body).
func (g *Generator) declareFunc(fd *ast.FunctionDecl) *errors.CompileError {
	sig := g.checker.Funcs[fd.Name]

	params := make([]*ir.Param, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = ir.NewParam(p.Name, g.llType(p.Type))
		if ptrType, ok := p.Type.(types.Pointer); ok && ptrType.Restrict {
			params[i].Attrs = append(params[i].Attrs, enum.ParamAttrNoAlias)
		}
	}

	retType := g.llType(sig.Return)
	if fd.Name == "main" {
		retType = lltypes.I32
	}

	f := g.module.NewFunc(fd.Name, retType, params...)
	if fd.Export || fd.Name == "main" {
		f.Linkage = enum.LinkageExternal
	} else {
		f.Linkage = enum.LinkageInternal
	}
	g.funcs[fd.Name] = f
	return nil
}

// llType maps an internal types.Type to the llir type used to represent
// it in generated IR.
func (g *Generator) llType(t types.Type) lltypes.Type {
	switch tt := t.(type) {
	case types.Int:
		return lltypes.NewInt(uint64(tt.Bits))
	case types.Float:
		if tt.Bits == 32 {
			return lltypes.Float
		}
		return lltypes.Double
	case types.Bool:
		return lltypes.I1
	case types.Void:
		return lltypes.Void
	case types.Pointer:
		return lltypes.NewPointer(g.llType(tt.Elem))
	case types.Vector:
		return lltypes.NewVector(uint64(tt.Width), g.llType(tt.Elem))
	case *types.Struct:
		if lst, ok := g.structTypes[tt.Name]; ok {
			return lst
		}
		return lltypes.Void
	default:
		return lltypes.Void
	}
}

func (g *Generator) errf(format string, args ...any) *errors.CompileError {
	return errors.CodeGenError(fmt.Sprintf(format, args...))
}

// extern lazily declares (or returns the cached declaration of) an
// external function such as an LLVM intrinsic, e.g. "llvm.sqrt.v4f32".
func (g *Generator) extern(name string, retType lltypes.Type, paramTypes ...lltypes.Type) *ir.Func {
	if f, ok := g.externs[name]; ok {
		return f
	}
	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}
	f := g.module.NewFunc(name, retType, params...)
	f.Linkage = enum.LinkageExternal
	g.externs[name] = f
	return f
}
