package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

var scalarTypes = map[string]types.Type{
	"i8": types.I8, "u8": types.U8,
	"i16": types.I16, "u16": types.U16,
	"i32": types.I32, "u32": types.U32,
	"i64": types.I64, "u64": types.U64,
	"f32": types.F32, "f64": types.F64,
	"bool": types.Bool{},
}

// resolveType converts a syntactic TypeAnnotation to an internal type,
// resolving struct names against the declaration table and rejecting any
// vector width the target capability gate refuses (§4.4 "Target-capability
// gating").
func (c *Checker) resolveType(anno ast.TypeAnnotation) (types.Type, *errors.CompileError) {
	switch a := anno.(type) {
	case *ast.NamedType:
		if st, ok := scalarTypes[a.Name]; ok {
			return st, nil
		}
		if st, ok := c.Structs[a.Name]; ok {
			return st, nil
		}
		return nil, errors.TypeError(fmt.Sprintf("undefined type %q", a.Name), ast.Span(a))

	case *ast.PointerType:
		elem, err := c.resolveType(a.Elem)
		if err != nil {
			return nil, err
		}
		return types.Pointer{Elem: elem, Mutable: a.Mutable, Restrict: a.Restrict}, nil

	case *ast.VectorType:
		elem, err := c.resolveType(a.Elem)
		if err != nil {
			return nil, err
		}
		if a.Width != 4 && a.Width != 8 && a.Width != 16 && a.Width != 32 {
			return nil, errors.TypeError(fmt.Sprintf("invalid vector width %d", a.Width), ast.Span(a))
		}
		if gateErr := c.Target.CheckVectorWidth(types.ElementBits(elem), a.Width); gateErr != nil {
			return nil, errors.TypeError(gateErr.Error(), ast.Span(a))
		}
		return types.Vector{Elem: elem, Width: a.Width}, nil

	default:
		return nil, errors.TypeError(fmt.Sprintf("unrecognized type annotation %T", anno), ast.Span(anno))
	}
}
