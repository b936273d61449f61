package checker

import (
	"fmt"

	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/types"
)

// compatible implements §4.4 "Compatibility": identity, plus literal
// promotion (IntLiteral → any Int, FloatLiteral → any Float). Pointers,
// vectors, and structs fall back to Type.Equal, which already encodes
// their own matching rules (mutability+elem, width+elem, name).
func compatible(have, want types.Type) bool {
	if want.Equal(have) {
		return true
	}
	switch want.(type) {
	case types.Int:
		if _, ok := have.(types.IntLiteral); ok {
			return true
		}
	case types.Float:
		if _, ok := have.(types.FloatLiteral); ok {
			return true
		}
	}
	return false
}

// unifyNumeric implements §4.4 "Numeric unification" for the non-dotted
// arithmetic/comparison operators.
func unifyNumeric(l, r types.Type, span errors.Span) (types.Type, *errors.CompileError) {
	if !types.IsNumeric(l) || !types.IsNumeric(r) {
		return nil, errors.TypeError(
			fmt.Sprintf("operands must be numeric, got %s and %s", l, r), span)
	}
	if types.IsInteger(l) != types.IsInteger(r) {
		return nil, errors.TypeError(
			fmt.Sprintf("cannot unify %s and %s"+errors.Hint("numeric-conversion"), l, r), span)
	}

	litL := isLiteral(l)
	litR := isLiteral(r)
	switch {
	case litL && litR:
		if types.IsInteger(l) {
			return types.DefaultInt, nil
		}
		return types.DefaultFloat, nil
	case litL:
		return r, nil
	case litR:
		return l, nil
	case l.Equal(r):
		return l, nil
	default:
		return nil, errors.TypeError(
			fmt.Sprintf("cannot unify %s and %s"+errors.Hint("numeric-conversion"), l, r), span)
	}
}

func isLiteral(t types.Type) bool {
	switch t.(type) {
	case types.IntLiteral, types.FloatLiteral:
		return true
	default:
		return false
	}
}

// unifyVector implements §4.4 "Vector unification" for the dotted
// elementwise operators: both operands must be vectors of identical width
// with equal element types.
func unifyVector(l, r types.Type, span errors.Span) (types.Vector, *errors.CompileError) {
	lv, ok := l.(types.Vector)
	if !ok {
		return types.Vector{}, errors.TypeError(fmt.Sprintf("dotted operator requires a vector operand, got %s", l), span)
	}
	rv, ok := r.(types.Vector)
	if !ok {
		return types.Vector{}, errors.TypeError(fmt.Sprintf("dotted operator requires a vector operand, got %s", r), span)
	}
	if lv.Width != rv.Width || !lv.Elem.Equal(rv.Elem) {
		return types.Vector{}, errors.TypeError(
			fmt.Sprintf("vector operands must match in width and element type, got %s and %s", lv, rv), span)
	}
	return lv, nil
}
