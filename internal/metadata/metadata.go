// Package metadata renders the exported surface of a checked program as
// the JSON shape of spec §6, consumed by binding generators for other
// languages. It mirrors original_source/src/metadata.rs's shape exactly:
// `cap`/`count` are optional expression text, emitted as JSON null rather
// than omitted, since a consumer distinguishing "absent key" from
// "present but null" would otherwise have to special-case an older
// schema version that genuinely lacked the key.
package metadata

import (
	"encoding/json"

	"github.com/ea-lang/ea/internal/ast"
)

// Arg describes one function parameter in the exported surface.
type Arg struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Direction string  `json:"direction"`
	Cap       *string `json:"cap"`
	Count     *string `json:"count"`
}

// Export describes one `export`ed function.
type Export struct {
	Name       string  `json:"name"`
	Args       []Arg   `json:"args"`
	ReturnType *string `json:"return_type"`
}

// Field describes one struct field.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StructInfo describes one struct declaration's layout.
type StructInfo struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Library is the top-level metadata document for one compiled module.
type Library struct {
	Name    string       `json:"library"`
	Exports []Export     `json:"exports"`
	Structs []StructInfo `json:"structs"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Build walks prog's declarations (after desugaring, so kernels already
// appear as FunctionDecl) and collects every `export`ed function and
// every struct into a Library document.
func Build(libraryName string, prog *ast.Program) *Library {
	lib := &Library{Name: libraryName, Exports: []Export{}, Structs: []StructInfo{}}

	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			if !d.Export {
				continue
			}
			lib.Exports = append(lib.Exports, buildExport(d))
		case *ast.StructDecl:
			lib.Structs = append(lib.Structs, buildStruct(d))
		}
	}

	return lib
}

func buildExport(fd *ast.FunctionDecl) Export {
	args := make([]Arg, len(fd.Params))
	for i, p := range fd.Params {
		direction := "in"
		if p.Out {
			direction = "out"
		}
		args[i] = Arg{
			Name:      p.Name,
			Type:      p.Anno.Source(),
			Direction: direction,
			Cap:       optional(p.Cap),
			Count:     optional(p.Count),
		}
	}

	var retType *string
	if fd.RetAnno != nil {
		s := fd.RetAnno.Source()
		retType = &s
	}

	return Export{Name: fd.Name, Args: args, ReturnType: retType}
}

func buildStruct(sd *ast.StructDecl) StructInfo {
	fields := make([]Field, len(sd.Fields))
	for i, f := range sd.Fields {
		fields[i] = Field{Name: f.Name, Type: f.Anno.Source()}
	}
	return StructInfo{Name: sd.Name, Fields: fields}
}

// MarshalIndent renders the library document as pretty-printed JSON,
// matching the teacher's convention of indented, diff-friendly output
// for generated artifacts.
func (l *Library) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
