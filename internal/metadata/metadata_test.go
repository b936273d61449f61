package metadata_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ea-lang/ea/internal/desugar"
	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/metadata"
	"github.com/ea-lang/ea/internal/parser"
)

func buildLibrary(t *testing.T, name, source string) *metadata.Library {
	t.Helper()
	toks, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, err := parser.ParseProgram(toks)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	prog, err = desugar.Program(prog)
	if err != nil {
		t.Fatalf("desugar error: %s", err)
	}
	return metadata.Build(name, prog)
}

// TestBuildExportedSurface snapshots the exported-surface metadata of a
// small library with a plain export, a capacity-annotated out pointer,
// and a struct, matching spec §6's JSON shape.
func TestBuildExportedSurface(t *testing.T) {
	source := `struct Point { x: f32, y: f32 }

export func add(a:i32, b:i32) -> i32 { return a + b }

export func fill(out buf:*mut f32[cap: n], n:i32) {
	let mut i:i32 = 0
	while i < n {
		buf[i] = 0.0
		i = i + 1
	}
}

func helper() -> i32 { return 1 }
`

	lib := buildLibrary(t, "mylib", source)
	data, err := lib.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %s", err)
	}
	snaps.MatchSnapshot(t, "exported_surface", string(data))
}

// TestBuildOmitsNonExportedFunctions checks that an unexported function
// never appears in the exported surface, while still allowing structs
// (which have no export flag) through unconditionally.
func TestBuildOmitsNonExportedFunctions(t *testing.T) {
	source := `struct Pair { a: i32, b: i32 }
func internalOnly() -> i32 { return 0 }
`
	lib := buildLibrary(t, "mylib", source)
	if len(lib.Exports) != 0 {
		t.Fatalf("expected no exports, got %d", len(lib.Exports))
	}
	if len(lib.Structs) != 1 || lib.Structs[0].Name != "Pair" {
		t.Fatalf("expected struct Pair to be recorded, got %+v", lib.Structs)
	}
}
