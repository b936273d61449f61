package codegen_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ea-lang/ea/internal/checker"
	"github.com/ea-lang/ea/internal/codegen"
	"github.com/ea-lang/ea/internal/desugar"
	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/parser"
	"github.com/ea-lang/ea/internal/target"
)

func compileIR(t *testing.T, source string) string {
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
	c, err := checker.CheckProgram(prog, target.Host())
	if err != nil {
		t.Fatalf("type error: %s", err)
	}
	m, err := codegen.Module(prog, c)
	if err != nil {
		t.Fatalf("codegen error: %s", err)
	}
	return m.String()
}

// TestCompileScenarios lowers the concrete end-to-end scenarios of spec
// §8 to IR text and snapshots the result, following the teacher's
// go-snaps-per-fixture convention.
func TestCompileScenarios(t *testing.T) {
	scenarios := map[string]string{
		"simple_add": `export func add(a:i32, b:i32) -> i32 { return a + b }`,

		"vector_scale": `export func vscale(d:*f32, o:*mut f32, f:f32, n:i32) {
			let v: f32x4 = splat(f)
			let mut i: i32 = 0
			while i + 4 <= n {
				store(o, i, load(d, i) .* v)
				i = i + 4
			}
		}`,

		"kernel_inc": `export kernel inc(d:*i32, out:*mut i32) over i in n step 4 tail scalar {
			out[i] = d[i] + 1
		} {
			out[i] = d[i] + 1
			out[i+1] = d[i+1] + 1
			out[i+2] = d[i+2] + 1
			out[i+3] = d[i+3] + 1
		}`,

		"const_static_assert": `const PI: f64 = 3.14159
			static_assert(PI > 3.0, "pi>3")
			export func get() -> f64 { return PI }`,

		"maddubs_dot": `export func dot(a:*u8, b:*i8, n:i32) -> i32 {
			let mut acc: i32x4 = splat(0)
			let mut i: i32 = 0
			while i < n {
				acc = acc .+ maddubs_i32(load(a, i), load(b, i))
				i = i + 16
			}
			return reduce_add(acc)
		}`,
	}

	for name, src := range scenarios {
		t.Run(name, func(t *testing.T) {
			ir := compileIR(t, src)
			snaps.MatchSnapshot(t, name, ir)
		})
	}
}

// TestRestrictParamIsNoAlias exercises testable property 6 of spec §8: a
// *restrict parameter carries the noalias attribute in emitted IR.
func TestRestrictParamIsNoAlias(t *testing.T) {
	src := `export func fill(p:*restrict mut i32, n:i32) {
		let mut i: i32 = 0
		while i < n {
			p[i] = i
			i = i + 1
		}
	}`
	ir := compileIR(t, src)
	if !strings.Contains(ir, "noalias") {
		t.Fatalf("expected noalias attribute in IR, got:\n%s", ir)
	}
}
