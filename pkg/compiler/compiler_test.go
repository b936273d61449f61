package compiler_test

import (
	"strings"
	"testing"

	"github.com/ea-lang/ea/pkg/compiler"
)

func TestTokenizeParseDesugarCheckTypes(t *testing.T) {
	src := `export func add(a:i32, b:i32) -> i32 { return a + b }`

	toks, err := compiler.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}
	if len(toks) == 0 {
		t.Fatalf("Tokenize returned no tokens")
	}

	prog, err := compiler.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if len(prog.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Declarations))
	}

	prog, err = compiler.Desugar(prog)
	if err != nil {
		t.Fatalf("Desugar: %s", err)
	}

	if err := compiler.CheckTypes(prog, compiler.Options{}); err != nil {
		t.Fatalf("CheckTypes: %s", err)
	}
}

func TestTokenizeLexError(t *testing.T) {
	_, err := compiler.Tokenize("export func bad( @ ) {}")
	if err == nil {
		t.Fatalf("expected a lex error for an unknown character")
	}
}

func TestParseError(t *testing.T) {
	toks, err := compiler.Tokenize("export func add(a:i32 b:i32) -> i32 { return a }")
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}
	if _, err := compiler.Parse(toks); err == nil {
		t.Fatalf("expected a parse error for a malformed parameter list")
	}
}

// TestScenariosCompileToIR exercises the five positive concrete end-to-end
// scenarios of spec §8 (scenario 6 is
// TestWriteThroughImmutablePointerRejected) through the front end and codegen, stopping
// short of invoking the external opt/clang/cc toolchain.
func TestScenariosCompileToIR(t *testing.T) {
	scenarios := map[string]string{
		"add":    `export func add(a:i32,b:i32)->i32 { return a+b }`,
		"vscale": `export func vscale(d:*f32,o:*mut f32,f:f32,n:i32){
			let v:f32x4 = splat(f)
			let mut i:i32 = 0
			while i+4<=n { store(o,i,load(d,i).*v) i=i+4 }
		}`,
		"inc": `export kernel inc(d:*i32, out:*mut i32) over i in n step 4 tail scalar {
			out[i]=d[i]+1
		} {
			out[i]=d[i]+1
			out[i+1]=d[i+1]+1
			out[i+2]=d[i+2]+1
			out[i+3]=d[i+3]+1
		}`,
		"pi": `const PI:f64=3.14159
			static_assert(PI>3.0,"pi>3")
			export func get()->f64 { return PI }`,
		"dot": `export func dot(a:*u8, b:*i8, n:i32)->i32 {
			let mut acc:i32x4 = splat(0)
			let mut i:i32 = 0
			while i<n {
				acc = acc .+ maddubs_i32(load(a,i), load(b,i))
				i=i+16
			}
			return reduce_add(acc)
		}`,
	}

	for name, src := range scenarios {
		t.Run(name, func(t *testing.T) {
			ir, err := compiler.CompileToIR(src, compiler.Options{})
			if err != nil {
				t.Fatalf("CompileToIR: %s", err)
			}
			if !strings.Contains(ir, "define") {
				t.Fatalf("expected a function definition in IR, got:\n%s", ir)
			}
		})
	}
}

// TestWriteThroughImmutablePointerRejected exercises scenario 6: writing
// through a plain (non-mut) pointer is a type error mentioning *mut.
func TestWriteThroughImmutablePointerRejected(t *testing.T) {
	src := `export func bad(p:*f32){ p[0]=1.0 }`

	_, err := compiler.CompileToIR(src, compiler.Options{})
	if err == nil {
		t.Fatalf("expected a type error rejecting the write through an immutable pointer")
	}
	if !strings.Contains(err.Message, "*mut") {
		t.Fatalf("expected error message to mention *mut, got: %s", err.Message)
	}
}
