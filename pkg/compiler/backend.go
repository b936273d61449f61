package compiler

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/linker"
)

// curatedPasses is the optimization pipeline of §4.5 / original_source's
// target.rs: mem2reg first (the codegen relies on it to promote every
// alloca'd local to a register), then a classic scalar-optimization
// sequence, explicitly without auto-vectorization or loop-rotation so
// that the compiler's own explicit SIMD lowering is never second-guessed
// by the back end.
var curatedPasses = strings.Join([]string{
	"mem2reg", "instcombine", "reassociate", "gvn", "simplifycfg",
	"early-cse", "licm", "indvars", "loop-unroll",
	"instcombine", "dse", "adce", "simplifycfg",
}, ",")

// assemble turns textual LLVM IR into a relocatable object, running it
// through `opt` first when optimization is enabled and then through
// `clang` to assemble (llir/llvm only constructs IR text; neither
// optimization passes nor machine-code emission are in its scope, so
// both stages shell out to the LLVM toolchain already required to be on
// PATH for anything in this family to produce a native binary).
func assemble(irText string, opts Options) ([]byte, *errors.CompileError) {
	text := irText
	if opts.OptLevel > 0 {
		optimized, err := runPipe("opt", []string{"-passes=" + curatedPasses, "-S"}, text)
		if err != nil {
			return nil, err
		}
		text = optimized
	}

	tmp, errC := os.CreateTemp("", "ea-obj-*.o")
	if errC != nil {
		return nil, errors.CodeGenError(fmt.Sprintf("backend: creating temp object file: %s", errC))
	}
	objPath := tmp.Name()
	tmp.Close()
	defer os.Remove(objPath)

	args := []string{"-c", "-x", "ir", "-", "-o", objPath}
	if opts.TargetTriple != "" {
		args = append(args, "-target", opts.TargetTriple)
	}
	if opts.TargetCPU != "" {
		args = append(args, "-mcpu", opts.TargetCPU)
	}
	for _, feat := range strings.Split(opts.ExtraFeatures, ",") {
		feat = strings.TrimSpace(feat)
		if feat == "" {
			continue
		}
		args = append(args, "-Xclang", "-target-feature", "-Xclang", feat)
	}

	cmd := exec.Command("clang", args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.CodeGenError(fmt.Sprintf("backend: clang failed: %s\n%s", err, stderr.String()))
	}

	data, err := os.ReadFile(objPath)
	if err != nil {
		return nil, errors.CodeGenError(fmt.Sprintf("backend: reading assembled object: %s", err))
	}
	return data, nil
}

// runPipe feeds input to cmd's stdin and returns its stdout as text.
func runPipe(name string, args []string, input string) (string, *errors.CompileError) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.CodeGenError(fmt.Sprintf("backend: %s failed: %s\n%s", name, err, stderr.String()))
	}
	return stdout.String(), nil
}

func writeFile(path string, data []byte) *errors.CompileError {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.CodeGenError(fmt.Sprintf("writing %s: %s", path, err))
	}
	return nil
}

func link(objData []byte, outPath string, shared bool) *errors.CompileError {
	kind := linker.Executable
	if shared {
		kind = linker.SharedLib
	}
	return linker.Link(objData, outPath, kind)
}
