// Package linker invokes the platform C compiler to turn a compiled
// object file into an executable or a shared library (spec §6, "Linker
// invocation"). It is a thin os/exec wrapper: no dependency in the
// retrieval pack offers anything beyond a single synchronous subprocess
// call for this, so it is built directly on the standard library.
package linker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ea-lang/ea/internal/errors"
)

// Kind selects the artifact the linker produces.
type Kind int

const (
	Executable Kind = iota
	SharedLib
)

// Link writes objectData to a scoped temporary directory and invokes `cc`
// to produce outPath, either an executable (Kind Executable) or a shared
// library (Kind SharedLib, via `-shared`), linking against libm. The temp
// directory is removed on every exit path, success or failure.
func Link(objectData []byte, outPath string, kind Kind) *errors.CompileError {
	dir, err := os.MkdirTemp("", "ea-link-*")
	if err != nil {
		return errors.CodeGenError(fmt.Sprintf("linker: creating temp directory: %s", err))
	}
	defer os.RemoveAll(dir)

	objPath := filepath.Join(dir, "module.o")
	if err := os.WriteFile(objPath, objectData, 0o644); err != nil {
		return errors.CodeGenError(fmt.Sprintf("linker: writing object file: %s", err))
	}

	args := []string{objPath, "-lm", "-o", outPath}
	if kind == SharedLib {
		args = append(args, "-shared")
	}

	cmd := exec.Command("cc", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.CodeGenError(fmt.Sprintf("linker: cc failed: %s\n%s", err, output))
	}
	return nil
}
