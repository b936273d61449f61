package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/metadata"
	"github.com/ea-lang/ea/pkg/compiler"
)

var (
	// Version information (set by build flags), following the teacher's
	// cmd/dwscript/cmd/root.go convention.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	outputName    string
	emitLLVM      bool
	emitAST       bool
	emitTokens    bool
	emitMetadata  bool
	showVersion   bool
	optLevel      int
	targetTriple  string
	targetCPU     string
	extraFeatures string
)

var rootCmd = &cobra.Command{
	Use:           "ea <file>",
	Short:         "ea: an ahead-of-time compiler for the ea SIMD-first language",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&outputName, "output", "o", "", "link an executable and write it to this path")
	rootCmd.Flags().BoolVar(&emitLLVM, "emit-llvm", false, "print the compiled LLVM IR to stdout instead of linking")
	rootCmd.Flags().BoolVar(&emitAST, "emit-ast", false, "print the parsed (and desugared) AST to stdout")
	rootCmd.Flags().BoolVar(&emitTokens, "emit-tokens", false, "print the token stream to stdout")
	rootCmd.Flags().BoolVar(&emitMetadata, "emit-metadata", false, "print the exported-surface metadata JSON to stdout")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print version information and exit")
	rootCmd.Flags().IntVar(&optLevel, "opt-level", 0, "optimization level 0..3")
	rootCmd.Flags().StringVar(&targetTriple, "target", "", "target triple (default: host)")
	rootCmd.Flags().StringVar(&targetCPU, "cpu", "", "target CPU (default: host)")
	rootCmd.Flags().StringVar(&extraFeatures, "features", "", "comma-separated feature toggles, e.g. +avx512f")
}

func run(_ *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("ea version %s\nCommit: %s\nBuilt:  %s\n", Version, GitCommit, BuildDate)
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one input file")
	}

	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading %s: %s\n", filename, err)
		return err
	}
	source := string(content)

	opts := compiler.Options{
		OptLevel:      optLevel,
		TargetTriple:  targetTriple,
		TargetCPU:     targetCPU,
		ExtraFeatures: extraFeatures,
	}

	if emitTokens {
		return emitTokensTo(os.Stdout, filename, source)
	}
	if emitAST {
		return emitASTTo(os.Stdout, filename, source)
	}
	if emitMetadata {
		return emitMetadataTo(os.Stdout, filename, source, opts)
	}
	if emitLLVM {
		ir, cerr := compiler.CompileToIR(source, opts)
		if cerr != nil {
			return reportAndFail(cerr, filename, source)
		}
		fmt.Println(ir)
		return nil
	}

	mode := compiler.Mode{Kind: compiler.ObjectFile, Path: objectNameFor(filename)}
	out := objectNameFor(filename)
	if outputName != "" {
		mode = compiler.Mode{Kind: compiler.ExecutableMode, Path: outputName}
		out = outputName
	}
	if cerr := compiler.Compile(source, out, mode, opts); cerr != nil {
		return reportAndFail(cerr, filename, source)
	}
	return nil
}

func objectNameFor(filename string) string {
	base := strings.TrimSuffix(filename, ".ea")
	return base + ".o"
}

func reportAndFail(cerr *errors.CompileError, filename, source string) error {
	fmt.Fprintln(os.Stderr, errors.Format(cerr, filename, source))
	return cerr
}

func emitTokensTo(w *os.File, filename, source string) error {
	toks, cerr := compiler.Tokenize(source)
	if cerr != nil {
		return reportAndFail(cerr, filename, source)
	}
	for _, tok := range toks {
		fmt.Fprintf(w, "%-20s %-12q %s\n", tok.Type, tok.Literal, tok.Pos)
	}
	return nil
}

func emitASTTo(w *os.File, filename, source string) error {
	prog, cerr := frontendToDesugaredAST(filename, source)
	if cerr != nil {
		return reportAndFail(cerr, filename, source)
	}
	fmt.Fprintln(w, prog.String())
	return nil
}

func emitMetadataTo(w *os.File, filename, source string, opts compiler.Options) error {
	prog, cerr := frontendToDesugaredAST(filename, source)
	if cerr != nil {
		return reportAndFail(cerr, filename, source)
	}
	if cerr := compiler.CheckTypes(prog, opts); cerr != nil {
		return reportAndFail(cerr, filename, source)
	}
	lib := metadata.Build(strings.TrimSuffix(filename, ".ea"), prog)
	data, err := lib.MarshalIndent()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func frontendToDesugaredAST(filename, source string) (*ast.Program, *errors.CompileError) {
	toks, cerr := compiler.Tokenize(source)
	if cerr != nil {
		return nil, cerr
	}
	prog, cerr := compiler.Parse(toks)
	if cerr != nil {
		return nil, cerr
	}
	return compiler.Desugar(prog)
}
