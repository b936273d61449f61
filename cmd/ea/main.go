// Command ea is the ahead-of-time compiler CLI of spec §6: `ea <file>
// [flags]`, exiting 1 with a rendered diagnostic on stderr on any
// compilation or I/O error, 0 and silent (beyond explicit println/--emit-*
// output) on success.
package main

import (
	"os"

	"github.com/ea-lang/ea/cmd/ea/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
