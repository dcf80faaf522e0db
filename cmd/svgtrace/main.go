// Command svgtrace animates the drawing of SVG paths, in the terminal,
// as image sequences, HTML pages or a live browser preview.
package main

import (
	"os"

	"github.com/sicmundu/cli-trace/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
