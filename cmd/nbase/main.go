// Command nbase evaluates arbitrary precision integer arithmetic in any base
// and alphabet, from the command line, an interactive session or over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/nbase/internal/app"
)

func main() {
	a := app.New(os.Stdin, os.Stdout, os.Stderr)
	os.Exit(a.Run(context.Background(), os.Args[1:]))
}
