// Where: deliriumctl/cmd/deliriumctl/main.go
// What: CLI entrypoint.
// Why: Execute deployment commands with configured dependencies.
package main

import (
	"os"

	"github.com/delirium-paste/deliriumctl/internal/app"
)

func main() {
	deps, closer := buildDependencies()
	if closer != nil {
		defer closer.Close()
	}

	os.Exit(app.Run(os.Args[1:], deps))
}
