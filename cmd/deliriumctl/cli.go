// Where: deliriumctl/cmd/deliriumctl/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"io"
	"os"

	"github.com/delirium-paste/deliriumctl/internal/app"
	"github.com/delirium-paste/deliriumctl/internal/compose"
)

var newDockerClient = compose.NewDockerClient

// buildDependencies constructs the runtime dependencies required by the CLI.
// The docker client is optional here: commands that need the daemon dial it
// themselves and report a precise error, while doctor and version still work
// on a host without docker installed.
func buildDependencies() (app.Dependencies, io.Closer) {
	deps := app.Dependencies{
		Out:    os.Stdout,
		Runner: compose.ExecRunner{},
	}

	client, err := newDockerClient()
	if err != nil {
		return deps, nil
	}
	deps.Docker = client
	return deps, asCloser(client)
}

// asCloser attempts to cast the Docker client to an io.Closer.
// Returns nil if the client does not implement the Closer interface.
func asCloser(client compose.DockerClient) io.Closer {
	if closer, ok := client.(io.Closer); ok {
		return closer
	}
	return nil
}
