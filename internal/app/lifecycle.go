// Where: deliriumctl/internal/app/lifecycle.go
// What: Handlers for up, down, logs, and build.
// Why: Day-two operations against an existing deployment.
package app

import (
	"context"
	"io"
	"path/filepath"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/frontend"
	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// runUp starts the remembered stack without rerunning the full setup.
func runUp(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := cmdCtx.requireDeployment(); err != nil {
		return exitWithError(out, err)
	}

	ctx := context.Background()
	opts := compose.UpOptions{Build: cli.Up.Build, Detach: cli.Up.Detach}
	if err := compose.Up(ctx, runnerFor(deps), cmdCtx.Stack, opts); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	cmdCtx.Console.Success("Stack started (" + cmdCtx.Profile.Label() + ")")
	return 0
}

func runDown(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := cmdCtx.requireDeployment(); err != nil {
		return exitWithError(out, err)
	}

	if cli.Down.Volumes && !cmdCtx.Headless {
		if prompter := prompterFor(cli, deps); prompter != nil {
			confirmed, err := prompter.Confirm("Remove volumes too? All pastes will be deleted.")
			if err != nil {
				return exitWithRunError(cmdCtx.Console, err)
			}
			if !confirmed {
				cmdCtx.Console.Info("Keeping volumes; stopping containers only.")
				cli.Down.Volumes = false
			}
		}
	}

	if err := compose.Down(context.Background(), runnerFor(deps), cmdCtx.Stack, cli.Down.Volumes); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	cmdCtx.Console.Success("Stack stopped")
	return 0
}

func runLogs(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := cmdCtx.requireDeployment(); err != nil {
		return exitWithError(out, err)
	}

	opts := compose.LogsOptions{
		Follow:     cli.Logs.Follow,
		Tail:       cli.Logs.Tail,
		Timestamps: cli.Logs.Timestamps,
		Service:    cli.Logs.Service,
	}
	if err := compose.Logs(context.Background(), runnerFor(deps), cmdCtx.Stack, opts); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	return 0
}

// runBuild recompiles the frontend bundle from the cloned client repo.
func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console

	clientDir := filepath.Join(cmdCtx.InstallDir, meta.ClientRepo)
	console.BlockStart("🛠️", "Building frontend bundle")
	if err := frontend.Build(context.Background(), runnerFor(deps), clientDir); err != nil {
		console.BlockEnd()
		return exitWithRunError(console, err)
	}
	console.Success("Frontend bundle compiled")
	console.BlockEnd()
	return 0
}
