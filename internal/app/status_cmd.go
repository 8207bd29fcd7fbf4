// Where: deliriumctl/internal/app/status_cmd.go
// What: Handlers for status, verify, and doctor.
// Why: Read-only inspection of the host and the deployment.
package app

import (
	"context"
	"io"

	"github.com/delirium-paste/deliriumctl/internal/prereq"
)

func runStatus(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}

	wf, err := statusWorkflow(deps, cmdCtx)
	if err != nil {
		return exitWithError(out, err)
	}
	if _, err := wf.Run(context.Background(), cmdCtx.InstallDir); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	return 0
}

func runVerify(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}

	wf := verifyWorkflow(deps, cmdCtx)
	if err := wf.Run(context.Background(), cmdCtx.publishedPort()); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	return 0
}

// runDoctor prints the prerequisite report without deploying anything.
func runDoctor(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console
	ctx := context.Background()

	// A missing daemon must not abort the report; pass whatever client we got.
	docker, _ := dockerClient(deps)
	report := prereq.Run(ctx, docker, runnerFor(deps), prereq.DefaultTools())

	console.BlockStart("🩺", "Host check")
	for _, check := range report.Checks {
		switch {
		case check.Err == nil:
			console.Item(check.Tool.Name, check.Path)
		case check.Tool.Required:
			console.Failure(check.Tool.Name + " not found (" + check.Tool.Hint + ")")
		default:
			console.Item(check.Tool.Name, "not found (optional: "+check.Tool.Hint+")")
		}
	}
	if report.DaemonOK {
		console.Item("daemon", "reachable")
	} else if report.DaemonErr != nil {
		console.Failure(report.DaemonErr.Error())
	}
	if report.ComposeOK {
		console.Item("compose", "available")
	} else if report.ComposeErr != nil {
		console.Failure(report.ComposeErr.Error())
	}
	console.BlockEnd()

	if err := report.Fatal(); err != nil {
		return 1
	}
	console.Success("Host is ready to deploy")
	return 0
}
