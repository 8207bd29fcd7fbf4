// Where: deliriumctl/internal/app/env_cmd.go
// What: Handlers for the env subcommands.
// Why: The record is the contract with the compose stack; editing it gets
//      validation and the pepper gets guarded rotation.
package app

import (
	"io"

	"github.com/delirium-paste/deliriumctl/internal/workflows"
)

func runEnvShow(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	record, err := cmdCtx.loadRecord()
	if err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}

	wf := &workflows.EnvWorkflow{UI: cmdCtx.Console}
	wf.Show(record)
	return 0
}

func runEnvSet(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	record, err := cmdCtx.loadRecord()
	if err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}

	wf := &workflows.EnvWorkflow{UI: cmdCtx.Console}
	if err := wf.Set(record, cli.Env.Set.Key, cli.Env.Set.Value); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	return 0
}

func runRotatePepper(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console
	record, err := cmdCtx.loadRecord()
	if err != nil {
		return exitWithRunError(console, err)
	}

	confirmed := cli.Env.RotatePepper.Yes
	if !confirmed && !cmdCtx.Headless {
		if prompter := prompterFor(cli, deps); prompter != nil {
			answer, err := prompter.Confirm("Rotate the secret pepper? Previously issued deletion tokens stop working.")
			if err != nil {
				return exitWithRunError(console, err)
			}
			confirmed = answer
		}
	}

	wf := &workflows.EnvWorkflow{UI: console}
	if _, err := wf.RotatePepper(record, confirmed); err != nil {
		return exitWithRunError(console, err)
	}
	return 0
}
