// Where: deliriumctl/internal/app/setup_cmd.go
// What: Handlers for setup and bootstrap.
// Why: Translate flags and arguments into one setup workflow run.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/delirium-paste/deliriumctl/internal/profile"
	"github.com/delirium-paste/deliriumctl/internal/version"
	"github.com/delirium-paste/deliriumctl/internal/workflows"
)

// runSetup drives the interactive deployment.
func runSetup(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}

	var prof profile.Profile
	if strings.TrimSpace(cli.Setup.Profile) != "" {
		prof = profile.Parse(cli.Setup.Profile)
	}

	wf, err := setupWorkflow(cli, deps, cmdCtx)
	if err != nil {
		return exitWithError(out, err)
	}

	_, err = wf.Run(context.Background(), workflows.SetupRequest{
		InstallDir:   cmdCtx.InstallDir,
		Profile:      prof,
		Domain:       cli.Setup.Domain,
		Email:        cli.Setup.Email,
		Owner:        cli.Setup.Owner,
		SkipFrontend: cli.Setup.SkipFrontend,
		Headless:     cmdCtx.Headless,
		NoBrowser:    cli.Setup.NoBrowser,
	})
	return exitWithRunError(cmdCtx.Console, err)
}

// runBootstrap deploys the TLS profile without prompts, installing the docker
// engine first when the host has none.
func runBootstrap(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console
	ctx := context.Background()

	if err := ensureDockerInstalled(ctx, deps, cmdCtx); err != nil {
		console.Failure(fmt.Sprintf("docker engine unavailable: %v", err))
		return 1
	}

	wf, err := setupWorkflow(cli, deps, cmdCtx)
	if err != nil {
		return exitWithError(out, err)
	}

	_, err = wf.Run(ctx, workflows.SetupRequest{
		InstallDir: cmdCtx.InstallDir,
		Profile:    profile.ProductionTLS,
		Domain:     cli.Bootstrap.Domain,
		Email:      cli.Bootstrap.Email,
		Owner:      cli.Bootstrap.Owner,
		Headless:   true,
		NoBrowser:  true,
	})
	return exitWithRunError(console, err)
}

// runOverview handles invocation without arguments: say where the deployment
// lives and what it is doing, or how to get one.
func runOverview(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console

	console.Header("🗒️", "delirium deployment")
	console.Item("Version", version.GetVersion())
	console.Item("Install dir", cmdCtx.InstallDir)
	console.Item("Profile", cmdCtx.Profile.Label())

	if err := cmdCtx.requireDeployment(); err != nil {
		console.Info("No deployment here yet. Run 'deliriumctl setup' to create one.")
		return 0
	}
	return runStatus(cli, deps, out)
}
