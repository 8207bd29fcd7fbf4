// Where: deliriumctl/internal/app/provision.go
// What: Docker engine self-provisioning for bootstrap.
// Why: A fresh host has nothing installed; bootstrap must get from a bare
//      VM to a running stack in one command.
package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/prereq"
)

// ensureDockerInstalled checks for the docker binary and, when it is missing,
// runs the vendor convenience script. Interactive setup never installs
// anything; only bootstrap takes this path.
func ensureDockerInstalled(ctx context.Context, deps Dependencies, cmdCtx commandContext) error {
	runner := runnerFor(deps)
	report := prereq.Run(ctx, nil, nil, prereq.DefaultTools())

	dockerMissing := false
	for _, check := range report.Checks {
		if check.Tool.Name == "docker" && check.Err != nil {
			dockerMissing = true
		}
	}
	if !dockerMissing {
		return nil
	}

	install := deps.InstallDocker
	if install == nil {
		install = installDockerEngine
	}
	cmdCtx.Console.Info("docker not found; installing the engine")
	if err := install(ctx, runner); err != nil {
		return fmt.Errorf("install docker: %w", err)
	}
	cmdCtx.Console.Success("docker engine installed")
	return nil
}

// installDockerEngine fetches and runs the get.docker.com script.
func installDockerEngine(ctx context.Context, runner compose.CommandRunner) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("automatic install only works on linux; install Docker Desktop manually")
	}
	return runner.Run(ctx, "", "sh", "-c", "curl -fsSL https://get.docker.com | sh")
}
