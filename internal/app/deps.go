// Where: deliriumctl/internal/app/deps.go
// What: Injected dependencies for CLI command execution.
// Why: Let tests swap the docker client, the command runner, and the
//      prompts without touching the handlers.
package app

import (
	"context"
	"io"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/config"
	"github.com/delirium-paste/deliriumctl/internal/interaction"
	"github.com/delirium-paste/deliriumctl/internal/profile"
	"github.com/delirium-paste/deliriumctl/internal/workflows"
)

// Dependencies holds all injected dependencies required for CLI command
// execution. Nil fields resolve to the real implementations.
type Dependencies struct {
	Out      io.Writer
	Runner   compose.CommandRunner
	Docker   compose.DockerClient
	Prompter interaction.Prompter

	// Config persistence seams.
	LoadConfig func() (config.GlobalConfig, error)
	SaveConfig func(cfg config.GlobalConfig) error

	// Workflow overrides for tests.
	Setup  *workflows.SetupWorkflow
	Status *workflows.StatusWorkflow
	Verify *workflows.VerifyWorkflow
	Backup *workflows.BackupWorkflow

	// InstallDocker provisions the docker engine on a bare host.
	InstallDocker func(ctx context.Context, runner compose.CommandRunner) error
}

// setupWorkflow returns the injected workflow or builds the real one. The
// SaveProfile hook persists the chosen profile and install dir so follow-up
// commands find the deployment without flags.
func setupWorkflow(cli CLI, deps Dependencies, cmdCtx commandContext) (*workflows.SetupWorkflow, error) {
	if deps.Setup != nil {
		return deps.Setup, nil
	}
	docker, err := dockerClient(deps)
	if err != nil {
		return nil, err
	}
	return &workflows.SetupWorkflow{
		Runner:   runnerFor(deps),
		Docker:   docker,
		Prompter: prompterFor(cli, deps),
		UI:       cmdCtx.Console,
		SaveProfile: func(prof profile.Profile, installDir, owner string) error {
			cfg, err := loadConfig(deps)
			if err != nil {
				return err
			}
			cfg.InstallDir = installDir
			cfg.Profile = string(prof)
			if owner != "" {
				cfg.RepoOwner = owner
			}
			return saveConfig(deps, cfg)
		},
	}, nil
}

func statusWorkflow(deps Dependencies, cmdCtx commandContext) (*workflows.StatusWorkflow, error) {
	if deps.Status != nil {
		return deps.Status, nil
	}
	docker, err := dockerClient(deps)
	if err != nil {
		return nil, err
	}
	return &workflows.StatusWorkflow{Docker: docker, UI: cmdCtx.Console}, nil
}

func verifyWorkflow(deps Dependencies, cmdCtx commandContext) *workflows.VerifyWorkflow {
	if deps.Verify != nil {
		return deps.Verify
	}
	return &workflows.VerifyWorkflow{UI: cmdCtx.Console}
}

func backupWorkflow(deps Dependencies, cmdCtx commandContext) *workflows.BackupWorkflow {
	if deps.Backup != nil {
		return deps.Backup
	}
	return &workflows.BackupWorkflow{Runner: runnerFor(deps), UI: cmdCtx.Console}
}
