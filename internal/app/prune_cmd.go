// Where: deliriumctl/internal/app/prune_cmd.go
// What: Handler for the prune command.
// Why: Project-scoped cleanup with an explicit gate in front of data loss.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/meta"
)

func runPrune(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	console := cmdCtx.Console

	if !cli.Prune.Yes {
		if cmdCtx.Headless {
			return exitWithError(out, fmt.Errorf("prune needs --yes in headless mode"))
		}
		prompter := prompterFor(cli, deps)
		if prompter != nil {
			message := "Remove stopped containers, networks, and dangling images for this project?"
			if cli.Prune.Volumes {
				message = "Remove containers, networks, images, AND volumes? All pastes will be deleted."
			}
			confirmed, err := prompter.Confirm(message)
			if err != nil {
				return exitWithRunError(console, err)
			}
			if !confirmed {
				console.Info("Nothing removed.")
				return 0
			}
		}
	}

	docker, err := dockerClient(deps)
	if err != nil {
		return exitWithError(out, err)
	}

	report, err := compose.PruneProject(context.Background(), docker, compose.PruneOptions{
		Project:       meta.ComposeProject,
		RemoveVolumes: cli.Prune.Volumes,
		AllImages:     cli.Prune.All,
	})
	if err != nil {
		return exitWithRunError(console, err)
	}

	console.BlockStart("🧹", "Prune report")
	console.Item("Containers", len(report.ContainersDeleted))
	console.Item("Networks", len(report.NetworksDeleted))
	console.Item("Images", len(report.ImagesDeleted))
	if cli.Prune.Volumes {
		console.Item("Volumes", len(report.VolumesDeleted))
	}
	console.Item("Reclaimed", fmt.Sprintf("%d bytes", report.SpaceReclaimed))
	console.BlockEnd()
	return 0
}
