// Where: deliriumctl/internal/compose/prune.go
// What: Project-scoped Docker prune helpers.
// Why: Provide a system-prune-like cleanup limited to the Delirium project.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"

	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// PruneOptions configures project-scoped cleanup behavior.
type PruneOptions struct {
	Project       string
	RemoveVolumes bool
	AllImages     bool
}

// PruneReport summarizes what was deleted during prune.
type PruneReport struct {
	ContainersDeleted []string
	NetworksDeleted   []string
	VolumesDeleted    []string
	ImagesDeleted     []image.DeleteResponse
	SpaceReclaimed    uint64
}

// PruneProject deletes Docker resources scoped to the compose project label.
// It removes stopped containers, unused networks, dangling images, and
// optionally volumes. AllImages widens the image pass beyond dangling ones.
func PruneProject(ctx context.Context, dc DockerClient, opts PruneOptions) (PruneReport, error) {
	if dc == nil {
		return PruneReport{}, fmt.Errorf("docker client is nil")
	}
	project := strings.TrimSpace(opts.Project)
	if project == "" {
		return PruneReport{}, fmt.Errorf("compose project is required")
	}

	report := PruneReport{}
	projectFilter := projectLabelFilter(project)

	containers, err := dc.ContainersPrune(ctx, projectFilter)
	if err != nil {
		return report, err
	}
	report.ContainersDeleted = append(report.ContainersDeleted, containers.ContainersDeleted...)
	report.SpaceReclaimed += containers.SpaceReclaimed

	networks, err := dc.NetworksPrune(ctx, projectFilter)
	if err != nil {
		return report, err
	}
	report.NetworksDeleted = append(report.NetworksDeleted, networks.NetworksDeleted...)

	if opts.RemoveVolumes {
		volumes, err := dc.VolumesPrune(ctx, projectFilter)
		if err != nil {
			return report, err
		}
		report.VolumesDeleted = append(report.VolumesDeleted, volumes.VolumesDeleted...)
		report.SpaceReclaimed += volumes.SpaceReclaimed
	}

	images, err := dc.ImagesPrune(ctx, imagePruneFilters(project, opts.AllImages))
	if err != nil {
		return report, err
	}
	report.ImagesDeleted = append(report.ImagesDeleted, images.ImagesDeleted...)
	report.SpaceReclaimed += images.SpaceReclaimed

	return report, nil
}

func projectLabelFilter(project string) filters.Args {
	return filters.NewArgs(filters.Arg("label", fmt.Sprintf("%s=%s", meta.LabelProject, project)))
}

func imagePruneFilters(project string, all bool) filters.Args {
	pruneFilters := projectLabelFilter(project)
	if all {
		pruneFilters.Add("dangling", "false")
	} else {
		pruneFilters.Add("dangling", "true")
	}
	return pruneFilters
}
