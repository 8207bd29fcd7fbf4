// Where: deliriumctl/internal/compose/docker.go
// What: Docker SDK helpers for containers scoped to the Delirium project.
// Why: State detection and port conflict handling need direct daemon queries
//      that the compose CLI does not expose cleanly.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"

	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainersPrune(ctx context.Context, pruneFilters filters.Args) (container.PruneReport, error)
	ImagesPrune(ctx context.Context, pruneFilters filters.Args) (image.PruneReport, error)
	NetworksPrune(ctx context.Context, pruneFilters filters.Args) (network.PruneReport, error)
	VolumesPrune(ctx context.Context, pruneFilters filters.Args) (volume.PruneReport, error)
}

// NewDockerClient constructs a Docker SDK client using environment defaults.
func NewDockerClient() (DockerClient, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// ContainerInfo holds display-oriented facts about one project container.
type ContainerInfo struct {
	Name    string
	Service string
	State   string
	Ports   []int
}

// ListProjectContainers returns information for all containers belonging to
// the compose project, running or not.
func ListProjectContainers(ctx context.Context, dc DockerClient, project string) ([]ContainerInfo, error) {
	if dc == nil {
		return nil, fmt.Errorf("docker client is nil")
	}
	labelFilter := filters.NewArgs()
	labelFilter.Add("label", fmt.Sprintf("%s=%s", meta.LabelProject, project))

	containers, err := dc.ContainerList(ctx, container.ListOptions{All: true, Filters: labelFilter})
	if err != nil {
		return nil, err
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, ctr := range containers {
		if ctr.Labels == nil || ctr.Labels[meta.LabelProject] != project {
			continue
		}
		info := ContainerInfo{
			Name:    containerName(ctr),
			Service: ctr.Labels[meta.LabelService],
			State:   ctr.State,
		}
		for _, p := range ctr.Ports {
			if p.PublicPort > 0 {
				info.Ports = append(info.Ports, int(p.PublicPort))
			}
		}
		result = append(result, info)
	}
	return result, nil
}

// PortOccupant describes the container currently publishing a host port.
// Owned is true only when the container belongs to this deployment, judged
// by the container name prefix or the compose project label.
type PortOccupant struct {
	ContainerID string
	Name        string
	Owned       bool
}

// FindPortOccupant returns the running container publishing the given host
// port, or nil when no container does. A nil result with a busy port means a
// non-container process holds it.
func FindPortOccupant(ctx context.Context, dc DockerClient, project string, port int) (*PortOccupant, error) {
	if dc == nil {
		return nil, fmt.Errorf("docker client is nil")
	}
	containers, err := dc.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, err
	}

	for _, ctr := range containers {
		for _, p := range ctr.Ports {
			if int(p.PublicPort) != port {
				continue
			}
			name := containerName(ctr)
			owned := strings.HasPrefix(name, meta.ContainerScope)
			if !owned && ctr.Labels != nil && ctr.Labels[meta.LabelProject] == project {
				owned = true
			}
			return &PortOccupant{ContainerID: ctr.ID, Name: name, Owned: owned}, nil
		}
	}
	return nil, nil
}

// StopContainer stops one container with the daemon's default grace period.
func StopContainer(ctx context.Context, dc DockerClient, containerID string) error {
	if dc == nil {
		return fmt.Errorf("docker client is nil")
	}
	return dc.ContainerStop(ctx, containerID, container.StopOptions{})
}

func containerName(ctr container.Summary) string {
	if len(ctr.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(ctr.Names[0], "/")
}
