// Where: deliriumctl/internal/workflows/status.go
// What: Status workflow deriving and printing the deployment state.
// Why: One command answers "what is my deployment doing" without the
//      operator stitching together docker ps and ls.
package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/meta"
	"github.com/delirium-paste/deliriumctl/internal/state"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

// StatusWorkflow derives the deployment state and renders a container table.
type StatusWorkflow struct {
	Docker compose.DockerClient
	UI     *ui.Console

	// ListContainers is a seam; nil resolves to the docker SDK listing.
	ListContainers func(ctx context.Context, project string) ([]compose.ContainerInfo, error)
}

// Run prints the state plus one line per container and returns the state.
func (w *StatusWorkflow) Run(ctx context.Context, installDir string) (state.State, error) {
	list := w.ListContainers
	if list == nil {
		list = func(ctx context.Context, project string) ([]compose.ContainerInfo, error) {
			return compose.ListProjectContainers(ctx, w.Docker, project)
		}
	}

	containers, err := list(ctx, meta.ComposeProject)
	if err != nil {
		return state.StateAbsent, fmt.Errorf("list containers: %w", err)
	}

	infos := make([]state.ContainerInfo, 0, len(containers))
	for _, ctr := range containers {
		infos = append(infos, state.ContainerInfo{Name: ctr.Name, Service: ctr.Service, State: ctr.State})
	}
	derived := state.DeriveState(state.HasConfig(installDir), infos)

	if w.UI != nil {
		w.UI.BlockStart("📋", "Deployment status")
		w.UI.Item("State", string(derived))
		w.UI.Item("Install dir", installDir)
		for _, ctr := range containers {
			ports := make([]string, 0, len(ctr.Ports))
			for _, port := range ctr.Ports {
				ports = append(ports, fmt.Sprintf("%d", port))
			}
			detail := ctr.State
			if len(ports) > 0 {
				detail += " (:" + strings.Join(ports, ", :") + ")"
			}
			w.UI.Item(ctr.Name, detail)
		}
		w.UI.BlockEnd()
	}
	return derived, nil
}
