// Where: deliriumctl/internal/portcheck/portcheck.go
// What: Host port availability checks before launch.
// Why: Compose fails with an opaque bind error when a port is taken; probing
//      first lets the tool stop its own stale containers and name anything
//      else instead of killing it.
package portcheck

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/composefile"
	"github.com/delirium-paste/deliriumctl/internal/profile"
)

// listen is a seam so tests can fake occupied ports.
var listen = net.Listen

// Required returns the host ports that must be free for the launch. The
// merged compose model wins; the profile's defaults only apply when the
// model publishes nothing (scaffold not yet rendered, interpolation off).
func Required(model *composefile.Model, prof profile.Profile, webPort int) []int {
	if model != nil {
		if ports := model.PublishedPorts(); len(ports) > 0 {
			return ports
		}
	}
	ports := prof.RequiredPorts(webPort)
	sort.Ints(ports)
	return ports
}

// Free reports whether a TCP listener can bind the port on all interfaces.
func Free(port int) bool {
	listener, err := listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// Conflict describes one occupied required port. Occupant is nil when the
// listener is not a container, meaning the operator has to resolve it.
type Conflict struct {
	Port     int
	Occupant *compose.PortOccupant
}

// Owned reports whether the occupying container belongs to this deployment.
func (c Conflict) Owned() bool {
	return c.Occupant != nil && c.Occupant.Owned
}

// Inspect probes each port and attributes busy ones to containers where it
// can. The docker client may be nil; conflicts then carry no occupant.
func Inspect(ctx context.Context, dc compose.DockerClient, project string, ports []int) ([]Conflict, error) {
	var conflicts []Conflict
	for _, port := range ports {
		if Free(port) {
			continue
		}
		conflict := Conflict{Port: port}
		if dc != nil {
			occupant, err := compose.FindPortOccupant(ctx, dc, project, port)
			if err != nil {
				return conflicts, fmt.Errorf("inspect port %d: %w", port, err)
			}
			conflict.Occupant = occupant
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts, nil
}

// StopOwned stops every conflict container owned by this deployment and
// returns the conflicts that remain for the operator: foreign containers and
// bare processes. Stopping never touches anything the tool does not own.
func StopOwned(ctx context.Context, dc compose.DockerClient, conflicts []Conflict) ([]Conflict, error) {
	var remaining []Conflict
	for _, conflict := range conflicts {
		if !conflict.Owned() {
			remaining = append(remaining, conflict)
			continue
		}
		if err := compose.StopContainer(ctx, dc, conflict.Occupant.ContainerID); err != nil {
			return remaining, fmt.Errorf("stop container %s: %w", conflict.Occupant.Name, err)
		}
	}
	return remaining, nil
}

// Describe renders one conflict for operator-facing output.
func Describe(c Conflict) string {
	switch {
	case c.Occupant == nil:
		return fmt.Sprintf("port %d is in use by a non-container process", c.Port)
	case c.Occupant.Owned:
		return fmt.Sprintf("port %d is held by container %s from a previous run", c.Port, c.Occupant.Name)
	default:
		return fmt.Sprintf("port %d is in use by unrelated container %s", c.Port, c.Occupant.Name)
	}
}
