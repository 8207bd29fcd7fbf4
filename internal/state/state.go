// Where: deliriumctl/internal/state/state.go
// What: Deployment state definitions and derivation helpers.
// Why: Centralize how observed facts map to one reportable state.
package state

// State is the derived condition of a deployment.
type State string

const (
	// StateAbsent means no env record and no overlays exist yet.
	StateAbsent State = "absent"
	// StateConfigured means the install dir is set up but nothing runs.
	StateConfigured State = "configured"
	// StateStopped means containers exist but none are running.
	StateStopped State = "stopped"
	// StateRunning means every project container is running.
	StateRunning State = "running"
	// StateDegraded means some containers run while others do not.
	StateDegraded State = "degraded"
)

// ContainerInfo is the slice of a container this package inspects.
type ContainerInfo struct {
	Name    string
	Service string
	State   string
}

// DeriveState maps the observed facts to a State. Configuration presence
// only matters when no containers exist: a running stack is reported as
// running even if someone deleted the .env afterwards.
func DeriveState(configured bool, containers []ContainerInfo) State {
	if len(containers) == 0 {
		if configured {
			return StateConfigured
		}
		return StateAbsent
	}

	running := countRunning(containers)
	switch running {
	case 0:
		return StateStopped
	case len(containers):
		return StateRunning
	default:
		return StateDegraded
	}
}

func countRunning(containers []ContainerInfo) int {
	count := 0
	for _, ctr := range containers {
		if ctr.State == "running" {
			count++
		}
	}
	return count
}
