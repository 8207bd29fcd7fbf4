// Where: deliriumctl/internal/state/detector.go
// What: Deployment state detector orchestration.
// Why: Compose filesystem facts and container listings into one state.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/profile"
)

// Detector derives the deployment state for one install dir. The function
// fields are injectable so tests never need a docker daemon.
type Detector struct {
	InstallDir string
	Project    string

	HasConfig      func(installDir string) bool
	ListContainers func(project string) ([]ContainerInfo, error)
}

// Detect returns the current state plus the containers it observed.
func (d Detector) Detect() (State, []ContainerInfo, error) {
	hasConfig := d.HasConfig
	if hasConfig == nil {
		hasConfig = HasConfig
	}

	if d.ListContainers == nil {
		return StateAbsent, nil, fmt.Errorf("container lister not configured")
	}
	containers, err := d.ListContainers(d.Project)
	if err != nil {
		return StateAbsent, nil, err
	}

	return DeriveState(hasConfig(d.InstallDir), containers), containers, nil
}

// HasConfig reports whether the install dir carries both an env record and
// the base compose file.
func HasConfig(installDir string) bool {
	if _, err := os.Stat(filepath.Join(installDir, envfile.DefaultName)); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(installDir, profile.BaseFile)); err != nil {
		return false
	}
	return true
}
