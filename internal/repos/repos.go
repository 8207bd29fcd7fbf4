// Where: deliriumctl/internal/repos/repos.go
// What: Peer source repository resolution and cloning.
// Why: The stack builds images from the server and client trees, so both
//      must exist next to the install dir before compose can build.
package repos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// Status describes the local presence of one peer repository.
type Status int

const (
	// Missing means the directory does not exist yet.
	Missing Status = iota
	// Present means the directory exists and is a git work tree.
	Present
	// Unmanaged means the directory exists but carries no .git, so the
	// tool refuses to clone over it.
	Unmanaged
)

// Repo names one peer repository under a GitHub owner.
type Repo struct {
	Owner string
	Name  string
}

// Peers returns the two source repositories the deployment builds from.
func Peers(owner string) []Repo {
	if strings.TrimSpace(owner) == "" {
		owner = meta.DefaultRepoOwner
	}
	return []Repo{
		{Owner: owner, Name: meta.ServerRepo},
		{Owner: owner, Name: meta.ClientRepo},
	}
}

// CloneURL returns the HTTPS clone URL for r.
func (r Repo) CloneURL() string {
	return fmt.Sprintf("%s/%s/%s.git", meta.GitHubBase, r.Owner, r.Name)
}

// Dir returns the checkout path for r under parentDir.
func (r Repo) Dir(parentDir string) string {
	return filepath.Join(parentDir, r.Name)
}

// Check reports the local status of r under parentDir.
func (r Repo) Check(parentDir string) Status {
	dir := r.Dir(parentDir)
	if _, err := os.Stat(dir); err != nil {
		return Missing
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return Unmanaged
	}
	return Present
}

// Clone performs a shallow clone of r into parentDir.
func (r Repo) Clone(ctx context.Context, runner compose.CommandRunner, parentDir string) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	if err := runner.Run(ctx, parentDir, "git", "clone", "--depth", "1", r.CloneURL(), r.Name); err != nil {
		return fmt.Errorf("clone %s: %w", r.CloneURL(), err)
	}
	return nil
}

// Ensure makes r available under parentDir, cloning when missing. An
// existing directory that is not a git work tree is an error: overwriting
// whatever the operator put there is not this tool's call.
func (r Repo) Ensure(ctx context.Context, runner compose.CommandRunner, parentDir string) error {
	switch r.Check(parentDir) {
	case Present:
		return nil
	case Unmanaged:
		return fmt.Errorf("%s exists but is not a git checkout; move it aside or clone %s manually", r.Dir(parentDir), r.CloneURL())
	default:
		return r.Clone(ctx, runner, parentDir)
	}
}
