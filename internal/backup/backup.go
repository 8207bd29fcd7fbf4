// Where: deliriumctl/internal/backup/backup.go
// What: Deployment backup archive assembly.
// Why: The env record holds the pepper and the data volume holds the pastes;
//      losing either means losing the deployment.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/fileops"
	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// Options configures one backup run.
type Options struct {
	InstallDir  string
	OutDir      string // defaults to ~/.delirium/backups
	DataService string // compose service holding the paste data
	DataPath    string // data directory inside that container
}

// DefaultDataService is the compose service whose volume gets exported.
const DefaultDataService = "server"

// DefaultDataPath is where the server image keeps its paste store.
const DefaultDataPath = "/data"

// Archive describes one produced backup.
type Archive struct {
	ID           string
	Path         string
	CreatedAt    time.Time
	DataIncluded bool
}

// Key returns the object key used when the archive is uploaded.
func (a Archive) Key(prefix string) string {
	name := filepath.Base(a.Path)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// now is a seam for deterministic archive names in tests.
var now = time.Now

// DefaultOutDir resolves the local backup directory.
func DefaultOutDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.HomeDir, meta.BackupsDir), nil
}

// Create stages the env record plus the exported data volume and packs them
// into one tar.gz. A failed volume export degrades to an env-only archive:
// the stack may simply not be running, and the pepper alone is still worth
// saving.
func Create(ctx context.Context, runner compose.CommandRunner, stack compose.Stack, opts Options) (Archive, error) {
	if opts.InstallDir == "" {
		return Archive{}, fmt.Errorf("install dir is required")
	}
	outDir := opts.OutDir
	if outDir == "" {
		resolved, err := DefaultOutDir()
		if err != nil {
			return Archive{}, err
		}
		outDir = resolved
	}
	service := opts.DataService
	if service == "" {
		service = DefaultDataService
	}
	dataPath := opts.DataPath
	if dataPath == "" {
		dataPath = DefaultDataPath
	}

	staging, err := os.MkdirTemp("", "delirium-backup-")
	if err != nil {
		return Archive{}, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = fileops.RemoveDir(staging) }()

	envPath := filepath.Join(opts.InstallDir, envfile.DefaultName)
	if err := fileops.CopyFile(envPath, filepath.Join(staging, envfile.DefaultName)); err != nil {
		return Archive{}, fmt.Errorf("stage env record: %w", err)
	}

	archive := Archive{
		ID:        uuid.NewString(),
		CreatedAt: now(),
	}
	if err := compose.CopyFrom(ctx, runner, stack, service, dataPath, filepath.Join(staging, "data")); err == nil {
		archive.DataIncluded = true
	}

	name := fmt.Sprintf("%s-backup-%s-%s.tar.gz",
		meta.Slug, archive.CreatedAt.UTC().Format("20060102-150405"), archive.ID[:8])
	archive.Path = filepath.Join(outDir, name)

	if err := fileops.TarGzDir(staging, archive.Path, meta.Slug+"-backup"); err != nil {
		return Archive{}, fmt.Errorf("pack archive: %w", err)
	}
	return archive, nil
}
