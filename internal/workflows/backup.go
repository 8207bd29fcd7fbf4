// Where: deliriumctl/internal/workflows/backup.go
// What: Backup workflow: archive locally, optionally upload to S3.
// Why: Keep the command thin; the workflow decides destinations and wording.
package workflows

import (
	"context"
	"fmt"

	"github.com/delirium-paste/deliriumctl/internal/backup"
	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

// BackupRequest captures one backup invocation.
type BackupRequest struct {
	InstallDir string
	Stack      compose.Stack
	OutDir     string
	Bucket     string
	Prefix     string
	S3         backup.S3Options
}

// BackupWorkflow creates and optionally uploads one archive.
type BackupWorkflow struct {
	Runner compose.CommandRunner
	UI     *ui.Console

	// Seams for tests.
	Create    func(ctx context.Context, runner compose.CommandRunner, stack compose.Stack, opts backup.Options) (backup.Archive, error)
	NewClient func(ctx context.Context, opts backup.S3Options) (backup.S3API, error)
	Upload    func(ctx context.Context, api backup.S3API, bucket, key, path string) error
}

// Run produces the archive and returns it. Upload failures are errors: an
// operator asking for an off-host copy must not silently end up without one.
func (w *BackupWorkflow) Run(ctx context.Context, req BackupRequest) (backup.Archive, error) {
	create := w.Create
	if create == nil {
		create = backup.Create
	}

	archive, err := create(ctx, w.Runner, req.Stack, backup.Options{
		InstallDir: req.InstallDir,
		OutDir:     req.OutDir,
	})
	if err != nil {
		return backup.Archive{}, fmt.Errorf("create backup: %w", err)
	}

	if w.UI != nil {
		w.UI.Success("Backup written to " + archive.Path)
		if !archive.DataIncluded {
			w.UI.Warn("data volume not exported (stack not running?); the archive holds the env record only")
		}
	}

	if req.Bucket == "" {
		return archive, nil
	}

	newClient := w.NewClient
	if newClient == nil {
		newClient = backup.NewS3Client
	}
	upload := w.Upload
	if upload == nil {
		upload = backup.Upload
	}

	api, err := newClient(ctx, req.S3)
	if err != nil {
		return archive, err
	}
	key := archive.Key(req.Prefix)
	if err := upload(ctx, api, req.Bucket, key, archive.Path); err != nil {
		return archive, err
	}
	if w.UI != nil {
		w.UI.Success(fmt.Sprintf("Uploaded to s3://%s/%s", req.Bucket, key))
	}
	return archive, nil
}
