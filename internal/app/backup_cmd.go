// Where: deliriumctl/internal/app/backup_cmd.go
// What: Handler for the backup command.
// Why: Map flags, remembered config, and environment onto one backup run.
package app

import (
	"context"
	"io"
	"os"

	"github.com/delirium-paste/deliriumctl/internal/backup"
	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/envutil"
	"github.com/delirium-paste/deliriumctl/internal/workflows"
)

func runBackup(cli CLI, deps Dependencies, out io.Writer) int {
	cmdCtx, err := resolveCommandContext(cli, deps, out)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := cmdCtx.requireDeployment(); err != nil {
		return exitWithError(out, err)
	}

	// Flags beat the process environment, which beats the remembered config.
	req := workflows.BackupRequest{
		InstallDir: cmdCtx.InstallDir,
		Stack:      cmdCtx.Stack,
		OutDir:     cli.Backup.Out,
		Bucket: envutil.FirstNonEmpty(cli.Backup.Bucket,
			os.Getenv(constants.EnvBackupBucket), cmdCtx.Config.Backup.Bucket),
		Prefix: envutil.FirstNonEmpty(cli.Backup.Prefix,
			cmdCtx.Config.Backup.Prefix),
		S3: backup.S3Options{
			Endpoint: envutil.FirstNonEmpty(cli.Backup.Endpoint,
				os.Getenv(constants.EnvBackupEndpoint), cmdCtx.Config.Backup.Endpoint),
			Region: envutil.FirstNonEmpty(cli.Backup.Region,
				os.Getenv(constants.EnvBackupRegion), cmdCtx.Config.Backup.Region),
			AccessKey: os.Getenv(constants.EnvBackupAccess),
			SecretKey: os.Getenv(constants.EnvBackupSecret),
		},
	}

	wf := backupWorkflow(deps, cmdCtx)
	if _, err := wf.Run(context.Background(), req); err != nil {
		return exitWithRunError(cmdCtx.Console, err)
	}
	return 0
}
