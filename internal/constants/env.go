// Where: deliriumctl/internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Deployment Record Keys (persisted in the .env file)
	EnvSecretPepper     = "DELIRIUM_SECRET_PEPPER"
	EnvWebPort          = "DELIRIUM_WEB_PORT"
	EnvDomain           = "DELIRIUM_DOMAIN"
	EnvLetsEncryptEmail = "DELIRIUM_LETSENCRYPT_EMAIL"
	EnvRepoOwner        = "DELIRIUM_REPO_OWNER"

	// Tool Behavior (process environment only)
	EnvHeadless   = "DELIRIUM_HEADLESS"
	EnvNoBrowser  = "DELIRIUM_NO_BROWSER"
	EnvInstallDir = "DELIRIUM_INSTALL_DIR"
	EnvProfile    = "DELIRIUM_PROFILE"
	EnvHome       = "DELIRIUM_HOME"

	// Backup Configuration
	EnvBackupBucket   = "DELIRIUM_BACKUP_BUCKET"
	EnvBackupEndpoint = "DELIRIUM_BACKUP_ENDPOINT"
	EnvBackupRegion   = "DELIRIUM_BACKUP_REGION"
	EnvBackupAccess   = "DELIRIUM_BACKUP_ACCESS_KEY"
	EnvBackupSecret   = "DELIRIUM_BACKUP_SECRET_KEY"
)

// PepperLength is the exact hex character count required of a valid pepper.
const PepperLength = 64

// DefaultWebPort is the published client port when none is configured.
const DefaultWebPort = 8080
