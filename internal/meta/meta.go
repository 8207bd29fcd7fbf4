// Where: deliriumctl/internal/meta/meta.go
// What: Tool-local metadata constants.
// Why: Keep branding and naming in one place so commands never drift.
package meta

const (
	// Project Identity
	AppName        = "deliriumctl"
	Slug           = "delirium"
	EnvPrefix      = "DELIRIUM"
	ComposeProject = "delirium"
	ContainerScope = "delirium-"

	// Compose Labels
	LabelProject = "com.docker.compose.project"
	LabelService = "com.docker.compose.service"

	// Directory Layout
	HomeDir    = ".delirium"
	BackupsDir = "backups"

	// Peer Repositories
	DefaultRepoOwner = "delirium-paste"
	ServerRepo       = "delirium-server"
	ClientRepo       = "delirium-client"
	GitHubBase       = "https://github.com"
)
