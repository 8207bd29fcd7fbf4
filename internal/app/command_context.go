// Where: deliriumctl/internal/app/command_context.go
// What: Shared context resolution for CLI commands.
// Why: Reduce duplicated install-dir/profile/stack setup across commands.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/config"
	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/envutil"
	"github.com/delirium-paste/deliriumctl/internal/interaction"
	"github.com/delirium-paste/deliriumctl/internal/meta"
	"github.com/delirium-paste/deliriumctl/internal/profile"
	"github.com/delirium-paste/deliriumctl/internal/ui"
	"github.com/delirium-paste/deliriumctl/internal/workflows"
)

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}

func exitWithSuggestion(out io.Writer, message string, suggestions []string) int {
	fmt.Fprintln(out, message)
	for _, s := range suggestions {
		fmt.Fprintf(out, "  %s\n", s)
	}
	return 1
}

// exitWithRunError maps a workflow error onto an exit code and message shape.
// Fatal step failures show the step and a remediation line; an operator abort
// gets a short acknowledgement instead of a stack of wrapped errors.
func exitWithRunError(console *ui.Console, err error) int {
	if err == nil {
		return 0
	}
	if interaction.IsAbort(err) {
		console.Warn("Aborted.")
		return 1
	}
	var fatal *workflows.FatalError
	if errors.As(err, &fatal) {
		console.Failure(fmt.Sprintf("Stopped at %s: %v", fatal.Step, fatal.Err))
		if fatal.Remediation != "" {
			console.ItemPlain("Next: " + fatal.Remediation)
		}
		return 1
	}
	console.Failure(err.Error())
	return 1
}

// commandContext carries everything a command handler needs that is derived
// from the global flags and the remembered configuration.
type commandContext struct {
	Console    *ui.Console
	Config     config.GlobalConfig
	InstallDir string
	Profile    profile.Profile
	Stack      compose.Stack
	Headless   bool
}

// resolveCommandContext resolves the install directory (flag, then
// environment, then remembered config, then working directory) and derives
// the compose stack from the remembered profile.
func resolveCommandContext(cli CLI, deps Dependencies, out io.Writer) (commandContext, error) {
	console := consoleFor(cli, out)

	cfg, err := loadConfig(deps)
	if err != nil {
		return commandContext{}, err
	}

	installDir := envutil.FirstNonEmpty(
		strings.TrimSpace(cli.Dir),
		envutil.GetHostEnv("INSTALL_DIR"),
		cfg.InstallDir,
	)
	if installDir == "" {
		installDir, err = os.Getwd()
		if err != nil {
			return commandContext{}, err
		}
	}
	installDir, err = filepath.Abs(installDir)
	if err != nil {
		return commandContext{}, err
	}

	prof := profile.Parse(envutil.FirstNonEmpty(envutil.GetHostEnv("PROFILE"), cfg.Profile))

	return commandContext{
		Console:    console,
		Config:     cfg,
		InstallDir: installDir,
		Profile:    prof,
		Stack: compose.Stack{
			RootDir: installDir,
			Project: meta.ComposeProject,
			Files:   prof.ComposeFiles(installDir),
			EnvFile: envfile.DefaultName,
		},
		Headless: cli.Headless || interaction.Headless(),
	}, nil
}

// requireDeployment fails early when the install dir holds no deployment, so
// lifecycle commands give one clear hint instead of a compose usage error.
func (c commandContext) requireDeployment() error {
	if missing := c.Profile.MissingFiles(c.InstallDir); len(missing) > 0 {
		return fmt.Errorf("no deployment found in %s (missing %s); run 'deliriumctl setup' first",
			c.InstallDir, strings.Join(missing, ", "))
	}
	return nil
}

// loadRecord opens the env record inside the install dir.
func (c commandContext) loadRecord() (*envfile.Record, error) {
	return envfile.Load(filepath.Join(c.InstallDir, envfile.DefaultName))
}

// webPort reads the configured web port from the record, defaulting when the
// record is absent or silent.
func (c commandContext) webPort() int {
	record, err := c.loadRecord()
	if err != nil {
		return constants.DefaultWebPort
	}
	port := constants.DefaultWebPort
	if record.Has(constants.EnvWebPort) {
		fmt.Sscanf(record.Get(constants.EnvWebPort), "%d", &port)
	}
	return port
}

// publishedPort is the host port the deployed site answers on. Production
// profiles publish through the edge proxy on port 80; only development
// exposes the record's web port directly.
func (c commandContext) publishedPort() int {
	if c.Profile != profile.Development {
		return 80
	}
	return c.webPort()
}

func consoleFor(cli CLI, out io.Writer) *ui.Console {
	return ui.NewWithEmoji(out, !cli.NoEmoji)
}

func loadConfig(deps Dependencies) (config.GlobalConfig, error) {
	if deps.LoadConfig != nil {
		return deps.LoadConfig()
	}
	return config.LoadCurrent()
}

func saveConfig(deps Dependencies, cfg config.GlobalConfig) error {
	if deps.SaveConfig != nil {
		return deps.SaveConfig(cfg)
	}
	return config.SaveCurrent(cfg)
}

// dockerClient resolves the injected client or dials the local daemon.
func dockerClient(deps Dependencies) (compose.DockerClient, error) {
	if deps.Docker != nil {
		return deps.Docker, nil
	}
	return compose.NewDockerClient()
}

// prompterFor returns nil in headless runs so workflows take their
// non-interactive paths instead of blocking on a prompt nobody will answer.
func prompterFor(cli CLI, deps Dependencies) interaction.Prompter {
	if cli.Headless || interaction.Headless() {
		return nil
	}
	if deps.Prompter != nil {
		return deps.Prompter
	}
	return interaction.HuhPrompter{}
}

func runnerFor(deps Dependencies) compose.CommandRunner {
	if deps.Runner != nil {
		return deps.Runner
	}
	return compose.ExecRunner{}
}
