// Where: deliriumctl/internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/delirium-paste/deliriumctl/internal/config"
	"github.com/delirium-paste/deliriumctl/internal/version"
)

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Dir      string `short:"C" name:"dir" help:"Deployment directory (default: remembered, then current directory)"`
	EnvFile  string `name:"env-file" help:"Extra env file loaded into the process environment"`
	Headless bool   `help:"Never prompt; use defaults or fail"`
	NoEmoji  bool   `name:"no-emoji" help:"Plain output without emoji"`

	Setup     SetupCmd     `cmd:"" help:"Deploy or update the paste service"`
	Bootstrap BootstrapCmd `cmd:"" help:"Non-interactive TLS deployment for a fresh host"`
	Up        UpCmd        `cmd:"" help:"Start the stack"`
	Down      DownCmd      `cmd:"" help:"Stop the stack"`
	Status    StatusCmd    `cmd:"" help:"Show deployment state"`
	Logs      LogsCmd      `cmd:"" help:"View service logs"`
	Verify    VerifyCmd    `cmd:"" help:"Probe the deployed client and server"`
	Build     BuildCmd     `cmd:"" help:"Rebuild the frontend bundle"`
	Env       EnvCmd       `cmd:"" name:"env" help:"Inspect and edit the env record"`
	Backup    BackupCmd    `cmd:"" help:"Archive the env record and paste data"`
	Prune     PruneCmd     `cmd:"" help:"Remove stack resources"`
	Doctor    DoctorCmd    `cmd:"" help:"Check host prerequisites"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

type SetupCmd struct {
	Profile      string `help:"Deployment profile (development, production-tls, production-http)"`
	Domain       string `help:"Public domain for production profiles"`
	Email        string `help:"Contact email for Let's Encrypt"`
	Owner        string `help:"GitHub owner hosting the peer repositories"`
	SkipFrontend bool   `name:"skip-frontend" help:"Do not rebuild the frontend bundle"`
	NoBrowser    bool   `name:"no-browser" help:"Do not suggest opening the browser"`
}

type BootstrapCmd struct {
	Domain string `arg:"" help:"Public domain"`
	Email  string `arg:"" help:"Let's Encrypt contact email"`
	Owner  string `arg:"" optional:"" help:"GitHub owner hosting the peer repositories"`
}

type (
	UpCmd struct {
		Build  bool `help:"Rebuild images before starting"`
		Detach bool `short:"d" default:"true" help:"Run in background"`
	}
	DownCmd struct {
		Volumes bool `short:"v" help:"Also remove named volumes (deletes paste data)"`
	}
	StatusCmd struct{}
	LogsCmd   struct {
		Service    string `arg:"" optional:"" help:"Service name (default: all)"`
		Follow     bool   `short:"f" help:"Follow logs"`
		Tail       int    `help:"Tail the latest N lines"`
		Timestamps bool   `help:"Show timestamps"`
	}
	VerifyCmd  struct{}
	BuildCmd   struct{}
	DoctorCmd  struct{}
	VersionCmd struct{}
)

type EnvCmd struct {
	Show         EnvShowCmd      `cmd:"" help:"Print the record with the pepper masked"`
	Set          EnvSetCmd       `cmd:"" help:"Set one key in the record"`
	RotatePepper RotatePepperCmd `cmd:"" name:"rotate-pepper" help:"Replace the secret pepper"`
}

type EnvShowCmd struct{}

type EnvSetCmd struct {
	Key   string `arg:"" help:"Record key"`
	Value string `arg:"" help:"New value"`
}

type RotatePepperCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt"`
}

type BackupCmd struct {
	Out      string `help:"Directory receiving the archive (default: ~/.delirium/backups)"`
	Bucket   string `help:"S3 bucket to upload the archive to"`
	Prefix   string `help:"Object key prefix inside the bucket"`
	Endpoint string `help:"S3-compatible endpoint (MinIO etc.)"`
	Region   string `help:"Bucket region"`
}

type PruneCmd struct {
	Yes     bool `short:"y" help:"Skip the confirmation prompt"`
	All     bool `short:"a" help:"Remove all project images (not just dangling)"`
	Volumes bool `help:"Remove project volumes (deletes paste data)"`
}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	if err := config.EnsureGlobalConfig(); err != nil {
		return exitWithError(out, err)
	}

	// No arguments: show where the deployment lives and what it is doing.
	if len(args) == 0 {
		return runOverview(CLI{}, deps, out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(args, err, deps, out)
	}

	// Load an extra env file into the process environment when asked. The
	// deployment record itself is loaded per-command from the install dir.
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
	}

	command := ctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

type prefixHandler struct {
	prefix  string
	handler commandHandler
}

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"setup":             runSetup,
		"up":                runUp,
		"down":              runDown,
		"status":            runStatus,
		"verify":            runVerify,
		"build":             runBuild,
		"backup":            runBackup,
		"prune":             runPrune,
		"doctor":            runDoctor,
		"env show":          runEnvShow,
		"env rotate-pepper": runRotatePepper,
		"version":           func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(cli, deps, out), true
	}

	prefixHandlers := []prefixHandler{
		{prefix: "bootstrap", handler: runBootstrap},
		{prefix: "logs", handler: runLogs},
		{prefix: "env set", handler: runEnvSet},
	}

	for _, entry := range prefixHandlers {
		if strings.HasPrefix(command, entry.prefix) {
			return entry.handler(cli, deps, out), true
		}
	}

	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

// commandName extracts the first non-flag argument from the command line,
// which represents the command name. Recognizes and skips known flag pairs.
func commandName(args []string) string {
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			switch arg {
			case "-C", "--dir", "--env-file":
				skipNext = true
			}
			continue
		}
		return arg
	}
	return ""
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(args []string, err error, deps Dependencies, out io.Writer) int {
	errStr := err.Error()
	cmd := commandName(args)

	if strings.Contains(errStr, "expected") {
		switch {
		case cmd == "env" && strings.Contains(errStr, "expected one of"):
			// Bare "env" reads as "show me the record".
			return runEnvShow(CLI{}, deps, out)

		case cmd == "bootstrap":
			return exitWithSuggestion(out, "Bootstrap needs a domain and a contact email.",
				[]string{"deliriumctl bootstrap paste.example.org ops@example.org"})

		case strings.HasPrefix(cmd, "env") && strings.Contains(errStr, "<key>"):
			return exitWithSuggestion(out, "Key and value required.",
				[]string{"deliriumctl env set DELIRIUM_WEB_PORT 8080", "deliriumctl env show"})
		}
	}

	return exitWithError(out, err)
}
