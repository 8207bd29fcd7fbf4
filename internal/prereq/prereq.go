// Where: deliriumctl/internal/prereq/prereq.go
// What: Host prerequisite checks for deploying Delirium.
// Why: Fail before touching anything when the host cannot possibly launch,
//      and say exactly what to install.
package prereq

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/delirium-paste/deliriumctl/internal/compose"
)

// Tool describes one executable the deployment needs.
type Tool struct {
	Name     string
	Required bool
	Hint     string
}

// Check is the lookup result for one tool.
type Check struct {
	Tool Tool
	Path string
	Err  error
}

// Report aggregates tool lookups and daemon probes for one run.
type Report struct {
	Checks     []Check
	DaemonOK   bool
	DaemonErr  error
	ComposeOK  bool
	ComposeErr error
}

// lookPath is a seam so tests can control tool resolution.
var lookPath = exec.LookPath

// DefaultTools returns the standard tool set. Node and npm are optional;
// without them the frontend build step is skipped with a warning.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "docker", Required: true, Hint: "install Docker Engine: https://docs.docker.com/engine/install/"},
		{Name: "git", Required: true, Hint: "install git via your package manager"},
		{Name: "curl", Required: true, Hint: "install curl via your package manager"},
		{Name: "node", Required: false, Hint: "install Node.js 20+ to build the frontend bundle"},
		{Name: "npm", Required: false, Hint: "install Node.js 20+ (npm ships with it)"},
	}
}

// Run performs all checks. The docker daemon probe and the compose plugin
// probe only run when the docker binary resolved.
func Run(ctx context.Context, dc compose.DockerClient, runner compose.CommandRunner, tools []Tool) Report {
	report := Report{}
	dockerFound := false
	for _, tool := range tools {
		path, err := lookPath(tool.Name)
		report.Checks = append(report.Checks, Check{Tool: tool, Path: path, Err: err})
		if tool.Name == "docker" && err == nil {
			dockerFound = true
		}
	}

	if !dockerFound {
		report.DaemonErr = fmt.Errorf("docker binary not found")
		report.ComposeErr = report.DaemonErr
		return report
	}

	if dc != nil {
		if _, err := dc.Ping(ctx); err != nil {
			report.DaemonErr = fmt.Errorf("docker daemon not reachable: %w", err)
		} else {
			report.DaemonOK = true
		}
	}

	if runner != nil {
		if err := runner.RunQuiet(ctx, "", "docker", "compose", "version"); err != nil {
			report.ComposeErr = fmt.Errorf("docker compose plugin not available: %w", err)
		} else {
			report.ComposeOK = true
		}
	}

	return report
}

// FrontendAvailable reports whether node and npm both resolved.
func (r Report) FrontendAvailable() bool {
	found := map[string]bool{}
	for _, check := range r.Checks {
		if check.Err == nil {
			found[check.Tool.Name] = true
		}
	}
	return found["node"] && found["npm"]
}

// Fatal returns the first blocking problem, or nil when the host can deploy.
func (r Report) Fatal() error {
	for _, check := range r.Checks {
		if check.Tool.Required && check.Err != nil {
			return fmt.Errorf("%s not found in PATH (%s)", check.Tool.Name, check.Tool.Hint)
		}
	}
	if r.DaemonErr != nil {
		return r.DaemonErr
	}
	if r.ComposeErr != nil {
		return r.ComposeErr
	}
	return nil
}
