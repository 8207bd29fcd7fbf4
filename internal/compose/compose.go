// Where: deliriumctl/internal/compose/compose.go
// What: Docker compose command helpers for the Delirium stack.
// Why: Provide a minimal, testable interface over the compose CLI.
package compose

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Stack identifies one compose invocation target: the directory, project
// name, ordered config files, and the env file feeding variable substitution.
type Stack struct {
	RootDir string
	Project string
	Files   []string
	EnvFile string
}

func (s Stack) args(sub ...string) []string {
	args := []string{"compose"}
	if s.Project != "" {
		args = append(args, "-p", s.Project)
	}
	for _, file := range s.Files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		args = append(args, "-f", file)
	}
	if s.EnvFile != "" {
		args = append(args, "--env-file", s.EnvFile)
	}
	return append(args, sub...)
}

func (s Stack) validate(runner CommandRunner) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	if s.RootDir == "" {
		return fmt.Errorf("root dir is required")
	}
	return nil
}

// UpOptions configures how the stack is started.
type UpOptions struct {
	Build  bool
	Detach bool
}

// Pull fetches the latest images for the stack. Callers treat failures as
// non-fatal so offline hosts can still build locally.
func Pull(ctx context.Context, runner CommandRunner, stack Stack) error {
	if err := stack.validate(runner); err != nil {
		return err
	}
	return runner.RunQuiet(ctx, stack.RootDir, "docker", stack.args("pull")...)
}

// Up starts the stack, optionally rebuilding images first.
func Up(ctx context.Context, runner CommandRunner, stack Stack, opts UpOptions) error {
	if err := stack.validate(runner); err != nil {
		return err
	}
	args := stack.args("up")
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Build {
		args = append(args, "--build")
	}
	return runner.Run(ctx, stack.RootDir, "docker", args...)
}

// Down stops and removes the stack's containers and networks.
func Down(ctx context.Context, runner CommandRunner, stack Stack, removeVolumes bool) error {
	if err := stack.validate(runner); err != nil {
		return err
	}
	args := stack.args("down")
	if removeVolumes {
		args = append(args, "--volumes")
	}
	return runner.Run(ctx, stack.RootDir, "docker", args...)
}

// LogsOptions configures log streaming.
type LogsOptions struct {
	Follow     bool
	Tail       int
	Timestamps bool
	Service    string
}

// Logs streams compose logs for the stack.
func Logs(ctx context.Context, runner CommandRunner, stack Stack, opts LogsOptions) error {
	if err := stack.validate(runner); err != nil {
		return err
	}
	args := stack.args("logs")
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Tail > 0 {
		args = append(args, "--tail", fmt.Sprintf("%d", opts.Tail))
	}
	if opts.Timestamps {
		args = append(args, "--timestamps")
	}
	if strings.TrimSpace(opts.Service) != "" {
		args = append(args, opts.Service)
	}
	return runner.Run(ctx, stack.RootDir, "docker", args...)
}

// Services returns the service names defined by the stack's config files.
func Services(ctx context.Context, runner CommandRunner, stack Stack) ([]string, error) {
	if err := stack.validate(runner); err != nil {
		return nil, err
	}
	output, err := runner.RunOutput(ctx, stack.RootDir, "docker", stack.args("config", "--services")...)
	if err != nil {
		return nil, err
	}

	var services []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			services = append(services, line)
		}
	}
	return services, scanner.Err()
}

// CopyFrom copies a path out of a running service container to the host.
func CopyFrom(ctx context.Context, runner CommandRunner, stack Stack, service, src, dst string) error {
	if err := stack.validate(runner); err != nil {
		return err
	}
	if strings.TrimSpace(service) == "" {
		return fmt.Errorf("service is required")
	}
	return runner.RunQuiet(ctx, stack.RootDir, "docker", stack.args("cp", service+":"+src, dst)...)
}
