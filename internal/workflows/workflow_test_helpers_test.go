package workflows

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"

	"github.com/delirium-paste/deliriumctl/internal/interaction"
	"github.com/delirium-paste/deliriumctl/internal/prereq"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

type runnerCall struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls  []runnerCall
	failOn string // compose subcommand that should fail, e.g. "up"
}

func (f *fakeRunner) record(dir, name string, args []string) error {
	f.calls = append(f.calls, runnerCall{dir: dir, name: name, args: args})
	if f.failOn == "" {
		return nil
	}
	for _, arg := range args {
		if arg == f.failOn {
			return fmt.Errorf("%s failed", f.failOn)
		}
	}
	return nil
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	return f.record(dir, name, args)
}

func (f *fakeRunner) RunQuiet(_ context.Context, dir, name string, args ...string) error {
	return f.record(dir, name, args)
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	return nil, f.record(dir, name, args)
}

func (f *fakeRunner) sawSubcommand(sub string) bool {
	for _, call := range f.calls {
		for _, arg := range call.args {
			if arg == sub {
				return true
			}
		}
	}
	return false
}

type fakeDocker struct {
	containers []container.Summary
	onStop     func(id string)
	stopped    []string
}

func (f *fakeDocker) Ping(context.Context) (types.Ping, error) { return types.Ping{}, nil }

func (f *fakeDocker) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return f.containers, nil
}

func (f *fakeDocker) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	f.stopped = append(f.stopped, id)
	if f.onStop != nil {
		f.onStop(id)
	}
	return nil
}

func (f *fakeDocker) ContainerRemove(context.Context, string, container.RemoveOptions) error {
	return nil
}

func (f *fakeDocker) ContainersPrune(context.Context, filters.Args) (container.PruneReport, error) {
	return container.PruneReport{}, nil
}

func (f *fakeDocker) ImagesPrune(context.Context, filters.Args) (image.PruneReport, error) {
	return image.PruneReport{}, nil
}

func (f *fakeDocker) NetworksPrune(context.Context, filters.Args) (network.PruneReport, error) {
	return network.PruneReport{}, nil
}

func (f *fakeDocker) VolumesPrune(context.Context, filters.Args) (volume.PruneReport, error) {
	return volume.PruneReport{}, nil
}

type fakePrompter struct {
	inputs   []string
	selects  []string
	confirms []bool
}

func (f *fakePrompter) Input(string, []string) (string, error) {
	if len(f.inputs) == 0 {
		return "", errors.New("unexpected Input prompt")
	}
	answer := f.inputs[0]
	f.inputs = f.inputs[1:]
	return answer, nil
}

func (f *fakePrompter) SelectValue(_ string, options []interaction.SelectOption) (string, error) {
	if len(f.selects) == 0 {
		return "", errors.New("unexpected SelectValue prompt")
	}
	answer := f.selects[0]
	f.selects = f.selects[1:]
	_ = options
	return answer, nil
}

func (f *fakePrompter) Confirm(string) (bool, error) {
	if len(f.confirms) == 0 {
		return false, errors.New("unexpected Confirm prompt")
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func healthyReport() prereq.Report {
	checks := []prereq.Check{}
	for _, tool := range prereq.DefaultTools() {
		checks = append(checks, prereq.Check{Tool: tool, Path: "/usr/bin/" + tool.Name})
	}
	return prereq.Report{Checks: checks, DaemonOK: true, ComposeOK: true}
}

func testConsole() (*ui.Console, *bytes.Buffer) {
	var buf bytes.Buffer
	return ui.NewWithEmoji(&buf, false), &buf
}
