package compose

import (
	"context"
	"fmt"
)

type runnerCall struct {
	dir    string
	name   string
	args   []string
	method string
}

type fakeRunner struct {
	calls  []runnerCall
	failOn string // subcommand that should fail, e.g. "pull"
	output []byte
}

func (f *fakeRunner) record(method, dir, name string, args []string) error {
	f.calls = append(f.calls, runnerCall{dir: dir, name: name, args: args, method: method})
	for _, arg := range args {
		if arg == f.failOn && f.failOn != "" {
			return fmt.Errorf("%s failed", f.failOn)
		}
	}
	return nil
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	return f.record("run", dir, name, args)
}

func (f *fakeRunner) RunQuiet(_ context.Context, dir, name string, args ...string) error {
	return f.record("quiet", dir, name, args)
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := f.record("output", dir, name, args); err != nil {
		return nil, err
	}
	return f.output, nil
}

func (f *fakeRunner) last() runnerCall {
	if len(f.calls) == 0 {
		return runnerCall{}
	}
	return f.calls[len(f.calls)-1]
}
