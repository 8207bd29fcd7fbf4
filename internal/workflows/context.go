// Where: deliriumctl/internal/workflows/context.go
// What: Run context and error types shared by the deployment workflows.
// Why: One struct threads the mutable run state through the steps instead of
//      scattering it across globals, and typed errors let the CLI boundary
//      pick exit codes and message shape.
package workflows

import (
	"fmt"

	"github.com/delirium-paste/deliriumctl/internal/compose"
	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/profile"
)

// Step names one station of the setup state machine.
type Step string

const (
	StepInit            Step = "Init"
	StepPrereqChecked   Step = "PrereqChecked"
	StepConfigReady     Step = "ConfigReady"
	StepReposResolved   Step = "ReposResolved"
	StepFrontendBuilt   Step = "FrontendBuilt"
	StepProfileSelected Step = "ProfileSelected"
	StepPortsClear      Step = "PortsClear"
	StepLaunched        Step = "Launched"
	StepHealthChecked   Step = "HealthChecked"
	StepDone            Step = "Done"
)

// RunContext carries the mutable state of one setup run. Started flips only
// once the orchestration layer reported success; the cleanup handler reads
// it to decide whether a teardown is owed.
type RunContext struct {
	InstallDir string
	Record     *envfile.Record
	Profile    profile.Profile
	WebPort    int
	Stack      compose.Stack
	Step       Step
	Started    bool

	Degradations []string
}

// Degrade records a non-fatal problem. The run keeps going; the summary
// lists every degradation so partial success stays visible.
func (rc *RunContext) Degrade(msg string) {
	rc.Degradations = append(rc.Degradations, msg)
}

// Degraded reports whether the run hit any non-fatal problem.
func (rc *RunContext) Degraded() bool {
	return len(rc.Degradations) > 0
}

// FatalError marks a failure at one of the fatal steps. The CLI prints the
// step, the cause, and the remediation, then exits 1.
type FatalError struct {
	Step        Step
	Err         error
	Remediation string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// fatalf wraps a cause into a FatalError at step with a remediation hint.
func fatalf(step Step, remediation string, format string, args ...any) error {
	return &FatalError{
		Step:        step,
		Err:         fmt.Errorf(format, args...),
		Remediation: remediation,
	}
}
