// Where: deliriumctl/internal/workflows/verify.go
// What: Parallel verification of the client page and the server API.
// Why: Both halves must answer before a deployment counts as working; the
//      two probes are independent, so they run side by side and the verdict
//      waits for both.
package workflows

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/delirium-paste/deliriumctl/internal/health"
	"github.com/delirium-paste/deliriumctl/internal/ui"
)

// ProbeTask is one independent verification branch. Run writes its findings
// to out; the returned error decides pass/fail for the branch.
type ProbeTask struct {
	Name string
	Run  func(ctx context.Context, out *bytes.Buffer) error
}

// ProbeResult pairs a finished task with its captured output.
type ProbeResult struct {
	Name   string
	Output string
	Err    error
}

// ForkJoin runs every task in its own goroutine with its own buffer and
// returns the results in task order once all of them finished. No branch is
// cancelled by another one failing.
func ForkJoin(ctx context.Context, tasks []ProbeTask) []ProbeResult {
	results := make([]ProbeResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task ProbeTask) {
			defer wg.Done()
			var buf bytes.Buffer
			err := task.Run(ctx, &buf)
			results[i] = ProbeResult{Name: task.Name, Output: buf.String(), Err: err}
		}(i, task)
	}
	wg.Wait()
	return results
}

// VerifyWorkflow checks the deployed client and server.
type VerifyWorkflow struct {
	Client *http.Client
	UI     *ui.Console

	// Tasks overrides the default probes, for tests.
	Tasks []ProbeTask
}

// Run probes both halves and prints each report in a fixed order. It returns
// an error when any branch failed, after all reports are shown.
func (w *VerifyWorkflow) Run(ctx context.Context, webPort int) error {
	tasks := w.Tasks
	if tasks == nil {
		tasks = []ProbeTask{
			{Name: "server", Run: w.serverProbe(webPort)},
			{Name: "client", Run: w.clientProbe(webPort)},
		}
	}

	results := ForkJoin(ctx, tasks)

	console := w.UI
	if console == nil {
		console = ui.New(bytes.NewBuffer(nil))
	}

	failed := 0
	for _, result := range results {
		console.BlockStart("🔎", "Verify "+result.Name)
		if result.Output != "" {
			console.ItemPlain(result.Output)
		}
		if result.Err != nil {
			failed++
			console.Failure(fmt.Sprintf("%s check failed: %v", result.Name, result.Err))
		} else {
			console.Success(result.Name + " OK")
		}
		console.BlockEnd()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func (w *VerifyWorkflow) serverProbe(webPort int) func(ctx context.Context, out *bytes.Buffer) error {
	return func(ctx context.Context, out *bytes.Buffer) error {
		url := fmt.Sprintf("http://localhost:%d/api/health", webPort)
		fmt.Fprintf(out, "GET %s", url)
		return health.Probe(ctx, w.Client, url)
	}
}

func (w *VerifyWorkflow) clientProbe(webPort int) func(ctx context.Context, out *bytes.Buffer) error {
	return func(ctx context.Context, out *bytes.Buffer) error {
		url := fmt.Sprintf("http://localhost:%d/", webPort)
		fmt.Fprintf(out, "GET %s", url)
		return health.Probe(ctx, w.Client, url)
	}
}
