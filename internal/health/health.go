// Where: deliriumctl/internal/health/health.go
// What: Bounded HTTP health polling for the deployed stack.
// Why: Launch success only means containers started; the operator cares
//      whether the site actually answers.
package health

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

// DefaultPaths are the candidate endpoints probed in order. Any 2xx on any
// path counts as healthy; the specific path does not matter.
var DefaultPaths = []string{"/api/health", "/health", "/"}

// Result reports the outcome of one wait.
type Result struct {
	Healthy  bool
	Attempts int
	URL      string // the URL that answered, empty on timeout
}

// Waiter polls candidate URLs until one answers or attempts run out.
type Waiter struct {
	Client      *http.Client
	MaxAttempts int
	Interval    time.Duration
	Paths       []string

	// Sleep is a seam so tests run without wall-clock delays.
	Sleep func(time.Duration)
}

// NewWaiter returns a Waiter with the standard 30 x 2s budget and a client
// that tolerates self-signed certificates, since Let's Encrypt issuance may
// still be in flight during the first production bring-up.
func NewWaiter() *Waiter {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return &Waiter{
		Client:      &http.Client{Transport: transport, Timeout: 2 * time.Second},
		MaxAttempts: 30,
		Interval:    2 * time.Second,
		Paths:       DefaultPaths,
		Sleep:       time.Sleep,
	}
}

// WaitPort polls http://localhost:<port> on the candidate paths.
func (w *Waiter) WaitPort(ctx context.Context, port int) Result {
	return w.Wait(ctx, fmt.Sprintf("http://localhost:%d", port))
}

// Wait polls base+path for each candidate path until one returns a 2xx
// status or the attempt budget is spent. The attempt budget doubles as a
// wall-clock ceiling: the whole wait never exceeds MaxAttempts*Interval,
// even when individual probes stall inside their connection. A timeout is
// not an error: the caller decides whether to degrade or abort.
func (w *Waiter) Wait(ctx context.Context, base string) Result {
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	paths := w.Paths
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	if budget := time.Duration(w.MaxAttempts) * w.Interval; budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	result := Result{}
	for attempt := 1; attempt <= w.MaxAttempts; attempt++ {
		result.Attempts = attempt
		for _, path := range paths {
			if ctx.Err() != nil {
				return result
			}
			url := base + path
			if ok := probe(ctx, client, url); ok {
				result.Healthy = true
				result.URL = url
				return result
			}
		}
		if ctx.Err() != nil {
			return result
		}
		if attempt < w.MaxAttempts {
			sleep(w.Interval)
		}
	}
	return result
}

// Probe issues a single GET and reports whether the response was a success.
// Verification reuses it outside the retry loop.
func Probe(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	return nil
}

func probe(ctx context.Context, client *http.Client, url string) bool {
	return Probe(ctx, client, url) == nil
}
