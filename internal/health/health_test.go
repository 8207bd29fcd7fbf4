package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testWaiter(attempts int) (*Waiter, *int) {
	sleeps := 0
	w := &Waiter{
		Client:      &http.Client{Timeout: time.Second},
		MaxAttempts: attempts,
		Interval:    2 * time.Second,
		Sleep:       func(time.Duration) { sleeps++ },
	}
	return w, &sleeps
}

func TestWaitSucceedsOnLaterAttempt(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		// Fail the first two polls, succeed on the third.
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	w, sleeps := testWaiter(30)
	result := w.Wait(context.Background(), server.URL)
	if !result.Healthy {
		t.Fatalf("Wait reported unhealthy: %+v", result)
	}
	if result.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", result.Attempts)
	}
	if result.URL != server.URL+"/api/health" {
		t.Fatalf("URL = %q", result.URL)
	}
	if *sleeps != 2 {
		t.Fatalf("slept %d times, want 2", *sleeps)
	}
}

func TestWaitAcceptsAnyCandidatePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	w, _ := testWaiter(5)
	result := w.Wait(context.Background(), server.URL)
	if !result.Healthy {
		t.Fatalf("Wait reported unhealthy: %+v", result)
	}
	if result.URL != server.URL+"/" {
		t.Fatalf("URL = %q, want root path", result.URL)
	}
}

func TestWaitGivesUpAfterMaxAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	w, sleeps := testWaiter(4)
	result := w.Wait(context.Background(), server.URL)
	if result.Healthy {
		t.Fatal("Wait reported healthy against an always-failing server")
	}
	if result.Attempts != 4 {
		t.Fatalf("Attempts = %d, want 4", result.Attempts)
	}
	// No sleep after the final attempt.
	if *sleeps != 3 {
		t.Fatalf("slept %d times, want 3", *sleeps)
	}
}

func TestWaitBoundedByWallClockWhenServerStalls(t *testing.T) {
	// Accepts connections but never answers, so every probe hangs until the
	// wait's own deadline cuts it off.
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	w := &Waiter{
		Client:      &http.Client{}, // no per-request timeout
		MaxAttempts: 3,
		Interval:    20 * time.Millisecond,
		Sleep:       func(time.Duration) {},
	}

	start := time.Now()
	result := w.Wait(context.Background(), server.URL)
	if result.Healthy {
		t.Fatal("Wait reported healthy against a stalling server")
	}
	// Budget is 60ms; allow generous slack for slow machines but fail long
	// before the old unbounded behavior (3 attempts x 3 hanging probes).
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Wait took %v against a stalling server, want at most MaxAttempts*Interval", elapsed)
	}
}

func TestWaitStopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, _ := testWaiter(30)
	result := w.Wait(ctx, server.URL)
	if result.Healthy {
		t.Fatal("Wait reported healthy after cancellation")
	}
	if result.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", result.Attempts)
	}
}

func TestProbeReportsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := Probe(context.Background(), server.Client(), server.URL); err == nil {
		t.Fatal("Probe accepted a 500 response")
	}
	if err := Probe(context.Background(), server.Client(), "http://127.0.0.1:1/"); err == nil {
		t.Fatal("Probe accepted a connection failure")
	}
}
