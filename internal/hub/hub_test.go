package hub

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientExitsWhenHubStops(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	req := httptest.NewRequest("GET", "/api/events", nil)
	rec := httptest.NewRecorder()

	finished := make(chan struct{})
	go func() {
		h.ServeHTTP(rec, req)
		close(finished)
	}()

	// Let the hub pick up the registration before stopping it
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not exit after the hub stopped")
	}
}

func TestServeHTTPAfterHubStopped(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	cancel()

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}

	finished := make(chan struct{})
	go func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/events", nil))
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("handler blocked registering against a stopped hub")
	}
}
