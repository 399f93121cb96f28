package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type blockingPinger struct{}

func (blockingPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")

	tests := []struct {
		name      string
		store     Pinger
		cache     Pinger
		status    Status
		storeRes  CheckResult
		cacheRes  CheckResult
		cacheSeen bool
	}{
		{"all healthy", &mockPinger{}, &mockPinger{}, Healthy, CheckOK, CheckOK, true},
		{"store down", &mockPinger{err: down}, &mockPinger{}, Unhealthy, CheckError, CheckOK, true},
		{"cache down", &mockPinger{}, &mockPinger{err: down}, Degraded, CheckOK, CheckError, true},
		{"both down", &mockPinger{err: down}, &mockPinger{err: down}, Unhealthy, CheckError, CheckError, true},
		{"no cache", &mockPinger{}, nil, Healthy, CheckOK, "", false},
		{"no cache store down", &mockPinger{err: down}, nil, Unhealthy, CheckError, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(tt.store, tt.cache)
			r := svc.Check(context.Background())

			if r.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, r.Status)
			}
			if r.Checks[ComponentStore] != tt.storeRes {
				t.Errorf("expected store %q, got %q", tt.storeRes, r.Checks[ComponentStore])
			}
			got, ok := r.Checks[ComponentCache]
			if ok != tt.cacheSeen {
				t.Fatalf("cache check present=%v, want %v", ok, tt.cacheSeen)
			}
			if ok && got != tt.cacheRes {
				t.Errorf("expected cache %q, got %q", tt.cacheRes, got)
			}
		})
	}
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(blockingPinger{}, nil)
	svc.timeout = 20 * time.Millisecond

	done := make(chan Report, 1)
	go func() { done <- svc.Check(context.Background()) }()

	select {
	case r := <-done:
		if r.Status != Unhealthy {
			t.Errorf("expected %q for hung store, got %q", Unhealthy, r.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("health check did not honour timeout")
	}
}
