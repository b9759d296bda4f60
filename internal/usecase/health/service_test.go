package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(
		Component{Name: "documents", Pinger: &mockPinger{}},
		Component{Name: "postgres", Pinger: &mockPinger{}},
	)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["documents"] != CheckOK || r.Checks["postgres"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_OneDown(t *testing.T) {
	svc := New(
		Component{Name: "documents", Pinger: &mockPinger{}},
		Component{Name: "redis", Pinger: &mockPinger{err: errors.New("conn refused")}},
	)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["redis"] != CheckError {
		t.Errorf("expected redis %q, got %q", CheckError, r.Checks["redis"])
	}
	if r.Checks["documents"] != CheckOK {
		t.Errorf("expected documents %q, got %q", CheckOK, r.Checks["documents"])
	}
}

func TestCheck_NoComponents(t *testing.T) {
	r := New().Check(context.Background())
	if r.Status != Healthy || len(r.Checks) != 0 {
		t.Errorf("unexpected report: %+v", r)
	}
}

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck_TimeoutCountsAsFailure(t *testing.T) {
	svc := New(
		Component{Name: "postgres", Pinger: slowPinger{}},
		Component{Name: "redis", Pinger: &mockPinger{}},
	).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())

	if r.Status != Degraded || r.Checks["postgres"] != CheckError || r.Checks["redis"] != CheckOK {
		t.Errorf("unexpected report: %+v", r)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("check took %s, timeout not applied", elapsed)
	}
}
