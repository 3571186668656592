package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

type staticChecker struct {
	name    string
	status  Status
	message string
}

func (c staticChecker) Name() string { return c.name }

func (c staticChecker) Check(context.Context) (Status, string) {
	return c.status, c.message
}

func newTestServer(t *testing.T, checkers ...HealthChecker) *httptest.Server {
	t.Helper()

	s := NewServer(sl.Discard(), ":0")
	for _, c := range checkers {
		s.AddChecker(c)
	}

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getHealth(t *testing.T, ts *httptest.Server) (int, Report) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get /health: %v", err)
	}
	defer resp.Body.Close()

	var body Report
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealth_aggregation(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []HealthChecker
		wantStatus Status
		wantCode   int
	}{
		{
			name:       "no checkers",
			wantStatus: StatusHealthy,
			wantCode:   http.StatusOK,
		},
		{
			name: "degraded wins over healthy",
			checkers: []HealthChecker{
				staticChecker{name: "a", status: StatusHealthy},
				staticChecker{name: "b", status: StatusDegraded},
			},
			wantStatus: StatusDegraded,
			wantCode:   http.StatusOK,
		},
		{
			name: "unhealthy wins over degraded",
			checkers: []HealthChecker{
				staticChecker{name: "a", status: StatusUnhealthy},
				staticChecker{name: "b", status: StatusDegraded},
			},
			wantStatus: StatusUnhealthy,
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.checkers...)

			code, body := getHealth(t, ts)
			if code != tt.wantCode {
				t.Errorf("status code = %d; want %d", code, tt.wantCode)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q; want %q", body.Status, tt.wantStatus)
			}
			if len(body.Components) != len(tt.checkers) {
				t.Fatalf("components = %d; want %d", len(body.Components), len(tt.checkers))
			}
			for i, c := range tt.checkers {
				if body.Components[i].Name != c.Name() {
					t.Errorf("component %d = %q; want %q", i, body.Components[i].Name, c.Name())
				}
			}
			if body.Uptime == "" {
				t.Error("uptime missing")
			}
		})
	}
}

func TestReadyAndLive(t *testing.T) {
	ts := newTestServer(t, staticChecker{name: "store", status: StatusUnhealthy})

	resp, err := ts.Client().Get(ts.URL + "/ready")
	if err != nil {
		t.Fatalf("get /ready: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("/ready = %d; want 503", resp.StatusCode)
	}

	resp, err = ts.Client().Get(ts.URL + "/live")
	if err != nil {
		t.Fatalf("get /live: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/live = %d; want 200", resp.StatusCode)
	}
}

func TestFetcherHealthChecker(t *testing.T) {
	v := 1.2

	tests := []struct {
		name string
		snap model.Snapshot
		want Status
	}{
		{"loading", model.Snapshot{Loading: true}, StatusHealthy},
		{"ready", model.Snapshot{Value: &v}, StatusHealthy},
		{"degraded", model.Snapshot{Value: &v, LastFailed: true}, StatusDegraded},
		{"error", model.Snapshot{LastFailed: true}, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFetcherHealthChecker(func() model.Snapshot { return tt.snap })
			if got, _ := c.Check(context.Background()); got != tt.want {
				t.Errorf("Check = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestSenderHealthChecker(t *testing.T) {
	ok := NewSenderHealthChecker(func(context.Context) error { return nil })
	if got, _ := ok.Check(context.Background()); got != StatusHealthy {
		t.Errorf("Check = %q; want healthy", got)
	}

	failing := NewSenderHealthChecker(func(context.Context) error { return errors.New("broker down") })
	got, msg := failing.Check(context.Background())
	if got != StatusDegraded || msg != "broker down" {
		t.Errorf("Check = %q, %q; want degraded, broker down", got, msg)
	}
}

func TestStoreHealthChecker(t *testing.T) {
	failing := NewStoreHealthChecker(func(context.Context) (int64, error) {
		return 0, errors.New("database is locked")
	})
	if got, _ := failing.Check(context.Background()); got != StatusUnhealthy {
		t.Errorf("Check = %q; want unhealthy", got)
	}

	populated := NewStoreHealthChecker(func(context.Context) (int64, error) { return 12, nil })
	if got, msg := populated.Check(context.Background()); got != StatusHealthy || msg != "" {
		t.Errorf("Check = %q, %q; want healthy with no message", got, msg)
	}
}

func TestStartAndStop(t *testing.T) {
	s := NewServer(sl.Discard(), "127.0.0.1:0")
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}

	bad := NewServer(sl.Discard(), "not-an-address")
	if err := bad.Start(); err == nil {
		t.Error("Start with invalid address returned nil error")
	}
}
