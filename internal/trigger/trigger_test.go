package trigger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Trigger(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"processed":{"d3":4,"d1":2}}`))
	}))
	defer srv.Close()

	summary, err := NewClient(srv.URL, "s3cret").Trigger(context.Background())
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if gotAuth != "Bearer s3cret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer s3cret")
	}
	if summary.Processed.D3 != 4 || summary.Processed.D1 != 2 {
		t.Errorf("summary = %+v, want d3=4 d1=2", summary)
	}
}

func TestClient_TriggerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"unauthorized", http.StatusUnauthorized, "Unauthorized", "returned 401"},
		{"run failed", http.StatusInternalServerError, `{"error":"boom"}`, "returned 500"},
		{"not json", http.StatusOK, "ok", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "s3cret").Trigger(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Trigger() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(NewClient("http://localhost", "x"), time.Second)
	if err := s.Start("not a spec"); err == nil {
		t.Error("Start() accepted an invalid spec")
	}
}

func TestClient_TriggerStopsAtContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(srv.URL, "s3cret").Trigger(ctx)
	if err == nil {
		t.Fatal("Trigger() error = nil, want deadline failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Trigger() took %s after the deadline", elapsed)
	}
}

func TestNewClient_NoOwnTimeout(t *testing.T) {
	if c := NewClient("http://localhost", "x"); c.HTTP.Timeout != 0 {
		t.Errorf("HTTP.Timeout = %s, want 0 so the run deadline comes from the scheduler", c.HTTP.Timeout)
	}
	if s := NewScheduler(NewClient("http://localhost", "x"), 15*time.Minute); s.Timeout() != 15*time.Minute {
		t.Errorf("Timeout() = %s", s.Timeout())
	}
}
