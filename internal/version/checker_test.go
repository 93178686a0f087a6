package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same version", "0.1.0", "0.1.0", 0},
		{"patch upgrade", "0.1.1", "0.1.0", 1},
		{"patch downgrade", "0.0.9", "0.1.0", -1},
		{"major upgrade", "1.0.0", "0.9.9", 1},
		{"multi-digit", "0.0.100", "0.0.99", 1},
		{"different lengths", "1.0", "0.9.9", 1},
		{"missing part is zero", "1.0", "1.0.0", 0},
		{"pre-release same base", "0.2.0-alpha", "0.2.0", 0},
		{"build metadata", "0.2.1+build7", "0.2.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compare(tt.a, tt.b); got != tt.want {
				t.Errorf("compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "tally/0.1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client()}
}

func TestChecker_NewerRelease(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v0.2.0","html_url":"https://example.test/r/0.2.0"}`)

	update, err := c.Check(context.Background(), "v0.1.0")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !update.Available || update.Latest != "0.2.0" || update.URL != "https://example.test/r/0.2.0" {
		t.Errorf("unexpected update: %+v", update)
	}
}

func TestChecker_UpToDate(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v0.1.0"}`)

	update, err := c.Check(context.Background(), "0.1.0")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if update.Available {
		t.Errorf("expected no update, got %+v", update)
	}
}

func TestChecker_BadStatus(t *testing.T) {
	c := newTestChecker(t, http.StatusNotFound, `{}`)

	if _, err := c.Check(context.Background(), "0.1.0"); err == nil {
		t.Error("expected error for 404")
	}
}
