package command

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	length int64
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, length: r.ContentLength})
		mu.Unlock()
		if status == http.StatusSeeOther {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<html>ignored</html>"))
	}))
	t.Cleanup(ts.Close)
	return ts, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestHTTPDispatcher_DispatchSendsOnePost(t *testing.T) {
	ts, requests := newRecordingServer(t, http.StatusSeeOther)
	d := NewHTTPDispatcher(ts.URL, nil, nil)

	d.Dispatch(context.Background(), Control{Name: "open", Target: "/open"})
	d.Wait()

	got := requests()
	require.Len(t, got, 1, "redirect must not be followed")
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Equal(t, "/open", got[0].path)
	assert.Equal(t, int64(0), got[0].length)
}

func TestHTTPDispatcher_DispatchDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	d := NewHTTPDispatcher(ts.URL, nil, nil)

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), Control{Name: "close", Target: "/close"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the response")
	}
	close(release)
	d.Wait()
}

func TestHTTPDispatcher_DispatchSync(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus int
		wantErr    bool
	}{
		{"ok", http.StatusOK, http.StatusOK, false},
		{"redirect", http.StatusSeeOther, http.StatusSeeOther, false},
		{"server error", http.StatusInternalServerError, http.StatusInternalServerError, true},
		{"forbidden", http.StatusForbidden, http.StatusForbidden, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newRecordingServer(t, tt.status)
			d := NewHTTPDispatcher(ts.URL, nil, nil)

			status, err := d.DispatchSync(context.Background(), Control{Name: "stop", Target: "/stop"})
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

type failingClient struct{ calls atomic.Int32 }

func (f *failingClient) Do(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func TestHTTPDispatcher_FailureIsSwallowed(t *testing.T) {
	client := &failingClient{}
	d := NewHTTPDispatcher("http://coop.invalid", client, nil)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Control{Name: "open", Target: "/open"})
		d.Wait()
	})
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestHTTPDispatcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	d := NewHTTPDispatcher(ts.URL, nil, nil)
	d.SetTimeout(50 * time.Millisecond)

	_, err := d.DispatchSync(context.Background(), Control{Name: "open", Target: "/open"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		origin, target string
		want           string
		wantErr        bool
	}{
		{"http://coop.local:8080", "/open", "http://coop.local:8080/open", false},
		{"http://coop.local:8080/", "close", "http://coop.local:8080/close", false},
		{"https://coop.example", "https://other.example/stop", "https://other.example/stop", false},
		{"http://coop.local", "", "", true},
		{"coop.local", "/open", "", true},
	}
	for _, tt := range tests {
		got, err := ResolveTarget(tt.origin, tt.target)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveTarget(%q, %q) error = %v, wantErr %v", tt.origin, tt.target, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveTarget(%q, %q) = %q, want %q", tt.origin, tt.target, got, tt.want)
		}
	}
}

func TestControlsFromMap(t *testing.T) {
	got := ControlsFromMap(map[string]string{
		"reload": "/reload",
		"stop":   "/stop",
		"open":   "/open",
		"close":  "/close",
		"light":  "/light",
	})
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"open", "close", "stop", "light", "reload"}, names)

	c, ok := Find(got, "reload")
	assert.True(t, ok)
	assert.Equal(t, "/reload", c.Target)

	_, ok = Find(got, "missing")
	assert.False(t, ok)
}

func TestHTTPDispatcher_Observer(t *testing.T) {
	ts, _ := newRecordingServer(t, http.StatusInternalServerError)
	d := NewHTTPDispatcher(ts.URL, nil, nil)

	results := make(chan Result, 1)
	d.SetObserver(func(r Result) { results <- r })

	d.Dispatch(context.Background(), Control{Name: "close", Target: "/close"})
	d.Wait()

	r := <-results
	assert.Equal(t, "close", r.Control.Name)
	assert.Equal(t, http.StatusInternalServerError, r.Status)
	assert.Error(t, r.Err)
}
