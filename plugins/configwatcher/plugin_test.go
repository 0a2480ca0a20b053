package configwatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/coopwatch"
	"github.com/bft-labs/coopwatch/pkg/log"
)

// loadLines reads "name target" pairs, one per line.
func loadLines(path string) ([]command.Control, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var controls []command.Control
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New("malformed line: " + line)
		}
		controls = append(controls, command.Control{Name: fields[0], Target: fields[1]})
	}
	return controls, nil
}

type controlSink struct {
	mu       sync.Mutex
	controls []command.Control
	calls    int
}

func (s *controlSink) Set(controls []command.Control) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls = controls
	s.calls++
	return nil
}

func (s *controlSink) Get() ([]command.Control, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls, s.calls
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startPlugin(t *testing.T, cfg Config, sink *controlSink) *Plugin {
	t.Helper()
	plugin := New(cfg)
	err := plugin.Initialize(context.Background(), coopwatch.PluginConfig{
		Logger:      log.NewNoopLogger(),
		SetControls: sink.Set,
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() {
		if err := plugin.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return plugin
}

func TestPlugin_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("open /open"), 0644); err != nil {
		t.Fatal(err)
	}

	var reloaded []command.Control
	var mu sync.Mutex
	sink := &controlSink{}
	plugin := startPlugin(t, Config{
		Path:          path,
		Load:          loadLines,
		DebounceDelay: 10 * time.Millisecond,
		OnReload: func(c []command.Control) {
			mu.Lock()
			reloaded = c
			mu.Unlock()
		},
	}, sink)

	if err := os.WriteFile(path, []byte("open /open\nreload /reload"), 0644); err != nil {
		t.Fatal(err)
	}
	waitUntil(t, func() bool { return plugin.Reloads() > 0 })

	got, _ := sink.Get()
	want := []command.Control{{Name: "open", Target: "/open"}, {Name: "reload", Target: "/reload"}}
	if len(got) != len(want) || got[1] != want[1] {
		t.Errorf("controls = %v, want %v", got, want)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reloaded) != 2 {
		t.Errorf("OnReload got %v", reloaded)
	}
}

func TestPlugin_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("open /open"), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &controlSink{}
	plugin := startPlugin(t, Config{Path: path, Load: loadLines, DebounceDelay: 200 * time.Millisecond}, sink)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("stop /stop"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	waitUntil(t, func() bool { return plugin.Reloads() > 0 })
	time.Sleep(300 * time.Millisecond)

	if _, calls := sink.Get(); calls != 1 {
		t.Errorf("SetControls called %d times, want 1", calls)
	}
}

func TestPlugin_KeepsControlsOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("open /open"), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &controlSink{}
	plugin := startPlugin(t, Config{Path: path, Load: loadLines, DebounceDelay: 10 * time.Millisecond}, sink)

	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if plugin.Reloads() != 0 {
		t.Errorf("Reloads() = %d, want 0", plugin.Reloads())
	}
	if _, calls := sink.Get(); calls != 0 {
		t.Errorf("SetControls called %d times, want 0", calls)
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("open /open"), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &controlSink{}
	plugin := startPlugin(t, Config{Path: path, Load: loadLines, DebounceDelay: 10 * time.Millisecond}, sink)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("close /close"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if plugin.Reloads() != 0 {
		t.Errorf("Reloads() = %d, want 0", plugin.Reloads())
	}
}

func TestPlugin_Name(t *testing.T) {
	plugin := New(DefaultConfig())
	if plugin.Name() != "configwatcher" {
		t.Errorf("Name() = %v, want configwatcher", plugin.Name())
	}
}

func TestPlugin_DisabledWithoutPath(t *testing.T) {
	plugin := New(DefaultConfig())
	err := plugin.Initialize(context.Background(), coopwatch.PluginConfig{
		Logger:      log.NewNoopLogger(),
		SetControls: func([]command.Control) error { return nil },
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := plugin.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestWithConfigWatcher_ThroughWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("open /open"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := coopwatch.New(coopwatch.Config{Origin: "http://coop.invalid"},
		coopwatch.WithDialer(offlineDialer{}),
		WithConfigWatcher(Config{Path: path, Load: loadLines, DebounceDelay: 10 * time.Millisecond}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("shut /close"), 0644); err != nil {
		t.Fatal(err)
	}
	waitUntil(t, func() bool {
		_, ok := command.Find(w.Controls(), "shut")
		return ok
	})
}

type offlineDialer struct{}

func (offlineDialer) Dial(context.Context, string) (coopwatch.StatusConn, error) {
	return nil, errors.New("offline")
}
