package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log/v2"

	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/pkg/api"
)

// fakeDaemon simulates the Ollama HTTP surface for orchestrator tests.
type fakeDaemon struct {
	up        atomic.Bool
	pullFails bool
	pullCount atomic.Int32
	models    []string
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !d.up.Load() {
			http.Error(w, "loading", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "Ollama is running")
	})

	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		d.pullCount.Add(1)
		enc := json.NewEncoder(w)
		if d.pullFails {
			enc.Encode(api.PullProgress{Error: "pull model manifest: file does not exist"})
			return
		}
		enc.Encode(api.PullProgress{Status: "pulling manifest"})
		enc.Encode(api.PullProgress{Status: "success"})
	})

	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		resp := api.TagsResponse{}
		for _, name := range d.models {
			resp.Models = append(resp.Models, api.Model{Name: name})
		}
		json.NewEncoder(w).Encode(resp)
	})

	return mux
}

// testHarness wires an Orchestrator to a fakeDaemon with controllable
// PATH and install/spawn behavior.
type testHarness struct {
	orch      *Orchestrator
	daemon    *fakeDaemon
	out       bytes.Buffer
	installed atomic.Bool
	installs  atomic.Int32
	spawns    atomic.Int32
}

func newHarness(t *testing.T, cfg Config, daemon *fakeDaemon) *testHarness {
	t.Helper()

	srv := httptest.NewServer(daemon.handler())
	t.Cleanup(srv.Close)

	h := &testHarness{daemon: daemon}
	h.orch = New(cfg, ollama.NewClient(srv.URL))
	h.orch.SetOutput(&h.out)

	h.orch.lookPath = func(name string) (string, error) {
		if h.installed.Load() {
			return "/usr/local/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	h.orch.installFn = func(ctx context.Context) error {
		h.installs.Add(1)
		h.installed.Store(true)
		return nil
	}
	h.orch.spawnFn = func(ctx context.Context) (int, error) {
		h.spawns.Add(1)
		daemon.up.Store(true)
		return 4242, nil
	}
	return h
}

func TestRunEverythingAlreadyInPlace(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := h.installs.Load(); n != 0 {
		t.Errorf("installer invoked %d times on a machine with the tool present", n)
	}
	if n := h.spawns.Load(); n != 0 {
		t.Errorf("service spawned %d times while already running", n)
	}
	out := h.out.String()
	if !strings.Contains(out, "already installed") {
		t.Error("missing already-installed banner")
	}
	if !strings.Contains(out, "Setup complete") {
		t.Error("missing completion guidance")
	}
}

func TestRunIsIdempotentOnHappyPath(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	for i := 0; i < 2; i++ {
		if err := h.orch.Run(context.Background()); err != nil {
			t.Fatalf("Run %d: %v", i+1, err)
		}
	}
	if n := h.spawns.Load(); n != 0 {
		t.Errorf("spawned %d services across repeated runs", n)
	}
}

func TestRunInstallsMissingTool(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := h.installs.Load(); n != 1 {
		t.Errorf("installer invoked %d times, want 1", n)
	}
}

func TestRunAbortsWhenInstallFails(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.orch.installFn = func(ctx context.Context) error {
		return errors.New("curl: (7) connection refused")
	}

	err := h.orch.Run(context.Background())
	if err == nil {
		t.Fatal("expected install failure")
	}
	if !strings.Contains(err.Error(), "installation failed") {
		t.Errorf("error %q missing installation diagnostic", err)
	}
	if n := daemon.pullCount.Load(); n != 0 {
		t.Errorf("pull attempted %d times after failed install", n)
	}
}

func TestRunSpawnsServiceWhenDown(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := h.spawns.Load(); n != 1 {
		t.Errorf("spawned %d services, want 1", n)
	}
	if !strings.Contains(h.out.String(), "PID 4242") {
		t.Error("spawned PID not printed")
	}
}

func TestRunAbortsWhenPullFails(t *testing.T) {
	daemon := &fakeDaemon{pullFails: true}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "nosuchmodel", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	err := h.orch.Run(context.Background())
	if err == nil {
		t.Fatal("expected pull failure")
	}
	if !strings.Contains(err.Error(), "model pull failed") {
		t.Errorf("error %q missing pull diagnostic", err)
	}
	if strings.Contains(h.out.String(), "Setup complete") {
		t.Error("completion banner printed despite pull failure")
	}
}

func TestRunRejectsModelMissingFromListing(t *testing.T) {
	// Pull reports success but the daemon never lists the model.
	daemon := &fakeDaemon{}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestRunVerboseEmitsDebugLogging(t *testing.T) {
	// The debug level set on the default logger must carry through to
	// the orchestrator's logger.
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })

	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := h.out.String()
	for _, want := range []string{"service spawned", "verifying model listing", "pull finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug line %q not emitted under verbose logging", want)
		}
	}
}

func TestRunDebugLoggingSilentByDefault(t *testing.T) {
	daemon := &fakeDaemon{models: []string{"llama3.2:latest"}}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(h.out.String(), "verifying model listing") {
		t.Error("debug line emitted at the default level")
	}
}

func TestRunSkipPull(t *testing.T) {
	daemon := &fakeDaemon{}
	daemon.up.Store(true)

	h := newHarness(t, Config{Model: "llama3.2", ReadyTimeout: 5 * time.Second, SkipPull: true}, daemon)
	h.installed.Store(true)

	if err := h.orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := daemon.pullCount.Load(); n != 0 {
		t.Errorf("pull attempted %d times with SkipPull set", n)
	}
}
