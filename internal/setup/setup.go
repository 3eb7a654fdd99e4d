// Package setup automates getting a working Ollama installation: the
// binary on PATH, the service answering, and a model pulled.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/dustin/go-humanize"

	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/pkg/api"
)

// Config controls a setup run.
type Config struct {
	// Model is pulled after the service is up.
	Model string

	// InstallURL is where the installer script is fetched from when
	// the binary is missing.
	InstallURL string

	// ReadyTimeout bounds the wait for a freshly spawned service.
	ReadyTimeout time.Duration

	// LogDir receives the spawned service's combined output.
	LogDir string

	// SkipPull stops after the service is up.
	SkipPull bool
}

// Orchestrator runs the linear install → serve → pull sequence.
// Each step depends only on the outcome of the previous one; the first
// failure aborts the whole run.
type Orchestrator struct {
	cfg    Config
	client *ollama.Client
	logger *log.Logger

	// out receives the human-readable step banners.
	out io.Writer

	lookPath  func(string) (string, error)
	installFn func(context.Context) error
	spawnFn   func(context.Context) (int, error)
}

// New creates an Orchestrator talking to the daemon behind client.
func New(cfg Config, client *ollama.Client) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		client: client,
		// Derived from the default logger so --verbose reaches it.
		logger: log.Default().WithPrefix("setup"),
		out:    os.Stdout,
	}
	o.lookPath = lookPath
	o.installFn = func(ctx context.Context) error {
		return Install(ctx, cfg.InstallURL, o.out)
	}
	o.spawnFn = func(ctx context.Context) (int, error) {
		return StartService(ctx, cfg.LogDir)
	}
	return o
}

// SetOutput redirects the step banners, primarily for tests.
func (o *Orchestrator) SetOutput(w io.Writer) {
	o.out = w
	o.logger.SetOutput(w)
}

// Run executes the full sequence. It returns on the first failing step;
// the caller maps any error to exit code 1.
func (o *Orchestrator) Run(ctx context.Context) error {
	fmt.Fprintln(o.out, "Ollama setup")
	fmt.Fprintln(o.out, "============")

	// Step 1: is the binary already on PATH? Absence is not an error.
	if o.toolInstalled() {
		fmt.Fprintln(o.out, "✓ ollama is already installed")
	} else {
		fmt.Fprintln(o.out, "ollama not found, installing...")
		start := time.Now()
		if err := o.installFn(ctx); err != nil {
			return fmt.Errorf("installation failed: %w", err)
		}
		if !o.toolInstalled() {
			return fmt.Errorf("installation failed: ollama still not on PATH")
		}
		o.logger.Debug("installer finished", "url", o.cfg.InstallURL, "elapsed", time.Since(start))
		fmt.Fprintln(o.out, "✓ ollama installed")
	}

	// Step 2: is the service answering?
	if o.serviceReachable(ctx) {
		fmt.Fprintln(o.out, "✓ ollama service is already running")
	} else {
		fmt.Fprintln(o.out, "starting ollama service...")
		pid, err := o.spawnFn(ctx)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		o.logger.Debug("service spawned", "pid", pid, "logdir", o.cfg.LogDir)
		fmt.Fprintf(o.out, "✓ ollama service started (PID %d)\n", pid)

		// The original shell flow slept a fixed 3 seconds here and
		// hoped. Poll the daemon's endpoint instead.
		start := time.Now()
		if err := WaitReady(ctx, o.client, o.cfg.ReadyTimeout); err != nil {
			return fmt.Errorf("service did not become ready: %w", err)
		}
		o.logger.Debug("service ready", "waited", time.Since(start))
		fmt.Fprintln(o.out, "✓ ollama service is ready")
	}

	if o.cfg.SkipPull {
		return nil
	}

	// Step 3: pull the model. Blocking; progress streamed below.
	fmt.Fprintf(o.out, "pulling model %s...\n", o.cfg.Model)
	start := time.Now()
	if err := o.pullModel(ctx); err != nil {
		return fmt.Errorf("model pull failed: %w", err)
	}
	o.logger.Debug("pull finished", "model", o.cfg.Model, "elapsed", time.Since(start))
	fmt.Fprintf(o.out, "✓ model %s is ready\n", o.cfg.Model)

	o.printGuidance()
	return nil
}

func (o *Orchestrator) toolInstalled() bool {
	_, err := o.lookPath("ollama")
	return err == nil
}

func (o *Orchestrator) serviceReachable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return o.client.Heartbeat(probeCtx) == nil
}

func (o *Orchestrator) pullModel(ctx context.Context) error {
	var lastStatus string
	err := o.client.Pull(ctx, o.cfg.Model, func(p api.PullProgress) {
		switch {
		case p.Total > 0:
			pct := float64(p.Completed) / float64(p.Total) * 100
			fmt.Fprintf(o.out, "\r  %s: %.1f%% (%s / %s)   ",
				p.Status, pct, humanize.Bytes(uint64(p.Completed)), humanize.Bytes(uint64(p.Total)))
		case p.Status != lastStatus:
			fmt.Fprintf(o.out, "\n  %s", p.Status)
		}
		lastStatus = p.Status
	})
	fmt.Fprintln(o.out)
	if err != nil {
		return err
	}

	o.logger.Debug("verifying model listing", "model", o.cfg.Model)
	ok, err := o.client.Has(ctx, o.cfg.Model)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	if !ok {
		return fmt.Errorf("model %s missing from local listing after pull", o.cfg.Model)
	}
	return nil
}

func (o *Orchestrator) printGuidance() {
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, "Setup complete. Try:")
	fmt.Fprintf(o.out, "  llamaup chat --model %s   # interactive chat\n", o.cfg.Model)
	fmt.Fprintf(o.out, "  ollama run %s             # the tool's own REPL\n", o.cfg.Model)
	fmt.Fprintln(o.out, "  llamaup list                     # installed models")
	fmt.Fprintln(o.out, "  llamaup rm <model>               # remove a model")
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, "Python binding: pip install ollama")
}
