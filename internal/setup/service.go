package setup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/sethvargo/go-retry"

	"github.com/halloki/llamaup/internal/ollama"
)

// StartService launches "ollama serve" detached from the current
// process, in its own process group, with output going to a log file
// under logDir. It returns the PID of the spawned process without
// waiting for the service to answer; use WaitReady for that.
func StartService(ctx context.Context, logDir string) (int, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return 0, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(logDir, "ollama-serve.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	// Deliberately not exec.CommandContext: the service must outlive
	// this invocation.
	cmd := exec.Command("ollama", "serve")
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachAttr()
	log.Debug("spawning service", "log", logPath)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("spawn ollama serve: %w", err)
	}

	// Reap the child if it exits while we are still around.
	go cmd.Wait()

	return cmd.Process.Pid, nil
}

// WaitReady polls the daemon until it answers the heartbeat or the
// timeout elapses.
func WaitReady(ctx context.Context, client *ollama.Client, timeout time.Duration) error {
	backoff := retry.WithMaxDuration(timeout, retry.NewConstant(500*time.Millisecond))

	attempts := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		probeCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		if err := client.Heartbeat(probeCtx); err != nil {
			log.Debug("service not answering yet", "attempt", attempts, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
