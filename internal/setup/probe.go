package setup

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// lookPath reports where the ollama binary resolves on PATH.
var lookPath = exec.LookPath

// ToolInstalled checks if the ollama binary is on the system PATH.
func ToolInstalled() bool {
	_, err := lookPath("ollama")
	return err == nil
}

// ProcessListed probes the process table for a running ollama process
// and returns its PID. This is best-effort: it shells out to pgrep and
// reports false wherever pgrep is unavailable. Reachability of the
// service is decided by the HTTP heartbeat, not by this probe.
func ProcessListed(ctx context.Context) (int, bool) {
	if _, err := lookPath("pgrep"); err != nil {
		return 0, false
	}

	out, err := exec.CommandContext(ctx, "pgrep", "-x", "ollama").Output()
	if err != nil {
		// pgrep exits 1 when nothing matches.
		return 0, false
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, false
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return pid, true
}
