package setup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"

	"github.com/charmbracelet/log/v2"
)

// Install fetches the installer script from url and runs it with sh.
// The script's output is forwarded to w. The installer itself decides
// whether it needs elevated privileges; a non-zero exit fails the run.
func Install(ctx context.Context, url string, w io.Writer) error {
	script, err := fetchScript(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(script)
	log.Debug("installer script fetched", "url", url, "path", script)

	cmd := exec.CommandContext(ctx, "sh", script)
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("installer exited: %w", err)
	}
	return nil
}

// fetchScript downloads the installer to a temp file and returns its path.
func fetchScript(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch installer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch installer: status %d from %s", resp.StatusCode, url)
	}

	f, err := os.CreateTemp("", "llamaup-install-*.sh")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write installer: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close installer: %w", err)
	}
	return f.Name(), nil
}
