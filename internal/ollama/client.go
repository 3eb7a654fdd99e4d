package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/halloki/llamaup/pkg/api"
)

// DefaultBaseURL is where a locally running Ollama daemon listens.
const DefaultBaseURL = "http://127.0.0.1:11434"

// PullProgressFunc is called for each progress line during a pull.
type PullProgressFunc func(p api.PullProgress)

// Client is an HTTP client for a local Ollama daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client for the given base URL. An empty URL
// selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the daemon URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Heartbeat checks whether the daemon answers at all. Ollama serves a
// plain "Ollama is running" banner on GET /.
func (c *Client) Heartbeat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat returned %d", resp.StatusCode)
	}
	return nil
}

// Version returns the daemon's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var result api.VersionResponse
	if err := c.getJSON(ctx, "/api/version", &result); err != nil {
		return "", err
	}
	return result.Version, nil
}

// Tags returns all locally installed models.
func (c *Client) Tags(ctx context.Context) ([]api.Model, error) {
	var result api.TagsResponse
	if err := c.getJSON(ctx, "/api/tags", &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

// Ps returns the models currently loaded into memory.
func (c *Client) Ps(ctx context.Context) ([]api.RunningModel, error) {
	var result api.PsResponse
	if err := c.getJSON(ctx, "/api/ps", &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

// Has reports whether the named model appears in the local model listing.
func (c *Client) Has(ctx context.Context, model string) (bool, error) {
	models, err := c.Tags(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m.Name == model || m.Name == model+":latest" {
			return true, nil
		}
	}
	return false, nil
}

// Pull downloads a model through the daemon, blocking until it finishes.
// Progress lines are passed to progress as they arrive; progress may be nil.
func (c *Client) Pull(ctx context.Context, model string, progress PullProgressFunc) error {
	body, err := json.Marshal(api.PullRequest{Model: model, Stream: true})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pull %s: daemon returned %d: %s", model, resp.StatusCode, string(respBody))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var p api.PullProgress
		if err := json.Unmarshal(line, &p); err != nil {
			return fmt.Errorf("decode progress: %w", err)
		}
		if p.Error != "" {
			return fmt.Errorf("pull %s: %s", model, p.Error)
		}
		if progress != nil {
			progress(p)
		}
	}
	return scanner.Err()
}

// Delete removes a model from local storage.
func (c *Client) Delete(ctx context.Context, model string) error {
	body, err := json.Marshal(api.DeleteRequest{Model: model})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/delete", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete %s: daemon returned %d: %s", model, resp.StatusCode, string(respBody))
	}
	return nil
}

// Chat sends a non-streaming chat request and returns the full response.
func (c *Client) Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result api.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// ChatStream sends a streaming chat request. Parsed response objects
// arrive on the returned channel, which is closed when the stream ends.
func (c *Client) ChatStream(ctx context.Context, req *api.ChatRequest) (<-chan StreamEvent, error) {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	events := ParseChatStream(resp.Body)
	return wrapWithCleanup(events, resp.Body), nil
}

// wrapWithCleanup closes the response body once the source channel drains.
func wrapWithCleanup(events <-chan StreamEvent, body io.ReadCloser) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer body.Close()
		defer close(out)
		for ev := range events {
			out <- ev
		}
	}()
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
