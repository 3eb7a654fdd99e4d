package api

import "time"

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload for POST /api/chat.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatResponse is one response object from /api/chat. For streaming
// requests the daemon emits one of these per NDJSON line; the final
// line has Done set and carries the timing counters.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`

	DoneReason    string `json:"done_reason,omitempty"`
	TotalDuration int64  `json:"total_duration,omitempty"`
	EvalCount     int    `json:"eval_count,omitempty"`
}

// PullRequest is the payload for POST /api/pull.
type PullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// PullProgress is one NDJSON progress line from /api/pull.
// Total and Completed are only set while a layer is downloading.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ModelDetails describes the format and family of an installed model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// Model is one entry from GET /api/tags.
type Model struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	ModifiedAt time.Time    `json:"modified_at"`
	Details    ModelDetails `json:"details"`
}

// TagsResponse is the response from GET /api/tags.
type TagsResponse struct {
	Models []Model `json:"models"`
}

// RunningModel is one entry from GET /api/ps: a model currently
// loaded into memory by the daemon.
type RunningModel struct {
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	Size      int64     `json:"size"`
	SizeVRAM  int64     `json:"size_vram"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PsResponse is the response from GET /api/ps.
type PsResponse struct {
	Models []RunningModel `json:"models"`
}

// DeleteRequest is the payload for DELETE /api/delete.
type DeleteRequest struct {
	Model string `json:"model"`
}

// VersionResponse is the response from GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
}
