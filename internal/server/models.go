package server

// AskRequest is the body of POST /ask
type AskRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

// ErrorResponse is written for every failed request. ThreadID is set when a
// conversation exists so the caller can continue it.
type ErrorResponse struct {
	Error    string `json:"error"`
	ThreadID string `json:"threadId,omitempty"`
}

// ToolsResponse is the body of GET /tools
type ToolsResponse struct {
	Tools []ToolInfo `json:"tools"`
	Count int        `json:"count"`
}

// ToolInfo describes one callable tool
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
