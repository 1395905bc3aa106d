package types

import "time"

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message string `json:"message" form:"message"`
	UserID  string `json:"user_id" form:"user_id"`
}

// ChatResponse carries the assistant reply plus the memory snippets that
// informed it.
type ChatResponse struct {
	Response     string   `json:"response"`
	ResponseHTML string   `json:"response_html"`
	MemoriesUsed []string `json:"memories_used"`
	UserID       string   `json:"user_id"`
}

// MemorySummary is one stored memory in a listing.
type MemorySummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoriesResponse is the GET /memories/:user_id body.
type MemoriesResponse struct {
	Memories []MemorySummary `json:"memories"`
	Count    int             `json:"count"`
}

// ImportResponse reports what a document import produced.
type ImportResponse struct {
	Imported int    `json:"imported"`
	Title    string `json:"title"`
}
