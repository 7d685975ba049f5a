package rag

// Chat roles accepted in a conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}

// Source is a retrieved chunk cited in an answer.
type Source struct {
	// PDFName is the document the chunk came from.
	PDFName string `json:"pdf_name"`
	// PageNumber is 1-based.
	PageNumber int `json:"page_number"`
	// Content is the chunk text, possibly truncated.
	Content string `json:"content"`
	// Score is the cosine similarity to the query. Not serialized.
	Score float32 `json:"-"`
}

// ChatResponse is the answer to a chat request with the sources it was grounded on.
type ChatResponse struct {
	Sources []Source `json:"sources"`
	Answer  string   `json:"answer"`
}
