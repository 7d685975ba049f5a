package llm

import "encoding/base64"

// Message represents a single message in a chat conversation.
// Images are sent as image_url content parts after the text.
type Message struct {
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Images  []Image `json:"-"`
}

// Image is an encoded raster attached to a message.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the image as a base64 data URI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens caps the completion length. If 0, no limit is sent.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// Nil leaves the server default in place.
	Temperature *float32
}

// Temperature returns a pointer for ChatParams.Temperature.
func Temperature(v float32) *float32 {
	return &v
}
