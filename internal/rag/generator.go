package rag

import (
	"context"
	"fmt"
	"strings"

	"scanrag/internal/contextutil"
	"scanrag/internal/llm"
)

// DefaultAnswerMaxTokens caps the length of generated answers.
const DefaultAnswerMaxTokens = 2000

// ChatModel is the chat completion capability the generator needs.
type ChatModel interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Generator produces grounded answers from sources and conversation history.
type Generator struct {
	model     ChatModel
	modelName string
	maxTokens int
}

// NewGenerator creates a Generator. modelName may be empty to use the client default.
func NewGenerator(model ChatModel, modelName string, maxTokens int) *Generator {
	if maxTokens <= 0 {
		maxTokens = DefaultAnswerMaxTokens
	}
	return &Generator{model: model, modelName: modelName, maxTokens: maxTokens}
}

// BuildContext renders sources under delimited headings for the system message.
func BuildContext(sources []Source) string {
	if len(sources) == 0 {
		return noSourcesNotice
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	for i, src := range sources {
		fmt.Fprintf(&b, "### Source %d: %s (Page %d)\n", i+1, src.PDFName, src.PageNumber)
		b.WriteString(src.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Messages builds the request: system message with the sources, then the history.
func (g *Generator) Messages(history []ChatMessage, sources []Source) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: answerPrompt + "\n\n" + BuildContext(sources),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}

// Generate returns the model's answer, trimmed. It never fails: a model error
// becomes an answer describing it.
func (g *Generator) Generate(ctx context.Context, history []ChatMessage, sources []Source) string {
	logger := contextutil.LoggerFromContext(ctx)

	answer, err := g.model.ChatWithMessages(ctx, g.Messages(history, sources), llm.ChatParams{
		Model:     g.modelName,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate answer", "error", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}

	answer = strings.TrimSpace(answer)
	logger.InfoContext(ctx, "answer generated", "answer_length", len(answer), "sources", len(sources))
	return answer
}
