package rag

import (
	"context"
	"fmt"

	"scanrag/internal/contextutil"
)

// Engine answers chat requests with retrieval-augmented generation.
type Engine struct {
	retriever *Retriever
	generator *Generator
}

// NewEngine creates a new RAG engine.
func NewEngine(retriever *Retriever, generator *Generator) *Engine {
	return &Engine{retriever: retriever, generator: generator}
}

// Chat retrieves sources for the latest user message and answers with the full history.
func (e *Engine) Chat(ctx context.Context, history []ChatMessage) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := latestUserMessage(history)
	if query == "" {
		logger.WarnContext(ctx, "no user message in chat history")
		return ChatResponse{Sources: []Source{}, Answer: noUserMessage}, nil
	}

	sources, err := e.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("failed to retrieve sources: %w", err)
	}

	answer := e.generator.Generate(ctx, history, sources)
	if sources == nil {
		sources = []Source{}
	}
	return ChatResponse{Sources: sources, Answer: answer}, nil
}

func latestUserMessage(history []ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	return ""
}
