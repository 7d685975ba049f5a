package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService scanrag/internal/service ChatService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_engine.go -package=mocks scanrag/internal/service ChatEngine

import (
	"context"
	"fmt"

	"scanrag/internal/contextutil"
	"scanrag/internal/journal"
	"scanrag/internal/rag"
)

// ChatEngine answers a conversation with retrieved sources.
// This interface is defined from the service layer's perspective (consumer-first).
type ChatEngine interface {
	Chat(ctx context.Context, history []rag.ChatMessage) (rag.ChatResponse, error)
}

// ChatService provides chat functionality.
type ChatService interface {
	// Chat validates the history and answers its latest user message.
	Chat(ctx context.Context, history []rag.ChatMessage) (rag.ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	engine  ChatEngine
	journal *journal.Journal
}

// NewChatService creates a new ChatService. j may be nil.
func NewChatService(engine ChatEngine, j *journal.Journal) ChatService {
	return &chatService{engine: engine, journal: j}
}

// Chat processes a chat request.
func (s *chatService) Chat(ctx context.Context, history []rag.ChatMessage) (rag.ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateHistory(history); err != nil {
		logger.WarnContext(ctx, "invalid chat history", "error", err)
		return rag.ChatResponse{}, err
	}

	resp, err := s.engine.Chat(ctx, history)
	if err != nil {
		logger.ErrorContext(ctx, "failed to process chat", "error", err)
		s.journal.Error("/chat", err.Error(), map[string]any{"messages": len(history)})
		return rag.ChatResponse{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}

	s.journal.Chat(journalMessages(history), resp.Answer, journalSources(resp.Sources), nil)
	logger.InfoContext(ctx, "chat request processed successfully", "turns", len(history), "sources", len(resp.Sources), "answer_length", len(resp.Answer))
	return resp, nil
}

func validateHistory(history []rag.ChatMessage) error {
	if len(history) == 0 {
		return &ValidationError{Field: "messages", Message: "Chat history cannot be empty"}
	}

	hasUser := false
	for i, m := range history {
		switch m.Role {
		case rag.RoleUser:
			hasUser = true
		case rag.RoleAssistant:
		default:
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: fmt.Sprintf("Invalid role %q: must be 'user' or 'assistant'", m.Role),
			}
		}
		if m.Content == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].content", i),
				Message: "Message content cannot be empty",
			}
		}
	}
	if !hasUser {
		return &ValidationError{Field: "messages", Message: "At least one user message is required"}
	}
	return nil
}

func journalMessages(history []rag.ChatMessage) []journal.Message {
	out := make([]journal.Message, len(history))
	for i, m := range history {
		out[i] = journal.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func journalSources(sources []rag.Source) []journal.SourceRef {
	out := make([]journal.SourceRef, len(sources))
	for i, s := range sources {
		out[i] = journal.SourceRef{PDFName: s.PDFName, PageNumber: s.PageNumber, ContentLength: len([]rune(s.Content))}
	}
	return out
}
