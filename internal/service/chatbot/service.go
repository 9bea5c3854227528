// Package chatbot proxies the conversational assistant: user turns and
// assistant replies are both persisted so a session can be replayed.
package chatbot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/config"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

// Completer is the outbound LLM surface, satisfied by the resty client
// below and by fakes in tests.
type Completer interface {
	Complete(ctx context.Context, history []*model.ChatMessage, message string) (string, error)
}

type Service struct {
	chats     repository.ChatRepository
	completer Completer
	logger    *zerolog.Logger
}

func NewService(chats repository.ChatRepository, completer Completer, logger *zerolog.Logger) *Service {
	return &Service{chats: chats, completer: completer, logger: logger}
}

// Send persists the user's message, asks the assistant for a reply with the
// session history as context, and persists the reply.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req *model.ChatRequest) (*model.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := s.chats.ListByUser(ctx, userID, sessionID, 20)
	if err != nil {
		return nil, apperrors.Persistence("failed to load chat history", err)
	}

	userMsg := &model.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      model.ChatRoleUser,
		Content:   req.Message,
		SessionID: sessionID,
	}
	if err := s.chats.Create(ctx, userMsg); err != nil {
		return nil, apperrors.Persistence("failed to store chat message", err)
	}

	reply, err := s.completer.Complete(ctx, history, req.Message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("assistant completion failed")
		return nil, apperrors.Internal(err)
	}

	assistantMsg := &model.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      model.ChatRoleAssistant,
		Content:   reply,
		SessionID: sessionID,
	}
	if err := s.chats.Create(ctx, assistantMsg); err != nil {
		return nil, apperrors.Persistence("failed to store assistant reply", err)
	}

	return &model.ChatResponse{Reply: reply, SessionID: sessionID}, nil
}

// History returns the session transcript, oldest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*model.ChatMessage, error) {
	messages, err := s.chats.ListByUser(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, apperrors.Persistence("failed to load chat history", err)
	}
	return messages, nil
}

// restyCompleter talks to the external assistant over HTTP.
type restyCompleter struct {
	client *resty.Client
	model  string
}

type completionTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string           `json:"model,omitempty"`
	Messages []completionTurn `json:"messages"`
}

type completionResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

func NewCompleter(cfg config.ChatbotConfig) Completer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &restyCompleter{client: client, model: cfg.Model}
}

func (c *restyCompleter) Complete(ctx context.Context, history []*model.ChatMessage, message string) (string, error) {
	turns := make([]completionTurn, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, completionTurn{Role: string(m.Role), Content: m.Content})
	}
	turns = append(turns, completionTurn{Role: string(model.ChatRoleUser), Content: message})

	var out completionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(completionRequest{Model: c.model, Messages: turns}).
		SetResult(&out).
		Post("/v1/chat")
	if err != nil {
		return "", fmt.Errorf("chatbot request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chatbot returned %s: %s", resp.Status(), out.Error)
	}
	return out.Reply, nil
}
