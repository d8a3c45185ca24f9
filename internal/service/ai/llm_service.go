package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/config"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

const historyLimit = 10

// Service answers widget messages with a chat model instead of a webhook.
type Service struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	system string
}

// NewService creates the model from cfg and compiles the reply chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, DefaultAdvisorPrompt())
}

// NewServiceWithModel compiles the reply chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, advisor AdvisorPrompt) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable, system: advisor.Build()}, nil
}

// Reply generates the bot answer for req.
func (s *Service) Reply(ctx context.Context, req chat.ReplyRequest) (string, error) {
	input := map[string]any{
		"system":  s.system,
		"history": buildHistoryMessages(req.History, req.Text),
		"query":   req.Text,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	text := strings.TrimSpace(response.Content)
	if text == "" {
		text = chat.AcknowledgementText
	}
	logger.Log.Info("ai_reply_generated", zap.String("session", req.SessionID), zap.Int("length", len(text)))
	return text, nil
}

// buildHistoryMessages maps the newest turns to model roles. The trailing
// user message equal to query is dropped since the template appends it.
func buildHistoryMessages(history chat.Conversation, query string) []*schema.Message {
	if last, ok := history.Last(); ok && last.Sender == chat.SenderUser && last.Text == query {
		history = history[:len(history)-1]
	}
	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, msg := range history[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			messages = append(messages, schema.UserMessage(msg.Text))
		case chat.SenderBot:
			messages = append(messages, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return messages
}
