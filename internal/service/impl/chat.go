package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gymblog/gymblog/internal/inference"
	"github.com/gymblog/gymblog/internal/service"
)

// MaxChatLength is a limit of chat message in runes.
const MaxChatLength = 2000

func (s *srv) Chat(ctx context.Context, actor, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("message is empty")
	}
	if tooLong(text, MaxChatLength) {
		return "", invalid("message should be at most %d characters", MaxChatLength)
	}

	if _, err := s.activeActor(ctx, actor); err != nil {
		return "", err
	}

	if s.gen == nil {
		return "", fmt.Errorf("chat is %w", service.ErrNotConfigured)
	}

	reply, err := s.gen.Generate(ctx, text)
	if err != nil {
		if errors.Is(err, inference.ErrEmptyResponse) {
			return "", err
		}
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	return strings.TrimSpace(reply), nil
}
