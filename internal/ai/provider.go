package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyCompletion = errors.New("empty completion")

type Provider interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// JSONProvider is implemented by providers that can force a JSON object reply.
type JSONProvider interface {
	CompleteJSON(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// CompleteInto asks p for a JSON object and decodes it into out. Providers
// without a JSON mode are prompted normally and their reply is unfenced.
func CompleteInto(ctx context.Context, p Provider, model, systemPrompt, prompt string, out any) error {
	var (
		raw string
		err error
	)
	if jp, ok := p.(JSONProvider); ok {
		raw, err = jp.CompleteJSON(ctx, model, systemPrompt, prompt)
	} else {
		raw, err = p.CompleteWithSystem(ctx, model, systemPrompt, prompt)
	}
	if err != nil {
		return err
	}
	raw = stripFence(raw)
	if raw == "" {
		return ErrEmptyCompletion
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
