package ai

import (
	"context"

	"github.com/sadopc/chronos/internal/store"
)

// Offline is the deterministic no-network Assistant used when no API key
// is configured. Every call returns its documented fallback, so the app
// stays fully usable without AI.
type Offline struct{}

func (Offline) Classify(_ context.Context, _ string, categories []string, _ string) (Classification, error) {
	return Fallback(categories), nil
}

func (Offline) Rewrite(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

func (Offline) WeeklyInsight(_ context.Context, tasks []store.Task) (string, error) {
	if len(tasks) == 0 {
		return EmptyLogInsight, nil
	}
	return FallbackInsight, nil
}

func (Offline) Advise(_ context.Context, _ string, _ []ChatMessage) (string, error) {
	return FallbackAdvice, nil
}

func (Offline) Praise(_ context.Context, _ store.Task) (string, error) {
	return FallbackPraise, nil
}
