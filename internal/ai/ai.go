// Package ai defines the external AI collaborators: task classification,
// text professionalization, weekly insights, and the mentor chat.
package ai

import (
	"context"
	"math"

	"github.com/sadopc/chronos/internal/store"
)

// Static fallbacks used whenever a collaborator call fails. A completed
// session or planner action must never be lost to an AI failure.
const (
	DefaultImpact   = 5.0
	FallbackInsight = "Focus on clear objectives today."
	EmptyLogInsight = "Initialize session to activate intelligence."
	FallbackAdvice  = "Connection unstable.\nAsk me again in a moment."
	FallbackPraise  = "Target achieved."
	MentorGreeting  = "I am your focus mentor.\nHow can we optimize your flow today?"
)

// Chat roles for mentor history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Classification is the result of classifying a completed session.
type Classification struct {
	Category string  `json:"category"`
	Impact   float64 `json:"impact"`
}

// ChatMessage is one turn of the mentor conversation.
type ChatMessage struct {
	Role string
	Text string
}

// Assistant is the collaborator contract. Implementations may fail; the
// caller normalizes results and substitutes documented fallbacks.
type Assistant interface {
	Classify(ctx context.Context, description string, categories []string, persona string) (Classification, error)
	Rewrite(ctx context.Context, text, persona string) (string, error)
	WeeklyInsight(ctx context.Context, tasks []store.Task) (string, error)
	Advise(ctx context.Context, message string, history []ChatMessage) (string, error)
	Praise(ctx context.Context, task store.Task) (string, error)
}

// Normalize validates a classification against the account's categories.
// An unknown category falls back to the first known one; an impact outside
// [1, 10] (or NaN) falls back to DefaultImpact.
func (c Classification) Normalize(categories []string) Classification {
	known := false
	for _, cat := range categories {
		if cat == c.Category {
			known = true
			break
		}
	}
	if !known {
		c.Category = ""
		if len(categories) > 0 {
			c.Category = categories[0]
		}
	}
	if math.IsNaN(c.Impact) || c.Impact < 1 || c.Impact > 10 {
		c.Impact = DefaultImpact
	}
	return c
}

// Fallback returns the classification used when the collaborator fails
// outright: first category, default impact.
func Fallback(categories []string) Classification {
	c := Classification{Impact: DefaultImpact}
	if len(categories) > 0 {
		c.Category = categories[0]
	}
	return c
}
