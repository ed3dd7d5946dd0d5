package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/sadopc/chronos/internal/store"
)

const defaultModel = "gpt-4o-mini"

// requestTimeout bounds each collaborator call so a slow backend never
// wedges the task-completion flow.
const requestTimeout = 20 * time.Second

// OpenAI implements Assistant against the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a client. Model defaults to gpt-4o-mini when empty.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultModel
		slog.Warn("model not configured, using default", "model", model)
	}
	slog.Info("initializing OpenAI client", "model", model)
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return clean(resp.Choices[0].Message.Content), nil
}

// clean strips markdown bold markers the models like to sneak in.
func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

func (o *OpenAI) Classify(ctx context.Context, description string, categories []string, persona string) (Classification, error) {
	system := fmt.Sprintf("The user is a %s. Respond with a JSON object of the form "+
		`{"category": string, "impact": number}.`, persona)
	prompt := fmt.Sprintf("Input: %q.\nSelection: choose the best-fitting project from this list: [%s].\n"+
		"Impact: estimate business impact 1-10.", description, strings.Join(categories, ", "))

	raw, err := o.complete(ctx, system, prompt, true)
	if err != nil {
		slog.Error("classification failed", "error", err)
		return Classification{}, err
	}

	var c Classification
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		slog.Error("classification response unparsable", "error", err)
		return Classification{}, fmt.Errorf("parse classification: %w", err)
	}
	return c, nil
}

func (o *OpenAI) Rewrite(ctx context.Context, text, persona string) (string, error) {
	system := fmt.Sprintf("The user is a %s.", persona)
	prompt := fmt.Sprintf("Task: %q.\nAction: rewrite this casual note into a high-performance professional objective.\n"+
		"Rules: no bold text, max 10 words, use industry-appropriate terminology.", text)

	out, err := o.complete(ctx, system, prompt, false)
	if err != nil || out == "" {
		slog.Error("rewrite failed", "error", err)
		return text, err
	}
	return out, nil
}

func (o *OpenAI) WeeklyInsight(ctx context.Context, tasks []store.Task) (string, error) {
	if len(tasks) == 0 {
		return EmptyLogInsight, nil
	}
	descs := make([]string, len(tasks))
	for i, t := range tasks {
		descs[i] = t.Description
	}
	prompt := fmt.Sprintf("Analyze these tasks: %s.\nProvide one extremely short strategic tip "+
		"focused on communication or efficiency. Rules: no bold text, max 15 words.",
		strings.Join(descs, ", "))

	out, err := o.complete(ctx, "You are a productivity analyst.", prompt, false)
	if err != nil || out == "" {
		slog.Error("weekly insight failed", "error", err)
		return FallbackInsight, err
	}
	return out, nil
}

const mentorSystem = "You are a high-performance communication coach.\n" +
	"RULES:\n1. NEVER USE BOLD (**).\n2. USE SHORT LINES ONLY.\n" +
	"3. FOCUS ON COMMUNICATION SKILLS.\n4. BE ZEN AND DIRECT.\n5. MAX 3 LINES."

func (o *OpenAI) Advise(ctx context.Context, message string, history []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: mentorSystem},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Role == RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("mentor advice failed", "error", err)
		return FallbackAdvice, err
	}
	if len(resp.Choices) == 0 {
		return FallbackAdvice, fmt.Errorf("mentor advice: no choices returned")
	}
	return clean(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) Praise(ctx context.Context, task store.Task) (string, error) {
	prompt := fmt.Sprintf("One short compliment for completing %q. No bold. Max 10 words.", task.Description)
	out, err := o.complete(ctx, "You are a supportive coach.", prompt, false)
	if err != nil || out == "" {
		return FallbackPraise, err
	}
	return out, nil
}
