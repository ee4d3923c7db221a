// Package analyzer turns a filtered session and its change set into a
// briefing with a single summarizer API call.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/changeset"
	"github.com/joss/debrief/internal/filter"
	"github.com/joss/debrief/internal/logging"
	"github.com/joss/debrief/internal/session"
	"github.com/joss/debrief/internal/tokens"
)

const (
	// MaxRetries bounds re-asks after unparseable responses.
	MaxRetries = 2

	// MaxInputChars caps the prompt (~37.5k tokens, under rate limits).
	MaxInputChars = 150_000

	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	maxOutputTokens  = 4096
)

// Client calls the Anthropic messages API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	log     *logging.Logger
}

// NewClient creates a summarizer client. baseURL may be empty to use
// the public endpoint.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     logging.New("analyzer"),
	}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze sends the filtered conversation and diff to the model and
// parses the response into a briefing.
func (c *Client) Analyze(ctx context.Context, filtered filter.Result, cs changeset.ChangeSet, projectPath string) (briefing.Briefing, error) {
	if c.apiKey == "" {
		return briefing.Briefing{}, ErrNoAPIKey
	}

	userMessage := buildUserMessage(formatConversation(filtered), formatDiff(cs))

	log := c.log.WithSession(filtered.SessionID)
	log.Info("request", map[string]any{
		"model":            c.model,
		"input_chars":      len(userMessage),
		"estimated_tokens": tokens.Count(userMessage),
	})

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		text, err := c.complete(ctx, userMessage)
		if err != nil {
			return briefing.Briefing{}, err
		}

		var parsed struct {
			SessionSummary   string              `json:"session_summary"`
			WhatGotBuilt     []briefing.BuiltItem `json:"what_got_built"`
			HowPiecesConnect string              `json:"how_pieces_connect"`
			PatternsUsed     []briefing.Pattern  `json:"patterns_used"`
			WillBiteYou      briefing.Risk       `json:"will_bite_you"`
			ConceptsTouched  []briefing.Concept  `json:"concepts_touched"`
		}
		if err := json.Unmarshal([]byte(stripFence(text)), &parsed); err != nil {
			lastErr = err
			log.Warn("parse_retry", map[string]any{"attempt": attempt + 1}, err)
			continue
		}

		b := briefing.New(filtered.SessionID, projectPath)
		b.SessionSummary = parsed.SessionSummary
		b.WhatGotBuilt = parsed.WhatGotBuilt
		b.HowPiecesConnect = parsed.HowPiecesConnect
		b.PatternsUsed = parsed.PatternsUsed
		b.WillBiteYou = parsed.WillBiteYou
		b.ConceptsTouched = parsed.ConceptsTouched
		return b, nil
	}

	return briefing.Briefing{}, &ParseError{Attempts: MaxRetries, Err: lastErr}
}

// complete performs one messages API call and returns the text content.
func (c *Client) complete(ctx context.Context, userMessage string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: maxOutputTokens,
		System:    analysisPrompt,
		Messages:  []chatMessage{{Role: "user", Content: userMessage}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var result messagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if result.Error != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: result.Error.Message}
	}
	if len(result.Content) == 0 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "empty response content"}
	}

	return result.Content[0].Text, nil
}

// buildUserMessage assembles the prompt, truncating to stay under the
// input budget. The diff is the ground truth so the conversation gives
// way first.
func buildUserMessage(conversationText, diffText string) string {
	assemble := func(diff, conv string) string {
		return fmt.Sprintf("## CODEBASE DIFF\n\n%s\n\n## CONVERSATION\n\n%s", diff, conv)
	}

	userMessage := assemble(diffText, conversationText)
	if len(userMessage) <= MaxInputChars {
		return userMessage
	}

	availableForConv := MaxInputChars - len(diffText) - 100
	if availableForConv > 10_000 {
		conversationText = conversationText[:availableForConv] + "\n\n[...conversation truncated...]"
	} else {
		diffText = diffText[:MaxInputChars/2] + "\n\n[...diff truncated...]"
		if len(conversationText) > MaxInputChars/2 {
			conversationText = conversationText[:MaxInputChars/2] + "\n\n[...conversation truncated...]"
		}
	}
	return assemble(diffText, conversationText)
}

// stripFence removes markdown code fencing from a model response.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// formatConversation renders filtered messages as readable dialogue.
func formatConversation(filtered filter.Result) string {
	var parts []string

	for _, msg := range filtered.Messages {
		switch {
		case msg.Role == "user":
			if text := msg.Text(); text != "" {
				parts = append(parts, "USER: "+text)
			}
		case msg.Role == "assistant":
			line := "ASSISTANT:"
			if text := msg.Text(); text != "" {
				line = "ASSISTANT: " + text
			}
			if tools := formatTools(msg); len(tools) > 0 {
				line += fmt.Sprintf("\n  [Tools: %s]", strings.Join(tools, ", "))
			}
			parts = append(parts, line)
		case msg.Type == session.TypeSummary:
			if text := msg.Text(); text != "" {
				parts = append(parts, "SESSION SUMMARY: "+text)
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

func formatTools(msg session.Message) []string {
	var tools []string
	for _, tool := range msg.ToolUses() {
		if tool.FilePath != "" {
			tools = append(tools, fmt.Sprintf("%s(%s)", tool.Name, tool.FilePath))
		} else {
			tools = append(tools, tool.Name)
		}
	}
	return tools
}

// formatDiff renders the change set for the prompt.
func formatDiff(cs changeset.ChangeSet) string {
	if len(cs.Files) == 0 {
		return "(no diff available)"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Source: %s | +%d -%d | %d files",
		cs.Source, cs.TotalAdditions, cs.TotalDeletions, len(cs.Files)))
	if cs.Truncated {
		parts = append(parts, "(diff truncated)")
	}
	parts = append(parts, "")

	for _, f := range cs.Files {
		if f.DiffText != "" {
			parts = append(parts, f.DiffText)
		} else {
			parts = append(parts, fmt.Sprintf("  %s: %s", f.Status, f.Path))
		}
	}

	return strings.Join(parts, "\n")
}
