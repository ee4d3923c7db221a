package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/debrief/internal/changeset"
	"github.com/joss/debrief/internal/filter"
	"github.com/joss/debrief/internal/session"
)

const validBriefingJSON = `{
	"session_summary": "Added a gin server in internal/server.",
	"what_got_built": [{"file": "internal/server/server.go", "description": "HTTP API", "key_code": "Routes", "key_decisions": ["gin over stdlib mux"]}],
	"how_pieces_connect": "main wires config into the server.",
	"patterns_used": [{"pattern": "constructor injection", "where": "server.go:New", "explained": "deps passed in"}],
	"will_bite_you": {"issue": "no timeouts", "where": "server.go:Run", "why": "slow clients hang", "what_to_check": "ReadTimeout"},
	"concepts_touched": [{"concept": "middleware", "in_code": "server.go", "developer_understood": true, "evidence": "asked about ordering"}]
}`

func textResponse(text string) string {
	resp := map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func sampleFiltered() filter.Result {
	return filter.Result{
		SessionID: "sess-1",
		Messages: []session.Message{
			{Type: session.TypeUser, Role: "user", Content: []session.Block{session.TextBlock{Text: "add a server"}}},
			{Type: session.TypeAssistant, Role: "assistant", Content: []session.Block{
				session.TextBlock{Text: "building the server now with routes and middleware wired in"},
				session.ToolUseBlock{Name: "Write", FilePath: "internal/server/server.go"},
			}},
		},
	}
}

func sampleChanges() changeset.ChangeSet {
	return changeset.ChangeSet{
		Files:          []changeset.FileDiff{{Path: "internal/server/server.go", Status: changeset.StatusAdded, Additions: 40, DiffText: "diff --git ..."}},
		TotalAdditions: 40,
		Source:         changeset.SourceGit,
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(textResponse(validBriefingJSON)))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "claude-haiku-4-5-20251001")
	b, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/home/dev/app")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", b.SessionID)
	assert.Equal(t, "/home/dev/app", b.ProjectPath)
	assert.Equal(t, "Added a gin server in internal/server.", b.SessionSummary)
	require.Len(t, b.WhatGotBuilt, 1)
	assert.Equal(t, "no timeouts", b.WillBiteYou.Issue)
	assert.NotEmpty(t, b.CreatedAt)

	assert.Equal(t, "claude-haiku-4-5-20251001", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "## CODEBASE DIFF")
	assert.Contains(t, gotReq.Messages[0].Content, "## CONVERSATION")
	assert.Contains(t, gotReq.Messages[0].Content, "Write(internal/server/server.go)")
}

func TestAnalyzeStripsFencing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("```json\n" + validBriefingJSON + "\n```")))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	b, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")
	require.NoError(t, err)
	assert.NotEmpty(t, b.SessionSummary)
}

func TestAnalyzeRetriesParseFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(textResponse("sorry, I cannot produce JSON")))
			return
		}
		w.Write([]byte(textResponse(validBriefingJSON)))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAnalyzeParseFailureExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("still not json")))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, MaxRetries, pe.Attempts)
}

func TestAnalyzeRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")
	assert.ErrorIs(t, err, ErrRateLimit)
}

func TestAnalyzeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"type":"overloaded_error","message":"overloaded"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestAnalyzeNoAPIKey(t *testing.T) {
	c := NewClient("", "", "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestBuildUserMessageTruncatesConversation(t *testing.T) {
	conv := strings.Repeat("c", MaxInputChars)
	diff := strings.Repeat("d", 1000)

	msg := buildUserMessage(conv, diff)

	assert.LessOrEqual(t, len(msg), MaxInputChars+200)
	assert.Contains(t, msg, "[...conversation truncated...]")
	assert.Contains(t, msg, diff)
}

func TestBuildUserMessageTruncatesBoth(t *testing.T) {
	conv := strings.Repeat("c", MaxInputChars)
	diff := strings.Repeat("d", MaxInputChars)

	msg := buildUserMessage(conv, diff)

	assert.Contains(t, msg, "[...diff truncated...]")
	assert.Contains(t, msg, "[...conversation truncated...]")
}

func TestFormatDiffEmpty(t *testing.T) {
	assert.Equal(t, "(no diff available)", formatDiff(changeset.ChangeSet{}))
}

func TestFormatDiffStatusLines(t *testing.T) {
	cs := changeset.ChangeSet{
		Files:     []changeset.FileDiff{{Path: "a.go", Status: changeset.StatusAdded}},
		Source:    changeset.SourceToolCalls,
		Truncated: true,
	}

	out := formatDiff(cs)

	assert.Contains(t, out, "Source: tool_calls")
	assert.Contains(t, out, "(diff truncated)")
	assert.Contains(t, out, "added: a.go")
}

func TestFormatConversationSummaryLine(t *testing.T) {
	res := filter.Result{Messages: []session.Message{
		{Type: session.TypeSummary, Content: []session.Block{session.TextBlock{Text: "wrapped up the refactor"}}},
	}}

	assert.Contains(t, formatConversation(res), "SESSION SUMMARY: wrapped up the refactor")
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`{"a":1}`))
}

func TestRetryDoesNotSwallowAPIError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	c := NewClient("sk-test", srv.URL, "m")
	_, err := c.Analyze(context.Background(), sampleFiltered(), sampleChanges(), "/p")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 1, calls)
}
