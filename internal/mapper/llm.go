// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/docpipe/internal/content"
	"github.com/pdiddy/docpipe/internal/httputil"
	"github.com/pdiddy/docpipe/pkg/types"
)

// LLMResolver maps placeholders by asking an OpenAI-compatible chat server
// (vLLM by default) for one placeholder-to-section assignment per run. The
// call is single-shot: the mapping problem is a handful of names against a
// handful of sections, so one round trip suffices and no retry is attempted.
type LLMResolver struct {
	Cfg    types.LLMConfig
	Client *http.Client
}

// NewLLMResolver builds a resolver whose HTTP client carries cfg's timeout
// and User-Agent.
func NewLLMResolver(cfg types.LLMConfig) *LLMResolver {
	return &LLMResolver{Cfg: cfg, Client: httputil.NewClient(cfg.HTTPConfig)}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// assignmentReply is the schema the system prompt demands from the model.
type assignmentReply struct {
	Assignments []assignment `json:"assignments"`
}

type assignment struct {
	Placeholder string `json:"placeholder"`
	Section     string `json:"section"`
}

func (r *LLMResolver) Resolve(ctx context.Context, placeholders []types.Placeholder, doc *content.Document) (types.Mapping, error) {
	userPrompt, err := renderPrompt(placeholders, doc)
	if err != nil {
		return nil, err
	}

	reply, err := r.complete(ctx, userPrompt)
	if err != nil {
		return nil, err
	}
	return parseAssignments(reply, placeholders, doc)
}

// complete performs one chat-completion round trip and returns the model's
// message text.
func (r *LLMResolver) complete(ctx context.Context, userPrompt string) (string, error) {
	endpoint := chatEndpoint(r.Cfg.BaseURL)

	body, err := json.Marshal(chatRequest{
		Model: r.Cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: mappingSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   r.Cfg.MaxTokens,
		Temperature: r.Cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(r.Cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", &ServiceUnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceUnavailableError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceUnavailableError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ParseError{Reason: fmt.Sprintf("invalid completion envelope: %v", err), Reply: string(raw)}
	}
	if len(parsed.Choices) == 0 {
		return "", &ParseError{Reason: "completion returned no choices", Reply: string(raw)}
	}
	return parsed.Choices[0].Message.Content, nil
}

// chatEndpoint normalizes a base URL to the /chat/completions path, accepting
// bare hosts, hosts with /v1, and fully qualified endpoints.
func chatEndpoint(baseURL string) string {
	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if endpoint == "" {
		endpoint = "http://localhost:8000/v1"
	}
	if strings.HasSuffix(endpoint, "/chat/completions") {
		return endpoint
	}
	if strings.HasSuffix(endpoint, "/v1") {
		return endpoint + "/chat/completions"
	}
	return endpoint + "/v1/chat/completions"
}

// parseAssignments validates the model reply against the assignment schema
// and resolves section keys to text. Every placeholder must be assigned
// exactly once to a section key the content document actually has.
func parseAssignments(reply string, placeholders []types.Placeholder, doc *content.Document) (types.Mapping, error) {
	jsonText, ok := extractJSON(reply)
	if !ok {
		return nil, &ParseError{Reason: "no JSON object found in reply", Reply: reply}
	}

	dec := json.NewDecoder(strings.NewReader(jsonText))
	dec.DisallowUnknownFields()
	var parsed assignmentReply
	if err := dec.Decode(&parsed); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("reply does not match assignment schema: %v", err), Reply: reply}
	}

	wanted := make(map[string]bool, len(placeholders))
	for _, p := range placeholders {
		wanted[p.Name] = false
	}

	m := types.Mapping{}
	for _, a := range parsed.Assignments {
		seen, ok := wanted[a.Placeholder]
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("reply assigns unknown placeholder %q", a.Placeholder), Reply: reply}
		}
		if seen {
			return nil, &ParseError{Reason: fmt.Sprintf("reply assigns placeholder %q twice", a.Placeholder), Reply: reply}
		}
		section, ok := doc.Section(a.Section)
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("reply assigns %q to nonexistent section %q", a.Placeholder, a.Section), Reply: reply}
		}
		wanted[a.Placeholder] = true
		m[a.Placeholder] = section.Text
	}

	for name, seen := range wanted {
		if !seen {
			return nil, &ParseError{Reason: fmt.Sprintf("reply omits placeholder %q", name), Reply: reply}
		}
	}
	return m, nil
}

// extractJSON pulls the JSON object out of a model reply, tolerating fenced
// code blocks and leading prose. Tried in order: the whole reply, the first
// fenced block, the outermost brace pair.
func extractJSON(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	if i := strings.Index(trimmed, "```"); i >= 0 {
		rest := trimmed[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			candidate := strings.TrimSpace(rest[:j])
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}
