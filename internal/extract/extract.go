// Package extract turns unstructured source text into structured job records
// via a language-model completion call.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobboard-engine/internal/domain"
)

// ErrEmptyResponse means the completion service returned no content at all.
// Malformed JSON is a hard failure for that source, not a partial success.
var ErrEmptyResponse = errors.New("empty response from completion service")

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	tags        []string
	hc          *http.Client
}

// NewClient builds an extractor against a chat-completion endpoint. Sampling
// parameters are fixed low to bias toward deterministic, schema-conforming
// output; conformance is still not verified.
func NewClient(baseURL, apiKey, model string, temperature float64, maxTokens int, tags []string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		tags:        tags,
		hc:          &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract submits the source text with the extraction prompt and parses the
// response into zero or more job records for the given company.
func (c *Client) Extract(ctx context.Context, sourceText, sourceURL, company string) ([]domain.Job, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(c.tags)},
			{Role: "user", Content: "Extract all job postings from this source:\n\n" + sourceText},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	reqBody.ResponseFormat.Type = "json_object"

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("extract encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("extract build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract post: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("extract status %d", res.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("extract decode: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	var payload struct {
		Jobs []domain.Job `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("extract invalid json: %w", err)
	}

	jobs := payload.Jobs[:0]
	for _, j := range payload.Jobs {
		j.Title = strings.TrimSpace(j.Title)
		if j.Title == "" {
			continue
		}
		if strings.TrimSpace(j.Company) == "" {
			j.Company = company
		}
		if j.URL == nil && sourceURL != "" {
			u := sourceURL
			j.URL = &u
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
