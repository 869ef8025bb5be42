package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAPIBase = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-pro"
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 4 << 20
)

var (
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
	ErrNoCandidates  = errors.New("no candidates in response")
	ErrNoText        = errors.New("no text part in response")
)

// APIError is a non-2xx reply from the generateContent endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP"`
	TopK             int             `json:"topK"`
	MaxOutputTokens  int             `json:"maxOutputTokens"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Request is one image analysis call.
type Request struct {
	Prompt   string
	Image    []byte
	MimeType string
	// Schema is an optional structured-output schema.
	Schema json.RawMessage
}

type Client struct {
	apiKey  string
	model   string
	apiBase string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIBase points the client at a different endpoint root.
func WithAPIBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds each call, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		apiKey:  apiKey,
		model:   model,
		apiBase: DefaultAPIBase,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt and image and returns the first text part of
// the first candidate. There is a single endpoint and no retry.
func (c *Client) Generate(ctx context.Context, r Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	parts := []part{{Text: r.Prompt}}
	if len(r.Image) > 0 {
		mime := r.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, part{
			InlineData: &inlineData{
				MimeType: mime,
				Data:     base64.StdEncoding.EncodeToString(r.Image),
			},
		})
	}

	body := geminiRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:      0.2,
			TopP:             0.8,
			TopK:             40,
			MaxOutputTokens:  4096,
			ResponseMimeType: "application/json",
			ResponseSchema:   r.Schema,
		},
	}
	return c.generateContent(ctx, body)
}

func (c *Client) generateContent(ctx context.Context, body geminiRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.apiBase, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(bodyBytes)}
	}

	var gr geminiResponse
	if err := json.Unmarshal(bodyBytes, &gr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	for _, p := range gr.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", ErrNoText
}

// errorMessage pulls the message out of a Google API error body.
func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
