package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newServer(t *testing.T, status int, body string, inspect func(*http.Request, geminiRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(r, req)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGenerateReturnsFirstText(t *testing.T) {
	srv := newServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":""},{"text":"{\"class\":\"x\"}"}]}}]}`,
		func(r *http.Request, req geminiRequest) {
			if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("key") != "k" {
				t.Errorf("api key not sent")
			}
			if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 2 {
				t.Fatalf("unexpected contents: %+v", req.Contents)
			}
			img := req.Contents[0].Parts[1].InlineData
			if img == nil || img.MimeType != "image/png" || img.Data == "" {
				t.Errorf("image part missing: %+v", img)
			}
			if req.GenerationConfig.MaxOutputTokens != 4096 || req.GenerationConfig.ResponseMimeType != "application/json" {
				t.Errorf("unexpected generation config: %+v", req.GenerationConfig)
			}
		})
	defer srv.Close()

	c := NewClient("k", "test-model", WithAPIBase(srv.URL))
	text, err := c.Generate(context.Background(), Request{Prompt: "p", Image: []byte{1, 2}, MimeType: "image/png"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"class":"x"}` {
		t.Errorf("text = %q", text)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			check:  func(err error) bool { return errors.Is(err, ErrNoCandidates) },
		},
		{
			name:   "no text",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[]}}]}`,
			check:  func(err error) bool { return errors.Is(err, ErrNoText) },
		},
		{
			name:   "api error",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
			check: func(err error) bool {
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.StatusCode == 429 && apiErr.Message == "quota exceeded"
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `not json`,
			check:  func(err error) bool { return err != nil && strings.Contains(err.Error(), "failed to parse response") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			defer srv.Close()

			_, err := NewClient("k", "m", WithAPIBase(srv.URL)).Generate(context.Background(), Request{Prompt: "p"})
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGenerateMissingKey(t *testing.T) {
	_, err := NewClient("", "").Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("k", "m", WithAPIBase(srv.URL), WithTimeout(20*time.Millisecond))
	if _, err := c.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("expected timeout error")
	}
}
