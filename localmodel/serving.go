package localmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"farmcare/image"
)

const maxServingResponseBytes = 1 << 20

type servingStatus struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}

type predictRequest struct {
	Instances []image.Tensor `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// servingScorer calls a TensorFlow Serving REST endpoint.
type servingScorer struct {
	baseURL string
	name    string
	version string
	http    *http.Client
}

// NewServingLoader returns a Loader that checks the named model is available
// on a TensorFlow Serving instance and scores through its predict API.
func NewServingLoader(baseURL, name string, timeout time.Duration) Loader {
	return func(ctx context.Context) (Scorer, error) {
		if baseURL == "" || name == "" {
			return nil, fmt.Errorf("serving url and model name are required")
		}
		s := &servingScorer{
			baseURL: strings.TrimRight(baseURL, "/"),
			name:    name,
			http:    &http.Client{Timeout: timeout},
		}
		if err := s.checkAvailable(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (s *servingScorer) Version() string {
	return s.name + "/" + s.version
}

func (s *servingScorer) checkAvailable(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", s.baseURL, s.name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create status request: %w", err)
	}
	body, err := s.do(req)
	if err != nil {
		return err
	}

	var st servingStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return fmt.Errorf("failed to parse model status: %w", err)
	}
	for _, v := range st.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			s.version = v.Version
			return nil
		}
	}
	return fmt.Errorf("model %s has no available version", s.name)
}

func (s *servingScorer) Predict(ctx context.Context, t image.Tensor) ([]float64, error) {
	data, err := json.Marshal(predictRequest{Instances: []image.Tensor{t}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	url := fmt.Sprintf("%s/v1/models/%s:predict", s.baseURL, s.name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.do(req)
	if err != nil {
		return nil, err
	}
	var pr predictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse predictions: %w", err)
	}
	if pr.Error != "" {
		return nil, fmt.Errorf("serving error: %s", pr.Error)
	}
	if len(pr.Predictions) == 0 {
		return nil, fmt.Errorf("no predictions in response")
	}
	return pr.Predictions[0], nil
}

func (s *servingScorer) do(req *http.Request) ([]byte, error) {
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxServingResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("serving error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
