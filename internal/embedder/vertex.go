package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexProvider embeds file content through a Google Vertex AI prediction
// endpoint, authenticated with a service-account bearer token.
type VertexProvider struct {
	cfg        index.GCPConfig
	httpClient *http.Client
	tokens     oauth2.TokenSource
}

// NewVertexProvider creates a provider from persisted credentials, building
// a JWT token source from the service-account key file.
func NewVertexProvider(cfg index.GCPConfig) (*VertexProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keyData, err := os.ReadFile(cfg.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(keyData, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return NewVertexProviderWithTokenSource(cfg, jwtCfg.TokenSource(context.Background())), nil
}

// NewVertexProviderWithTokenSource creates a provider with an explicit token
// source. Used by tests and by hosts that manage credentials themselves.
func NewVertexProviderWithTokenSource(cfg index.GCPConfig, ts oauth2.TokenSource) *VertexProvider {
	return &VertexProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     ts,
	}
}

func (v *VertexProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	token, err := v.tokens.Token()
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("fetch gcp token: %w", err)}
	}

	body, err := json.Marshal(map[string]interface{}{
		"instances": []map[string]string{{"content": Truncate(text)}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Message: "vertex returned 429"}
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var apiResp struct {
		Predictions []struct {
			Embedding struct {
				Values []float32 `json:"values"`
			} `json:"embedding"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &APIError{Body: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(apiResp.Predictions) == 0 || len(apiResp.Predictions[0].Embedding.Values) == 0 {
		return nil, &APIError{Status: resp.StatusCode, Body: "unexpected response shape"}
	}
	return apiResp.Predictions[0].Embedding.Values, nil
}

// url returns the configured endpoint override or the regional publisher
// model endpoint.
func (v *VertexProvider) url() string {
	if v.cfg.Endpoint != "" {
		return v.cfg.Endpoint
	}
	return fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		v.cfg.Location, v.cfg.ProjectID, v.cfg.Location, v.cfg.ModelID)
}

func (v *VertexProvider) ValidateConfig() error { return v.cfg.Validate() }

func (v *VertexProvider) Name() string { return index.ProviderGCP }

func (v *VertexProvider) Model() string { return v.cfg.ModelID }

func (v *VertexProvider) Dimension() int { return VertexDimension }

func (v *VertexProvider) Close() error {
	v.httpClient.CloseIdleConnections()
	return nil
}
