package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
)

// Azure API versions. On an unsupported-version rejection the provider falls
// back from the default to the fallback version exactly once.
const (
	DefaultAzureAPIVersion  = "2024-02-01"
	FallbackAzureAPIVersion = "2023-10-01"
)

const requestTimeout = 60 * time.Second

// versionState tracks the API-version fallback: attempting(version) moves to
// attempting(fallback) on the first rejection and to exhausted on the second.
type versionState struct {
	current  string
	fellBack bool
}

// advance switches to the fallback version, reporting false once the
// fallback has already been tried.
func (v *versionState) advance() bool {
	if v.fellBack {
		return false
	}
	v.current = FallbackAzureAPIVersion
	v.fellBack = true
	return true
}

// AzureProvider embeds file content through an Azure OpenAI embeddings
// deployment, authenticated with an API key.
type AzureProvider struct {
	cfg        index.AzureConfig
	httpClient *http.Client
	version    versionState
}

// NewAzureProvider creates a provider from persisted credentials. The
// endpoint may point at a test server; the /openai path segment is appended
// when missing.
func NewAzureProvider(cfg index.AzureConfig) (*AzureProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAzureAPIVersion
	}
	return &AzureProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		version:    versionState{current: version},
	}, nil
}

// Generate issues one embedding request. An unsupported-API-version
// rejection triggers the one-time fallback and an immediate reissue; all
// other failures surface to the caller classified.
func (a *AzureProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	for {
		vec, err := a.request(ctx, text)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && isVersionRejected(apiErr) && a.version.advance() {
				continue
			}
			return nil, err
		}
		return vec, nil
	}
}

func (a *AzureProvider) request(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]string{
		"input": "passage: " + Truncate(text),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Message: "azure returned 429"}
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var apiResp struct {
		Error json.RawMessage `json:"error"`
		Data  []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &APIError{Body: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(apiResp.Error) > 0 && string(apiResp.Error) != "null" {
		return nil, &APIError{Status: resp.StatusCode, Body: string(apiResp.Error)}
	}
	if len(apiResp.Data) == 0 || len(apiResp.Data[0].Embedding) == 0 {
		return nil, &APIError{Status: resp.StatusCode, Body: "unexpected response shape"}
	}
	return apiResp.Data[0].Embedding, nil
}

// url builds the deployment URL for the current API version.
func (a *AzureProvider) url() string {
	base := strings.TrimRight(a.cfg.Endpoint, "/")
	if !strings.HasSuffix(base, "/openai") {
		base += "/openai"
	}
	return fmt.Sprintf("%s/deployments/%s/embeddings?api-version=%s",
		base, a.cfg.DeploymentName, a.version.current)
}

func (a *AzureProvider) ValidateConfig() error { return a.cfg.Validate() }

func (a *AzureProvider) Name() string { return index.ProviderAzure }

func (a *AzureProvider) Model() string { return a.cfg.DeploymentName }

func (a *AzureProvider) Dimension() int { return AzureDimension }

func (a *AzureProvider) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// APIVersion exposes the version currently in use, mostly for tests.
func (a *AzureProvider) APIVersion() string { return a.version.current }

func isVersionRejected(err *APIError) bool {
	return strings.Contains(err.Body, "API version not supported")
}
