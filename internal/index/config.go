package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Provider kinds persisted in provider_config.json.
const (
	ProviderLocal = "local"
	ProviderAzure = "azure"
	ProviderGCP   = "gcp"
)

// DefaultLocalModel is the model name recorded for local embedding sets when
// the provider config does not name one.
const DefaultLocalModel = "BAAI/bge-small-en-v1.5"

// ProviderConfig selects which embedding provider a job uses.
type ProviderConfig struct {
	Provider   string `json:"provider"`
	LocalModel string `json:"local_model,omitempty"`
}

// AzureConfig holds Azure OpenAI credentials (azure_config.json).
type AzureConfig struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	DeploymentName string `json:"deployment_name"`
	APIVersion     string `json:"api_version"`
}

// Validate reports whether the config has every required field.
func (c AzureConfig) Validate() error {
	if c.Endpoint == "" || c.APIKey == "" || c.DeploymentName == "" {
		return errors.New("azure config is incomplete: endpoint, API key, and deployment name are required")
	}
	return nil
}

// GCPConfig holds Vertex AI credentials (gcp_config.json).
type GCPConfig struct {
	ProjectID          string `json:"project_id"`
	Location           string `json:"location"`
	ModelID            string `json:"model_id"`
	ServiceAccountPath string `json:"service_account_path"`
	Endpoint           string `json:"endpoint,omitempty"`
}

// Validate reports whether the config has every required field and the
// service account key file exists.
func (c GCPConfig) Validate() error {
	if c.ProjectID == "" || c.Location == "" || c.ModelID == "" {
		return errors.New("gcp config is incomplete: project, location, and model are required")
	}
	if c.ServiceAccountPath == "" {
		return errors.New("gcp service account JSON path is required")
	}
	if _, err := os.Stat(c.ServiceAccountPath); err != nil {
		return fmt.Errorf("service account file not found: %s", c.ServiceAccountPath)
	}
	return nil
}

// ResolveProviderConfig reads provider_config.json, defaulting to the local
// provider when the file is missing or unparsable.
func (d Dir) ResolveProviderConfig() ProviderConfig {
	cfg := ProviderConfig{}
	if !readJSONLenient(d.ProviderConfigFile(), &cfg) || cfg.Provider == "" {
		return ProviderConfig{Provider: ProviderLocal, LocalModel: DefaultLocalModel}
	}
	if cfg.Provider == ProviderLocal && cfg.LocalModel == "" {
		cfg.LocalModel = DefaultLocalModel
	}
	return cfg
}

// SaveProviderConfig rewrites provider_config.json.
func (d Dir) SaveProviderConfig(cfg ProviderConfig) error {
	if err := d.Ensure(); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	return writeJSON(d.ProviderConfigFile(), cfg)
}

// LoadAzureConfig reads azure_config.json. A missing or unreadable file is a
// missing prerequisite, not a lenient default: remote jobs must not start
// without credentials.
func (d Dir) LoadAzureConfig() (AzureConfig, error) {
	var cfg AzureConfig
	data, err := os.ReadFile(d.AzureConfigFile())
	if err != nil {
		return cfg, errors.New("azure config not found: configure Azure OpenAI settings first")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse azure config: %w", err)
	}
	return cfg, nil
}

// LoadGCPConfig reads gcp_config.json with the same strictness as
// LoadAzureConfig.
func (d Dir) LoadGCPConfig() (GCPConfig, error) {
	var cfg GCPConfig
	data, err := os.ReadFile(d.GCPConfigFile())
	if err != nil {
		return cfg, errors.New("gcp config not found: configure GCP settings first")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse gcp config: %w", err)
	}
	return cfg, nil
}
