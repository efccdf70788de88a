package embedder

import (
	"fmt"

	"github.com/wayfinder-ai/wayfinder-mcp/internal/index"
)

// NewFromConfig builds the provider selected by the index directory's
// persisted provider config. Remote providers fail here when credentials are
// missing or incomplete, before any work starts.
func NewFromConfig(dir index.Dir) (Provider, error) {
	cfg := dir.ResolveProviderConfig()
	switch cfg.Provider {
	case index.ProviderLocal:
		return NewLocalProvider(cfg.LocalModel), nil
	case index.ProviderAzure:
		azureCfg, err := dir.LoadAzureConfig()
		if err != nil {
			return nil, err
		}
		return NewAzureProvider(azureCfg)
	case index.ProviderGCP:
		gcpCfg, err := dir.LoadGCPConfig()
		if err != nil {
			return nil, err
		}
		return NewVertexProvider(gcpCfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
