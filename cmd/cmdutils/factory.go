package cmdutils

import (
	"context"
	"fmt"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/provider"

	_ "github.com/appfetch/appfetch-cli/internal/provider/asc"
	_ "github.com/appfetch/appfetch-cli/internal/provider/fad"
)

// Factory constructs backends from the merged global configuration, so
// provider selection logic lives in one place instead of per command.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Provider builds the single named backend. Incomplete credentials
// surface as a config error before any network call.
func (f *Factory) Provider(ctx context.Context, name string) (provider.Provider, error) {
	return provider.New(ctx, name, config.Global.Credentials)
}

// Providers builds every backend the invocation selects: the one named
// by --provider, or each backend whose credentials are configured.
func (f *Factory) Providers(ctx context.Context) ([]provider.Provider, error) {
	if name := config.Global.Provider; name != "" {
		p, err := f.Provider(ctx, name)
		if err != nil {
			return nil, err
		}
		return []provider.Provider{p}, nil
	}

	var out []provider.Provider
	for _, name := range provider.Names() {
		if !credentialsConfigured(name) {
			continue
		}
		p, err := f.Provider(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no backend configured; supply credentials via flags, environment, or %s", config.DefaultPath())
	}
	return out, nil
}

func credentialsConfigured(name string) bool {
	switch name {
	case "asc":
		return config.Global.Credentials.ASC.Configured()
	case "fad":
		return config.Global.Credentials.FAD.Configured()
	}
	return false
}
