// Package provider defines the adapter contract the resolver and
// download flow drive, and the factory registry the backends register
// into.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
)

// Provider normalizes one backend's auth and pagination behind a
// uniform capability set. Search results are newest-first. Search,
// ResolveDownloadLocator and Fetch fail fast; only the multi-provider
// discovery sweep (see Sweep) downgrades ListApps failures.
type Provider interface {
	// Name returns the provider tag recorded on artifacts ("asc", "fad").
	Name() string

	// ListApps enumerates the apps visible to the credential.
	ListApps(ctx context.Context) ([]artifact.App, error)

	// Search returns up to filter.EffectiveLimit() artifacts matching
	// the filter, newest first. Upstream cannot filter by type or exact
	// version, so implementations over-fetch and filter client-side.
	Search(ctx context.Context, filter artifact.SearchFilter) ([]artifact.Artifact, error)

	// ResolveDownloadLocator obtains a transfer locator for the
	// artifact. Locators may be single-use or short-lived and must be
	// resolved immediately before each transfer, never cached.
	ResolveDownloadLocator(ctx context.Context, a artifact.Artifact) (string, error)

	// Fetch streams the bytes behind a locator into dst.
	Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error)
}

// OverFetch returns the page size to request upstream for a given
// client-side limit: at least 3x the limit and never below 20, so
// type/version filtering rarely needs a second page.
func OverFetch(limit int) int {
	n := 3 * limit
	if n < 20 {
		n = 20
	}
	return n
}

var registry = map[string]Factory{}

// Factory constructs a provider from the merged credential set.
type Factory interface {
	Create(ctx context.Context, creds config.Credentials) (Provider, error)
}

// RegisterFactory registers one provider factory to the registry.
func RegisterFactory(name string, factory Factory) error {
	if len(name) == 0 {
		return errors.New("invalid provider name")
	}
	if factory == nil {
		return errors.New("empty provider factory")
	}

	if _, exist := registry[name]; exist {
		return fmt.Errorf("provider factory for %s already exists", name)
	}
	registry[name] = factory
	return nil
}

// GetFactory gets the provider factory by the specified name.
func GetFactory(name string) (Factory, error) {
	factory, exist := registry[name]
	if !exist {
		return nil, fmt.Errorf("provider factory for %s not found", name)
	}
	return factory, nil
}

// New constructs the named provider from the credential set.
func New(ctx context.Context, name string, creds config.Credentials) (Provider, error) {
	factory, err := GetFactory(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider factory: %w", err)
	}
	p, err := factory.Create(ctx, creds)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Names returns the registered provider names in registration-stable
// order for the known backends.
func Names() []string {
	known := []string{"asc", "fad"}
	var out []string
	for _, n := range known {
		if _, ok := registry[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
