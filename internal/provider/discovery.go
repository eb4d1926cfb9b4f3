package provider

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/appfetch/appfetch-cli/internal/artifact"
)

// Warning records a discovery sub-source that failed and was skipped.
type Warning struct {
	Provider string
	Err      error
}

// Sweep lists apps across all given providers concurrently and merges
// the results by concatenation in provider order. A failing provider
// is skipped and recorded as a warning so one broken backend does not
// blank an otherwise-successful listing. Callers that want hard
// failures for a single explicit provider call ListApps directly.
func Sweep(ctx context.Context, providers []Provider) ([]artifact.App, []Warning) {
	results := make([][]artifact.App, len(providers))
	failures := make([]error, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			apps, err := p.ListApps(ctx)
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = apps
		}(i, p)
	}
	wg.Wait()

	var apps []artifact.App
	var warnings []Warning
	for i, p := range providers {
		if failures[i] != nil {
			log.Warn().Str("provider", p.Name()).Err(failures[i]).Msg("app discovery failed, skipping source")
			warnings = append(warnings, Warning{Provider: p.Name(), Err: failures[i]})
			continue
		}
		apps = append(apps, results[i]...)
	}
	return apps, warnings
}
