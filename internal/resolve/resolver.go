// Package resolve turns a user-supplied target (latest, opaque id, or
// version string) into exactly one concrete artifact.
package resolve

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/provider"
	"github.com/appfetch/appfetch-cli/internal/version"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

// Kind selects the resolution strategy.
type Kind int

const (
	Latest Kind = iota
	ByID
	ByVersion
)

// Target names the artifact the user wants within one app's scope.
// Type is an optional filter applied by every strategy.
type Target struct {
	AppID       string
	Kind        Kind
	ID          string
	Version     string
	BuildNumber string
	Type        artifact.Type
}

// Search depths per strategy. The by-id window is a hard upstream
// constraint: ids are not independently queryable, so an id older than
// the window's worth of history cannot be found.
const (
	latestCandidateLimit = 10
	byIDSearchWindow     = 50
)

// Option is one disambiguation candidate presented to the chooser.
type Option struct {
	Label    string
	Artifact artifact.Artifact
}

// Chooser picks one candidate when multiple artifact types tie for
// latest. Implementations may be interactive; tests substitute a
// deterministic stub.
type Chooser interface {
	Choose(options []Option) (artifact.Artifact, error)
}

// Resolver drives one provider through a resolution strategy. It never
// retries and never caches across calls; provider errors propagate
// unmodified.
type Resolver struct {
	provider provider.Provider
	chooser  Chooser
}

func New(p provider.Provider, chooser Chooser) *Resolver {
	return &Resolver{
		provider: p,
		chooser:  chooser,
	}
}

// Resolve executes the target's strategy and returns a single
// artifact.
func (r *Resolver) Resolve(ctx context.Context, target Target) (artifact.Artifact, error) {
	switch target.Kind {
	case ByID:
		return r.resolveByID(ctx, target)
	case ByVersion:
		return r.resolveByVersion(ctx, target)
	default:
		return r.resolveLatest(ctx, target)
	}
}

// resolveLatest takes the newest match outright when a type filter
// pins the result to one artifact. Without a type filter it reduces a
// broader candidate set to one artifact per distinct type and asks the
// chooser to break ties.
func (r *Resolver) resolveLatest(ctx context.Context, target Target) (artifact.Artifact, error) {
	if target.Type != "" {
		results, err := r.provider.Search(ctx, artifact.SearchFilter{
			AppID: target.AppID,
			Type:  target.Type,
			Limit: 1,
		})
		if err != nil {
			return artifact.Artifact{}, err
		}
		if len(results) == 0 {
			return artifact.Artifact{}, errors.NotFound("no %s artifact for app %s", target.Type, target.AppID)
		}
		return results[0], nil
	}

	candidates, err := r.provider.Search(ctx, artifact.SearchFilter{
		AppID: target.AppID,
		Limit: latestCandidateLimit,
	})
	if err != nil {
		return artifact.Artifact{}, err
	}

	// First-seen-wins dedup keyed by type. The insertion order of the
	// newest-first candidate stream is preserved so the disambiguation
	// prompt lists types in recency order.
	var order []artifact.Type
	newestPerType := map[artifact.Type]artifact.Artifact{}
	for _, c := range candidates {
		if _, seen := newestPerType[c.Type]; seen {
			continue
		}
		newestPerType[c.Type] = c
		order = append(order, c.Type)
	}

	switch len(order) {
	case 0:
		return artifact.Artifact{}, errors.NotFound("no artifacts for app %s", target.AppID)
	case 1:
		return newestPerType[order[0]], nil
	}

	log.Debug().Int("types", len(order)).Str("app", target.AppID).Msg("multiple artifact types tie for latest")
	options := make([]Option, 0, len(order))
	for _, t := range order {
		a := newestPerType[t]
		options = append(options, Option{
			Label:    optionLabel(a),
			Artifact: a,
		})
	}
	return r.chooser.Choose(options)
}

// resolveByID scans a bounded search window for an exact id match.
func (r *Resolver) resolveByID(ctx context.Context, target Target) (artifact.Artifact, error) {
	results, err := r.provider.Search(ctx, artifact.SearchFilter{
		AppID: target.AppID,
		Type:  target.Type,
		Limit: byIDSearchWindow,
	})
	if err != nil {
		return artifact.Artifact{}, err
	}
	for _, a := range results {
		if a.ID == target.ID {
			return a, nil
		}
	}
	return artifact.Artifact{}, errors.NotFound(
		"artifact %s not in the newest %d results for app %s", target.ID, byIDSearchWindow, target.AppID)
}

// resolveByVersion delegates the filtering to the provider; the newest
// matching result wins.
func (r *Resolver) resolveByVersion(ctx context.Context, target Target) (artifact.Artifact, error) {
	results, err := r.provider.Search(ctx, artifact.SearchFilter{
		AppID:       target.AppID,
		Version:     target.Version,
		BuildNumber: target.BuildNumber,
		Type:        target.Type,
		Limit:       1,
	})
	if err != nil {
		return artifact.Artifact{}, err
	}
	if len(results) == 0 {
		return artifact.Artifact{}, errors.NotFound(
			"no artifact %s for app %s", version.Format(target.Version, target.BuildNumber), target.AppID)
	}
	return results[0], nil
}

func optionLabel(a artifact.Artifact) string {
	return fmt.Sprintf("%-12s %s  (%s)", a.Type, version.Format(a.Version, a.BuildNumber), a.FileName)
}
