// Package artifact defines the data model shared by the provider
// adapters, the resolver, and the download flow.
package artifact

import "time"

// Artifact is a single downloadable build output. Instances are
// transient: every search produces fresh values and nothing is cached
// or mutated after construction. ID is unique within one app+provider
// scope; two artifacts may share (Version, BuildNumber) and still be
// distinct when their Type differs.
type Artifact struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	BuildNumber string    `json:"buildNumber,omitempty"`
	Type        Type      `json:"type"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize,omitempty"` // bytes, 0 when unknown
	UploadedAt  time.Time `json:"uploadedAt"`
	Provider    string    `json:"provider"`
}

// App is a provider-scoped application summary produced by discovery.
type App struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
	Provider string `json:"provider"`
}

// SearchFilter narrows a provider search. AppID is required; the rest
// is optional. Upstream APIs cannot filter by type or exact
// version/build, so adapters apply these fields client-side.
type SearchFilter struct {
	AppID       string
	Version     string
	BuildNumber string
	Type        Type
	Limit       int
}

// DefaultSearchLimit applies when the caller leaves Limit unset.
const DefaultSearchLimit = 3

// EffectiveLimit returns the limit to collect, never below one.
func (f SearchFilter) EffectiveLimit() int {
	if f.Limit < 1 {
		return DefaultSearchLimit
	}
	return f.Limit
}

// Matches reports whether an artifact passes the filter's client-side
// fields (type, version, build number). AppID scoping is the adapter's
// job and is not re-checked here.
func (f SearchFilter) Matches(a Artifact) bool {
	if f.Type != "" && !f.Type.Accepts(a.Type) {
		return false
	}
	if f.Version != "" && f.Version != a.Version {
		return false
	}
	if f.BuildNumber != "" && f.BuildNumber != a.BuildNumber {
		return false
	}
	return true
}
