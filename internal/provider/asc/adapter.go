// Package asc is the build registry adapter: a CI artifact API
// authenticated with short-lived signed tokens minted from an API key.
package asc

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/provider"
	"github.com/appfetch/appfetch-cli/internal/version"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

const providerName = "asc"

func init() {
	if err := provider.RegisterFactory(providerName, new(factory)); err != nil {
		return
	}
}

// factory section
type factory struct {
}

func (f factory) Create(ctx context.Context, creds config.Credentials) (provider.Provider, error) {
	return newAdapter(creds.ASC)
}

type adapter struct {
	client *client
}

func newAdapter(creds config.ASCCredentials) (*adapter, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	source, err := newTokenSource(creds)
	if err != nil {
		return nil, err
	}
	return &adapter{
		client: newClient("", source),
	}, nil
}

func (a *adapter) Name() string {
	return providerName
}

func (a *adapter) ListApps(ctx context.Context) ([]artifact.App, error) {
	var apps []artifact.App
	pageURL := ""
	for {
		page, err := a.client.listApps(ctx, pageURL, 200)
		if err != nil {
			return nil, err
		}
		for _, app := range page.Data {
			apps = append(apps, artifact.App{
				ID:       app.ID,
				Name:     app.Attributes.Name,
				Platform: app.Attributes.Platform,
				Provider: providerName,
			})
		}
		if page.Links.Next == "" {
			break
		}
		pageURL = page.Links.Next
	}
	return apps, nil
}

// Search walks the app's artifact pages newest-first, filtering
// client-side and stopping as soon as the limit is collected. The
// upstream API cannot filter by artifact type or exact version, so
// each page is over-fetched relative to the limit.
func (a *adapter) Search(ctx context.Context, filter artifact.SearchFilter) ([]artifact.Artifact, error) {
	limit := filter.EffectiveLimit()
	pageSize := provider.OverFetch(limit)

	var results []artifact.Artifact
	pageURL := ""
	for {
		page, err := a.client.listArtifacts(ctx, filter.AppID, pageSize, pageURL)
		if err != nil {
			return nil, err
		}
		for _, res := range page.Data {
			art := toArtifact(res)
			if !filter.Matches(art) {
				continue
			}
			results = append(results, art)
			if len(results) >= limit {
				return results, nil
			}
		}
		if page.Links.Next == "" {
			break
		}
		pageURL = page.Links.Next
	}
	log.Debug().Str("app", filter.AppID).Int("matched", len(results)).Msg("artifact search exhausted upstream pages")
	return results, nil
}

// ResolveDownloadLocator re-reads the artifact to obtain a fresh
// presigned URL. Expired or archived binaries have none.
func (a *adapter) ResolveDownloadLocator(ctx context.Context, art artifact.Artifact) (string, error) {
	res, err := a.client.getArtifact(ctx, art.ID)
	if err != nil {
		return "", err
	}
	if res.Attributes.DownloadURL == "" {
		return "", errors.NotFound("no download available for artifact %s", art.ID)
	}
	return res.Attributes.DownloadURL, nil
}

func (a *adapter) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	return a.client.download(ctx, locator, dst)
}

func toArtifact(res artifactResource) artifact.Artifact {
	parsed := version.Parse(res.Attributes.Version)
	if parsed.Version == "" {
		parsed.Version = "unknown"
	}
	uploadedAt, _ := time.Parse(time.RFC3339, res.Attributes.UploadedDate)
	return artifact.Artifact{
		ID:          res.ID,
		Version:     parsed.Version,
		BuildNumber: parsed.BuildNumber,
		Type:        artifact.Classify(res.Attributes.FileName, ""),
		FileName:    res.Attributes.FileName,
		FileSize:    res.Attributes.FileSize,
		UploadedAt:  uploadedAt,
		Provider:    providerName,
	}
}
