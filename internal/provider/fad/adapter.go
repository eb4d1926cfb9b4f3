// Package fad is the release distribution adapter: an app distribution
// API authenticated with an OAuth2 service-account token.
package fad

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/provider"
	"github.com/appfetch/appfetch-cli/internal/version"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

const providerName = "fad"

func init() {
	if err := provider.RegisterFactory(providerName, new(factory)); err != nil {
		return
	}
}

// factory section
type factory struct {
}

func (f factory) Create(ctx context.Context, creds config.Credentials) (provider.Provider, error) {
	return newAdapter(ctx, creds.FAD)
}

type adapter struct {
	client *client
}

func newAdapter(ctx context.Context, creds config.FADCredentials) (*adapter, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	source, err := newTokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &adapter{
		client: newClient("", creds.ProjectID, source),
	}, nil
}

func (a *adapter) Name() string {
	return providerName
}

func (a *adapter) ListApps(ctx context.Context) ([]artifact.App, error) {
	var apps []artifact.App
	pageToken := ""
	for {
		page, err := a.client.listApps(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		for _, app := range page.Apps {
			apps = append(apps, artifact.App{
				ID:       app.AppID,
				Name:     app.DisplayName,
				Platform: app.Platform,
				Provider: providerName,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return apps, nil
}

// Search walks the app's releases newest-first. The artifact type
// comes from the app's own metadata (bundle id / package name), so the
// app record is read once up front; release pages are then filtered
// client-side until the limit is collected.
func (a *adapter) Search(ctx context.Context, filter artifact.SearchFilter) ([]artifact.Artifact, error) {
	app, err := a.client.getApp(ctx, filter.AppID)
	if err != nil {
		return nil, err
	}

	limit := filter.EffectiveLimit()
	pageSize := provider.OverFetch(limit)

	var results []artifact.Artifact
	pageToken := ""
	for {
		page, err := a.client.listReleases(ctx, filter.AppID, pageSize, pageToken)
		if err != nil {
			return nil, err
		}
		for _, rel := range page.Releases {
			art := toArtifact(app, rel)
			if !filter.Matches(art) {
				continue
			}
			results = append(results, art)
			if len(results) >= limit {
				return results, nil
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return results, nil
}

// ResolveDownloadLocator re-reads the release for a freshly signed
// binary URI; releases whose binary has been expired have none.
func (a *adapter) ResolveDownloadLocator(ctx context.Context, art artifact.Artifact) (string, error) {
	rel, err := a.client.getRelease(ctx, art.ID)
	if err != nil {
		return "", err
	}
	if rel.BinaryDownloadURI == "" {
		return "", errors.NotFound("no binary available for release %s", art.ID)
	}
	return rel.BinaryDownloadURI, nil
}

func (a *adapter) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	return a.client.download(ctx, locator, dst)
}

func toArtifact(app *appInfo, rel release) artifact.Artifact {
	parsed := version.Parse(rel.DisplayVersion)
	if parsed.Version == "" {
		parsed.Version = "unknown"
	}
	buildNumber := rel.BuildVersion
	if buildNumber == "" {
		buildNumber = parsed.BuildNumber
	}

	fileName := fileNameFor(app, rel)
	createdAt, _ := time.Parse(time.RFC3339, rel.CreateTime)
	size, _ := strconv.ParseInt(rel.FileSize, 10, 64)

	return artifact.Artifact{
		// The full release resource name doubles as the opaque id so a
		// later locator resolution can re-read the release directly.
		ID:          rel.Name,
		Version:     parsed.Version,
		BuildNumber: buildNumber,
		Type:        artifact.ClassifyFromAppMetadata(app.BundleID, app.PackageName, fileName),
		FileName:    fileName,
		FileSize:    size,
		UploadedAt:  createdAt,
		Provider:    providerName,
	}
}

// fileNameFor derives a local file name: the binary URI's base name
// when present, otherwise app id + version with an extension matching
// the app's platform metadata.
func fileNameFor(app *appInfo, rel release) string {
	if rel.BinaryDownloadURI != "" {
		if u, err := url.Parse(rel.BinaryDownloadURI); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" {
				return base
			}
		}
	}
	ext := "apk"
	if app.BundleID != "" {
		ext = "ipa"
	}
	return fmt.Sprintf("%s-%s.%s", app.AppID, rel.DisplayVersion, ext)
}
