// Package download streams a resolved artifact to a local path.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/provider"
)

// Downloader obtains a fresh transfer locator and streams the artifact
// bytes to disk. Progress, when set, wraps the destination writer
// (e.g. with a progress bar); the returned func is called after the
// transfer settles.
type Downloader struct {
	provider provider.Provider
	Progress func(a artifact.Artifact, w io.Writer) (io.Writer, func())
}

func New(p provider.Provider) *Downloader {
	return &Downloader{provider: p}
}

// DestinationPath applies the placement rule: a destination already
// ending in the artifact's file name is used verbatim, anything else
// is treated as a directory to place the file in.
func DestinationPath(destination, fileName string) string {
	if filepath.Base(destination) == fileName {
		return destination
	}
	return filepath.Join(destination, fileName)
}

// Download writes the artifact to the destination and returns the
// final path and byte count. The transfer locator is resolved
// immediately before the transfer; locators may be single-use or
// short-lived and are never reused across calls.
func (d *Downloader) Download(ctx context.Context, a artifact.Artifact, destination string) (string, int64, error) {
	target := DestinationPath(destination, a.FileName)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create destination directory: %w", err)
	}

	locator, err := d.provider.ResolveDownloadLocator(ctx, a)
	if err != nil {
		return "", 0, err
	}

	out, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	var dst io.Writer = out
	if d.Progress != nil {
		wrapped, done := d.Progress(a, out)
		defer done()
		dst = wrapped
	}

	log.Debug().Str("artifact", a.ID).Str("path", target).Msg("starting transfer")
	written, err := d.provider.Fetch(ctx, locator, dst)
	if err != nil {
		return "", 0, fmt.Errorf("failed to download %s: %w", a.FileName, err)
	}
	return target, written, nil
}
