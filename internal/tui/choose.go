package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/resolve"
)

// ArtifactChooser is the interactive disambiguation prompt used when
// multiple artifact types tie for latest. It requires a terminal;
// headless callers that hit a tie without a type filter get the form's
// error back rather than a silently picked default.
type ArtifactChooser struct{}

func NewArtifactChooser() *ArtifactChooser {
	return &ArtifactChooser{}
}

func (c *ArtifactChooser) Choose(options []resolve.Option) (artifact.Artifact, error) {
	var picked int

	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, i)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Multiple artifact types match").
				Description("Pick the build to download").
				Options(opts...).
				Value(&picked),
		),
	)

	if err := form.Run(); err != nil {
		return artifact.Artifact{}, err
	}

	return options[picked].Artifact, nil
}
