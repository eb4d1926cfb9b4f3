package fad

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

const tokenScope = "https://www.googleapis.com/auth/cloud-platform"

// tokenSource adapts the oauth2 service-account source to the bearer
// authorizer. The underlying source caches the token with its expiry
// and refreshes proactively; failures surface as auth errors.
type tokenSource struct {
	source oauth2.TokenSource
}

func newTokenSource(ctx context.Context, creds config.FADCredentials) (*tokenSource, error) {
	data, err := os.ReadFile(creds.ServiceAccountPath)
	if err != nil {
		return nil, errors.NewConfigError("service_account_path", err.Error())
	}
	gcreds, err := google.CredentialsFromJSON(ctx, data, tokenScope)
	if err != nil {
		return nil, errors.NewAuthError(providerName, err)
	}
	return &tokenSource{source: gcreds.TokenSource}, nil
}

func (s *tokenSource) Token(_ context.Context) (string, error) {
	token, err := s.source.Token()
	if err != nil {
		return "", errors.NewAuthError(providerName, err)
	}
	return token.AccessToken, nil
}
