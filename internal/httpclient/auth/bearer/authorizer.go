package bearer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/appfetch/appfetch-cli/internal/httpclient/modifier"
)

// TokenSource yields a bearer credential. Implementations handle
// caching and rotation internally; a failure here is a token
// acquisition failure, not an HTTP 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// NewAuthorizer returns a bearer token authorizer that pulls a fresh
// credential from the source for every request.
func NewAuthorizer(source TokenSource) modifier.Modifier {
	return &authorizer{source: source}
}

type authorizer struct {
	source TokenSource
}

func (a *authorizer) Modify(req *http.Request) error {
	token, err := a.source.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return nil
}
