package fad

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

func TestNewTokenSourceErrors(t *testing.T) {
	t.Run("missing service account file", func(t *testing.T) {
		_, err := newTokenSource(context.Background(), config.FADCredentials{
			ProjectID:          "proj-1",
			ServiceAccountPath: filepath.Join(t.TempDir(), "absent.json"),
		})
		if !errors.Is(err, errors.ErrConfig) {
			t.Errorf("want ErrConfig, got %v", err)
		}
	})

	t.Run("malformed service account file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := newTokenSource(context.Background(), config.FADCredentials{
			ProjectID:          "proj-1",
			ServiceAccountPath: path,
		})
		if !errors.Is(err, errors.ErrAuth) {
			t.Errorf("want ErrAuth, got %v", err)
		}
	})
}
