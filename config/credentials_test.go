package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appfetch/appfetch-cli/util/common/errors"
)

func TestLoadFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		creds, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if creds.ASC.Configured() || creds.FAD.Configured() {
			t.Errorf("missing file should yield empty credentials, got %+v", creds)
		}
	})

	t.Run("reads both backends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `asc:
  key_id: KEY123
  issuer_id: issuer-456
  private_key_path: /keys/AuthKey.p8
fad:
  project_id: proj-1
  service_account_path: /keys/sa.json
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		creds, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if creds.ASC.KeyID != "KEY123" || creds.ASC.IssuerID != "issuer-456" || creds.ASC.PrivateKeyPath != "/keys/AuthKey.p8" {
			t.Errorf("asc = %+v", creds.ASC)
		}
		if creds.FAD.ProjectID != "proj-1" || creds.FAD.ServiceAccountPath != "/keys/sa.json" {
			t.Errorf("fad = %+v", creds.FAD)
		}
	})

	t.Run("malformed yaml is a config error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("asc: [not a map"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadFile(path)
		if !errors.Is(err, errors.ErrConfig) {
			t.Errorf("want ErrConfig, got %v", err)
		}
	})
}

func TestMergePrefersExistingValues(t *testing.T) {
	flags := Credentials{
		ASC: ASCCredentials{KeyID: "FLAG_KEY"},
	}
	file := Credentials{
		ASC: ASCCredentials{KeyID: "FILE_KEY", IssuerID: "file-issuer", PrivateKeyPath: "/file/key.p8"},
		FAD: FADCredentials{ProjectID: "file-proj"},
	}

	merged := flags.Merge(file)
	if merged.ASC.KeyID != "FLAG_KEY" {
		t.Errorf("flag value must win, got %q", merged.ASC.KeyID)
	}
	if merged.ASC.IssuerID != "file-issuer" || merged.ASC.PrivateKeyPath != "/file/key.p8" {
		t.Errorf("empty fields must be filled from the file, got %+v", merged.ASC)
	}
	if merged.FAD.ProjectID != "file-proj" {
		t.Errorf("fad project should come from the file, got %q", merged.FAD.ProjectID)
	}
}

func TestValidate(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "AuthKey.p8")
	if err := os.WriteFile(keyPath, []byte("pem"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		creds ASCCredentials
		valid bool
	}{
		{name: "complete", creds: ASCCredentials{KeyID: "K", IssuerID: "I", PrivateKeyPath: keyPath}, valid: true},
		{name: "missing key id", creds: ASCCredentials{IssuerID: "I", PrivateKeyPath: keyPath}},
		{name: "missing issuer", creds: ASCCredentials{KeyID: "K", PrivateKeyPath: keyPath}},
		{name: "key file absent", creds: ASCCredentials{KeyID: "K", IssuerID: "I", PrivateKeyPath: "/nope/key.p8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.valid && !errors.Is(err, errors.ErrConfig) {
				t.Errorf("want ErrConfig, got %v", err)
			}
		})
	}
}
