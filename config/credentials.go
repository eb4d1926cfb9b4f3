package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/appfetch/appfetch-cli/util/common/errors"
)

// ASCCredentials authenticate against the build registry: an API key
// id, its issuer id, and the path to the PKCS#8 EC private key (.p8)
// used to sign short-lived request tokens.
type ASCCredentials struct {
	KeyID          string `yaml:"key_id"`
	IssuerID       string `yaml:"issuer_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

// Configured reports whether any field was supplied at all.
func (c ASCCredentials) Configured() bool {
	return c.KeyID != "" || c.IssuerID != "" || c.PrivateKeyPath != ""
}

// Validate checks that the credential set is complete.
func (c ASCCredentials) Validate() error {
	switch {
	case c.KeyID == "":
		return errors.NewConfigError("key_id", "missing build registry key id")
	case c.IssuerID == "":
		return errors.NewConfigError("issuer_id", "missing build registry issuer id")
	case c.PrivateKeyPath == "":
		return errors.NewConfigError("private_key_path", "missing build registry private key path")
	}
	if _, err := os.Stat(c.PrivateKeyPath); err != nil {
		return errors.NewConfigError("private_key_path", err.Error())
	}
	return nil
}

// FADCredentials authenticate against the release distribution
// service: a project id and the path to an OAuth2 service-account JSON
// file.
type FADCredentials struct {
	ProjectID          string `yaml:"project_id"`
	ServiceAccountPath string `yaml:"service_account_path"`
}

// Configured reports whether any field was supplied at all.
func (c FADCredentials) Configured() bool {
	return c.ProjectID != "" || c.ServiceAccountPath != ""
}

// Validate checks that the credential set is complete.
func (c FADCredentials) Validate() error {
	switch {
	case c.ProjectID == "":
		return errors.NewConfigError("project_id", "missing distribution project id")
	case c.ServiceAccountPath == "":
		return errors.NewConfigError("service_account_path", "missing service account file path")
	}
	if _, err := os.Stat(c.ServiceAccountPath); err != nil {
		return errors.NewConfigError("service_account_path", err.Error())
	}
	return nil
}

// Credentials bundles both backends' credential sets. Either may be
// absent; commands validate the ones they actually need.
type Credentials struct {
	ASC ASCCredentials `yaml:"asc"`
	FAD FADCredentials `yaml:"fad"`
}

// DefaultPath returns the default config file location
// (~/.appfetch/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".appfetch", "config.yaml")
}

// LoadFile reads credentials from a YAML config file. A missing file
// is not an error; callers fall back to flags and environment.
func LoadFile(path string) (Credentials, error) {
	var creds Credentials
	if path == "" {
		return creds, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, errors.NewConfigError("config", err.Error())
	}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return creds, errors.NewConfigError("config", err.Error())
	}
	return creds, nil
}

// Merge fills empty fields of the receiver from other. Values already
// present (flags, environment) win over the file.
func (c Credentials) Merge(other Credentials) Credentials {
	if c.ASC.KeyID == "" {
		c.ASC.KeyID = other.ASC.KeyID
	}
	if c.ASC.IssuerID == "" {
		c.ASC.IssuerID = other.ASC.IssuerID
	}
	if c.ASC.PrivateKeyPath == "" {
		c.ASC.PrivateKeyPath = other.ASC.PrivateKeyPath
	}
	if c.FAD.ProjectID == "" {
		c.FAD.ProjectID = other.FAD.ProjectID
	}
	if c.FAD.ServiceAccountPath == "" {
		c.FAD.ServiceAccountPath = other.FAD.ServiceAccountPath
	}
	return c
}
