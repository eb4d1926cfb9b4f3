package asc

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

const (
	// tokenLifetime is the registry's maximum accepted token validity.
	tokenLifetime = 20 * time.Minute

	// tokenRefreshMargin is how far before expiry a cached token is
	// replaced. Minting early avoids a token expiring mid-request
	// during a long pagination loop.
	tokenRefreshMargin = 2 * time.Minute

	tokenAudience = "appstoreconnect-v1"
)

// tokenSource mints short-lived ES256 request tokens from the API
// key's EC private key and caches them with their expiry.
type tokenSource struct {
	keyID    string
	issuerID string
	key      *ecdsa.PrivateKey
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(creds config.ASCCredentials) (*tokenSource, error) {
	pemData, err := os.ReadFile(creds.PrivateKeyPath)
	if err != nil {
		return nil, errors.NewConfigError("private_key_path", err.Error())
	}
	key, err := parsePrivateKey(pemData)
	if err != nil {
		return nil, errors.NewAuthError(providerName, err)
	}
	return &tokenSource{
		keyID:    creds.KeyID,
		issuerID: creds.IssuerID,
		key:      key,
		now:      time.Now,
	}, nil
}

func parsePrivateKey(pemData []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block from private key")
	}
	keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	key, ok := keyAny.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an EC key")
	}
	return key, nil
}

// Token returns the cached token while it is still valid with margin,
// minting a replacement otherwise.
func (s *tokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt.Add(-tokenRefreshMargin)) {
		return s.token, nil
	}

	token, expiresAt, err := s.mint()
	if err != nil {
		return "", errors.NewAuthError(providerName, err)
	}
	s.token = token
	s.expiresAt = expiresAt
	return token, nil
}

// mint creates an ES256-signed JWT. Header and claims follow the
// registry's signed-token scheme: kid names the API key, iss the
// issuer, aud is fixed.
func (s *tokenSource) mint() (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(tokenLifetime)

	header := struct {
		Algorithm string `json:"alg"`
		KeyID     string `json:"kid"`
		Type      string `json:"typ"`
	}{
		Algorithm: "ES256",
		KeyID:     s.keyID,
		Type:      "JWT",
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshaling header: %w", err)
	}

	claims := struct {
		Issuer    string `json:"iss"`
		IssuedAt  int64  `json:"iat"`
		ExpiresAt int64  `json:"exp"`
		Audience  string `json:"aud"`
	}{
		Issuer:    s.issuerID,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
		Audience:  tokenAudience,
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshaling claims: %w", err)
	}

	signingInput := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	hash := sha256.Sum256([]byte(signingInput))
	r, sVal, err := ecdsa.Sign(rand.Reader, s.key, hash[:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	// JWS ES256 signatures are the raw r||s pair, each left-padded to
	// the curve byte size.
	byteSize := (s.key.Curve.Params().BitSize + 7) / 8
	signature := make([]byte, 2*byteSize)
	r.FillBytes(signature[:byteSize])
	sVal.FillBytes(signature[byteSize:])

	return signingInput + "." + base64URLEncode(signature), expiresAt, nil
}

// base64URLEncode encodes data as base64url without padding, per RFC 7515.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
