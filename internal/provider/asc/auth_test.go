package asc

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

func testCreds(keyPath string) config.ASCCredentials {
	return config.ASCCredentials{KeyID: "KEY123", IssuerID: "issuer-456", PrivateKeyPath: keyPath}
}

func writeTestKey(t *testing.T) (string, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "AuthKey_TEST.p8")
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	return path, key
}

func decodeSegment(t *testing.T, seg string, v interface{}) {
	t.Helper()
	data, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		t.Fatalf("decoding token segment: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshaling token segment: %v", err)
	}
}

func TestTokenMint(t *testing.T) {
	keyPath, key := writeTestKey(t)
	source := &tokenSource{
		keyID:    "KEY123",
		issuerID: "issuer-456",
		now:      func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	parsed, err := parsePrivateKey(mustRead(t, keyPath))
	if err != nil {
		t.Fatalf("parsePrivateKey: %v", err)
	}
	source.key = parsed

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	var header struct {
		Alg string `json:"alg"`
		Kid string `json:"kid"`
		Typ string `json:"typ"`
	}
	decodeSegment(t, parts[0], &header)
	if header.Alg != "ES256" || header.Kid != "KEY123" || header.Typ != "JWT" {
		t.Errorf("header = %+v", header)
	}

	var claims struct {
		Iss string `json:"iss"`
		Iat int64  `json:"iat"`
		Exp int64  `json:"exp"`
		Aud string `json:"aud"`
	}
	decodeSegment(t, parts[1], &claims)
	if claims.Iss != "issuer-456" {
		t.Errorf("iss = %q", claims.Iss)
	}
	if claims.Aud != "appstoreconnect-v1" {
		t.Errorf("aud = %q", claims.Aud)
	}
	if claims.Exp-claims.Iat != int64(tokenLifetime/time.Second) {
		t.Errorf("token valid for %ds, want %ds", claims.Exp-claims.Iat, int64(tokenLifetime/time.Second))
	}

	// The signature must verify as raw r||s over the signing input.
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	byteSize := (key.Curve.Params().BitSize + 7) / 8
	if len(sig) != 2*byteSize {
		t.Fatalf("signature is %d bytes, want %d", len(sig), 2*byteSize)
	}
	hash := sha256.Sum256([]byte(parts[0] + "." + parts[1]))
	r := new(big.Int).SetBytes(sig[:byteSize])
	s := new(big.Int).SetBytes(sig[byteSize:])
	if !ecdsa.Verify(&key.PublicKey, hash[:], r, s) {
		t.Error("signature does not verify against the key's public half")
	}
}

func TestTokenCachedUntilRefreshMargin(t *testing.T) {
	_, key := writeTestKey(t)
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	source := &tokenSource{
		keyID:    "KEY123",
		issuerID: "issuer-456",
		key:      key,
		now:      func() time.Time { return clock },
	}

	first, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	// Well inside the validity window the cached token is reused.
	clock = clock.Add(10 * time.Minute)
	second, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if second != first {
		t.Error("token should be reused while valid")
	}

	// Inside the refresh margin a replacement is minted early.
	clock = clock.Add(9 * time.Minute)
	third, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if third == first {
		t.Error("token should be replaced inside the refresh margin")
	}
}

func TestNewTokenSourceErrors(t *testing.T) {
	t.Run("missing key file", func(t *testing.T) {
		_, err := newTokenSource(testCreds(filepath.Join(t.TempDir(), "absent.p8")))
		if !errors.Is(err, errors.ErrConfig) {
			t.Errorf("want ErrConfig, got %v", err)
		}
	})

	t.Run("malformed key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.p8")
		if err := os.WriteFile(path, []byte("not a pem"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := newTokenSource(testCreds(path))
		if !errors.Is(err, errors.ErrAuth) {
			t.Errorf("want ErrAuth, got %v", err)
		}
	})
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
