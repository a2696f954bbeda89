package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	h := base64.RawURLEncoding.EncodeToString(header)
	p := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(h + "." + p))
	return h + "." + p + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifierDevMode(t *testing.T) {
	v := &Verifier{Mode: "dev"}
	pr, err := v.Verify("planner")
	require.NoError(t, err)
	assert.Equal(t, "planner", pr.Role)
	assert.True(t, pr.CanSolve())

	_, err = v.Verify("  ")
	assert.Error(t, err)
}

func TestVerifierHMACValid(t *testing.T) {
	v := &Verifier{Mode: "hmac", HMACSecret: []byte("s3cret"), RoleClaim: "role"}
	tok := signHS256(t, "s3cret", map[string]any{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	pr, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", pr.Role)
}

func TestVerifierHMACBadSignature(t *testing.T) {
	v := &Verifier{Mode: "hmac", HMACSecret: []byte("s3cret"), RoleClaim: "role"}
	tok := signHS256(t, "wrong", map[string]any{"role": "admin"})
	_, err := v.Verify(tok)
	assert.Error(t, err)
}

func TestVerifierHMACExpired(t *testing.T) {
	v := &Verifier{Mode: "hmac", HMACSecret: []byte("s3cret"), RoleClaim: "role"}
	tok := signHS256(t, "s3cret", map[string]any{"role": "admin", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err := v.Verify(tok)
	assert.Error(t, err)
}

func TestVerifierEnabled(t *testing.T) {
	assert.False(t, (&Verifier{Mode: "none"}).Enabled())
	assert.False(t, (&Verifier{}).Enabled())
	assert.True(t, (&Verifier{Mode: "hmac"}).Enabled())
}
