// Package auth provides bearer token verification for the API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"
)

// Verifier validates bearer tokens and extracts the caller's role.
// Modes: "none" (default, everything allowed), "dev" (token is the role
// itself), "hmac" (HS256 JWT with a role claim).
type Verifier struct {
	Mode       string
	HMACSecret []byte
	RoleClaim  string
}

type Principal struct {
	Role string
}

func (p Principal) CanSolve() bool { return p.Role == "admin" || p.Role == "planner" }

func NewVerifierFromEnv() *Verifier {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if mode == "" {
		mode = "none"
	}
	claim := os.Getenv("AUTH_ROLE_CLAIM")
	if claim == "" {
		claim = "role"
	}
	return &Verifier{
		Mode:       mode,
		HMACSecret: []byte(os.Getenv("AUTH_HMAC_SECRET")),
		RoleClaim:  claim,
	}
}

// Enabled reports whether requests must carry a verifiable token.
func (v *Verifier) Enabled() bool { return v.Mode != "" && v.Mode != "none" }

func (v *Verifier) Verify(token string) (Principal, error) {
	switch v.Mode {
	case "dev":
		role := strings.TrimSpace(token)
		if role == "" {
			return Principal{}, errors.New("empty dev token")
		}
		return Principal{Role: role}, nil
	case "hmac":
		return v.verifyHS256(token)
	default:
		return Principal{}, errors.New("unsupported auth mode")
	}
}

func (v *Verifier) verifyHS256(token string) (Principal, error) {
	segs := strings.Split(token, ".")
	if len(segs) != 3 {
		return Principal{}, errors.New("invalid JWT")
	}
	headerJSON, err := b64urlDecode(segs[0])
	if err != nil {
		return Principal{}, err
	}
	payloadJSON, err := b64urlDecode(segs[1])
	if err != nil {
		return Principal{}, err
	}
	sig, err := b64urlDecode(segs[2])
	if err != nil {
		return Principal{}, err
	}
	var hdr map[string]any
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return Principal{}, err
	}
	if alg, _ := hdr["alg"].(string); alg != "HS256" {
		return Principal{}, errors.New("unsupported alg for hmac")
	}
	mac := hmac.New(sha256.New, v.HMACSecret)
	mac.Write([]byte(segs[0] + "." + segs[1]))
	if !hmac.Equal(mac.Sum(nil), sig) {
		return Principal{}, errors.New("bad signature")
	}
	var claims map[string]any
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return Principal{}, err
	}
	if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return Principal{}, errors.New("token expired")
	}
	role, _ := claims[v.RoleClaim].(string)
	if role == "" {
		return Principal{}, errors.New("missing role claim")
	}
	return Principal{Role: role}, nil
}

func b64urlDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
