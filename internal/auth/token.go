// Package auth is the token authority for the API. It issues HS256-signed
// session tokens for users whose credentials were already verified by the
// caller, and validates presented tokens against the process-wide trust
// configuration. Both operations are pure functions of their inputs: no
// storage, no shared mutable state, safe to call from any number of
// request goroutines.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window of an issued token. It is not
// configurable per call.
const TokenTTL = 24 * time.Hour

// TrustConfig carries the shared signing secret and the expected issuer
// and audience. It is built once at process start from configuration and
// passed by value into every issue/validate call; nothing reads it from
// ambient state.
type TrustConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Identity is the slice of a user record the token authority needs. The
// caller is responsible for having verified the password first; Issue
// performs no credential check.
type Identity struct {
	ID    string
	Login string
}

// Claims are the identity assertions embedded in a token. They are a
// fixed, typed structure rather than an open string-keyed map so that a
// typo in a claim name fails to compile instead of validating silently.
type Claims struct {
	Subject string
	Name    string
}

// tokenClaims is the wire shape of the claims segment: the registered
// JWT claims plus the name claim carried alongside sub.
type tokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// tokenHeader is the decoded JOSE header. Only alg matters for
// verification; typ is informational.
type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Issue builds and signs a session token for identity: sub and name from
// the identity, iss/aud from trust, iat=now and exp=now+TokenTTL. An
// identity with an empty id or login is rejected with ErrMalformedIdentity
// rather than signed into empty claims.
func Issue(identity Identity, trust TrustConfig, now time.Time) (string, error) {
	if identity.ID == "" || identity.Login == "" {
		return "", ErrMalformedIdentity
	}
	claims := tokenClaims{
		Name: identity.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    trust.Issuer,
			Audience:  jwt.ClaimStrings{trust.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(trust.Secret)
}

// Validate checks a presented token and returns its claims. Checks run in
// a fixed order and stop at the first failure: structure, signature,
// issuer, audience, lifetime. The signature is verified before the claims
// JSON is even decoded, so any tampering with the claims segment surfaces
// as ErrBadSignature, never as a parse error or as altered claims.
func Validate(token string, trust TrustConfig, now time.Time) (Claims, error) {
	// 1. Structure: three dot-separated base64url segments with a JSON
	// header. The segment boundaries are needed below anyway, so the
	// split doubles as the well-formedness check.
	headSeg, claimsSeg, sigSeg, ok := splitToken(token)
	if !ok {
		return Claims{}, ErrMalformedToken
	}
	headJSON, err := base64.RawURLEncoding.DecodeString(headSeg)
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	claimsJSON, err := base64.RawURLEncoding.DecodeString(claimsSeg)
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigSeg)
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	var head tokenHeader
	if err := json.Unmarshal(headJSON, &head); err != nil {
		return Claims{}, ErrMalformedToken
	}

	// 2. Signature. A header demanding any algorithm other than HS256
	// (alg=none, an RSA downgrade, ...) is treated as a signature
	// failure, same as a wrong HMAC.
	if head.Alg != jwt.SigningMethodHS256.Alg() {
		return Claims{}, ErrBadSignature
	}
	signing := headSeg + "." + claimsSeg
	if err := jwt.SigningMethodHS256.Verify(signing, sig, trust.Secret); err != nil {
		return Claims{}, ErrBadSignature
	}

	// Claims are only decoded once the signature is known good. A signed
	// claims segment that is not valid JSON can only come from a broken
	// issuer sharing our key.
	var tc tokenClaims
	if err := json.Unmarshal(claimsJSON, &tc); err != nil {
		return Claims{}, ErrMalformedToken
	}

	// 3. Issuer, exact and case-sensitive.
	if tc.Issuer != trust.Issuer {
		return Claims{}, ErrUntrustedIssuer
	}

	// 4. Audience: the aud claim must include the configured audience.
	if !containsAudience(tc.Audience, trust.Audience) {
		return Claims{}, ErrWrongAudience
	}

	// 5. Lifetime: now must fall within [iat, exp). A token without an
	// exp claim has no validity window left to be inside of.
	if tc.IssuedAt != nil && now.Before(tc.IssuedAt.Time) {
		return Claims{}, ErrNotYetValid
	}
	if tc.ExpiresAt == nil || !now.Before(tc.ExpiresAt.Time) {
		return Claims{}, ErrExpired
	}

	return Claims{Subject: tc.Subject, Name: tc.Name}, nil
}

// splitToken cuts token into its three segments without allocating a
// slice. Empty segments are rejected.
func splitToken(token string) (head, claims, sig string, ok bool) {
	i := indexDot(token, 0)
	if i < 0 {
		return "", "", "", false
	}
	j := indexDot(token, i+1)
	if j < 0 {
		return "", "", "", false
	}
	if indexDot(token, j+1) >= 0 {
		return "", "", "", false
	}
	head, claims, sig = token[:i], token[i+1:j], token[j+1:]
	if head == "" || claims == "" || sig == "" {
		return "", "", "", false
	}
	return head, claims, sig, true
}

func indexDot(s string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
