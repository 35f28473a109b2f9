package auth

import "errors"

// Validation failures are sentinel values so callers can branch with
// errors.Is and are forced to treat every category explicitly instead of
// catching a thrown exception. They are terminal for a single request and
// never retryable.
var (
	// ErrMalformedIdentity is returned by Issue when the identity is
	// missing its id or login; signing empty claims would otherwise
	// succeed silently.
	ErrMalformedIdentity = errors.New("auth: identity missing id or login")

	// ErrMalformedToken means the token does not decode into the
	// three-part header.claims.signature shape.
	ErrMalformedToken = errors.New("auth: malformed token")

	// ErrBadSignature means the HMAC computed over header.claims does not
	// match the transmitted signature.
	ErrBadSignature = errors.New("auth: bad signature")

	// ErrUntrustedIssuer means the token's iss claim does not match the
	// configured issuer.
	ErrUntrustedIssuer = errors.New("auth: untrusted issuer")

	// ErrWrongAudience means the token's aud claim does not include the
	// configured audience.
	ErrWrongAudience = errors.New("auth: wrong audience")

	// ErrExpired means the token's lifetime has passed.
	ErrExpired = errors.New("auth: token expired")

	// ErrNotYetValid means the token claims an issue time in the future.
	ErrNotYetValid = errors.New("auth: token not yet valid")
)
