package services

import "errors"

var (
	// ErrPageNotFound means a private page name references no stored
	// credential set. Distinct from an invalid name.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidPassword means the supplied password matched neither the
	// posting nor the viewing credential.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidToken covers signature, decode, expiry and page-match
	// failures on auth tokens.
	ErrInvalidToken = errors.New("invalid auth token")

	// ErrNameExhausted means repeated private page name generation kept
	// colliding with existing rows.
	ErrNameExhausted = errors.New("could not generate a unique page name")

	// ErrKeyNotFound means no access key row matches the presented value.
	ErrKeyNotFound = errors.New("access key not found")

	// ErrKeyExpired means the access key exists but is past its expiry.
	ErrKeyExpired = errors.New("access key expired")
)
