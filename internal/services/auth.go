package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// PrivatePagePrefix marks generated private page names.
const PrivatePagePrefix = "~"

// DefaultTokenTTL is the auth token lifetime.
const DefaultTokenTTL = 24 * time.Hour

// Access is the resolved permission level of one request against one page.
type Access int

const (
	// AccessPublic: the page is not private, no restriction applies.
	AccessPublic Access = iota
	// AccessNoToken: private page, no auth token presented.
	AccessNoToken
	// AccessInvalidToken: a token was presented but failed signature,
	// expiry, page-match or credential-match checks.
	AccessInvalidToken
	// AccessViewOnly: the token's hash matches the viewing credential.
	AccessViewOnly
	// AccessFull: the token's hash matches the posting credential,
	// which implies viewing.
	AccessFull
)

// CanView reports whether the access level permits reading entries.
func (a Access) CanView() bool {
	return a == AccessPublic || a == AccessViewOnly || a == AccessFull
}

// CanPost reports whether the access level permits adding entries.
func (a Access) CanPost() bool {
	return a == AccessPublic || a == AccessFull
}

// TokenClaims is the payload of a page auth token: which page it unlocks
// and the derived hash of the password that unlocked it. The token itself
// is the session; nothing is stored server-side.
type TokenClaims struct {
	Page string `json:"page"`
	Hash string `json:"hash"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, tokenSecret string) *AuthService {
	return &AuthService{
		db:     db,
		secret: []byte(tokenSecret),
	}
}

// GenerateToken signs a token binding page and passwordHash for ttl.
func (s *AuthService) GenerateToken(page, passwordHash string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Page: page,
		Hash: passwordHash,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the claims.
// Callers still have to cross-check the page and hash themselves.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Resolve runs the per-request access state machine for page.
//
// Non-private names are AccessPublic. A private name with no stored
// credential set is ErrPageNotFound, which is terminal and distinct from
// public. Otherwise the cookie token decides the level.
func (s *AuthService) Resolve(ctx context.Context, page, cookieToken string) (Access, error) {
	if !strings.HasPrefix(page, PrivatePagePrefix) {
		return AccessPublic, nil
	}

	var pp models.PrivatePage
	if err := s.db.WithContext(ctx).Where("page = ?", page).First(&pp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessNoToken, ErrPageNotFound
		}
		return AccessNoToken, fmt.Errorf("failed to load private page: %w", err)
	}

	if cookieToken == "" {
		return AccessNoToken, nil
	}

	claims, err := s.ValidateToken(cookieToken)
	if err != nil || claims.Page != page {
		return AccessInvalidToken, nil
	}

	if utils.SecureCompare(claims.Hash, pp.PostingPassword) {
		return AccessFull, nil
	}
	if utils.SecureCompare(claims.Hash, pp.ViewingPassword) {
		return AccessViewOnly, nil
	}
	return AccessInvalidToken, nil
}

// VerifyPagePassword checks password against both stored credentials of a
// private page and issues a fresh auth token on a match.
func (s *AuthService) VerifyPagePassword(ctx context.Context, page, password string) (string, error) {
	var pp models.PrivatePage
	if err := s.db.WithContext(ctx).Where("page = ?", page).First(&pp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPageNotFound
		}
		return "", fmt.Errorf("failed to load private page: %w", err)
	}

	hashed := utils.HashPassword(password, pp.Salt)
	if !utils.SecureCompare(hashed, pp.PostingPassword) && !utils.SecureCompare(hashed, pp.ViewingPassword) {
		return "", ErrInvalidPassword
	}

	return s.GenerateToken(page, hashed, DefaultTokenTTL)
}
