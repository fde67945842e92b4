package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vidtube/internal/repository"
)

// TokenService maneja el ciclo de vida de sesiones: emite, rota y revoca
// pares de access/refresh token. El estado por usuario es un único hash de
// refresh token (nulo = sin sesión activa).
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	users      repository.UserRepository
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, users repository.UserRepository) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 10 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     "vidtube",
		users:      users,
	}
}

// Issue emite un par nuevo y persiste el hash del refresh token contra el
// usuario, pisando cualquier valor anterior (la sesión previa queda inválida).
func (s *TokenService) Issue(ctx context.Context, userID string) (TokenPair, error) {
	if len(s.secret) == 0 {
		return TokenPair{}, errors.New("signing secret not configured")
	}
	pair, refreshHash, err := s.mint(userID, time.Now().UTC())
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SetRefreshTokenHash(ctx, userID, refreshHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrNotFound
		}
		return TokenPair{}, err
	}
	return pair, nil
}

// Refresh valida el refresh token presentado contra el hash almacenado y, si
// coincide, rota: emite un par nuevo de forma atómica condicionada al valor
// previo. Un token ya rotado, revocado, vencido o malformado produce
// ErrInvalidSession sin mutar estado.
func (s *TokenService) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	if len(s.secret) == 0 {
		return TokenPair{}, errors.New("signing secret not configured")
	}
	if strings.TrimSpace(presented) == "" {
		return TokenPair{}, ErrInvalidSession
	}
	claims, err := s.parseToken(presented)
	if err != nil {
		return TokenPair{}, ErrInvalidSession
	}
	if claims.TokenType != "refresh" || !s.isValidClaims(claims) {
		return TokenPair{}, ErrInvalidSession
	}

	stored, err := s.users.GetRefreshTokenHash(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrInvalidSession
		}
		return TokenPair{}, err
	}
	presentedHash := hashToken(presented)
	if stored == "" || subtle.ConstantTimeCompare([]byte(presentedHash), []byte(stored)) != 1 {
		return TokenPair{}, ErrInvalidSession
	}

	pair, newHash, err := s.mint(claims.UserID, time.Now().UTC())
	if err != nil {
		return TokenPair{}, err
	}
	rotated, err := s.users.RotateRefreshTokenHash(ctx, claims.UserID, presentedHash, newHash)
	if err != nil {
		return TokenPair{}, err
	}
	if !rotated {
		// Otra rotación concurrente ganó; este token ya no es el vigente.
		return TokenPair{}, ErrInvalidSession
	}
	return pair, nil
}

// Revoke limpia el hash almacenado. Revocar una sesión ya revocada es no-op.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	return s.users.ClearRefreshTokenHash(ctx, userID)
}

// VerifyAccess valida firma y expiración de un access token sin tocar el
// store y devuelve el id del usuario.
func (s *TokenService) VerifyAccess(accessToken string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("signing secret not configured")
	}
	if strings.TrimSpace(accessToken) == "" {
		return "", ErrUnauthenticated
	}
	claims, err := s.parseToken(accessToken)
	if err != nil {
		return "", ErrUnauthenticated
	}
	if claims.TokenType != "access" || !s.isValidClaims(claims) {
		return "", ErrUnauthenticated
	}
	return claims.UserID, nil
}

// AccessTTL expone la vigencia del access token para la capa de transporte.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL expone la vigencia del refresh token para la capa de transporte.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) mint(userID string, now time.Time) (TokenPair, string, error) {
	access, err := s.signToken(userID, now, s.accessTTL, "access")
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, err := s.signToken(userID, now, s.refreshTTL, "refresh")
	if err != nil {
		return TokenPair{}, "", err
	}
	pair := TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}
	return pair, hashToken(refresh), nil
}

func (s *TokenService) signToken(userID string, now time.Time, ttl time.Duration, tokenType string) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}
