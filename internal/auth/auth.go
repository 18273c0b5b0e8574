// Package auth implements email+password accounts with JWT-backed sessions.
// Sign-out revokes the token id in Redis for the remainder of its lifetime,
// so a signed-out token cannot be replayed.
package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

// Claims is the decoded session token.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Service wraps the account operations the pages call. Every failure is
// surfaced to the caller so the form can stay open; there is no retry policy.
type Service struct {
	Storage storage.Storage
	secret  []byte
	log     zerolog.Logger
}

func NewService(s storage.Storage, secret string, log zerolog.Logger) *Service {
	return &Service{Storage: s, secret: []byte(secret), log: log}
}

// SignUp registers a new account and signs it in, returning the session token.
func (s *Service) SignUp(email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	if _, err := s.Storage.GetUserByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(name),
		Language:     config.DefaultLanguage,
	}
	if err := s.Storage.SaveUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("account created")
	return user, token, nil
}

// SignIn verifies the credentials and returns a fresh session token.
func (s *Service) SignIn(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Storage.GetUserByEmail(email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignOut revokes the token for the remainder of its lifetime. An already
// invalid token is treated as signed out.
func (s *Service) SignOut(tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil
	}
	return s.Storage.RevokeToken(claims.TokenID, time.Until(claims.ExpiresAt))
}

// ParseToken validates a session token and rejects revoked ones.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	jti, _ := mapClaims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, ErrInvalidToken
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.Storage.IsTokenRevoked(jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: sub, TokenID: jti, ExpiresAt: exp.Time}, nil
}

// generateToken issues the session JWT for a user.
func (s *Service) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": uuid.New().String(),
		"exp": time.Now().Add(config.TokenLifetime).Unix(),
		"iss": config.TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
