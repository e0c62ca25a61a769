package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const tokenTTL = 24 * time.Hour

// Service authenticates participants and issues the caller identity
// every auction operation takes implicitly.
type Service struct {
	mu     sync.RWMutex
	users  map[string]string // username -> bcrypt password hash
	secret []byte
}

// NewService creates an auth service signing tokens with the given secret.
func NewService(secret string) *Service {
	return &Service{
		users:  make(map[string]string),
		secret: []byte(secret),
	}
}

// Register creates a new participant with a hashed password.
func (s *Service) Register(username, password string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty: %w", ErrInvalidCredentials)
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty: %w", ErrInvalidCredentials)
	}
	if len(username) > 50 {
		return fmt.Errorf("username too long (max 50 characters): %w", ErrInvalidCredentials)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return fmt.Errorf("register %s: %w", username, ErrUserExists)
	}
	s.users[username] = string(hashed)
	return nil
}

// Login verifies credentials and returns a signed JWT.
func (s *Service) Login(username, password string) (string, error) {
	s.mu.RLock()
	hash, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// VerifyToken validates a JWT and returns the caller identity it carries.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", ErrInvalidToken
	}
	return username, nil
}
