package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"station_monitor/internal/models"
	"station_monitor/internal/repository"
)

const defaultSigningKey = "station-monitor-dev-key"

// AuthService handles operator login.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	if signingKey == "" {
		signingKey = defaultSigningKey
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{authRepo: repo, signingKey: []byte(signingKey), tokenTTL: tokenTTL}
}

var _ Authorization = (*AuthService)(nil)

// SignUp hashes password and creates the operator. An existing username is
// left as is and reported as id 0.
func (s *AuthService) SignUp(ctx context.Context, op models.Operator, password string) (int, error) {
	if strings.TrimSpace(op.Username) == "" {
		return 0, fmt.Errorf("%w: username is required", ErrValidation)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	op.PasswordHash = hash
	return s.authRepo.Create(ctx, op)
}

// Claims defines JWT claims. Name is a display label only.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// Login validates credentials and returns the operator with a signed token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Operator, string, error) {
	u, err := s.authRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(*u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ParseToken verifies accessToken and returns the operator display name.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Name, nil
}

// DefaultOperators are inserted on first boot.
var DefaultOperators = []struct {
	Operator models.Operator
	Password string
}{
	{models.Operator{Username: "admin", FirstName: "สมชาย", LastName: "ใจดี", Position: "ผู้ดูแลระบบ"}, "1234"},
	{models.Operator{Username: "user1", FirstName: "สมหญิง", LastName: "สุขสวัสดิ์", Position: "พนักงาน"}, "abcd"},
	{models.Operator{Username: "user2", FirstName: "สมศักดิ์", LastName: "แสนดี", Position: "ผู้จัดการ"}, "5678"},
}

// SeedOperators creates the default operators that do not exist yet and
// returns how many were inserted.
func (s *AuthService) SeedOperators(ctx context.Context) (int, error) {
	n := 0
	for _, d := range DefaultOperators {
		existing, err := s.authRepo.GetByUsername(ctx, d.Operator.Username)
		if err != nil {
			return n, err
		}
		if existing != nil {
			continue
		}
		id, err := s.SignUp(ctx, d.Operator, d.Password)
		if err != nil {
			return n, fmt.Errorf("seed operator %q: %w", d.Operator.Username, err)
		}
		if id > 0 {
			n++
		}
	}
	return n, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(u models.Operator) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: u.ID,
		Name:   u.DisplayName(),
	})
	return token.SignedString(s.signingKey)
}
