package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Kind в claims различает пользовательские и админские токены:
// подписанный пользовательский токен нельзя предъявить на админском пути
const (
	SessionKindUser  = "user"
	SessionKindAdmin = "admin"
)

var ErrInvalidSession = errors.New("invalid session token")

type SessionClaims struct {
	Kind      string `json:"kind"`
	SubjectID int    `json:"sub_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
	IssueSessionToken(kind string, subjectID int, ttl time.Duration) (string, error)
	ParseSessionToken(tokenStr, wantKind string) (*SessionClaims, error)
}

type authService struct {
	jwtKey []byte
}

func NewAuthService(jwtSecret string) AuthService {
	return &authService{jwtKey: []byte(jwtSecret)}
}

func (s *authService) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) IssueSessionToken(kind string, subjectID int, ttl time.Duration) (string, error) {
	claims := &SessionClaims{
		Kind:      kind,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

func (s *authService) ParseSessionToken(tokenStr, wantKind string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtKey, nil
	}, jwt.WithLeeway(2*time.Minute))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Kind != wantKind || claims.SubjectID == 0 {
		return nil, ErrInvalidSession
	}
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
