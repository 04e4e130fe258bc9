package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongBoard   = errors.New("token not valid for this board")
)

const tokenTTL = 24 * time.Hour

// Service issues and validates board access tokens. A token's subject is the
// board id it grants edit access to.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// IssueBoardToken returns a signed token granting access to boardID.
func (s *Service) IssueBoardToken(boardID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": boardID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken checks the token's signature and expiry and returns its board id.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	boardID, ok := claims["sub"].(string)
	if !ok || boardID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return boardID, nil
}

// Authorize validates the token and checks it was issued for boardID.
func (s *Service) Authorize(tokenString, boardID string) error {
	sub, err := s.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	if sub != boardID {
		return ErrWrongBoard
	}
	return nil
}
