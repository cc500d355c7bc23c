// Package nonce issues and verifies anti-forgery tokens for booking writes.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is returned for any token that fails verification, whatever the
// reason; callers must not distinguish tampering from expiry.
var ErrInvalid = errors.New("invalid nonce")

const defaultTTL = 12 * time.Hour

// Service mints and verifies HMAC tokens bound to an action string.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a nonce service. The secret must be non-empty.
func New(secret string, ttl time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("nonce: secret is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Mint returns a fresh token for the given action.
func (s *Service) Mint(action string) string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	return base64.RawURLEncoding.EncodeToString([]byte(ts + "." + s.sign(action, ts)))
}

// Verify checks the token's signature and validity window for the action.
func (s *Service) Verify(action, token string) error {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return ErrInvalid
	}
	parts := strings.SplitN(string(decoded), ".", 2)
	if len(parts) != 2 {
		return ErrInvalid
	}
	sec, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrInvalid
	}

	age := s.now().Sub(time.Unix(sec, 0))
	if age > s.ttl || age < -time.Minute {
		return ErrInvalid
	}

	expected := s.sign(action, parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return ErrInvalid
	}
	return nil
}

func (s *Service) sign(action, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(ts + "." + action))
	return hex.EncodeToString(mac.Sum(nil))
}
