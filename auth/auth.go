// Package auth authenticates the single admin identity against a
// shared secret, with no persistent session state.
//
// The bearer token is the base64 encoding of "admin:" + secret. It
// never expires and cannot be revoked short of rotating the secret;
// that is a known weakness of the scheme, kept because changing it
// would change the external contract. Comparisons are constant-time.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/rmsilva/portfolio-backend/ratelimit"
)

// Login attempt accounting: after this many attempts within the window,
// further attempts are rejected regardless of password correctness.
const (
	LoginMaxAttempts = 3
	LoginWindow      = 15 * time.Minute
)

// ErrInvalidCredentials indicates a wrong password on login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTooManyAttempts indicates the login attempt limit was hit for this
// client.
var ErrTooManyAttempts = errors.New("too many login attempts")

const bearerPrefix = "Bearer "

// Service issues and verifies admin bearer tokens derived from the
// configured shared secret.
type Service struct {
	secret  string
	limiter *ratelimit.Limiter
}

// NewService returns a Service using the given shared secret. The
// limiter bounds login attempts per client; it may be shared with the
// API's per-operation limiter since keys are namespaced.
func NewService(secret string, limiter *ratelimit.Limiter) *Service {
	return &Service{secret: secret, limiter: limiter}
}

// Token returns the static admin bearer token.
func (s *Service) Token() string {
	return base64.StdEncoding.EncodeToString([]byte("admin:" + s.secret))
}

// Login checks password against the shared secret and returns the
// bearer token. Every attempt, right or wrong, counts against the
// client's login window, so a client locked out by failures stays
// locked out until the window passes even with the correct password.
func (s *Service) Login(password string, clientIP string) (string, ratelimit.Result, error) {
	result := s.limiter.Check("login:"+clientIP, LoginMaxAttempts, LoginWindow)
	if !result.Allowed {
		return "", result, ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.secret)) != 1 {
		return "", result, ErrInvalidCredentials
	}
	return s.Token(), result, nil
}

// VerifyHeader reports whether a presented token header authorizes
// admin access. The header must carry the exact "Bearer " prefix
// followed, byte for byte, by the static token.
func (s *Service) VerifyHeader(header string) bool {
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	presented := header[len(bearerPrefix):]
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.Token())) == 1
}
