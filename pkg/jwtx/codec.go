package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed      = errors.New("jwtx: malformed token")
	ErrInvalidSig     = errors.New("jwtx: invalid signature")
	ErrMissingClaim   = errors.New("jwtx: missing claim")
	ErrUnsupportedAlg = errors.New("jwtx: unsupported algorithm")
	ErrWeakSecret     = errors.New("jwtx: invalid secret")
)

// Kind selects the signing context a token belongs to.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	switch k {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Config holds what a Codec needs. Secrets for the two contexts must differ.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Algorithm     string // HS256, HS384 or HS512
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now is the clock used for iat/exp. Defaults to time.Now.
	Now func() time.Time
}

// Codec signs and parses access and refresh tokens with HMAC secrets.
// It is safe for concurrent use.
type Codec struct {
	method     *jwt.SigningMethodHMAC
	secrets    [2][]byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec validates cfg and builds a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}

	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("%w: empty secret", ErrWeakSecret)
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrWeakSecret)
	}

	c := &Codec{
		method:     method,
		secrets:    [2][]byte{cfg.AccessSecret, cfg.RefreshSecret},
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Alg returns the JWS algorithm name in use.
func (c *Codec) Alg() string { return c.method.Alg() }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// EncodeAccess issues an access token for the user.
func (c *Codec) EncodeAccess(email string, userID int64) (string, error) {
	uid := NumericID(userID)
	claims := Claims{
		RegisteredClaims: newRegisteredClaims(email, c.now().UTC(), c.accessTTL),
		UserID:           &uid,
		IsAuth:           true,
	}
	return c.sign(claims, Access)
}

// EncodeRefresh issues a refresh token for the user. Its exp is returned
// alongside so the grant can record when it stops being useful.
func (c *Codec) EncodeRefresh(email string) (string, time.Time, error) {
	claims := Claims{
		RegisteredClaims: newRegisteredClaims(email, c.now().UTC(), c.refreshTTL),
	}
	tok, err := c.sign(claims, Refresh)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, claims.ExpiresAt.Time, nil
}

func (c *Codec) sign(claims Claims, kind Kind) (string, error) {
	tok, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secrets[kind])
	if err != nil {
		return "", fmt.Errorf("jwtx: sign %s token: %w", kind, err)
	}
	return tok, nil
}

// Decode verifies the signature of token under the kind's secret and
// returns its claims. Expiry is deliberately not checked here; use
// IsExpired so callers can tell an expired token from a forged one.
func (c *Codec) Decode(token string, kind Kind) (*Claims, error) {
	if kind != Access && kind != Refresh {
		return nil, fmt.Errorf("jwtx: unknown token kind %d", int(kind))
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secrets[kind], nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrMalformed)
	}
	return claims, nil
}

// IsExpired checks claims against a single reading of the codec clock.
func (c *Codec) IsExpired(claims *Claims) bool {
	return IsExpired(claims, c.now())
}
