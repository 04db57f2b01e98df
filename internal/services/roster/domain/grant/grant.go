// Package grant signs and verifies operator grants: short-lived EdDSA JWTs
// that authorize roster mutations.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/louisbranch/gamekeeper/internal/platform/config"
	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
)

// ScopeAdmin authorizes mark, unmark, and purge operations.
const ScopeAdmin = "roster:admin"

const (
	EnvIssuer     = "GAMEKEEPER_OPERATOR_GRANT_ISSUER"
	EnvAudience   = "GAMEKEEPER_OPERATOR_GRANT_AUDIENCE"
	EnvPublicKey  = "GAMEKEEPER_OPERATOR_GRANT_PUBLIC_KEY"
	EnvPrivateKey = "GAMEKEEPER_OPERATOR_GRANT_PRIVATE_KEY"
	EnvTTL        = "GAMEKEEPER_OPERATOR_GRANT_TTL"
)

// verifierEnv holds raw env values before post-parse validation.
type verifierEnv struct {
	Issuer    string `env:"GAMEKEEPER_OPERATOR_GRANT_ISSUER"`
	Audience  string `env:"GAMEKEEPER_OPERATOR_GRANT_AUDIENCE"`
	PublicKey string `env:"GAMEKEEPER_OPERATOR_GRANT_PUBLIC_KEY"`
}

// signerEnv holds raw signer env values before post-parse validation.
type signerEnv struct {
	Issuer     string        `env:"GAMEKEEPER_OPERATOR_GRANT_ISSUER"`
	Audience   string        `env:"GAMEKEEPER_OPERATOR_GRANT_AUDIENCE"`
	PrivateKey string        `env:"GAMEKEEPER_OPERATOR_GRANT_PRIVATE_KEY"`
	TTL        time.Duration `env:"GAMEKEEPER_OPERATOR_GRANT_TTL" envDefault:"15m"`
}

// Config defines how operator grants are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// SignerConfig defines how operator grants are issued.
type SignerConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PrivateKey
	TTL      time.Duration
	Now      func() time.Time
}

// Claims captures validated operator grant claims.
type Claims struct {
	Issuer    string
	Audience  []string
	Subject   string
	Scopes    []string
	ExpiresAt time.Time
	IssuedAt  time.Time
	JWTID     string
}

// HasScope reports whether the grant carries scope.
func (c Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// grantClaims is the internal claims type used for JWT encoding.
type grantClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// LoadConfig reads verifier configuration through lookup. Grants are
// disabled, and enabled is false, when issuer, audience, and key are all
// unset; a partial configuration is an error.
func LoadConfig(lookup func(string) (string, bool), now func() time.Time) (cfg Config, enabled bool, err error) {
	var raw verifierEnv
	if err := config.LookupEnv(&raw, lookup); err != nil {
		return Config{}, false, fmt.Errorf("parse operator grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{}, false, nil
	}
	if issuer == "" {
		return Config{}, false, fmt.Errorf("%s is required", EnvIssuer)
	}
	if audience == "" {
		return Config{}, false, fmt.Errorf("%s is required", EnvAudience)
	}
	if publicKey == "" {
		return Config{}, false, fmt.Errorf("%s is required", EnvPublicKey)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, false, fmt.Errorf("decode operator grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, false, fmt.Errorf("operator grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, true, nil
}

// LoadSignerConfig reads signer configuration through lookup.
func LoadSignerConfig(lookup func(string) (string, bool), now func() time.Time) (SignerConfig, error) {
	var raw signerEnv
	if err := config.LookupEnv(&raw, lookup); err != nil {
		return SignerConfig{}, fmt.Errorf("parse operator grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if issuer == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvIssuer)
	}
	if audience == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvAudience)
	}
	if privateKey == "" {
		return SignerConfig{}, fmt.Errorf("%s is required", EnvPrivateKey)
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return SignerConfig{}, fmt.Errorf("decode operator grant private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return SignerConfig{}, fmt.Errorf("operator grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return SignerConfig{}, errors.New("operator grant ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return SignerConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PrivateKey(keyBytes),
		TTL:      raw.TTL,
		Now:      now,
	}, nil
}

// Sign issues a grant for subject carrying scopes.
func Sign(cfg SignerConfig, subject string, scopes ...string) (string, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PrivateKeySize {
		return "", errors.New("operator grant signer is not configured")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("operator grant subject is required")
	}
	if cfg.TTL <= 0 {
		return "", errors.New("operator grant ttl must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	now := cfg.Now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Scope: strings.Join(scopes, " "),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign operator grant: %w", err)
	}
	return token, nil
}

// Validate verifies an operator grant and requires scope.
func Validate(token string, scope string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("operator grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGrantInvalid,
			"operator grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !slices.Contains([]string(parsed.Audience), cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGrantInvalid,
			"operator grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant sub is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeGrantExpired, "operator grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeGrantInvalid, "operator grant not active yet")
	}

	claims := Claims{
		Issuer:    parsed.Issuer,
		Audience:  []string(parsed.Audience),
		Subject:   parsed.Subject,
		Scopes:    strings.Fields(parsed.Scope),
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	if scope != "" && !claims.HasScope(scope) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGrantForbidden,
			"operator grant lacks required scope",
			map[string]string{"Scope": scope},
		)
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeGrantInvalid, "operator grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeGrantInvalid, "operator grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeGrantInvalid, "operator grant is invalid")
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
