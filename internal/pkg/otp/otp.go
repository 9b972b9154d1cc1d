// Package otp issues short-lived six digit passcodes for password resets.
//
// Each passcode is derived with TOTP from a fresh random secret and the issue
// time, so only the secret needs to be persisted.
package otp

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrExpired  = errors.New("passcode expired")
	ErrMismatch = errors.New("passcode does not match")
)

const issuer = "DD Healthcare HRMS"

var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      0,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type Passcode struct {
	Code      string
	Secret    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Generator struct {
	ttl time.Duration
	now func() time.Time
}

func NewGenerator(ttl time.Duration) *Generator {
	return &Generator{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) TTL() time.Duration {
	return g.ttl
}

// Issue creates a new passcode bound to accountName.
func (g *Generator) Issue(accountName string) (Passcode, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      validateOpts.Period,
		Digits:      validateOpts.Digits,
		Algorithm:   validateOpts.Algorithm,
	})
	if err != nil {
		return Passcode{}, fmt.Errorf("failed to generate otp secret: %w", err)
	}

	issuedAt := g.now().UTC().Truncate(time.Second)
	code, err := totp.GenerateCodeCustom(key.Secret(), issuedAt, validateOpts)
	if err != nil {
		return Passcode{}, fmt.Errorf("failed to generate otp code: %w", err)
	}

	return Passcode{
		Code:      code,
		Secret:    key.Secret(),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(g.ttl),
	}, nil
}

// Verify checks code against a previously issued secret.
func (g *Generator) Verify(code, secret string, issuedAt, expiresAt time.Time) error {
	if !g.now().Before(expiresAt) {
		return ErrExpired
	}
	ok, err := totp.ValidateCustom(code, secret, issuedAt.UTC(), validateOpts)
	if err != nil {
		if errors.Is(err, otp.ErrValidateInputInvalidLength) {
			return ErrMismatch
		}
		return fmt.Errorf("failed to validate otp: %w", err)
	}
	if !ok {
		return ErrMismatch
	}
	return nil
}
