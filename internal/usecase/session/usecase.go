// Package session guards the API behind one shared passphrase.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const subject = "shared"

var (
	ErrBadPassphrase = errors.New("passphrase does not match")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

type Claims struct {
	jwt.RegisteredClaims
}

type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Usecase struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	open   bool
	now    func() time.Time
}

// NewUsecase always enforces the passphrase. An empty hash matches nothing.
func NewUsecase(passphraseHash, jwtSecret string, ttl time.Duration) *Usecase {
	return &Usecase{hash: []byte(passphraseHash), secret: []byte(jwtSecret), ttl: ttl, now: time.Now}
}

// NewDisabled builds the explicitly open gate: every passphrase is accepted and
// Verify lets every request through. Tokens are signed with a per-process key.
func NewDisabled(ttl time.Duration) (*Usecase, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &Usecase{secret: secret, ttl: ttl, open: true, now: time.Now}, nil
}

func (u *Usecase) Enabled() bool { return !u.open }

// Login checks the passphrase and issues a bearer token.
func (u *Usecase) Login(passphrase string) (*Token, error) {
	if u.Enabled() {
		if len(u.hash) == 0 || len(u.secret) == 0 {
			return nil, ErrBadPassphrase
		}
		if err := bcrypt.CompareHashAndPassword(u.hash, []byte(passphrase)); err != nil {
			return nil, ErrBadPassphrase
		}
	}
	now := u.now()
	exp := now.Add(u.ttl)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresAt: exp}, nil
}

// Verify accepts tokens issued by Login that have not expired.
func (u *Usecase) Verify(token string) error {
	if !u.Enabled() {
		return nil
	}
	if len(u.secret) == 0 {
		return ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return u.secret, nil
	}, jwt.WithTimeFunc(u.now))
	if err != nil || !parsed.Valid || claims.Subject != subject {
		return ErrInvalidToken
	}
	return nil
}

// HashPassphrase produces the value to configure as the passphrase hash.
func HashPassphrase(passphrase string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
