package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	TokenIssuer     = "fleetcare"

	maxNameLength  = 100
	minPhoneDigits = 8
)

// Profiles owns the customer accounts. Requests are not authenticated, so
// the profile operations act on the default account, the first one
// registered. Login checks credentials and issues a signed token that
// nothing in this service verifies.
type Profiles struct {
	users  core.ProfileRepository
	clock  core.Clock
	secret []byte
	ttl    time.Duration
}

// NewProfiles signs tokens with secret. An empty secret is replaced by a
// random one, so tokens do not survive a restart.
func NewProfiles(users core.ProfileRepository, clk core.Clock, secret []byte, ttl time.Duration) *Profiles {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		rand.Read(secret)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Profiles{users: users, clock: clk, secret: secret, ttl: ttl}
}

// Get returns the default account.
func (p *Profiles) Get(ctx context.Context) (*model.User, error) {
	users, err := p.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, &core.NotFoundError{Kind: "user", ID: "default"}
	}
	return users[0], nil
}

// Update applies the non-empty fields of upd to the default account. Nothing
// is changed when any field is invalid.
func (p *Profiles) Update(ctx context.Context, upd model.ProfileUpdate) (*model.User, error) {
	upd = model.ProfileUpdate{
		Name:  strings.TrimSpace(upd.Name),
		Email: strings.TrimSpace(upd.Email),
		Phone: strings.TrimSpace(upd.Phone),
	}
	if err := validateProfileUpdate(upd); err != nil {
		return nil, err
	}

	current, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}

	return p.users.Update(ctx, current.ID, func(u *model.User) error {
		if upd.Name != "" {
			u.Name = upd.Name
		}
		if upd.Email != "" {
			u.Email = upd.Email
		}
		if upd.Phone != "" {
			u.Phone = upd.Phone
		}
		return nil
	})
}

// Login returns ErrInvalidCredentials for an unknown email or a wrong
// password.
func (p *Profiles) Login(ctx context.Context, email, password string) (*model.Session, error) {
	u, err := p.authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	now := p.clock.Now()
	expires := now.Add(p.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("succeeded").Inc()
	log.FromContext(ctx).Info("User logged in", "user", u.ID)

	return &model.Session{User: *u, Token: token, ExpiresAt: expires}, nil
}

func (p *Profiles) authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, core.ErrInvalidCredentials
	}

	u, err := p.users.FindByEmail(ctx, email)
	if core.IsNotFound(err) {
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, core.ErrInvalidCredentials
	}
	return u, nil
}

func validateProfileUpdate(upd model.ProfileUpdate) error {
	if utf8.RuneCountInString(upd.Name) > maxNameLength {
		return &core.ValidationError{Field: "name", Reason: fmt.Sprintf("at most %d characters", maxNameLength)}
	}

	if upd.Email != "" {
		addr, err := mail.ParseAddress(upd.Email)
		if err != nil || addr.Address != upd.Email {
			return &core.ValidationError{Field: "email", Reason: "not a valid address"}
		}
	}

	if upd.Phone != "" {
		digits := 0
		for _, r := range upd.Phone {
			switch {
			case unicode.IsDigit(r):
				digits++
			case strings.ContainsRune(" ()+-", r):
			default:
				return &core.ValidationError{Field: "phone", Reason: fmt.Sprintf("unexpected character %q", r)}
			}
		}
		if digits < minPhoneDigits {
			return &core.ValidationError{Field: "phone", Reason: fmt.Sprintf("at least %d digits", minPhoneDigits)}
		}
	}

	return nil
}
