package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const invalidCredentials = "invalid username or password"

// ModeratorStore is the moderator persistence the gate depends on.
type ModeratorStore interface {
	FindByID(ctx context.Context, id uint) (*models.Moderator, error)
	FindByUsername(ctx context.Context, username string) (*models.Moderator, error)
	Add(ctx context.Context, moderator *models.Moderator) error
}

// Identity is the authenticated moderator behind a session.
type Identity struct {
	ModeratorID uint   `json:"id"`
	Username    string `json:"username"`
}

type Gate struct {
	moderators ModeratorStore
	sessions   SessionStore
	hasher     Hasher
	ttl        time.Duration
	now        func() time.Time
	logger     zerolog.Logger

	// compared against when the username is unknown so both failure paths cost one hash check
	dummyHash string
}

// NewGate falls back to DefaultSessionTTL when ttl is not positive.
func NewGate(moderators ModeratorStore, sessions SessionStore, hasher Hasher, ttl time.Duration) (*Gate, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Gate{
		moderators: moderators,
		sessions:   sessions,
		hasher:     hasher,
		ttl:        ttl,
		now:        time.Now,
		logger:     log.With().Str("component", "authGate").Logger(),
		dummyHash:  dummyHash,
	}, nil
}

// Login verifies credentials and issues a new session.
func (g *Gate) Login(ctx context.Context, username, password string) (*Session, error) {
	moderator, err := g.moderators.FindByUsername(ctx, username)
	if err != nil && !errs.IsNotFound(err) {
		metrics.RecordLogin("error")
		return nil, err
	}

	if moderator == nil {
		_ = g.hasher.Compare(g.dummyHash, password)
		metrics.RecordLogin("failure")
		g.logger.Warn().Str("username", username).Msg("Login attempt for unknown moderator")
		return nil, errs.NewUnauthenticatedError(invalidCredentials)
	}

	if err := g.hasher.Compare(moderator.PasswordHash, password); err != nil {
		metrics.RecordLogin("failure")
		if !errors.Is(err, ErrPasswordMismatch) {
			g.logger.Error().Err(err).Uint("moderatorId", moderator.ID).Msg("Stored password hash could not be compared")
		}
		return nil, errs.NewUnauthenticatedError(invalidCredentials)
	}

	token, err := NewSessionToken()
	if err != nil {
		metrics.RecordLogin("error")
		return nil, errs.NewInternalErrorWithCause("could not create session", err)
	}

	now := g.now()
	session := &Session{
		Token:       token,
		ModeratorID: moderator.ID,
		Username:    moderator.Username,
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.ttl),
	}

	if err := g.sessions.Create(ctx, session); err != nil {
		metrics.RecordLogin("error")
		return nil, errs.NewInternalErrorWithCause("could not create session", err)
	}

	metrics.RecordLogin("success")
	g.logger.Info().Uint("moderatorId", moderator.ID).Msg("Moderator logged in")
	return session, nil
}

// Logout removes the session bound to token.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errs.NewUnauthenticatedError("no active session")
	}
	err := g.sessions.Delete(ctx, token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return errs.NewUnauthenticatedError("no active session")
	default:
		return errs.NewInternalErrorWithCause("could not end session", err)
	}
}

// CurrentIdentity resolves token to the moderator it was issued for. A session whose
// moderator no longer exists is revoked.
func (g *Gate) CurrentIdentity(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, errs.NewUnauthenticatedError("no active session")
	}

	session, err := g.sessions.Get(ctx, token)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return Identity{}, errs.NewUnauthenticatedError("no active session")
	default:
		return Identity{}, errs.NewInternalErrorWithCause("could not read session", err)
	}

	moderator, err := g.moderators.FindByID(ctx, session.ModeratorID)
	if errs.IsNotFound(err) {
		if err := g.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
			g.logger.Error().Err(err).Msg("Failed to revoke orphaned session")
		}
		return Identity{}, errs.NewUnauthenticatedError("no active session")
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{ModeratorID: moderator.ID, Username: moderator.Username}, nil
}

// RegisterModerator stores a new moderator. The password is hashed exactly once.
func (g *Gate) RegisterModerator(ctx context.Context, username, password string) (*models.Moderator, error) {
	_, err := g.moderators.FindByUsername(ctx, username)
	if err == nil {
		return nil, errs.NewAlreadyExists("moderator " + username)
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	hash, err := g.hasher.Hash(password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, errs.NewInvalidFieldError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not hash password", err)
	}

	moderator := &models.Moderator{Username: username, PasswordHash: hash}
	if err := g.moderators.Add(ctx, moderator); err != nil {
		return nil, err
	}

	g.logger.Info().Uint("moderatorId", moderator.ID).Str("username", username).Msg("Moderator registered")
	return moderator, nil
}

// RevokeModerator ends every session of a moderator.
func (g *Gate) RevokeModerator(ctx context.Context, moderatorID uint) error {
	count, err := g.sessions.DeleteByModerator(ctx, moderatorID)
	if err != nil {
		return errs.NewInternalErrorWithCause("could not revoke sessions", err)
	}
	g.logger.Info().Uint("moderatorId", moderatorID).Int("sessions", count).Msg("Revoked moderator sessions")
	return nil
}
