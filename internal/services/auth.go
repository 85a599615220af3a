package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/brimon/internal/auth"
	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/config"
	"github.com/dmitrijs2005/brimon/internal/cryptox"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
	"github.com/google/uuid"
)

// AuthService manages credentials and the current session.
//
// Contract:
//   - Login / LoginUser: verify the password and persist a new session,
//     replacing any previous one. Every failure to authenticate is
//     common.ErrInvalidCredentials.
//   - Logout: drop the session. Idempotent.
//   - CurrentUser: the logged-in user, or nil when there is no usable
//     session. Only storage failures are returned as errors.
//   - SeedDefaultCredentials: give every user without a credential one
//     derived from defaultPassword. Returns how many users changed.
//   - CreateUser: add an account, refusing case-insensitive duplicates.
//   - SetPassword: replace a user's credential (admins, or the user).
//
// Key derivation honors ctx; logins are additionally bounded by the
// configured login timeout.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (*models.User, *models.Session, error)
	LoginUser(ctx context.Context, user *models.User, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	SeedDefaultCredentials(ctx context.Context, defaultPassword []byte) (int, error)
	CreateUser(ctx context.Context, username, displayName string, role models.Role, password []byte) (*models.User, error)
	IsRole(ctx context.Context, roles ...models.Role) bool
	SetPassword(ctx context.Context, caller authz.Caller, userID string, password []byte) error
}

type authService struct {
	db           *sql.DB
	repos        storage.Manager
	secret       []byte
	loginTimeout time.Duration
	log          logging.Logger
	now          func() time.Time
}

// NewAuthService constructs an AuthService over the given store.
func NewAuthService(db *sql.DB, m storage.Manager, cfg *config.Config, log logging.Logger) AuthService {
	return &authService{
		db:           db,
		repos:        m,
		secret:       []byte(cfg.SessionSecret),
		loginTimeout: cfg.LoginTimeout,
		log:          log.With("component", "auth"),
		now:          time.Now,
	}
}

// runDerivation runs fn on its own goroutine and waits for it or for ctx.
// An expired deadline is reported as common.ErrTimeout.
func runDerivation[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %w", common.ErrTimeout, ctx.Err())
		}
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}

// derive computes a fresh credential for password. The password is copied
// so the caller may wipe its buffer as soon as this returns.
func (a *authService) derive(ctx context.Context, password []byte) (*cryptox.Credential, error) {
	pw := bytes.Clone(password)
	return runDerivation(ctx, func() (*cryptox.Credential, error) {
		defer common.WipeByteArray(pw)
		return cryptox.Derive(pw, nil)
	})
}

func (a *authService) verify(ctx context.Context, password []byte, hashHex, saltHex string) (bool, error) {
	pw := bytes.Clone(password)
	return runDerivation(ctx, func() (bool, error) {
		defer common.WipeByteArray(pw)
		return cryptox.Verify(pw, hashHex, saltHex), nil
	})
}

// asTimeout marks an expired login deadline as common.ErrTimeout, whichever
// step noticed it.
func asTimeout(err error) error {
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, common.ErrTimeout) {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	return err
}

func (a *authService) withLoginTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.loginTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.loginTimeout)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.User, *models.Session, error) {
	ctx, cancel := a.withLoginTimeout(ctx)
	defer cancel()

	user, err := a.repos.Users(a.db).FindByUsername(ctx, username)
	if errors.Is(err, common.ErrUserNotFound) {
		// Same amount of work as a real check, against a throwaway salt.
		if _, err := a.derive(ctx, password); err != nil {
			return nil, nil, asTimeout(err)
		}
		a.log.Info(ctx, "login failed", "username", username)
		return nil, nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, asTimeout(err)
	}

	s, err := a.loginUser(ctx, user, password)
	if err != nil {
		return nil, nil, asTimeout(err)
	}
	return user, s, nil
}

func (a *authService) LoginUser(ctx context.Context, user *models.User, password []byte) (*models.Session, error) {
	ctx, cancel := a.withLoginTimeout(ctx)
	defer cancel()

	s, err := a.loginUser(ctx, user, password)
	return s, asTimeout(err)
}

func (a *authService) loginUser(ctx context.Context, user *models.User, password []byte) (*models.Session, error) {
	if user == nil {
		return nil, common.ErrInvalidCredentials
	}

	ok, err := a.verify(ctx, password, user.PasswordHash, user.PasswordSalt)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.log.Info(ctx, "login failed", "username", user.Username)
		return nil, common.ErrInvalidCredentials
	}

	s := &models.Session{UserID: user.ID, CreatedAt: a.now().UTC().Truncate(time.Second)}
	token, err := auth.EncodeSession(*s, a.secret)
	if err != nil {
		return nil, err
	}
	if err := a.repos.Metadata(a.db).Put(ctx, common.SessionMetadataKey, token); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "login succeeded", "username", user.Username, "role", user.Role)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	removed, err := a.repos.Metadata(a.db).Remove(ctx, common.SessionMetadataKey)
	if err != nil {
		return err
	}
	if removed {
		a.log.Info(ctx, "logged out")
	}
	return nil
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	token, ok, err := a.repos.Metadata(a.db).Lookup(ctx, common.SessionMetadataKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	s, err := auth.DecodeSession(token, a.secret)
	if err != nil {
		a.log.Warn(ctx, "ignoring unreadable session", "error", err)
		return nil, nil
	}

	user, err := a.repos.Users(a.db).FindByID(ctx, s.UserID)
	if errors.Is(err, common.ErrUserNotFound) {
		a.log.Warn(ctx, "session refers to a missing user", "user_id", s.UserID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authService) SeedDefaultCredentials(ctx context.Context, defaultPassword []byte) (int, error) {
	if len(defaultPassword) == 0 {
		return 0, fmt.Errorf("%w: empty default password", common.ErrValidation)
	}

	updated := 0
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repos.Users(tx)
		list, err := repo.List(ctx)
		if err != nil {
			return err
		}
		for _, u := range list {
			if u.HasCredentials() {
				continue
			}
			cred, err := a.derive(ctx, defaultPassword)
			if err != nil {
				return err
			}
			hash, salt := cred.HashHex(), cred.SaltHex()
			if _, err := repo.Update(ctx, u.ID, models.UserPatch{PasswordHash: &hash, PasswordSalt: &salt}); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if updated > 0 {
		a.log.Info(ctx, "seeded default credentials", "users", updated)
	}
	return updated, nil
}

func (a *authService) CreateUser(ctx context.Context, username, displayName string, role models.Role, password []byte) (*models.User, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrValidation)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", common.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	if displayName == "" {
		displayName = username
	}

	repo := a.repos.Users(a.db)
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return nil, err
	}

	cred, err := a.derive(ctx, password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: cred.HashHex(),
		PasswordSalt: cred.SaltHex(),
		Lang:         "he",
		CreatedAt:    a.now().UTC(),
	}
	if err := repo.Add(ctx, u); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "user created", "username", u.Username, "role", u.Role)
	return u, nil
}

func (a *authService) IsRole(ctx context.Context, roles ...models.Role) bool {
	u, err := a.CurrentUser(ctx)
	if err != nil || u == nil {
		return false
	}
	return slices.Contains(roles, u.Role)
}

func (a *authService) SetPassword(ctx context.Context, caller authz.Caller, userID string, password []byte) error {
	if len(password) == 0 {
		return fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	repo := a.repos.Users(a.db)
	target, err := repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !caller.Can(authz.ScopeUsers) && !strings.EqualFold(caller.Username, target.Username) {
		return fmt.Errorf("%w: cannot change another user's password", common.ErrAccessDenied)
	}

	cred, err := a.derive(ctx, password)
	if err != nil {
		return err
	}
	hash, salt := cred.HashHex(), cred.SaltHex()
	if _, err := repo.Update(ctx, userID, models.UserPatch{PasswordHash: &hash, PasswordSalt: &salt}); err != nil {
		return err
	}

	a.log.Info(ctx, "password changed", "username", target.Username, "by", caller.Username)
	return nil
}
