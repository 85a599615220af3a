package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
)

// UserUpdate holds the admin-editable fields of a user. Usernames never
// change and users are never deleted.
type UserUpdate struct {
	DisplayName *string
	Role        *models.Role
}

// UserService is the admin view of accounts. Every method needs the users
// scope.
type UserService interface {
	List(ctx context.Context, caller authz.Caller) ([]models.User, error)
	Create(ctx context.Context, caller authz.Caller, username, displayName string, role models.Role, password []byte) (*models.User, error)
	Update(ctx context.Context, caller authz.Caller, id string, upd UserUpdate) (*models.User, error)
}

type userService struct {
	db    *sql.DB
	repos storage.Manager
	auth  AuthService
	log   logging.Logger
}

func NewUserService(db *sql.DB, m storage.Manager, auth AuthService, log logging.Logger) UserService {
	return &userService{db: db, repos: m, auth: auth, log: log.With("component", "users")}
}

func requireUsersScope(caller authz.Caller) error {
	if !caller.Can(authz.ScopeUsers) {
		return fmt.Errorf("%w: role %q cannot manage users", common.ErrAccessDenied, caller.Role)
	}
	return nil
}

func (s *userService) List(ctx context.Context, caller authz.Caller) ([]models.User, error) {
	if err := requireUsersScope(caller); err != nil {
		return nil, err
	}
	return s.repos.Users(s.db).List(ctx)
}

func (s *userService) Create(ctx context.Context, caller authz.Caller, username, displayName string, role models.Role, password []byte) (*models.User, error) {
	if err := requireUsersScope(caller); err != nil {
		return nil, err
	}
	return s.auth.CreateUser(ctx, username, displayName, role, password)
}

func (s *userService) Update(ctx context.Context, caller authz.Caller, id string, upd UserUpdate) (*models.User, error) {
	if err := requireUsersScope(caller); err != nil {
		return nil, err
	}

	patch := models.UserPatch{Role: upd.Role}
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name is required", common.ErrValidation)
		}
		patch.DisplayName = &name
	}

	u, err := s.repos.Users(s.db).Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user updated", "username", u.Username, "role", u.Role, "by", caller.Username)
	return u, nil
}
