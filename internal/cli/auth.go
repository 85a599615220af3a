package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Login authenticates a user and stores the session.
//
// The username is taken from args or prompted for; the password is always
// read without echo and wiped before returning. A failed login leaves the
// previous session untouched.
func (a *App) Login(ctx context.Context, args []string) error {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		var err error
		if userName, err = a.prompt("Enter username"); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, _, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.user = u
	a.printf("Welcome, %s (%s)\n", u.DisplayName, u.Role)
	return nil
}

// Logout removes the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	a.printf("Logged out\n")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	scopes := make([]string, 0)
	for _, s := range authz.Scopes(a.user.Role) {
		scopes = append(scopes, string(s))
	}
	a.printf("%s (%s), role %s\n", a.user.Username, a.user.DisplayName, a.user.Role)
	a.printf("Access: %s\n", strings.Join(scopes, ", "))
	return nil
}

// Passwd changes the password of the session user, or of the named user
// when the caller manages users.
func (a *App) Passwd(ctx context.Context, args []string) error {
	target := a.user
	if len(args) > 0 && !strings.EqualFold(args[0], a.user.Username) {
		u, err := a.findUser(ctx, args[0])
		if err != nil {
			return err
		}
		target = u
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SetPassword(ctx, a.caller(), target.ID, password); err != nil {
		return err
	}
	a.printf("Password changed for %s\n", target.Username)
	return nil
}

// readNewPassword asks for a password twice.
func (a *App) readNewPassword() ([]byte, error) {
	first, err := getPassword(a.out, "New password")
	if err != nil {
		return nil, err
	}
	second, err := getPassword(a.out, "Repeat password")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		common.WipeByteArray(first)
		return nil, errPasswordMismatch
	}
	return first, nil
}

// findUser looks a user up by username through the admin listing, so it
// fails with access denied for callers without the users scope.
func (a *App) findUser(ctx context.Context, username string) (*models.User, error) {
	list, err := a.users.List(ctx, a.caller())
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Username, username) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, common.ErrUserNotFound)
}
