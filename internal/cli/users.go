package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/services"
)

func (a *App) Users(ctx context.Context) error {
	list, err := a.users.List(ctx, a.caller())
	if err != nil {
		return err
	}
	return printUsers(a.out, list)
}

func roleNames() string {
	names := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, "|")
}

func parseRole(s string) (models.Role, error) {
	r, ok := models.ParseRole(s)
	if !ok {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
	}
	return r, nil
}

// User runs "user add" or "user edit <username>".
func (a *App) User(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("user add | user edit <username>")
	}
	switch strings.ToLower(args[0]) {
	case "add":
		return a.addUser(ctx)
	case "edit":
		if len(args) < 2 {
			return usageError("user edit <username>")
		}
		return a.editUser(ctx, args[1])
	}
	return usageError("user add | user edit <username>")
}

func (a *App) addUser(ctx context.Context) error {
	username, err := a.prompt("Username")
	if err != nil {
		return err
	}
	displayName, err := a.prompt("Display name")
	if err != nil {
		return err
	}
	roleText, err := a.prompt("Role (" + roleNames() + ")")
	if err != nil {
		return err
	}
	role, err := parseRole(roleText)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.users.Create(ctx, a.caller(), username, displayName, role, password)
	if err != nil {
		return err
	}
	a.printf("User %s created (%s)\n", u.Username, u.Role)
	return nil
}

func (a *App) editUser(ctx context.Context, username string) error {
	u, err := a.findUser(ctx, username)
	if err != nil {
		return err
	}

	var upd services.UserUpdate
	if s, err := a.prompt(fmt.Sprintf("Display name [%s]", u.DisplayName)); err != nil {
		return err
	} else if s != "" {
		upd.DisplayName = &s
	}
	if s, err := a.prompt(fmt.Sprintf("Role [%s] (%s)", u.Role, roleNames())); err != nil {
		return err
	} else if s != "" {
		r, err := parseRole(s)
		if err != nil {
			return err
		}
		upd.Role = &r
	}

	updated, err := a.users.Update(ctx, a.caller(), u.ID, upd)
	if err != nil {
		return err
	}
	if updated.ID == a.user.ID {
		a.user = updated
	}
	a.printf("User %s updated (%s)\n", updated.Username, updated.Role)
	return nil
}
