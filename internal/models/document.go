package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
)

// DocumentVersion is the layout version written into Meta.
const DocumentVersion = 1

type Meta struct {
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

// Document is the whole store as one JSON value.
type Document struct {
	Meta     Meta      `json:"meta"`
	Users    []User    `json:"users"`
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
	Orders   []Order   `json:"orders"`
}

// Validate checks every record and the cross-record invariants: usernames
// unique ignoring case, salts never shared between users.
func (d *Document) Validate() error {
	var errs []error

	names := make(map[string]struct{}, len(d.Users))
	salts := make(map[string]struct{}, len(d.Users))
	for i := range d.Users {
		u := &d.Users[i]
		if err := u.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("user %q: %w", u.Username, err))
		}
		key := UsernameKey(u.Username)
		if _, dup := names[key]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate username %q", common.ErrValidation, u.Username))
		}
		names[key] = struct{}{}
		if u.PasswordSalt != "" {
			if _, dup := salts[u.PasswordSalt]; dup {
				errs = append(errs, fmt.Errorf("%w: salt reused by %q", common.ErrValidation, u.Username))
			}
			salts[u.PasswordSalt] = struct{}{}
		}
	}
	for i := range d.Projects {
		if err := d.Projects[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("project %q: %w", d.Projects[i].ID, err))
		}
	}
	for i := range d.Tasks {
		if err := d.Tasks[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", d.Tasks[i].ID, err))
		}
	}
	for i := range d.Orders {
		if err := d.Orders[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("order %q: %w", d.Orders[i].ID, err))
		}
	}

	return errors.Join(errs...)
}
