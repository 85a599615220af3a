package authz

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
)

// Policy chooses how strictly order status moves are checked.
type Policy int

const (
	// PolicyStrict allows only the next step of the order sequence, or
	// refused/cancelled from any open state.
	PolicyStrict Policy = iota
	// PolicyFree allows any move out of an open state.
	PolicyFree
)

func (p Policy) String() string {
	if p == PolicyFree {
		return "free"
	}
	return "strict"
}

// ParsePolicy accepts "strict" and "free".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "strict", "":
		return PolicyStrict, nil
	case "free":
		return PolicyFree, nil
	}
	return PolicyStrict, fmt.Errorf("%w: unknown order workflow %q", common.ErrValidation, s)
}

// StatusTransition checks that role may move an order from current to
// requested under policy and returns the resulting status. Asking for the
// current status is a no-op and always succeeds for order:manage roles.
func StatusTransition(current, requested models.OrderStatus, role models.Role, policy Policy) (models.OrderStatus, error) {
	if !CanAccessScope(role, ScopeOrderMgmt) {
		return current, fmt.Errorf("%w: role %q cannot change order status", common.ErrAccessDenied, role)
	}
	if !requested.Valid() {
		return current, fmt.Errorf("%w: unknown status %q", common.ErrInvalidTransition, requested)
	}
	if requested == current {
		return current, nil
	}
	if current.Terminal() {
		return current, fmt.Errorf("%w: %s is final", common.ErrInvalidTransition, current)
	}
	if requested == models.OrderRefused || requested == models.OrderCancelled || policy == PolicyFree {
		return requested, nil
	}

	i := slices.Index(models.OrderSequence, current)
	if i >= 0 && i+1 < len(models.OrderSequence) && models.OrderSequence[i+1] == requested {
		return requested, nil
	}
	return current, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, current, requested)
}

// NextStatuses lists what current may move to under policy, for prompts.
func NextStatuses(current models.OrderStatus, policy Policy) []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range models.OrderStatuses {
		if s == current {
			continue
		}
		if _, err := StatusTransition(current, s, models.RoleAdmin, policy); err == nil {
			out = append(out, s)
		}
	}
	return out
}
