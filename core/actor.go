package core

import (
	"errors"
	"fmt"
)

// Role is the closed set of administrative roles. It is dispatched with
// exhaustive switches, never compared as a string.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleSuper
)

var errUnknownRole = errors.New("unknown role")

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuper:
		return "super"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole maps the stored representation back to a Role.
func ParseRole(s string) (Role, error) {
	switch CleanString(s, true /* lower */) {
	case "admin":
		return RoleAdmin, nil
	case "super":
		return RoleSuper, nil
	}
	return 0, errUnknownRole
}

// Actor identifies the administrative actor performing an operation.
// It is passed explicitly into every scoped service call; no service
// reads ambient session state.
type Actor struct {
	ID   int
	Role Role
}

func (a Actor) IsSuper() bool { return a.Role == RoleSuper }
