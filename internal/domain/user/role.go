package user

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "cliente"
	RoleStaff    Role = "funcionario"
	RoleAdmin    Role = "admin"
)

var roleRanks = map[Role]int{
	RoleCustomer: 1,
	RoleStaff:    2,
	RoleAdmin:    3,
}

// aliases accepted on input; the legacy seed script wrote "administrador"
var roleAliases = map[string]Role{
	"customer":      RoleCustomer,
	"staff":         RoleStaff,
	"administrador": RoleAdmin,
}

// ParseRole normalises a role name. Unknown names return ErrInvalidRole.
func ParseRole(raw string) (Role, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if _, ok := roleRanks[Role(s)]; ok {
		return Role(s), nil
	}

	if r, ok := roleAliases[s]; ok {
		return r, nil
	}

	return "", ErrInvalidRole
}

func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank is 0 for unknown roles, so they never satisfy any requirement.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= required.Rank()
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseRole(s)

	if err != nil {
		return err
	}

	*r = parsed
	return nil
}
