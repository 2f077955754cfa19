package user_test

import (
	"encoding/json"
	"testing"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAtLeast(t *testing.T) {
	roles := []user.Role{user.RoleCustomer, user.RoleStaff, user.RoleAdmin}

	for i, caller := range roles {
		for j, required := range roles {
			assert.Equal(t, i >= j, caller.AtLeast(required), "%s >= %s", caller, required)
		}
	}

	assert.False(t, user.Role("ghost").AtLeast(user.RoleCustomer))
}

func TestParseRoleAliases(t *testing.T) {
	for raw, want := range map[string]user.Role{
		"cliente":       user.RoleCustomer,
		"customer":      user.RoleCustomer,
		"Staff":         user.RoleStaff,
		"funcionario":   user.RoleStaff,
		"administrador": user.RoleAdmin,
	} {
		got, err := user.ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := user.ParseRole("root")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestCreateRequestDecodesRoleAndStore(t *testing.T) {
	var req user.CreateRequest
	err := json.Unmarshal([]byte(`{"nome":"Bia","email":"b@x.io","senha":"secret1","nivel_acesso":"staff","loja_id":"2"}`), &req)

	require.NoError(t, err)
	assert.Equal(t, user.RoleStaff, req.Role)
	require.NotNil(t, req.StoreID)
	assert.EqualValues(t, 2, *req.StoreID)
}
