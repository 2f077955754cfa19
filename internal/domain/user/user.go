package user

import (
	"errors"
	"time"

	"github.com/chamalog/chamalog/internal/domain/ids"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"nome" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never expose hash in JSON
	Role         Role      `json:"nivel_acesso" db:"role"`
	StoreID      *int64    `json:"loja_id" db:"store_id"`
	TokenVersion int       `json:"-" db:"token_version"`
	CreatedAt    time.Time `json:"data_criacao" db:"created_at"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrReferenced         = errors.New("user is referenced by orders")
	ErrUnknownStore       = errors.New("store does not exist")
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"nome" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=8"`
}

type CreateRequest struct {
	Name     string  `json:"nome" binding:"required,min=2,max=120"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"senha" binding:"required,min=6"`
	Role     Role    `json:"nivel_acesso" binding:"required"`
	StoreID  *ids.ID `json:"loja_id"`
}

// UpdateRequest deliberately has no password field.
type UpdateRequest struct {
	Name    string  `json:"nome" binding:"required,min=2,max=120"`
	Email   string  `json:"email" binding:"required,email"`
	Role    Role    `json:"nivel_acesso" binding:"required"`
	StoreID *ids.ID `json:"loja_id"`
}
