package store

import (
	"errors"
	"time"
)

type Store struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"nome" db:"name"`
	Address   string    `json:"endereco" db:"address"`
	CreatedAt time.Time `json:"data_criacao" db:"created_at"`
}

var (
	ErrNotFound   = errors.New("store not found")
	ErrReferenced = errors.New("store is referenced by orders")
)

type CreateRequest struct {
	Name    string `json:"nome" binding:"required,min=2,max=120"`
	Address string `json:"endereco" binding:"required,min=3,max=255"`
}

type UpdateRequest struct {
	Name    string `json:"nome" binding:"required,min=2,max=120"`
	Address string `json:"endereco" binding:"required,min=3,max=255"`
}
