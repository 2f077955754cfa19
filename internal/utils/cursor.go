package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// OrderCursor is the keyset position after the last order of a page, in
// (created_at DESC, id DESC) order.
type OrderCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        int64     `json:"id"`
}

func EncodeOrderCursor(createdAt time.Time, id int64) (string, error) {
	b, err := json.Marshal(OrderCursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeOrderCursor(cursor string) (OrderCursor, error) {
	if cursor == "" {
		return OrderCursor{}, ErrInvalidCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return OrderCursor{}, ErrInvalidCursor
	}

	var c OrderCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return OrderCursor{}, ErrInvalidCursor
	}
	if c.ID <= 0 || c.CreatedAt.IsZero() {
		return OrderCursor{}, ErrInvalidCursor
	}
	return c, nil
}
