package activity

import (
	"fmt"
	"time"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

type Activity struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	UserID      *int64    `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// FeedItem is the dashboard representation of an activity.
type FeedItem struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Time      string    `json:"time"`
	UserID    *int64    `json:"usuario_id"`
	CreatedAt time.Time `json:"data_criacao"`
}

func (a Activity) FeedItem(now time.Time) FeedItem {
	return FeedItem{
		ID:        a.ID,
		Action:    a.Description,
		Time:      RelativeTime(now, a.CreatedAt),
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
}

// RelativeTime renders how long ago t happened, relative to now.
// Timestamps in the future (clock skew) read as "just now".
func RelativeTime(now, t time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// ClampLimit applies the feed default and ceiling.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultFeedLimit
	}
	if n > MaxFeedLimit {
		return MaxFeedLimit
	}
	return n
}

// Descriptions recorded by the services.
func OrderCreated(code string) string { return fmt.Sprintf("New order created (#%s)", code) }
func OrderDeleted(code string) string { return fmt.Sprintf("Order deleted (#%s)", code) }
func OrderStatusChanged(code string, status string) string {
	return fmt.Sprintf("Order #%s status updated to '%s'", code, status)
}
func TransportConfirmed(code string) string { return fmt.Sprintf("Transport confirmed for order #%s", code) }
func LabelGenerated(code string) string { return fmt.Sprintf("Label generated for order #%s", code) }
func UserCreated(email, role string) string { return fmt.Sprintf("New user created: %s (%s)", email, role) }
func UserUpdated(email, role string) string { return fmt.Sprintf("User updated: %s (%s)", email, role) }
func UserDeleted(email string) string { return fmt.Sprintf("User deleted: %s", email) }
func UserRegistered(email string) string { return fmt.Sprintf("New customer registered: %s", email) }
func StoreCreated(name string) string { return fmt.Sprintf("New store created: %s", name) }
func StoreUpdated(name string) string { return fmt.Sprintf("Store updated: %s", name) }
func StoreDeleted(name string) string { return fmt.Sprintf("Store deleted: %s", name) }
