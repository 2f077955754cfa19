package order

import (
	"encoding/json"
	"strings"
)

type Status string

const (
	StatusPending   Status = "pendente"
	StatusInTransit Status = "em_transito"
	StatusDelivered Status = "entregue"
)

var statusAliases = map[string]Status{
	"pending":    StatusPending,
	"in_transit": StatusInTransit,
	"delivered":  StatusDelivered,
}

// ParseStatus accepts the stored names and their English aliases.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch Status(s) {
	case StatusPending, StatusInTransit, StatusDelivered:
		return Status(s), nil
	}

	if st, ok := statusAliases[s]; ok {
		return st, nil
	}

	return "", ErrInvalidStatus
}

// IsValid reports whether s is one of the stored names; aliases are not.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// UnmarshalJSON keeps unknown values as-is so the service can reject them
// with ErrInvalidStatus instead of a generic bind error.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if parsed, err := ParseStatus(raw); err == nil {
		*s = parsed
		return nil
	}

	*s = Status(raw)
	return nil
}
