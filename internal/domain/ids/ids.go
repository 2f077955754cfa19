// Package ids holds the numeric identifier type shared by request payloads.
package ids

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid id")

// ID is a positive database identifier. The dashboard posts ids taken from
// <select> values, so both 7 and "7" are accepted.
type ID int64

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseInt(string(b), 10, 64)

	if err != nil || n <= 0 {
		return ErrInvalid
	}

	*i = ID(n)
	return nil
}

func (i ID) Int64() int64 { return int64(i) }

// Ptr converts an optional request id into the *int64 the repositories take.
func Ptr(i *ID) *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}

// Parse reads a path parameter.
func Parse(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)

	if err != nil || n <= 0 {
		return 0, ErrInvalid
	}

	return n, nil
}
