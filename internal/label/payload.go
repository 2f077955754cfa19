// Package label builds shipping labels and the QR payloads printed on them.
package label

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const DefaultTrackingBaseURL = "https://chamalog.com/rastrear"

var ErrInvalidPayload = errors.New("qr payload does not carry a tracking code")

var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Tracker converts between order codes and tracking URLs.
type Tracker struct {
	baseURL string
}

func NewTracker(baseURL string) Tracker {
	if baseURL == "" {
		baseURL = DefaultTrackingBaseURL
	}
	return Tracker{baseURL: strings.TrimRight(baseURL, "/")}
}

func (t Tracker) Payload(code string) string {
	return t.baseURL + "/" + url.PathEscape(code)
}

// CodeFromPayload accepts the tracking URL printed on labels, any URL whose
// path ends in /rastrear/<code>, or a bare code typed by hand.
func (t Tracker) CodeFromPayload(payload string) (string, error) {
	p := strings.TrimSpace(payload)

	if p == "" {
		return "", ErrInvalidPayload
	}

	if strings.Contains(p, "://") {
		u, err := url.Parse(p)
		if err != nil {
			return "", ErrInvalidPayload
		}

		segments := strings.Split(strings.Trim(u.Path, "/"), "/")

		if len(segments) < 2 || segments[len(segments)-2] != "rastrear" {
			return "", ErrInvalidPayload
		}

		p = segments[len(segments)-1]
	}

	if !codePattern.MatchString(p) {
		return "", ErrInvalidPayload
	}

	return strings.ToUpper(p), nil
}
