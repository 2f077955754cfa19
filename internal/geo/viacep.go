// Package geo resolves Brazilian postal codes (CEP) to street addresses.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chamalog/chamalog/internal/cache"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidCEP  = errors.New("cep must have 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
	ErrUpstream    = errors.New("address lookup failed")
)

const cacheTTL = 24 * time.Hour

type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

// Full formats the address the way the order form expects it.
func (a Address) Full() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Neighborhood} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	city := a.City
	if a.State != "" {
		city += " - " + a.State
	}
	parts = append(parts, city, a.CEP)

	return strings.Join(parts, ", ")
}

type viaCEPResponse struct {
	Address
	Erro any `json:"erro"`
}

type Client struct {
	http    *resty.Client
	cache   cache.Cache
	breaker *Breaker
}

func NewClient(baseURL string, c cache.Cache, breaker *Breaker) *Client {
	if breaker == nil {
		breaker = NewBreaker(BreakerConfig{})
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(5 * time.Second),
		cache:   c,
		breaker: breaker,
	}
}

// NormalizeCEP strips punctuation and checks the digit count.
func NormalizeCEP(raw string) (string, error) {
	var b strings.Builder

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
		default:
			return "", ErrInvalidCEP
		}
	}

	if b.Len() != 8 {
		return "", ErrInvalidCEP
	}

	return b.String(), nil
}

func (c *Client) Lookup(ctx context.Context, raw string) (Address, error) {
	cep, err := NormalizeCEP(raw)

	if err != nil {
		return Address{}, err
	}

	key := "cep:" + cep

	if c.cache != nil {
		if b, err := c.cache.Get(ctx, key); err == nil {
			var a Address
			if json.Unmarshal(b, &a) == nil {
				return a, nil
			}
		}
	}

	var addr Address

	ctx, span := observability.StartSpan(ctx, "viacep.lookup", attribute.String("cep", cep))
	defer span.End()

	err = c.breaker.Do(ctx, func(ctx context.Context) error {
		var out viaCEPResponse

		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("cep", cep).
			SetResult(&out).
			Get("/{cep}/json/")

		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}

		switch {
		case resp.StatusCode() == http.StatusBadRequest:
			return ErrInvalidCEP
		case resp.IsError():
			return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
		case out.Erro != nil && out.Erro != false:
			return ErrCEPNotFound
		}

		addr = out.Address
		return nil
	}, func(err error) bool { return errors.Is(err, ErrUpstream) })

	if err != nil {
		span.RecordError(err)
	}

	if errors.Is(err, ErrCircuitOpen) {
		return Address{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err != nil {
		return Address{}, err
	}

	if c.cache != nil {
		if b, err := json.Marshal(addr); err == nil {
			if err := c.cache.Set(ctx, key, b, cacheTTL); err != nil {
				slog.Default().WarnContext(ctx, "cep cache write failed", "err", err)
			}
		}
	}

	return addr, nil
}
