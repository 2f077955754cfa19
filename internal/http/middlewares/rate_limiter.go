package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "chamalog:limiter"

// NewRateLimiter builds a fixed-window limiter from a formatted rate such as
// "10-M". With a nil redis client the counters live in process memory.
func NewRateLimiter(formatted string, rdb *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}

	var store limiter.Store

	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: limiterPrefix})
		if err != nil {
			return nil, fmt.Errorf("redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: time.Minute,
		})
	}

	return limiter.New(store, rate), nil
}

// RateLimit enforces l per client IP and answers 429 in the API error envelope.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return mgin.NewMiddleware(l,
		mgin.WithKeyGetter(KeyByIP),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			if reset := c.Writer.Header().Get("X-RateLimit-Reset"); reset != "" {
				if at, err := strconv.ParseInt(reset, 10, 64); err == nil {
					retry := time.Until(time.Unix(at, 0)).Seconds()
					if retry < 0 {
						retry = 0
					}
					c.Header("Retry-After", strconv.Itoa(int(retry)))
				}
			}

			reqID, _ := c.Get(CtxRequestID)
			rid, _ := reqID.(string)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":      "rate_limited",
					"message":   "Too many requests. Please try again shortly.",
					"requestId": rid,
				},
			})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a broken limiter store must not lock everyone out of login
			_ = c.Error(err)
			c.Next()
		}),
	)
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
