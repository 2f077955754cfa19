package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

// create a new instance of the health handler; nil checks are skipped
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	live := make(map[string]Check, len(checks))

	for name, c := range checks {
		if c != nil {
			live[name] = c
		}
	}

	return &HealthHandler{checks: live}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and answers 503 if any of them fails.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(gin.H, len(h.checks))
	ready := true

	for name, check := range h.checks {
		if err := check(c); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}
