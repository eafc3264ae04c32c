package handler

import (
    "context"
    "sort"
    "time"

    "github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
    required string
    checks   map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler. The dependency named
// required must be up for the service to report healthy; the others only
// degrade it. A nil check reports the dependency as disabled.
func NewHealthHandler(required string, checks map[string]HealthCheck) *HealthHandler {
    return &HealthHandler{required: required, checks: checks}
}

// GetHealth responds with service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
    ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
    defer cancel()

    names := make([]string, 0, len(h.checks))
    for name := range h.checks {
        names = append(names, name)
    }
    sort.Strings(names)

    status := "healthy"
    code := 200
    deps := gin.H{}
    for _, name := range names {
        check := h.checks[name]
        if check == nil {
            deps[name] = gin.H{"status": "disabled"}
            continue
        }
        if err := check(ctx); err != nil {
            deps[name] = gin.H{"status": "disconnected", "error": err.Error()}
            if name == h.required {
                status = "unhealthy"
                code = 503
            } else if status == "healthy" {
                status = "degraded"
            }
            continue
        }
        deps[name] = gin.H{"status": "connected"}
    }

    data := gin.H{
        "status":       status,
        "version":      "1.0.0",
        "uptime":       int(time.Since(startTime).Seconds()),
        "dependencies": deps,
    }
    if code != 200 {
        c.JSON(code, gin.H{"success": false, "code": code, "message": "Service is unhealthy", "data": data})
        return
    }
    c.JSON(code, gin.H{"success": true, "code": code, "message": "Service is healthy", "data": data})
}
