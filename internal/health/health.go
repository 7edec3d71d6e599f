package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Probe reports whether one dependency is reachable.
type Probe func(ctx context.Context) error

// Dependency is a named readiness probe.
type Dependency struct {
	Name  string
	Probe Probe
}

// RedisDependency pings the delivery-claim store.
func RedisDependency(client *redis.Client) Dependency {
	return Dependency{
		Name: "redis",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// Checker performs health checks on service dependencies.
type Checker struct {
	dependencies []Dependency
	version      string
}

func NewChecker(version string, dependencies ...Dependency) *Checker {
	return &Checker{
		dependencies: dependencies,
		version:      version,
	}
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.dependencies)),
	}

	for _, dep := range c.dependencies {
		start := time.Now()
		if err := dep.Probe(checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[dep.Name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[dep.Name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

// GRPC exposes the readiness result through the grpc.health.v1 protocol.
func (c *Checker) GRPC() grpchealth.Checker {
	return &grpcChecker{checker: c}
}

type grpcChecker struct {
	checker *Checker
}

func (g *grpcChecker) Check(ctx context.Context, _ *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if g.checker.Check(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// RegisterRoutes mounts the HTTP probes and the gRPC health service. The gRPC
// service needs an h2c-capable server.
func (c *Checker) RegisterRoutes(r gin.IRouter) {
	r.GET("/health/live", c.LiveHandler())
	r.GET("/health/ready", c.ReadyHandler())
	r.GET("/health", c.ReadyHandler())

	path, handler := grpchealth.NewHandler(c.GRPC())
	r.POST(path+"*method", gin.WrapH(handler))
}
