package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler probes the backing services. The database is required;
// NATS and the cache are optional at runtime, but when wired they must
// respond, so a rollout lands on instances with a working stack.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	type probe struct {
		name  string
		wired bool
		run   func(ctx context.Context) error
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		probes := []probe{
			{"database", deps.DB != nil, func(ctx context.Context) error {
				return deps.DB.Pool.Ping(ctx)
			}},
			{"nats", deps.NATS != nil, func(ctx context.Context) error {
				if !deps.NATS.IsConnected() {
					return errors.New("disconnected")
				}
				return nil
			}},
			// A missing cache key comes back as (nil, nil), so any
			// error here is a real connectivity problem.
			{"cache", deps.Cache != nil, func(ctx context.Context) error {
				_, err := deps.Cache.Get(ctx, "__health_check__")
				return err
			}},
		}

		checks := make(map[string]string, len(probes))
		ready := true
		for _, p := range probes {
			if !p.wired {
				checks[p.name] = "not configured"
				if p.name == "database" {
					ready = false
				}
				continue
			}
			if err := p.run(ctx); err != nil {
				checks[p.name] = "error: " + err.Error()
				ready = false
			} else {
				checks[p.name] = "ok"
			}
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
