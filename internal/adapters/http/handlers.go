package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// routePayload is the request body for creating a route.
type routePayload struct {
	ID         string            `json:"id"`
	Points     []domain.GeoPoint `json:"points"`
	RecordedAt time.Time         `json:"recorded_at"`
	Category   string            `json:"category"`
	DurationS  int64             `json:"duration_seconds"`
}

// CreateRouteHandler stores a new GPS route.
func CreateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body routePayload
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		if len(body.Points) < 2 {
			return errBadRequest(c, "a route needs at least 2 points")
		}
		for _, p := range body.Points {
			if !p.Valid() {
				return errBadRequest(c, "route contains an out-of-range coordinate")
			}
		}
		if body.ID == "" {
			body.ID = uuid.NewString()
		}
		if body.RecordedAt.IsZero() {
			body.RecordedAt = time.Now().UTC()
		}
		if body.Category == "" {
			body.Category = domain.CategoryOther
		}

		route := &domain.Route{
			ID:         body.ID,
			Points:     body.Points,
			RecordedAt: body.RecordedAt,
			Category:   body.Category,
			Duration:   time.Duration(body.DurationS) * time.Second,
		}
		if err := deps.Routes.Insert(c.Context(), route); err != nil {
			return errInternal(c, err.Error())
		}

		LoggerFromCtx(c.UserContext()).Info("route stored",
			"route_id", route.ID, "points", len(route.Points), "km", route.DistanceKm())

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":          route.ID,
			"distance_km": route.DistanceKm(),
			"points":      len(route.Points),
		})
	}
}

// ListRoutesHandler returns stored routes with offset/limit pagination.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		routes, err := deps.Routes.List(c.Context(), offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		total, err := deps.Routes.Count(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: routes, Pagination: pg})
	}
}

// GetRouteHandler returns a single route by ID.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "route id is required")
		}
		route, err := deps.Routes.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "route not found")
		}
		return c.JSON(fiber.Map{
			"id":               route.ID,
			"points":           route.Points,
			"recorded_at":      route.RecordedAt,
			"category":         route.Category,
			"duration_seconds": int64(route.Duration.Seconds()),
			"distance_km":      route.DistanceKm(),
		})
	}
}

// RecomputeHandler kicks off a fresh aggregation over all stored routes.
// The run proceeds in the background; progress is visible through
// GET /v1/stats and the websocket feed.
func RecomputeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Stats.Recompute(c.Context()); err != nil {
			return errInternal(c, err.Error())
		}
		LoggerFromCtx(c.UserContext()).Info("aggregation recompute requested")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "recompute started",
		})
	}
}

// StatsHandler returns the latest aggregation snapshot.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Stats.Latest()
		if snap == nil {
			return errNotFound(c, "no aggregation has run yet")
		}
		return c.JSON(snap)
	}
}

// CountryStatsHandler returns the per-country mileage ranking.
func CountryStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Stats.Latest()
		if snap == nil {
			return errNotFound(c, "no aggregation has run yet")
		}
		return c.JSON(fiber.Map{
			"total_km":  snap.TotalKm,
			"countries": snap.Countries,
			"done":      snap.Done,
		})
	}
}

// CityStatsHandler returns the per-city mileage ranking.
func CityStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Stats.Latest()
		if snap == nil {
			return errNotFound(c, "no aggregation has run yet")
		}
		return c.JSON(fiber.Map{
			"total_km": snap.TotalKm,
			"cities":   snap.Cities,
			"done":     snap.Done,
		})
	}
}

// GeocodeHandler resolves a single coordinate to country and city.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}

		point := domain.GeoPoint{Lat: lat, Lon: lon}
		if !point.Valid() {
			return errBadRequest(c, "coordinate out of range")
		}

		result, err := deps.Geocoder.Geocode(c.Context(), lat, lon)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"country":    result.Country,
			"city":       result.City,
			"confidence": result.Confidence,
			"quant_key":  point.QuantKey(),
		})
	}
}
