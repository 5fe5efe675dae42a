package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	tallyEntryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TallyEntry",
		Fields: graphql.Fields{
			"label": &graphql.Field{Type: graphql.String},
			"km":    &graphql.Field{Type: graphql.Float},
		},
	})

	snapshotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Snapshot",
		Fields: graphql.Fields{
			"total_km":       &graphql.Field{Type: graphql.Float},
			"processed":      &graphql.Field{Type: graphql.Int},
			"total":          &graphql.Field{Type: graphql.Int},
			"unique_coords":  &graphql.Field{Type: graphql.Int},
			"geocoded_count": &graphql.Field{Type: graphql.Int},
			"done":           &graphql.Field{Type: graphql.Boolean},
			"countries":      &graphql.Field{Type: graphql.NewList(tallyEntryType)},
			"cities":         &graphql.Field{Type: graphql.NewList(tallyEntryType)},
		},
	})

	geocodeResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeocodeResult",
		Fields: graphql.Fields{
			"country":    &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"confidence": &graphql.Field{Type: graphql.Float},
		},
	})

	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"recorded_at": &graphql.Field{Type: graphql.String},
			"points":      &graphql.Field{Type: graphql.NewList(geoPointType)},
			"distance_km": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route, ok := p.Source.(*domain.Route)
					if !ok {
						return nil, fmt.Errorf("unexpected source type %T", p.Source)
					}
					return route.DistanceKm(), nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stats": &graphql.Field{
				Type:        snapshotType,
				Description: "Latest mileage aggregation snapshot",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Stats.Latest(), nil
				},
			},
			"countries": &graphql.Field{
				Type:        graphql.NewList(tallyEntryType),
				Description: "Per-country mileage, largest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap := deps.Stats.Latest()
					if snap == nil {
						return nil, nil
					}
					entries := snap.Countries
					if limit := p.Args["limit"].(int); limit > 0 && limit < len(entries) {
						entries = entries[:limit]
					}
					return entries, nil
				},
			},
			"cities": &graphql.Field{
				Type:        graphql.NewList(tallyEntryType),
				Description: "Per-city mileage, largest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap := deps.Stats.Latest()
					if snap == nil {
						return nil, nil
					}
					entries := snap.Cities
					if limit := p.Args["limit"].(int); limit > 0 && limit < len(entries) {
						entries = entries[:limit]
					}
					return entries, nil
				},
			},
			"geocode": &graphql.Field{
				Type:        geocodeResultType,
				Description: "Resolve a coordinate to country and city",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					return deps.Geocoder.Geocode(p.Context, lat, lon)
				},
			},
			"route": &graphql.Field{
				Type:        routeType,
				Description: "Get a route by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Routes.GetByID(p.Context, id)
				},
			},
			"routes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "List stored routes",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					if offset < 0 {
						offset = 0
					}
					if limit <= 0 || limit > 500 {
						limit = 100
					}
					return deps.Routes.List(p.Context, offset, limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
