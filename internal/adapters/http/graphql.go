package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/geolabel/geolabel/internal/core/domain"
)

// buildSchema creates the GraphQL read schema wired to our services.
// Mutations stay on the REST surface.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lng": &graphql.Field{Type: graphql.Float},
			"lat": &graphql.Field{Type: graphql.Float},
		},
	})

	chipSpecType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ChipSpec",
		Fields: graphql.Fields{
			"size_meters":       &graphql.Field{Type: graphql.Float},
			"size_pixels":       &graphql.Field{Type: graphql.Int},
			"resolution_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	chipType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Chip",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"type":       &graphql.Field{Type: graphql.String},
			"center":     &graphql.Field{Type: geoPointType},
			"ring":       &graphql.Field{Type: graphql.NewList(geoPointType)},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	polygonType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AnnotationPolygon",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"chip_id":    &graphql.Field{Type: graphql.String},
			"ring":       &graphql.Field{Type: graphql.NewList(geoPointType)},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	labelSetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LabelSet",
		Fields: graphql.Fields{
			"chips":    &graphql.Field{Type: graphql.NewList(chipType)},
			"polygons": &graphql.Field{Type: graphql.NewList(polygonType)},
		},
	})

	chipToMap := func(c *domain.Chip) map[string]interface{} {
		ring := make([]domain.GeoPoint, len(c.Geometry.Ring))
		copy(ring, c.Geometry.Ring)
		return map[string]interface{}{
			"id":         c.ID,
			"type":       string(c.Type),
			"center":     c.Center,
			"ring":       ring,
			"created_at": c.CreatedAt,
		}
	}

	polygonToMap := func(p *domain.AnnotationPolygon) map[string]interface{} {
		ring := make([]domain.GeoPoint, len(p.Geometry.Ring))
		copy(ring, p.Geometry.Ring)
		return map[string]interface{}{
			"id":         p.ID,
			"chip_id":    p.ChipID,
			"ring":       ring,
			"created_at": p.CreatedAt,
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"chipSpec": &graphql.Field{
				Type:        chipSpecType,
				Description: "The fixed chip specification of this deployment",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					spec := deps.Grid.Spec()
					return map[string]interface{}{
						"size_meters":       spec.SizeMeters,
						"size_pixels":       spec.SizePixels,
						"resolution_meters": spec.ResolutionMeters,
					}, nil
				},
			},
			"snap": &graphql.Field{
				Type:        geoPointType,
				Description: "Align a point to the chip-center lattice",
				Args: graphql.FieldConfigArgument{
					"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lng := p.Args["lng"].(float64)
					lat := p.Args["lat"].(float64)
					return deps.Grid.Snap(domain.GeoPoint{Lng: lng, Lat: lat})
				},
			},
			"labels": &graphql.Field{
				Type:        labelSetType,
				Description: "A project's full label set",
				Args: graphql.FieldConfigArgument{
					"projectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					projectID := p.Args["projectId"].(int)
					set, err := deps.Labels.GetLabels(p.Context, projectID)
					if err != nil {
						return nil, err
					}
					chips := make([]map[string]interface{}, 0, len(set.Chips))
					for i := range set.Chips {
						chips = append(chips, chipToMap(&set.Chips[i]))
					}
					polygons := make([]map[string]interface{}, 0, len(set.Polygons))
					for i := range set.Polygons {
						polygons = append(polygons, polygonToMap(&set.Polygons[i]))
					}
					return map[string]interface{}{
						"chips":    chips,
						"polygons": polygons,
					}, nil
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
