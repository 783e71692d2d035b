package http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/geolabel/geolabel/internal/core/domain"
	"github.com/geolabel/geolabel/internal/core/geojson"
	"github.com/geolabel/geolabel/internal/pkg/metrics"
)

// chipView is the wire representation of a chip: GeoJSON geometry plus
// labeling metadata.
type chipView struct {
	ID        string           `json:"id"`
	Geometry  geojson.Geometry `json:"geometry"`
	Center    domain.GeoPoint  `json:"center"`
	Type      domain.ChipType  `json:"type"`
	CreatedAt string           `json:"created_at,omitempty"`
}

type polygonView struct {
	ID        string           `json:"id"`
	ChipID    string           `json:"chip_id"`
	Geometry  geojson.Geometry `json:"geometry"`
	CreatedAt string           `json:"created_at,omitempty"`
}

type labelsView struct {
	Chips    []chipView    `json:"chips"`
	Polygons []polygonView `json:"polygons"`
}

func toChipView(c *domain.Chip) chipView {
	v := chipView{
		ID:       c.ID,
		Geometry: geojson.FromPolygon(c.Geometry),
		Center:   c.Center,
		Type:     c.Type,
	}
	if !c.CreatedAt.IsZero() {
		v.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func toPolygonView(p *domain.AnnotationPolygon) polygonView {
	v := polygonView{
		ID:       p.ID,
		ChipID:   p.ChipID,
		Geometry: geojson.FromPolygon(p.Geometry),
	}
	if !p.CreatedAt.IsZero() {
		v.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func toLabelsView(set *domain.LabelSet) labelsView {
	view := labelsView{Chips: []chipView{}, Polygons: []polygonView{}}
	for i := range set.Chips {
		view.Chips = append(view.Chips, toChipView(&set.Chips[i]))
	}
	for i := range set.Polygons {
		view.Polygons = append(view.Polygons, toPolygonView(&set.Polygons[i]))
	}
	return view
}

func fromLabelsView(view labelsView) (*domain.LabelSet, error) {
	set := &domain.LabelSet{}
	for _, cv := range view.Chips {
		geom, err := geojson.ToPolygon(cv.Geometry)
		if err != nil {
			return nil, err
		}
		chip := domain.Chip{ID: cv.ID, Geometry: geom, Center: cv.Center, Type: cv.Type}
		if cv.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, cv.CreatedAt); err == nil {
				chip.CreatedAt = t
			}
		}
		set.Chips = append(set.Chips, chip)
	}
	for _, pv := range view.Polygons {
		geom, err := geojson.ToPolygon(pv.Geometry)
		if err != nil {
			return nil, err
		}
		poly := domain.AnnotationPolygon{ID: pv.ID, ChipID: pv.ChipID, Geometry: geom}
		if pv.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, pv.CreatedAt); err == nil {
				poly.CreatedAt = t
			}
		}
		set.Polygons = append(set.Polygons, poly)
	}
	return set, nil
}

// queryFloat reads a required float query parameter.
func queryFloat(c *fiber.Ctx, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseGeometryBody accepts either a bare GeoJSON Polygon geometry or a
// Feature wrapping one.
func parseGeometryBody(body []byte) (domain.Polygon, error) {
	var probe struct {
		Type     string            `json:"type"`
		Geometry *geojson.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Type == geojson.TypeFeature && probe.Geometry != nil {
		return geojson.ToPolygon(*probe.Geometry)
	}

	var g geojson.Geometry
	if err := json.Unmarshal(body, &g); err != nil {
		return domain.Polygon{}, err
	}
	return geojson.ToPolygon(g)
}

// ChipSpecHandler returns the grid's chip specification.
func ChipSpecHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(deps.Grid.Spec())
	}
}

// SnapHandler aligns a point to the chip-center lattice.
func SnapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lng, okLng := queryFloat(c, "lng")
		lat, okLat := queryFloat(c, "lat")
		if !okLng || !okLat {
			return errBadRequest(c, "lng and lat query parameters are required")
		}

		snapped, err := deps.Grid.Snap(domain.GeoPoint{Lng: lng, Lat: lat})
		if err != nil {
			return errDomain(c, err)
		}

		metrics.SnapsTotal.Inc()
		return c.JSON(snapped)
	}
}

// ChipAtHandler returns the chip footprint at a point, snapped to the
// grid, as a GeoJSON feature.
func ChipAtHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lng, okLng := queryFloat(c, "lng")
		lat, okLat := queryFloat(c, "lat")
		if !okLng || !okLat {
			return errBadRequest(c, "lng and lat query parameters are required")
		}

		chip, err := deps.Grid.SnappedChip(domain.GeoPoint{Lng: lng, Lat: lat})
		if err != nil {
			return errDomain(c, err)
		}

		metrics.SnapsTotal.Inc()
		return c.JSON(geojson.Feature{
			Type:     geojson.TypeFeature,
			Geometry: geojson.FromPolygon(chip.Geometry),
			Properties: map[string]any{
				"center_lng": chip.Center.Lng,
				"center_lat": chip.Center.Lat,
			},
		})
	}
}

// CentersHandler enumerates chip centers within a bounding box.
func CentersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		minLng, ok1 := queryFloat(c, "min_lng")
		minLat, ok2 := queryFloat(c, "min_lat")
		maxLng, ok3 := queryFloat(c, "max_lng")
		maxLat, ok4 := queryFloat(c, "max_lat")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return errBadRequest(c, "min_lng, min_lat, max_lng and max_lat query parameters are required")
		}

		centers, err := deps.Grid.Centers(domain.BoundingBox{
			MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat,
		})
		if err != nil {
			return errDomain(c, err)
		}

		return c.JSON(fiber.Map{
			"count":   len(centers),
			"centers": centers,
		})
	}
}

// CoverageHandler resolves the chips intersecting a GeoJSON polygon and
// returns them as a FeatureCollection.
func CoverageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poly, err := parseGeometryBody(c.Body())
		if err != nil {
			metrics.CoverageResolutions.WithLabelValues("rejected").Inc()
			return errDomain(c, err)
		}

		start := time.Now()
		chips, err := deps.Grid.Coverage(c.Context(), poly)
		if err != nil {
			metrics.CoverageResolutions.WithLabelValues("rejected").Inc()
			return errDomain(c, err)
		}
		metrics.CoverageDuration.Observe(time.Since(start).Seconds())
		metrics.CoverageResolutions.WithLabelValues("ok").Inc()
		metrics.ChipsGenerated.Add(float64(len(chips)))

		return c.JSON(geojson.CoverageCollection(chips))
	}
}

// GetLabelsHandler returns a project's full label set.
func GetLabelsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		set, err := deps.Labels.GetLabels(c.Context(), projectID)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(toLabelsView(set))
	}
}

// SaveLabelsHandler replaces a project's entire label set.
func SaveLabelsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		var view labelsView
		if err := c.BodyParser(&view); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		set, err := fromLabelsView(view)
		if err != nil {
			return errDomain(c, err)
		}

		if err := deps.Labels.SaveLabels(c.Context(), projectID, set); err != nil {
			return errDomain(c, err)
		}

		metrics.LabelSaves.Inc()
		return c.JSON(fiber.Map{
			"chips":    len(set.Chips),
			"polygons": len(set.Polygons),
		})
	}
}

// ClearLabelsHandler removes every chip and polygon of a project.
func ClearLabelsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		if err := deps.Labels.ClearLabels(c.Context(), projectID); err != nil {
			return errDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PlaceChipHandler snaps a point onto the grid and creates a chip there.
func PlaceChipHandler(deps *Dependencies) fiber.Handler {
	type placeRequest struct {
		Lng  float64 `json:"lng"`
		Lat  float64 `json:"lat"`
		Type string  `json:"type"`
	}

	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		var req placeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		chip, err := deps.Labels.PlaceChip(c.Context(), projectID,
			domain.GeoPoint{Lng: req.Lng, Lat: req.Lat}, domain.ChipType(req.Type))
		if err != nil {
			return errDomain(c, err)
		}

		metrics.ChipsPlaced.WithLabelValues(string(chip.Type)).Inc()
		return c.Status(fiber.StatusCreated).JSON(toChipView(chip))
	}
}

// DeleteChipHandler removes a chip and its polygons.
func DeleteChipHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		if err := deps.Labels.DeleteChip(c.Context(), projectID, c.Params("chipID")); err != nil {
			return errDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddPolygonHandler attaches an annotation polygon to a positive chip.
func AddPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		geom, err := parseGeometryBody(c.Body())
		if err != nil {
			return errDomain(c, err)
		}

		poly, err := deps.Labels.AddPolygon(c.Context(), projectID, c.Params("chipID"), geom)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toPolygonView(poly))
	}
}

// DeletePolygonHandler removes a single annotation polygon.
func DeletePolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		if err := deps.Labels.DeletePolygon(c.Context(), projectID, c.Params("polygonID")); err != nil {
			return errDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FeaturesHandler exports a project's labels as a GeoJSON
// FeatureCollection, one layer at a time.
func FeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "project id must be an integer")
		}

		set, err := deps.Labels.GetLabels(c.Context(), projectID)
		if err != nil {
			return errDomain(c, err)
		}

		switch layer := c.Query("layer", "chips"); layer {
		case "chips":
			return c.JSON(geojson.ChipCollection(set.Chips))
		case "annotations":
			return c.JSON(geojson.AnnotationCollection(set.Polygons))
		default:
			return errBadRequest(c, "unknown layer: "+layer)
		}
	}
}
