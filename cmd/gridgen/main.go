// gridgen resolves the chip coverage of a GeoJSON polygon offline and
// prints the covering chips as a FeatureCollection. Useful for sizing a
// labeling campaign before creating the project.
//
// Usage:
//
//	gridgen -in aoi.geojson [-out chips.geojson] [-size 2560] [-pixels 256] [-res 10] [-max 10000]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/geolabel/geolabel/internal/core/chipgrid"
	"github.com/geolabel/geolabel/internal/core/domain"
	"github.com/geolabel/geolabel/internal/core/geojson"
)

func main() {
	var (
		inPath   = flag.String("in", "", "input GeoJSON file (Polygon geometry or Feature), - for stdin")
		outPath  = flag.String("out", "", "output file (default stdout)")
		size     = flag.Float64("size", domain.DefaultChipSpec.SizeMeters, "chip size in meters")
		pixels   = flag.Int("pixels", domain.DefaultChipSpec.SizePixels, "chip size in pixels")
		res      = flag.Float64("res", domain.DefaultChipSpec.ResolutionMeters, "resolution in meters per pixel")
		maxChips = flag.Int("max", chipgrid.DefaultMaxChips, "maximum chips per resolution")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	poly, err := readPolygon(*inPath)
	if err != nil {
		log.Fatalf("read polygon: %v", err)
	}

	spec := domain.ChipSpec{SizeMeters: *size, SizePixels: *pixels, ResolutionMeters: *res}
	grid, err := chipgrid.New(spec, chipgrid.WithMaxChips(*maxChips))
	if err != nil {
		log.Fatalf("chip grid: %v", err)
	}

	chips, err := grid.Coverage(poly)
	if err != nil {
		log.Fatalf("coverage: %v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(geojson.CoverageCollection(chips)); err != nil {
		log.Fatalf("encode: %v", err)
	}

	fmt.Fprintf(os.Stderr, "%d chips\n", len(chips))
}

func readPolygon(path string) (domain.Polygon, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Polygon{}, err
	}

	var probe struct {
		Type     string            `json:"type"`
		Geometry *geojson.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Type == geojson.TypeFeature && probe.Geometry != nil {
		return geojson.ToPolygon(*probe.Geometry)
	}

	var g geojson.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return domain.Polygon{}, err
	}
	return geojson.ToPolygon(g)
}
