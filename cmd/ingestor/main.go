package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jgoikoetxea/mileatlas/internal/adapters/postgres"
	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
	"github.com/jgoikoetxea/mileatlas/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// GPX types
// ---------------------------------------------------------------------------

type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Type     string       `xml:"type"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64   `xml:"lat,attr"`
	Lon  float64   `xml:"lon,attr"`
	Time time.Time `xml:"time"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ingestor <dir-or-file.gpx> [category]")
	}
	root := os.Args[1]

	category := ""
	if len(os.Args) > 2 {
		category = normalizeCategory(os.Args[2])
	}

	cfg, err := config.Load("mileatlas-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewRouteRepo(db)

	files, err := collectGPXFiles(root)
	if err != nil {
		log.Fatalf("scan %s: %v", root, err)
	}
	log.Printf("MileAtlas GPX Ingestor: %d files under %s", len(files), root)

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 files in flight

	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			n, km, err := ingestFile(ctx, repo, path, category, cfg.Aggregator.MaxGapMeters)
			if err != nil {
				log.Printf("ERROR [%s]: %v", filepath.Base(path), err)
				return
			}
			log.Printf("[%s] %d routes, %.2f km", filepath.Base(path), n, km)
		}(path)
	}

	wg.Wait()
	log.Println("ingestion complete")
}

// ---------------------------------------------------------------------------
// Per-file ingestion
// ---------------------------------------------------------------------------

// ingestFile parses one GPX file, splits its tracks on GPS gaps, and
// stores one route per resulting segment. Route IDs derive from the
// file name so re-running the ingestor upserts instead of duplicating.
func ingestFile(ctx context.Context, repo *postgres.RouteRepo, path, category string, maxGapMeters float64) (int, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read: %w", err)
	}

	var g gpxFile
	if err := xml.Unmarshal(data, &g); err != nil {
		return 0, 0, fmt.Errorf("parse gpx: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var routes []*domain.Route
	var totalKm float64

	for ti, track := range g.Tracks {
		cat := category
		if cat == "" {
			cat = normalizeCategory(track.Type)
		}

		for si, seg := range track.Segments {
			points := make([]domain.GeoPoint, 0, len(seg.Points))
			var first, last time.Time
			for _, p := range seg.Points {
				points = append(points, domain.GeoPoint{Lat: p.Lat, Lon: p.Lon})
				if !p.Time.IsZero() {
					if first.IsZero() {
						first = p.Time
					}
					last = p.Time
				}
			}

			recordedAt := first
			if recordedAt.IsZero() {
				recordedAt = time.Now().UTC()
			}
			var duration time.Duration
			if !first.IsZero() && last.After(first) {
				duration = last.Sub(first)
			}

			// Split on gaps: a dropout longer than the threshold ends
			// the current route and starts a new one.
			for pi, part := range domain.SegmentTrace(points, maxGapMeters) {
				route := &domain.Route{
					ID:         fmt.Sprintf("%s-%d-%d-%d", base, ti, si, pi),
					Points:     part,
					RecordedAt: recordedAt,
					Category:   cat,
					Duration:   duration,
				}
				routes = append(routes, route)
				totalKm += route.DistanceKm()
			}
		}
	}

	if len(routes) == 0 {
		return 0, 0, nil
	}
	if err := repo.InsertBatch(ctx, routes); err != nil {
		return 0, 0, fmt.Errorf("insert batch: %w", err)
	}
	return len(routes), totalKm, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func collectGPXFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".gpx") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func normalizeCategory(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "run", "running", "trail_running":
		return domain.CategoryRunning
	case "walk", "walking", "hike", "hiking":
		return domain.CategoryWalking
	case "bike", "biking", "cycle", "cycling", "ride":
		return domain.CategoryCycling
	default:
		return domain.CategoryOther
	}
}
