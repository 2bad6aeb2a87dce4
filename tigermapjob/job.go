package tigermapjob

import (
	"context"
	"path/filepath"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/tigermap/presets"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jamesrr39/tigermap/tigermapdal/poipostgresql"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/jamesrr39/tigermap/tigermaprenderer"
	"github.com/paulmach/orb"
)

// TIGER/Line 2023 national layer file names.
const (
	CountiesShapefileName = "tl_2023_us_county.shp"
	RoadsShapefileName    = "tl_2023_us_primaryroads.shp"
)

// DefaultPOIRecords is the sample point set used when no CSV or database
// source is given.
var DefaultPOIRecords = []*tigermapdal.PointRecord{
	{Name: "Islamic Center of Greater Cincinnati", Latitude: 39.1031, Longitude: -84.5120},
	{Name: "Masjid Al-Noor", Latitude: 40.7128, Longitude: -74.0060},
	{Name: "Islamic Society of Boston", Latitude: 42.3601, Longitude: -71.0589},
	{Name: "Dar Al-Hijrah", Latitude: 38.9072, Longitude: -77.0369},
	{Name: "Islamic Center of Southern California", Latitude: 34.0522, Longitude: -118.2437},
	{Name: "Masjid Al-Farah", Latitude: 41.8781, Longitude: -87.6298},
	{Name: "Islamic Center of Nashville", Latitude: 36.1627, Longitude: -86.7816},
	{Name: "Masjid Al-Islam", Latitude: 33.4484, Longitude: -112.0740},
	{Name: "Islamic Center of Detroit", Latitude: 42.3314, Longitude: -83.0458},
	{Name: "Masjid Al-Taqwa", Latitude: 29.7604, Longitude: -95.3698},
}

// PostgresPOISource points at a table with name/latitude/longitude columns.
type PostgresPOISource struct {
	ConnString string
	TableName  string
}

// Options tweaks one run of a preset without editing the preset itself.
type Options struct {
	// BaseName is the artifact file name without extension. Defaults to
	// the preset name.
	BaseName string

	// Title overrides the preset title when non-empty.
	Title string

	// POI sources, tried in this order: Postgres, CSV path, then records
	// (DefaultPOIRecords when all are unset).
	POIPostgres *PostgresPOISource
	POICSVPath  string
	POIRecords  []*tigermapdal.PointRecord

	// Formats overrides the preset's output formats when non-empty.
	Formats []tigermapexport.Format
}

// Job drives one complete pipeline run: load, filter, reproject, render,
// export.
type Job struct {
	logger      *logpkg.Logger
	fs          gofs.Fs
	pathsConfig *tigermapdal.PathsConfig
	tracer      *tracing.Tracer
	preset      *presets.Preset
	options     Options
}

func NewJob(logger *logpkg.Logger, fs gofs.Fs, pathsConfig *tigermapdal.PathsConfig, tracer *tracing.Tracer, preset *presets.Preset, options Options) *Job {
	return &Job{
		logger:      logger,
		fs:          fs,
		pathsConfig: pathsConfig,
		tracer:      tracer,
		preset:      preset,
		options:     options,
	}
}

// Run executes every stage and returns the written artifacts.
func (job *Job) Run(ctx context.Context) ([]*tigermapexport.ArtifactInfo, errorsx.Error) {
	trace := tracing.StartTrace(job.tracer, "render "+job.preset.Name)
	ctx = context.WithValue(ctx, tracing.TraceCtxKey, trace)
	ctx = context.WithValue(ctx, tracing.TracerCtxKey, job.tracer)
	defer func() {
		err := job.tracer.EndTrace(trace, "")
		if err != nil {
			job.logger.Warn("could not finish trace: %s", err)
		}
	}()

	counties, extent, err := job.loadCounties(ctx)
	if err != nil {
		return nil, err
	}

	roads, err := job.loadRoads(ctx, extent)
	if err != nil {
		return nil, err
	}

	pois, err := job.loadPOIs(ctx, extent)
	if err != nil {
		return nil, err
	}

	canvas, err := job.render(ctx, counties, roads, pois, extent)
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	return job.export(ctx, canvas)
}

// loadCounties loads, reprojects and filters the county layer, and decides
// the map's coordinate window: the preset's fixed extent when set,
// otherwise the filtered counties' total bounds.
func (job *Job) loadCounties(ctx context.Context) (*tigermap.Layer, orb.Bound, errorsx.Error) {
	span := tracing.StartSpan(ctx, "load counties")
	defer span.End(ctx)

	path := filepath.Join(job.pathsConfig.ShapefilesDir, CountiesShapefileName)
	job.logger.Info("loading counties from %q", path)

	counties, err := tigermapdal.LoadPolygonLayer(job.fs, path)
	if err != nil {
		return nil, orb.Bound{}, errorsx.Wrap(err, "path", path)
	}

	counties, err = tigermapdal.Reproject(counties, job.preset.CRS)
	if err != nil {
		return nil, orb.Bound{}, err
	}

	if job.preset.CountyStateFP != "" || len(job.preset.CountyNames) != 0 {
		wantedNames := make(map[string]bool, len(job.preset.CountyNames))
		for _, name := range job.preset.CountyNames {
			wantedNames[name] = true
		}

		counties = tigermapdal.FilterByAttribute(counties, func(attributes map[string]string) bool {
			if job.preset.CountyStateFP != "" && attributes[tigermapdal.AttributeStateFP] != job.preset.CountyStateFP {
				return false
			}
			if len(wantedNames) != 0 && !wantedNames[attributes[tigermapdal.AttributeName]] {
				return false
			}
			return true
		})
	}

	job.logger.Info("%d counties after filtering", len(counties.Records))

	var extent orb.Bound
	if job.preset.Extent != nil {
		extent, err = tigermapdal.ReprojectBound(*job.preset.Extent, tigermap.CRSWGS84, job.preset.CRS)
		if err != nil {
			return nil, orb.Bound{}, err
		}
		counties = tigermapdal.FilterByBBox(counties, extent, 0)
	} else {
		if !counties.HasGeometries() {
			return nil, orb.Bound{}, errorsx.Wrap(tigermapdal.ErrInvalidData, "reason", "no counties matched the preset filters")
		}
		extent = counties.TotalBounds()
	}

	return counties, extent, nil
}

func (job *Job) loadRoads(ctx context.Context, extent orb.Bound) (*tigermap.Layer, errorsx.Error) {
	span := tracing.StartSpan(ctx, "load roads")
	defer span.End(ctx)

	path := filepath.Join(job.pathsConfig.ShapefilesDir, RoadsShapefileName)
	job.logger.Info("loading primary roads from %q", path)

	roads, err := tigermapdal.LoadLineLayer(job.fs, path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	roads, err = tigermapdal.Reproject(roads, job.preset.CRS)
	if err != nil {
		return nil, err
	}

	roads = tigermapdal.FilterByBBox(roads, tigermap.ExpandBoundByFraction(extent, job.preset.BufferFraction), 0)

	if job.preset.DedupLinesByField != "" {
		roads = tigermapdal.DedupByAttribute(roads, job.preset.DedupLinesByField)
	}

	job.logger.Info("%d road features in window", len(roads.Records))

	return roads, nil
}

func (job *Job) loadPOIs(ctx context.Context, extent orb.Bound) (*tigermap.Layer, errorsx.Error) {
	span := tracing.StartSpan(ctx, "load POIs")
	defer span.End(ctx)

	var pois *tigermap.Layer
	var err errorsx.Error

	switch {
	case job.options.POIPostgres != nil:
		job.logger.Info("loading POIs from postgres table %q", job.options.POIPostgres.TableName)
		pois, err = poipostgresql.LoadPoints(job.options.POIPostgres.ConnString, job.options.POIPostgres.TableName)
	case job.options.POICSVPath != "":
		job.logger.Info("loading POIs from %q", job.options.POICSVPath)
		pois, err = tigermapdal.LoadPointsFromCSV(job.fs, job.options.POICSVPath)
	case len(job.options.POIRecords) != 0:
		pois, err = tigermapdal.LoadPointsFromRecords(job.options.POIRecords)
	default:
		pois, err = tigermapdal.LoadPointsFromRecords(DefaultPOIRecords)
	}
	if err != nil {
		return nil, err
	}

	pois, err = tigermapdal.Reproject(pois, job.preset.CRS)
	if err != nil {
		return nil, err
	}

	pois = tigermapdal.FilterByBBox(pois, tigermap.ExpandBoundByFraction(extent, job.preset.BufferFraction), 0)

	job.logger.Info("%d POIs in window", len(pois.Records))

	return pois, nil
}

func (job *Job) render(ctx context.Context, counties, roads, pois *tigermap.Layer, extent orb.Bound) (*tigermaprenderer.Canvas, errorsx.Error) {
	span := tracing.StartSpan(ctx, "render")
	defer span.End(ctx)

	preset := job.preset

	canvas, err := tigermaprenderer.NewCanvas(preset.WidthInches, preset.HeightInches, preset.DPI)
	if err != nil {
		return nil, err
	}

	err = canvas.SetExtent(extent, preset.BufferFraction)
	if err != nil {
		canvas.Close()
		return nil, err
	}

	title := preset.Title
	if job.options.Title != "" {
		title = job.options.Title
	}

	// z-order, bottom first
	steps := []tigermaprenderer.RenderStep{
		func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.DrawPolygons(c, counties, preset.CountyStyle)
		},
		func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.DrawLines(c, roads, preset.RoadStyle)
		},
		func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.DrawPoints(c, pois, preset.POIStyle)
		},
	}

	if preset.CountyLabelField != "" {
		steps = append(steps, func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.LabelPolygonCentroids(c, counties, preset.CountyLabelField, preset.CountyLabelStyle)
		})
	}

	if preset.RoadLabelField != "" {
		steps = append(steps, func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.LabelLines(c, roads, preset.RoadLabelField, preset.RoadLabelStyle, preset.RoadLabelBackground, preset.MaxRoadLabels)
		})
	}

	if len(preset.Legend) != 0 {
		steps = append(steps, func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.DrawLegend(c, preset.LegendTitle, preset.Legend, preset.LegendTextSize)
		})
	}

	if title != "" {
		steps = append(steps, func(c *tigermaprenderer.Canvas) errorsx.Error {
			return tigermaprenderer.AddTitle(c, title, preset.TitleSize)
		})
	}

	err = tigermaprenderer.Render(canvas, steps)
	if err != nil {
		canvas.Close()
		return nil, err
	}

	return canvas, nil
}

func (job *Job) export(ctx context.Context, canvas *tigermaprenderer.Canvas) ([]*tigermapexport.ArtifactInfo, errorsx.Error) {
	span := tracing.StartSpan(ctx, "export")
	defer span.End(ctx)

	baseName := job.options.BaseName
	if baseName == "" {
		baseName = job.preset.Name
	}

	formats := job.preset.Formats
	if len(job.options.Formats) != 0 {
		formats = job.options.Formats
	}

	exporter := tigermapexport.NewExporter(job.fs, job.logger, job.pathsConfig.OutputDir)

	return exporter.ExportAll(canvas, baseName, formats)
}
