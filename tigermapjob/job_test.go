package tigermapjob

import (
	"context"
	"io/ioutil"
	"testing"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/tigermap/presets"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T, preset *presets.Preset, options Options) *Job {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelError)
	pathsConfig := &tigermapdal.PathsConfig{
		ShapefilesDir: t.TempDir(),
		OutputDir:     t.TempDir(),
	}
	tracer := tracing.NewTracer(ioutil.Discard)

	return NewJob(logger, gofs.NewOsFs(), pathsConfig, tracer, preset, options)
}

func tracedContext(job *Job) context.Context {
	trace := tracing.StartTrace(job.tracer, "test")
	ctx := context.WithValue(context.Background(), tracing.TraceCtxKey, trace)
	return context.WithValue(ctx, tracing.TracerCtxKey, job.tracer)
}

func Test_Run_missingShapefile(t *testing.T) {
	job := newTestJob(t, presets.SoCal(), Options{})

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, tigermapdal.ErrNotFound, errorsx.Cause(err))
}

func Test_loadPOIs_defaultRecordsFilteredToWindow(t *testing.T) {
	job := newTestJob(t, presets.ContinentalUS(), Options{})
	ctx := tracedContext(job)

	// window covering only Southern California
	extent := orb.Bound{Min: orb.Point{-119, 33}, Max: orb.Point{-117, 35}}

	pois, err := job.loadPOIs(ctx, extent)
	require.NoError(t, err)

	require.Len(t, pois.Records, 1)
	assert.Equal(t, "Islamic Center of Southern California", pois.Records[0].Attributes[tigermapdal.POIFieldName])
}

func Test_loadPOIs_explicitRecordsWinOverDefaults(t *testing.T) {
	records := []*tigermapdal.PointRecord{
		{Name: "Test Point", Latitude: 34, Longitude: -118},
	}
	job := newTestJob(t, presets.ContinentalUS(), Options{POIRecords: records})
	ctx := tracedContext(job)

	pois, err := job.loadPOIs(ctx, orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}})
	require.NoError(t, err)

	require.Len(t, pois.Records, 1)
	assert.Equal(t, "Test Point", pois.Records[0].Attributes[tigermapdal.POIFieldName])
}

func Test_render_buildsCanvasFromLayers(t *testing.T) {
	preset := presets.SoCal()
	job := newTestJob(t, preset, Options{Title: "Override Title"})
	ctx := tracedContext(job)

	extent := orb.Bound{Min: orb.Point{-119, 33}, Max: orb.Point{-117, 35}}

	counties := countySquareLayer()
	roads := roadLayer()

	pois, err := job.loadPOIs(ctx, extent)
	require.NoError(t, err)

	canvas, err := job.render(ctx, counties, roads, pois, extent)
	require.NoError(t, err)
	defer canvas.Close()

	assert.Equal(t, preset.WidthInches, canvas.WidthInches())
	assert.Equal(t, preset.DPI, canvas.DPI())
}

func countySquareLayer() *tigermap.Layer {
	return tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		{
			Geometry: orb.Polygon{orb.Ring{
				{-119, 33}, {-117, 33}, {-117, 35}, {-119, 35}, {-119, 33},
			}},
			Attributes: map[string]string{
				tigermapdal.AttributeName:    "Los Angeles",
				tigermapdal.AttributeStateFP: "06",
			},
		},
	})
}

func roadLayer() *tigermap.Layer {
	return tigermap.NewLayer(tigermap.CRSWGS84, []*tigermap.Record{
		{
			Geometry: orb.LineString{{-118.5, 33.5}, {-118, 34}, {-117.5, 34.5}},
			Attributes: map[string]string{
				tigermapdal.AttributeFullName: "I-10",
				tigermapdal.AttributeRouteTyp: "I",
			},
		},
	})
}
