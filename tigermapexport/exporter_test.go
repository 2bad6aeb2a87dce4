package tigermapexport

import (
	"image/color"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/tigermap/styling"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermaprenderer"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExporter(t *testing.T) *Exporter {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo)
	return NewExporter(gofs.NewOsFs(), logger, t.TempDir())
}

func newTestCanvas(t *testing.T) *tigermaprenderer.Canvas {
	canvas, err := tigermaprenderer.NewCanvas(8, 8, 150)
	require.NoError(t, err)

	layer := tigermap.NewLayer(tigermap.CRSWGS84, nil)
	layer.Records = append(layer.Records, &tigermap.Record{
		Geometry: orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
	})

	require.NoError(t, tigermaprenderer.DrawPolygons(canvas, layer, &styling.PolygonStyle{
		Fill:      &styling.ConstantColor{Color: color.RGBA{0xff, 0xe5, 0xcc, 0xff}},
		EdgeColor: color.Black,
		EdgeWidth: 1,
		Opacity:   1,
	}))

	return canvas
}

func Test_ParseFormat(t *testing.T) {
	for _, name := range []string{"png", "PNG", ".png", " png "} {
		format, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, FormatPNG, format)
	}

	_, err := ParseFormat("bmp")
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFormat, errorsx.Cause(err))
}

func Test_Export_png(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	artifact, err := exporter.Export(canvas, "test-map", FormatPNG)
	require.NoError(t, err)

	assert.Equal(t, "test-map.png", artifact.Name)
	assert.Equal(t, FormatPNG, artifact.Format)
	assert.True(t, artifact.SizeBytes > 0)
	assert.True(t, artifact.SizeMB > 0)

	fileInfo, statErr := gofs.NewOsFs().Stat(artifact.Path)
	require.NoError(t, statErr)
	assert.Equal(t, artifact.SizeBytes, fileInfo.Size())
}

func Test_Export_pdf(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	artifact, err := exporter.Export(canvas, "test-map", FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "test-map.pdf", artifact.Name)
	assert.Equal(t, FormatPDF, artifact.Format)
	assert.True(t, artifact.SizeBytes > 0)
}

func Test_SizeMBOf(t *testing.T) {
	assert.Equal(t, 0.0, SizeMBOf(0))
	assert.Equal(t, 1.0, SizeMBOf(1<<20))
	assert.Equal(t, 1.5, SizeMBOf(3<<19))
	// 1.2339... MB rounds to two decimal places
	assert.Equal(t, 1.23, SizeMBOf(1293943))
}

func Test_Export_svg(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	artifact, err := exporter.Export(canvas, "test-map", FormatSVG)
	require.NoError(t, err)

	assert.Equal(t, "test-map.svg", artifact.Name)
	assert.True(t, artifact.SizeBytes > 0)
}

func Test_Export_replacesExistingFile(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	first, err := exporter.Export(canvas, "test-map", FormatPNG)
	require.NoError(t, err)

	second, err := exporter.Export(canvas, "test-map", FormatPNG)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
}

func Test_Export_unsupportedFormat(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	_, err := exporter.Export(canvas, "test-map", Format("bmp"))
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedFormat, errorsx.Cause(err))
}

func Test_ExportAll_skipsUnsupportedFormats(t *testing.T) {
	exporter := newTestExporter(t)
	canvas := newTestCanvas(t)
	defer canvas.Close()

	artifacts, err := exporter.ExportAll(canvas, "test-map", []Format{FormatPNG, Format("bmp")})
	require.NoError(t, err)

	require.Len(t, artifacts, 1)
	assert.Equal(t, FormatPNG, artifacts[0].Format)
}
