package presets

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Builtin(t *testing.T) {
	builtins := Builtin()

	require.Contains(t, builtins, "continental-us")
	require.Contains(t, builtins, "socal")

	socal := builtins["socal"]
	assert.Equal(t, tigermap.CRSWGS84, socal.CRS)
	assert.Len(t, socal.CountyNames, 4)
	assert.Equal(t, "06", socal.CountyStateFP)
	assert.NotNil(t, socal.RoadLabelBackground)
	assert.Equal(t, 12, socal.MaxRoadLabels)

	continental := builtins["continental-us"]
	require.NotNil(t, continental.Extent)
	assert.Empty(t, continental.CountyNames, "country-wide preset keeps every county")
	assert.Empty(t, continental.CountyLabelField)
}

const testPresetTOML = `
name = "bay-area"
title = "Bay Area"
title_size = 30
width_inches = 20
height_inches = 20
dpi = 200
buffer_fraction = 0.1
formats = ["png", "svg"]

[county]
names = ["Alameda", "San Francisco", "San Mateo"]
statefp = "06"
edge_color = "#999999"
edge_width = 0.4
label_field = "NAME"
label_size = 14

[roads]
color_field = "RTTYP"
width = 1.5
label_field = "FULLNAME"
max_labels = 8
dedup_field = "FULLNAME"

[roads.color_map]
I = "#ff0000"
U = "#0066cc"

[poi]
color = "#228b22"
marker = "circle"
size = 7
label_field = "name"

[legend]
title = "Routes"
text_size = 12

[[legend.entries]]
label = "Interstate"
color = "#ff0000"
`

func Test_LoadFromTOML(t *testing.T) {
	fs := gofs.NewOsFs()
	path := filepath.Join(t.TempDir(), "bay-area.toml")
	require.NoError(t, fs.WriteFile(path, []byte(testPresetTOML), 0644))

	preset, err := LoadFromTOML(fs, path)
	require.NoError(t, err)

	assert.Equal(t, "bay-area", preset.Name)
	assert.Equal(t, "Bay Area", preset.Title)
	assert.Equal(t, 20.0, preset.WidthInches)
	assert.Equal(t, 200, preset.DPI)
	assert.Equal(t, tigermap.CRSWGS84, preset.CRS, "crs defaults to WGS84")
	assert.Nil(t, preset.Extent)
	assert.Equal(t, []tigermapexport.Format{tigermapexport.FormatPNG, tigermapexport.FormatSVG}, preset.Formats)

	assert.Equal(t, []string{"Alameda", "San Francisco", "San Mateo"}, preset.CountyNames)
	assert.Equal(t, "NAME", preset.CountyLabelField)
	require.NotNil(t, preset.CountyLabelStyle)
	assert.Equal(t, 14.0, preset.CountyLabelStyle.TextSize)

	require.NotNil(t, preset.RoadStyle)
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, preset.RoadStyle.Color.Resolve(map[string]string{"RTTYP": "I"}))
	assert.Equal(t, 8, preset.MaxRoadLabels)
	assert.Equal(t, "FULLNAME", preset.DedupLinesByField)

	require.NotNil(t, preset.POIStyle)
	assert.Equal(t, "name", preset.POIStyle.LabelField)

	require.Len(t, preset.Legend, 1)
	assert.Equal(t, "Interstate", preset.Legend[0].Label)
}

func Test_LoadFromTOML_missingFile(t *testing.T) {
	fs := gofs.NewOsFs()

	_, err := LoadFromTOML(fs, filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Equal(t, tigermapdal.ErrNotFound, errorsx.Cause(err))
}

func Test_LoadFromTOML_badColor(t *testing.T) {
	fs := gofs.NewOsFs()
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, fs.WriteFile(path, []byte("name = \"bad\"\n\n[roads]\ncolor = \"not-a-color\"\n"), 0644))

	_, err := LoadFromTOML(fs, path)
	require.Error(t, err)
	assert.Equal(t, tigermapdal.ErrInvalidData, errorsx.Cause(err))
}

func Test_LoadDir_mergesOverBuiltins(t *testing.T) {
	fs := gofs.NewOsFs()
	dir := t.TempDir()

	override := "name = \"socal\"\ntitle = \"SoCal Override\"\nwidth_inches = 10\nheight_inches = 10\ndpi = 100\n"
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "socal.toml"), []byte(override), 0644))

	presetsByName, err := LoadDir(fs, dir)
	require.NoError(t, err)

	require.Contains(t, presetsByName, "continental-us")
	assert.Equal(t, "SoCal Override", presetsByName["socal"].Title)
}

func Test_LoadDir_missingDirKeepsBuiltins(t *testing.T) {
	fs := gofs.NewOsFs()

	presetsByName, err := LoadDir(fs, filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)

	assert.Contains(t, presetsByName, "socal")
	assert.Contains(t, presetsByName, "continental-us")
}

func Test_parseHexColor(t *testing.T) {
	parsed, err := parseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0x80, 0x00, 0xff}, parsed)

	parsed, err = parseHexColor("ffffffb2")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xb2}, parsed)

	_, err = parseHexColor("#ff")
	require.Error(t, err)
}
