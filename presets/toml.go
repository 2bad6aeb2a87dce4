package presets

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/tigermap/styling"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/jamesrr39/tigermap/tigermapdal"
	"github.com/jamesrr39/tigermap/tigermapexport"
	"github.com/jamesrr39/tigermap/tigermaprenderer"
	"github.com/paulmach/orb"
)

// presetFile is the on-disk TOML shape of a preset. Colours are hex
// strings ("#rrggbb" or "#rrggbbaa") and get converted on load.
type presetFile struct {
	Name           string     `toml:"name"`
	Title          string     `toml:"title"`
	TitleSize      float64    `toml:"title_size"`
	WidthInches    float64    `toml:"width_inches"`
	HeightInches   float64    `toml:"height_inches"`
	DPI            int        `toml:"dpi"`
	CRS            string     `toml:"crs"`
	Extent         []float64  `toml:"extent"` // min_lon, min_lat, max_lon, max_lat
	BufferFraction float64    `toml:"buffer_fraction"`
	Formats        []string   `toml:"formats"`
	County         countyFile `toml:"county"`
	Roads          roadsFile  `toml:"roads"`
	POI            poiFile    `toml:"poi"`
	Legend         legendFile `toml:"legend"`
}

type countyFile struct {
	Names      []string `toml:"names"`
	StateFP    string   `toml:"statefp"`
	Palette    []string `toml:"palette"`
	FillColor  string   `toml:"fill_color"`
	EdgeColor  string   `toml:"edge_color"`
	EdgeWidth  float64  `toml:"edge_width"`
	Opacity    float64  `toml:"opacity"`
	LabelField string   `toml:"label_field"`
	LabelSize  float64  `toml:"label_size"`
}

type roadsFile struct {
	Color      string            `toml:"color"`
	ColorField string            `toml:"color_field"`
	ColorMap   map[string]string `toml:"color_map"`
	Width      float64           `toml:"width"`
	Opacity    float64           `toml:"opacity"`
	LabelField string            `toml:"label_field"`
	LabelSize  float64           `toml:"label_size"`
	MaxLabels  int               `toml:"max_labels"`
	DedupField string            `toml:"dedup_field"`
}

type poiFile struct {
	Color      string  `toml:"color"`
	Marker     string  `toml:"marker"`
	Size       float64 `toml:"size"`
	Opacity    float64 `toml:"opacity"`
	LabelField string  `toml:"label_field"`
	LabelSize  float64 `toml:"label_size"`
}

type legendFile struct {
	Title    string            `toml:"title"`
	TextSize float64           `toml:"text_size"`
	Entries  []legendEntryFile `toml:"entries"`
}

type legendEntryFile struct {
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// LoadFromTOML reads one preset definition file.
func LoadFromTOML(fs gofs.Fs, path string) (*Preset, errorsx.Error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorsx.Wrap(tigermapdal.ErrNotFound, "path", path)
		}
		return nil, errorsx.Wrap(err, "path", path)
	}

	var file presetFile
	err = toml.Unmarshal(data, &file)
	if err != nil {
		return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "path", path, "parseError", err.Error())
	}

	preset, buildErr := file.toPreset()
	if buildErr != nil {
		return nil, errorsx.Wrap(buildErr, "path", path)
	}

	return preset, nil
}

// LoadDir loads every *.toml file in dir, merged over the builtin presets.
// A file preset with a builtin's name replaces the builtin.
func LoadDir(fs gofs.Fs, dir string) (map[string]*Preset, errorsx.Error) {
	presetsByName := Builtin()

	entries, err := fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return presetsByName, nil
		}
		return nil, errorsx.Wrap(err, "dir", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		preset, loadErr := LoadFromTOML(fs, filepath.Join(dir, entry.Name()))
		if loadErr != nil {
			return nil, loadErr
		}
		presetsByName[preset.Name] = preset
	}

	return presetsByName, nil
}

func (file *presetFile) toPreset() (*Preset, errorsx.Error) {
	if file.Name == "" {
		return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "reason", "preset has no name")
	}

	preset := &Preset{
		Name:           file.Name,
		Title:          file.Title,
		TitleSize:      file.TitleSize,
		WidthInches:    file.WidthInches,
		HeightInches:   file.HeightInches,
		DPI:            file.DPI,
		CRS:            tigermap.CRS(file.CRS),
		BufferFraction: file.BufferFraction,
	}

	if preset.CRS == "" {
		preset.CRS = tigermap.CRSWGS84
	}

	if len(file.Extent) != 0 {
		if len(file.Extent) != 4 {
			return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "reason", fmt.Sprintf("extent needs 4 values, got %d", len(file.Extent)))
		}
		extent := orb.Bound{
			Min: orb.Point{file.Extent[0], file.Extent[1]},
			Max: orb.Point{file.Extent[2], file.Extent[3]},
		}
		preset.Extent = &extent
	}

	for _, formatName := range file.Formats {
		format, err := tigermapexport.ParseFormat(formatName)
		if err != nil {
			return nil, err
		}
		preset.Formats = append(preset.Formats, format)
	}

	err := file.County.apply(preset)
	if err != nil {
		return nil, err
	}
	err = file.Roads.apply(preset)
	if err != nil {
		return nil, err
	}
	err = file.POI.apply(preset)
	if err != nil {
		return nil, err
	}
	err = file.Legend.apply(preset)
	if err != nil {
		return nil, err
	}

	return preset, nil
}

func (c *countyFile) apply(preset *Preset) errorsx.Error {
	preset.CountyNames = c.Names
	preset.CountyStateFP = c.StateFP

	var fill styling.ColorRule
	switch {
	case len(c.Palette) != 0:
		palette, err := parsePalette(c.Palette)
		if err != nil {
			return err
		}
		fill = &styling.RoundRobinByGroup{Field: tigermapdal.AttributeName, Palette: palette}
	case c.FillColor != "":
		fillColor, err := parseHexColor(c.FillColor)
		if err != nil {
			return err
		}
		fill = &styling.ConstantColor{Color: fillColor}
	default:
		fill = &styling.RoundRobinByGroup{Field: tigermapdal.AttributeName, Palette: styling.CountyPalette}
	}

	edgeColor := color.Color(styling.CountyEdgeColor)
	if c.EdgeColor != "" {
		parsed, err := parseHexColor(c.EdgeColor)
		if err != nil {
			return err
		}
		edgeColor = parsed
	}

	preset.CountyStyle = &styling.PolygonStyle{
		Fill:      fill,
		EdgeColor: edgeColor,
		EdgeWidth: valueOrDefault(c.EdgeWidth, 0.5),
		Opacity:   valueOrDefault(c.Opacity, 1),
	}

	if c.LabelField != "" {
		preset.CountyLabelField = c.LabelField
		preset.CountyLabelStyle = &styling.LabelStyle{
			TextColor:  color.Black,
			TextSize:   valueOrDefault(c.LabelSize, 12),
			Background: color.NRGBA{0xff, 0xff, 0xff, 0xb2},
			EdgeColor:  color.Gray{0x80},
		}
	}

	return nil
}

func (r *roadsFile) apply(preset *Preset) errorsx.Error {
	var rule styling.ColorRule
	switch {
	case r.ColorField != "":
		mapping := make(map[string]color.Color, len(r.ColorMap))
		for value, hex := range r.ColorMap {
			parsed, err := parseHexColor(hex)
			if err != nil {
				return err
			}
			mapping[value] = parsed
		}
		rule = &styling.AttributeMap{
			Field:   r.ColorField,
			Mapping: mapping,
			Default: styling.HighwayGray,
		}
	case r.Color != "":
		parsed, err := parseHexColor(r.Color)
		if err != nil {
			return err
		}
		rule = &styling.ConstantColor{Color: parsed}
	default:
		rule = &styling.ConstantColor{Color: styling.HighwayGray}
	}

	preset.RoadStyle = &styling.LineStyle{
		Color:   rule,
		Width:   valueOrDefault(r.Width, 1),
		Opacity: valueOrDefault(r.Opacity, 1),
	}

	if r.LabelField != "" {
		preset.RoadLabelField = r.LabelField
		preset.RoadLabelStyle = &styling.LabelStyle{
			TextColor: color.White,
			TextSize:  valueOrDefault(r.LabelSize, 9),
		}
		preset.RoadLabelBackground = rule
		preset.MaxRoadLabels = r.MaxLabels
	}

	preset.DedupLinesByField = r.DedupField

	return nil
}

func (p *poiFile) apply(preset *Preset) errorsx.Error {
	poiColor := color.Color(styling.POIGreen)
	if p.Color != "" {
		parsed, err := parseHexColor(p.Color)
		if err != nil {
			return err
		}
		poiColor = parsed
	}

	marker := styling.MarkerSymbol(p.Marker)
	if marker == "" {
		marker = styling.MarkerStar
	}

	preset.POIStyle = &styling.PointStyle{
		Color:      poiColor,
		Marker:     marker,
		Size:       valueOrDefault(p.Size, 8),
		Opacity:    valueOrDefault(p.Opacity, 1),
		LabelField: p.LabelField,
		LabelSize:  valueOrDefault(p.LabelSize, 9),
	}

	return nil
}

func (l *legendFile) apply(preset *Preset) errorsx.Error {
	preset.LegendTitle = l.Title
	preset.LegendTextSize = valueOrDefault(l.TextSize, 12)

	for _, entry := range l.Entries {
		entryColor, err := parseHexColor(entry.Color)
		if err != nil {
			return err
		}
		preset.Legend = append(preset.Legend, tigermaprenderer.LegendEntry{
			Label: entry.Label,
			Color: entryColor,
		})
	}

	return nil
}

func parsePalette(hexes []string) ([]color.Color, errorsx.Error) {
	palette := make([]color.Color, 0, len(hexes))
	for _, hex := range hexes {
		parsed, err := parseHexColor(hex)
		if err != nil {
			return nil, err
		}
		palette = append(palette, parsed)
	}
	return palette, nil
}

// parseHexColor accepts "#rrggbb" and "#rrggbbaa".
func parseHexColor(hex string) (color.Color, errorsx.Error) {
	trimmed := strings.TrimPrefix(hex, "#")

	var r, g, b uint8
	a := uint8(0xff)

	switch len(trimmed) {
	case 6:
		_, err := fmt.Sscanf(trimmed, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "color", hex)
		}
	case 8:
		_, err := fmt.Sscanf(trimmed, "%02x%02x%02x%02x", &r, &g, &b, &a)
		if err != nil {
			return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "color", hex)
		}
	default:
		return nil, errorsx.Wrap(tigermapdal.ErrInvalidData, "color", hex)
	}

	return color.NRGBA{r, g, b, a}, nil
}

func valueOrDefault(value, defaultValue float64) float64 {
	if value == 0 {
		return defaultValue
	}
	return value
}
