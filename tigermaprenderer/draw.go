package tigermaprenderer

import (
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/styling"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/llgcode/draw2d"
	"github.com/paulmach/orb"
)

// DrawPolygons records a fill+stroke draw of every polygon in the layer.
// The fill colour is resolved per feature from the style's colour rule.
func DrawPolygons(canvas *Canvas, layer *tigermap.Layer, style *styling.PolygonStyle) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	for _, record := range layer.Records {
		polygons, err := polygonsOf(record.Geometry)
		if err != nil {
			return err
		}

		fillColor := styling.ApplyOpacity(style.Fill.Resolve(record.Attributes), style.Opacity)
		edgeColor := styling.ApplyOpacity(style.EdgeColor, style.Opacity)
		edgeWidth := style.EdgeWidth

		for _, polygon := range polygons {
			polygon := polygon
			canvas.appendOp(polygon.Bound(), true, func(gc draw2d.GraphicContext, tr *transform) {
				gc.Save()
				gc.SetFillRule(draw2d.FillRuleEvenOdd)
				gc.SetFillColor(fillColor)
				if edgeColor != nil {
					gc.SetStrokeColor(edgeColor)
					gc.SetLineWidth(edgeWidth * tr.ppp)
				}

				gc.BeginPath()
				for _, ring := range polygon {
					tracePath(gc, tr, orb.LineString(ring))
					gc.Close()
				}

				if edgeColor != nil {
					gc.FillStroke()
				} else {
					gc.Fill()
				}
				gc.Restore()
			})
		}
	}

	return nil
}

// DrawLines records a stroke of every line feature. The colour rule may be
// constant, keyed by an attribute, or round-robin by a grouping attribute;
// resolution happens here, in record order, so round-robin assignment is
// deterministic.
func DrawLines(canvas *Canvas, layer *tigermap.Layer, style *styling.LineStyle) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	for _, record := range layer.Records {
		lines, err := lineStringsOf(record.Geometry)
		if err != nil {
			return err
		}

		lineColor := styling.ApplyOpacity(style.Color.Resolve(record.Attributes), style.Opacity)
		lineWidth := style.Width

		for _, line := range lines {
			line := line
			canvas.appendOp(line.Bound(), true, func(gc draw2d.GraphicContext, tr *transform) {
				gc.Save()
				gc.SetStrokeColor(lineColor)
				gc.SetLineWidth(lineWidth * tr.ppp)
				gc.SetLineCap(draw2d.RoundCap)
				gc.SetLineJoin(draw2d.RoundJoin)

				gc.BeginPath()
				tracePath(gc, tr, line)
				gc.Stroke()
				gc.Restore()
			})
		}
	}

	return nil
}

// DrawPoints records a marker per point, optionally followed by a text
// label from the style's label field, offset from the marker and anchored
// left/bottom.
func DrawPoints(canvas *Canvas, layer *tigermap.Layer, style *styling.PointStyle) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	for _, record := range layer.Records {
		point, ok := record.Geometry.(orb.Point)
		if !ok {
			return errorsx.Errorf("expected point geometry, got %T", record.Geometry)
		}

		markerColor := styling.ApplyOpacity(style.Color, style.Opacity)
		markerSize := style.Size
		marker := style.Marker

		canvas.appendOp(point.Bound(), true, func(gc draw2d.GraphicContext, tr *transform) {
			x, y := tr.toDevice(point)

			gc.Save()
			gc.SetFillColor(markerColor)
			gc.BeginPath()
			traceMarker(gc, marker, x, y, markerSize*tr.ppp)
			gc.Fill()
			gc.Restore()
		})

		if style.LabelField == "" {
			continue
		}

		labelText := record.Attributes[style.LabelField]
		if labelText == "" {
			continue
		}

		labelSize := style.LabelSize
		canvas.appendOp(point.Bound(), false, func(gc draw2d.GraphicContext, tr *transform) {
			x, y := tr.toDevice(point)

			// fixed pixel offset from the marker, anchored left/bottom
			offset := 5 * tr.ppp

			gc.Save()
			gc.SetFontSize(labelSize)

			left, top, right, bottom := gc.GetStringBounds(labelText)
			pad := 2 * tr.ppp

			textX := x + offset
			textY := y - offset

			gc.SetFillColor(color.NRGBA{0xff, 0xff, 0xff, 0xb2})
			gc.BeginPath()
			rectanglePath(gc, textX+left-pad, textY+top-pad, textX+right+pad, textY+bottom+pad)
			gc.Fill()

			gc.SetFillColor(color.Black)
			gc.FillStringAt(labelText, textX, textY)
			gc.Restore()
		})
	}

	return nil
}

func tracePath(gc draw2d.GraphicContext, tr *transform, line orb.LineString) {
	for i, point := range line {
		x, y := tr.toDevice(point)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
}

func rectanglePath(gc draw2d.GraphicContext, x1, y1, x2, y2 float64) {
	gc.MoveTo(x1, y1)
	gc.LineTo(x2, y1)
	gc.LineTo(x2, y2)
	gc.LineTo(x1, y2)
	gc.Close()
}

func traceMarker(gc draw2d.GraphicContext, marker styling.MarkerSymbol, x, y, size float64) {
	radius := size / 2

	switch marker {
	case styling.MarkerSquare:
		rectanglePath(gc, x-radius, y-radius, x+radius, y+radius)
	case styling.MarkerStar:
		traceStar(gc, x, y, radius)
	default:
		// circle
		traceCircle(gc, x, y, radius)
	}
}

func traceCircle(gc draw2d.GraphicContext, x, y, radius float64) {
	const steps = 32
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / steps
		px := x + radius*math.Cos(angle)
		py := y + radius*math.Sin(angle)
		if i == 0 {
			gc.MoveTo(px, py)
		} else {
			gc.LineTo(px, py)
		}
	}
	gc.Close()
}

// traceStar draws a five-pointed star, point-up.
func traceStar(gc draw2d.GraphicContext, x, y, radius float64) {
	innerRadius := radius * 0.4

	for i := 0; i < 10; i++ {
		r := radius
		if i%2 == 1 {
			r = innerRadius
		}
		angle := -math.Pi/2 + math.Pi*float64(i)/5
		px := x + r*math.Cos(angle)
		py := y + r*math.Sin(angle)
		if i == 0 {
			gc.MoveTo(px, py)
		} else {
			gc.LineTo(px, py)
		}
	}
	gc.Close()
}

func polygonsOf(geometry orb.Geometry) ([]orb.Polygon, errorsx.Error) {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}, nil
	case orb.MultiPolygon:
		return []orb.Polygon(g), nil
	case nil:
		return nil, nil
	default:
		return nil, errorsx.Errorf("expected polygon geometry, got %T", geometry)
	}
}

func lineStringsOf(geometry orb.Geometry) ([]orb.LineString, errorsx.Error) {
	switch g := geometry.(type) {
	case orb.LineString:
		return []orb.LineString{g}, nil
	case orb.MultiLineString:
		return []orb.LineString(g), nil
	case nil:
		return nil, nil
	default:
		return nil, errorsx.Errorf("expected line geometry, got %T", geometry)
	}
}
