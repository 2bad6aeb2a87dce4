package tigermaprenderer

import (
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/fonts"
	"github.com/jamesrr39/tigermap/styling"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/llgcode/draw2d"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LabelPolygonCentroids places one text label per polygon feature at its
// area centroid, over a background box. Features whose label attribute is
// empty are skipped, as are centroids outside a previously set extent (a
// feature clipped by a fixed window can centre well off the map).
func LabelPolygonCentroids(canvas *Canvas, layer *tigermap.Layer, field string, style *styling.LabelStyle) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	for _, record := range layer.Records {
		if record.Geometry == nil {
			continue
		}

		labelText := record.Attributes[field]
		if labelText == "" {
			continue
		}

		centroid, area := planar.CentroidArea(record.Geometry)
		if area == 0 {
			continue
		}

		if !canvas.inExtent(centroid) {
			continue
		}

		canvas.appendOp(centroid.Bound(), false, func(gc draw2d.GraphicContext, tr *transform) {
			x, y := tr.toDevice(centroid)
			drawBoxedText(gc, tr, labelText, x, y, 0, style)
		})
	}

	return nil
}

// LabelLines places one label per distinct value of the label attribute, at
// the midpoint vertex of the first feature carrying that value, rotated to
// follow the line's local direction. Only plain linestrings are labelled;
// multi-part lines have no single obvious midpoint and are skipped, as are
// features whose midpoint falls outside a previously set extent. At most
// maxLabels labels are placed (0 means no cap).
//
// If background is non-nil it is resolved per feature and overrides the
// style's background colour, so a label can share its line's colour coding.
func LabelLines(canvas *Canvas, layer *tigermap.Layer, field string, style *styling.LabelStyle, background styling.ColorRule, maxLabels int) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	placed := 0

	for _, record := range layer.Records {
		if maxLabels > 0 && placed >= maxLabels {
			break
		}

		labelText := record.Attributes[field]
		if labelText == "" || seen[labelText] {
			continue
		}

		line, ok := record.Geometry.(orb.LineString)
		if !ok || len(line) < 2 {
			continue
		}

		midIndex := len(line) / 2
		midPoint := line[midIndex]
		prevPoint := line[midIndex-1]

		// an off-window anchor leaves the name free for a later feature
		// whose midpoint is visible
		if !canvas.inExtent(midPoint) {
			continue
		}

		seen[labelText] = true
		placed++

		labelStyle := *style
		if background != nil {
			labelStyle.Background = background.Resolve(record.Attributes)
		}

		canvas.appendOp(midPoint.Bound(), false, func(gc draw2d.GraphicContext, tr *transform) {
			x, y := tr.toDevice(midPoint)
			prevX, prevY := tr.toDevice(prevPoint)

			// angle in device space, so the y-flip is already applied
			angle := math.Atan2(y-prevY, x-prevX) * 180 / math.Pi
			angle = normalizeLabelAngle(angle)

			drawBoxedText(gc, tr, labelText, x, y, angle, &labelStyle)
		})
	}

	return nil
}

// AddTitle draws a bold title centred along the top edge of the canvas.
func AddTitle(canvas *Canvas, title string, textSize float64) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	if title == "" {
		return nil
	}

	canvas.appendOp(orb.Bound{}, false, func(gc draw2d.GraphicContext, tr *transform) {
		gc.Save()
		gc.SetFontData(fonts.BoldFontData())
		gc.SetFontSize(textSize)

		left, top, right, _ := gc.GetStringBounds(title)

		textX := tr.pxW/2 - (right-left)/2 - left
		textY := 20*tr.ppp - top

		gc.SetFillColor(color.Black)
		gc.FillStringAt(title, textX, textY)
		gc.Restore()
	})

	return nil
}

// drawBoxedText draws text centred on (x, y), rotated by angleDegrees, over
// a background box. Rotation happens around the anchor so the label stays
// centred on its feature.
func drawBoxedText(gc draw2d.GraphicContext, tr *transform, text string, x, y, angleDegrees float64, style *styling.LabelStyle) {
	gc.Save()
	gc.Translate(x, y)
	if angleDegrees != 0 {
		gc.Rotate(angleDegrees * math.Pi / 180)
	}

	gc.SetFontSize(style.TextSize)

	left, top, right, bottom := gc.GetStringBounds(text)
	width := right - left
	height := bottom - top

	// centre the string on the origin
	textX := -width/2 - left
	textY := -top - height/2

	pad := 2 * tr.ppp

	if style.Background != nil {
		gc.SetFillColor(style.Background)
		if style.EdgeColor != nil {
			gc.SetStrokeColor(style.EdgeColor)
			gc.SetLineWidth(0.5 * tr.ppp)
		}
		gc.BeginPath()
		rectanglePath(gc, textX+left-pad, textY+top-pad, textX+right+pad, textY+bottom+pad)
		if style.EdgeColor != nil {
			gc.FillStroke()
		} else {
			gc.Fill()
		}
	}

	gc.SetFillColor(style.TextColor)
	gc.FillStringAt(text, textX, textY)
	gc.Restore()
}

// normalizeLabelAngle folds an angle in degrees into (-90, 90] so rotated
// labels never render upside down.
func normalizeLabelAngle(angleDegrees float64) float64 {
	for angleDegrees > 90 {
		angleDegrees -= 180
	}
	for angleDegrees <= -90 {
		angleDegrees += 180
	}
	return angleDegrees
}
