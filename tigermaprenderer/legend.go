package tigermaprenderer

import (
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/fonts"
	"github.com/llgcode/draw2d"
	"github.com/paulmach/orb"
)

// LegendEntry is one swatch + label row in the legend box.
type LegendEntry struct {
	Label string
	Color color.Color
}

// DrawLegend places a bordered legend box in the top-right corner, one
// coloured swatch per entry. An empty entry list is a no-op.
func DrawLegend(canvas *Canvas, title string, entries []LegendEntry, textSize float64) errorsx.Error {
	err := canvas.checkDrawable()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	canvas.appendOp(orb.Bound{}, false, func(gc draw2d.GraphicContext, tr *transform) {
		gc.Save()
		gc.SetFontSize(textSize)

		swatchSize := textSize * tr.ppp
		pad := 6 * tr.ppp
		rowHeight := swatchSize + 4*tr.ppp

		// widest row decides the box width
		maxTextWidth := 0.0
		for _, entry := range entries {
			left, _, right, _ := gc.GetStringBounds(entry.Label)
			if right-left > maxTextWidth {
				maxTextWidth = right - left
			}
		}

		titleHeight := 0.0
		if title != "" {
			gc.SetFontData(fonts.BoldFontData())
			left, _, right, _ := gc.GetStringBounds(title)
			if right-left > maxTextWidth {
				maxTextWidth = right - left
			}
			titleHeight = rowHeight
			gc.SetFontData(fonts.DefaultFontData())
		}

		boxWidth := pad + swatchSize + pad + maxTextWidth + pad
		boxHeight := pad + titleHeight + rowHeight*float64(len(entries)) + pad

		margin := 15 * tr.ppp
		boxX := tr.pxW - margin - boxWidth
		boxY := margin

		gc.SetFillColor(color.White)
		gc.SetStrokeColor(color.Black)
		gc.SetLineWidth(1 * tr.ppp)
		gc.BeginPath()
		rectanglePath(gc, boxX, boxY, boxX+boxWidth, boxY+boxHeight)
		gc.FillStroke()

		rowY := boxY + pad

		if title != "" {
			gc.SetFontData(fonts.BoldFontData())
			_, top, _, _ := gc.GetStringBounds(title)
			gc.SetFillColor(color.Black)
			gc.FillStringAt(title, boxX+pad, rowY-top)
			gc.SetFontData(fonts.DefaultFontData())
			rowY += titleHeight
		}

		for _, entry := range entries {
			gc.SetFillColor(entry.Color)
			gc.BeginPath()
			rectanglePath(gc, boxX+pad, rowY, boxX+pad+swatchSize, rowY+swatchSize)
			gc.Fill()

			_, top, _, bottom := gc.GetStringBounds(entry.Label)
			textY := rowY + swatchSize/2 - top - (bottom-top)/2

			gc.SetFillColor(color.Black)
			gc.FillStringAt(entry.Label, boxX+pad+swatchSize+pad, textY)

			rowY += rowHeight
		}

		gc.Restore()
	})

	return nil
}
