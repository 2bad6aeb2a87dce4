package tigermaprenderer

import (
	"errors"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/tigermap/fonts"
	"github.com/jamesrr39/tigermap/tigermap"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/orb"
)

// ErrPrecondition indicates a draw or export call on a canvas that was
// never created, or that has already been closed. It always points at a
// caller ordering bug.
var ErrPrecondition = errors.New("canvas not ready for drawing")

// drawOp is one recorded drawing operation. The canvas is a display list:
// draw calls record ops in data coordinates, and the ops are replayed onto
// a backend graphic context (raster, PDF or SVG) at export time. That is
// what lets a single canvas be exported to several formats.
type drawOp func(gc draw2d.GraphicContext, tr *transform)

// Canvas is the single mutable drawing surface of a render job. It is
// exclusively owned by the job driving it; nothing here is safe for
// concurrent use.
type Canvas struct {
	widthInches  float64
	heightInches float64
	dpi          int
	background   color.Color

	extent    orb.Bound
	extentSet bool

	// union of everything drawn, the fallback extent
	contentBound    orb.Bound
	contentBoundSet bool

	ops     []drawOp
	created bool
	closed  bool
}

// NewCanvas allocates a drawing surface. There is no axes decoration; the
// data-coordinate aspect ratio is locked 1:1 at replay time via a uniform
// scale.
func NewCanvas(widthInches, heightInches float64, dpi int) (*Canvas, errorsx.Error) {
	if widthInches <= 0 || heightInches <= 0 || dpi <= 0 {
		return nil, errorsx.Errorf("invalid canvas dimensions: %f x %f inches at %d DPI", widthInches, heightInches, dpi)
	}

	return &Canvas{
		widthInches:  widthInches,
		heightInches: heightInches,
		dpi:          dpi,
		background:   color.White,
		created:      true,
	}, nil
}

func (c *Canvas) WidthInches() float64  { return c.widthInches }
func (c *Canvas) HeightInches() float64 { return c.heightInches }
func (c *Canvas) DPI() int              { return c.dpi }

// SetExtent sets the visible coordinate window to bbox expanded by
// bufferFraction * axis size on each side. It may be called before or
// after drawing layers; it only affects what is visible at export, not
// what is recorded.
func (c *Canvas) SetExtent(bbox orb.Bound, bufferFraction float64) errorsx.Error {
	err := c.checkDrawable()
	if err != nil {
		return err
	}

	c.extent = tigermap.ExpandBoundByFraction(bbox, bufferFraction)
	c.extentSet = true

	return nil
}

// Close releases the recorded operations. Calling Close again is a no-op.
func (c *Canvas) Close() {
	if c == nil || c.closed {
		return
	}

	c.closed = true
	c.ops = nil
}

// inExtent reports whether a data point lies inside the visible window.
// Before SetExtent is called everything counts as visible.
func (c *Canvas) inExtent(p orb.Point) bool {
	if !c.extentSet {
		return true
	}
	return tigermap.IsInBounds(c.extent, p.Lat(), p.Lon())
}

func (c *Canvas) checkDrawable() errorsx.Error {
	if c == nil || !c.created {
		return errorsx.Wrap(ErrPrecondition, "reason", "canvas was never created")
	}
	if c.closed {
		return errorsx.Wrap(ErrPrecondition, "reason", "canvas is closed")
	}
	return nil
}

func (c *Canvas) appendOp(bound orb.Bound, boundKnown bool, op drawOp) {
	if boundKnown {
		if !c.contentBoundSet {
			c.contentBound = bound
			c.contentBoundSet = true
		} else {
			c.contentBound = c.contentBound.Union(bound)
		}
	}

	c.ops = append(c.ops, op)
}

// RenderTo replays the display list onto a backend graphic context with a
// device size of pxW x pxH. The exporter calls this once per output format.
func (c *Canvas) RenderTo(gc draw2d.GraphicContext, pxW, pxH float64) errorsx.Error {
	if c == nil || !c.created {
		return errorsx.Wrap(ErrPrecondition, "reason", "canvas was never created")
	}
	if c.closed {
		return errorsx.Wrap(ErrPrecondition, "reason", "canvas is closed")
	}

	extent := c.extent
	if !c.extentSet {
		extent = c.contentBound
	}

	// the device decides its own resolution: a raster export at 300 DPI and
	// a PDF page at 72 units per inch replay the same ops correctly
	deviceDPI := pxW / c.widthInches

	tr := newTransform(extent, pxW, pxH, deviceDPI)

	gc.SetFontData(fonts.DefaultFontData())
	gc.SetDPI(int(math.Round(deviceDPI)))

	// background
	gc.SetFillColor(c.background)
	gc.BeginPath()
	draw2dkit.Rectangle(gc, 0, 0, pxW, pxH)
	gc.Fill()

	for _, op := range c.ops {
		op(gc, tr)
	}

	return nil
}

// RenderStep is one layer-drawing stage of a composite render.
type RenderStep func(canvas *Canvas) errorsx.Error

// Render applies steps in the exact order supplied; the z-order of the
// finished map is the caller's step order, bottom first. A failure leaves
// the canvas partially drawn; callers should discard it.
func Render(canvas *Canvas, steps []RenderStep) errorsx.Error {
	for _, step := range steps {
		err := step(canvas)
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	return nil
}

// transform maps data coordinates to device pixels, preserving a 1:1 data
// aspect ratio by using one uniform scale and centring the extent.
type transform struct {
	extent   orb.Bound
	scale    float64
	offsetX  float64
	offsetY  float64
	pxW, pxH float64

	// pixels per typographic point, for widths and font-relative offsets
	ppp float64
}

func newTransform(extent orb.Bound, pxW, pxH, deviceDPI float64) *transform {
	extentW := extent.Max.Lon() - extent.Min.Lon()
	extentH := extent.Max.Lat() - extent.Min.Lat()

	scale := 1.0
	if extentW > 0 && extentH > 0 {
		scale = math.Min(pxW/extentW, pxH/extentH)
	}

	return &transform{
		extent:  extent,
		scale:   scale,
		offsetX: (pxW - extentW*scale) / 2,
		offsetY: (pxH - extentH*scale) / 2,
		pxW:     pxW,
		pxH:     pxH,
		ppp:     deviceDPI / 72,
	}
}

func (tr *transform) toDevice(p orb.Point) (float64, float64) {
	x := tr.offsetX + (p.Lon()-tr.extent.Min.Lon())*tr.scale
	y := tr.pxH - tr.offsetY - (p.Lat()-tr.extent.Min.Lat())*tr.scale
	return x, y
}
