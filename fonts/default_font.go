package fonts

import (
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/llgcode/draw2d"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularFont *truetype.Font
	boldFont    *truetype.Font
)

func init() {
	var err error

	regularFont, err = freetype.ParseFont(goregular.TTF)
	if err != nil {
		panic(err)
	}

	boldFont, err = freetype.ParseFont(gobold.TTF)
	if err != nil {
		panic(err)
	}

	// register under the core PDF font name so the same FontData works on
	// both the raster backends (served from this cache) and the PDF backend
	// (served from the built-in font)
	draw2d.RegisterFont(DefaultFontData(), regularFont)
	draw2d.RegisterFont(BoldFontData(), boldFont)
}

func DefaultFontData() draw2d.FontData {
	return draw2d.FontData{
		Name:   "Helvetica",
		Family: draw2d.FontFamilySans,
		Style:  draw2d.FontStyleNormal,
	}
}

func BoldFontData() draw2d.FontData {
	return draw2d.FontData{
		Name:   "Helvetica",
		Family: draw2d.FontFamilySans,
		Style:  draw2d.FontStyleBold,
	}
}
