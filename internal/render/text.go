package render

import (
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// fontCache resolves the Liberation faces bundled with gonum/plot.
var fontCache = font.NewCache(liberation.Collection())

// textStyle builds a black text style at the given size and weight using
// the plain text handler, which every label and the legend share.
func textStyle(size vg.Length, weight xfont.Weight, xa text.XAlignment, ya text.YAlignment) draw.TextStyle {
	return draw.TextStyle{
		Color: color.Black,
		Font: font.Font{
			Typeface: "Liberation",
			Variant:  "Sans",
			Weight:   weight,
			Size:     size,
		},
		XAlign:  xa,
		YAlign:  ya,
		Handler: text.Plain{Fonts: fontCache},
	}
}
