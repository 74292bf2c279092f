package render

// Palette
var (
	RgbBackground   = RGB{6, 7, 16}
	RgbStar         = RGB{210, 215, 235}
	RgbPanelBg      = RGB{14, 16, 32}
	RgbPanelBorder  = RGB{110, 130, 200}
	RgbPanelTitle   = RGB{255, 226, 170}
	RgbPanelText    = RGB{205, 210, 230}
	RgbPanelDim     = RGB{90, 95, 115}
	RgbLink         = RGB{120, 190, 255}
	RgbHint         = RGB{150, 160, 190}
	RgbHintUrgent   = RGB{255, 190, 90}
	RgbStatus       = RGB{120, 125, 150}
	RgbInterstitial = RGB{255, 236, 200}
	RgbSignature    = RGB{255, 210, 140}
)

// Glyph ramps by brightness, darkest first
var (
	pointGlyphs = []rune{'·', '∙', '•', '*', '✦'}
	shadeGlyphs = []rune{' ', '░', '▒', '▓', '█'}
)

// glyphFor picks a ramp entry for brightness in [0, 1]
func glyphFor(ramp []rune, v float64) rune {
	i := int(v * float64(len(ramp)))
	return ramp[max(0, min(i, len(ramp)-1))]
}
