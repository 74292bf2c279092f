package render

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// ParseColorMode maps a config value; anything unknown detects from the environment
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "256":
		return ColorMode256
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor
	}
	return DetectColorMode()
}

// trueColorTerms set one of these variables and always render 24-bit
var trueColorTerms = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"WEZTERM_PANE",
}

// DetectColorMode guesses capability from COLORTERM, known emulators and TERM
func DetectColorMode() ColorMode {
	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}
	for _, v := range trueColorTerms {
		if os.Getenv(v) != "" {
			return ColorModeTrueColor
		}
	}
	term := os.Getenv("TERM")
	for _, tag := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, tag) {
			return ColorModeTrueColor
		}
	}
	return ColorMode256
}

// xterm 6x6x6 cube levels, palette 16..231
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// nearestLevel returns the cube step closest to v
func nearestLevel(v uint8) int {
	best := 0
	for i := 1; i < len(cubeLevels); i++ {
		if absInt(int(v)-cubeLevels[i]) < absInt(int(v)-cubeLevels[best]) {
			best = i
		}
	}
	return best
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func distSq(c RGB, r, g, b int) int {
	dr, dg, db := int(c.R)-r, int(c.G)-g, int(c.B)-b
	return dr*dr + dg*dg + db*db
}

// RGBTo256 picks the closer of the nearest cube entry and the nearest gray ramp step
func RGBTo256(c RGB) uint8 {
	ri, gi, bi := nearestLevel(c.R), nearestLevel(c.G), nearestLevel(c.B)
	cube := 16 + 36*ri + 6*gi + bi
	cubeDist := distSq(c, cubeLevels[ri], cubeLevels[gi], cubeLevels[bi])

	// gray ramp 232..255 covers levels 8, 18, ... 238
	avg := (int(c.R) + int(c.G) + int(c.B)) / 3
	step := min(max((avg-3)/10, 0), 23)
	level := 8 + step*10
	if distSq(c, level, level, level) < cubeDist {
		return uint8(232 + step)
	}
	return uint8(cube)
}

// ToTcell converts RGB for the given mode
func ToTcell(c RGB, mode ColorMode) tcell.Color {
	if mode == ColorMode256 {
		return tcell.PaletteColor(int(RGBTo256(c)))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
